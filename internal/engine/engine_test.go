package engine

import (
	"reflect"
	"testing"

	"github.com/gpgis-ams/internal/address"
	"github.com/gpgis-ams/internal/vocab"
)

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := New(vocab.Default(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func entry(id string, c address.Components) *address.Entry {
	return &address.Entry{SourceID: id, Provenance: "test", Parts: c}
}

func located(id string, c address.Components, lat, lon float64) *address.Entry {
	e := entry(id, c)
	e.HasPoint = true
	e.Point = address.Point{Lat: lat, Lon: lon}
	return e
}

func TestNewValidatesOptions(t *testing.T) {
	if _, err := New(nil, Options{}); err == nil {
		t.Error("nil vocabulary accepted")
	}
	if _, err := New(&vocab.Vocabulary{}, Options{}); err == nil {
		t.Error("empty vocabulary accepted")
	}
	if _, err := New(vocab.Default(), Options{Fields: []string{"color"}}); err == nil {
		t.Error("unknown comparable field accepted")
	}
	if _, err := New(vocab.Default(), Options{Fields: []string{address.FieldZIP}}); err != nil {
		t.Errorf("valid field rejected: %v", err)
	}
}

func TestReconcileMatchingAcrossVariants(t *testing.T) {
	e := newTestEngine(t, Options{Workers: 2})

	source := []address.Record{
		entry("s1", address.Components{Number: "123", StreetName: "Main St", Community: "Springfield"}),
	}
	target := []address.Record{
		entry("t1", address.Components{Number: "123", StreetName: "Main", PostType: "Street", Community: "Springfield"}),
	}

	report := e.Reconcile(source, target)
	if len(report.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(report.Results))
	}
	r := report.Results[0]
	if r.Class != Matching {
		t.Fatalf("class = %v (fields %v), want matching", r.Class, r.Fields)
	}
	if r.SourceID != "s1" || r.TargetID != "t1" {
		t.Errorf("pair = (%s, %s)", r.SourceID, r.TargetID)
	}
}

func TestReconcileDivergentUnit(t *testing.T) {
	e := newTestEngine(t, Options{})

	source := []address.Record{
		entry("s1", address.Components{Number: "45", StreetName: "Oak", PostType: "Ave", SubaddressType: "Apt", SubaddressID: "2"}),
	}
	target := []address.Record{
		entry("t1", address.Components{Number: "45", StreetName: "Oak", PostType: "Ave", SubaddressType: "Apt", SubaddressID: "3"}),
	}

	r := e.Reconcile(source, target).Results[0]
	if r.Class != Divergent {
		t.Fatalf("class = %v, want divergent", r.Class)
	}
	if !reflect.DeepEqual(r.Fields, []string{address.FieldSubaddress}) {
		t.Errorf("differing fields = %v, want [%s]", r.Fields, address.FieldSubaddress)
	}
}

func TestReconcileMissing(t *testing.T) {
	e := newTestEngine(t, Options{})

	source := []address.Record{
		entry("s1", address.Components{Number: "7", StreetName: "Pine", PostType: "Rd"}),
	}

	r := e.Reconcile(source, nil).Results[0]
	if r.Class != Missing {
		t.Fatalf("class = %v, want missing", r.Class)
	}
	if r.SourceID != "s1" || r.TargetID != "" {
		t.Errorf("result = %+v", r)
	}
}

func TestReconcilePartitionTotal(t *testing.T) {
	e := newTestEngine(t, Options{Workers: 4})

	var source []address.Record
	source = append(source,
		entry("a", address.Components{Number: "1", StreetName: "Elm", PostType: "St"}),
		entry("b", address.Components{Number: "2", StreetName: "Elm", PostType: "St", ZIP: "97526"}),
		entry("c", address.Components{Number: "3", StreetName: "Fir", PostType: "Ave"}),
		entry("d", address.Components{Number: "4", StreetName: "Gone", PostType: "Way"}),
	)
	target := []address.Record{
		entry("t1", address.Components{Number: "1", StreetName: "Elm", PostType: "Street"}),
		entry("t2", address.Components{Number: "2", StreetName: "Elm", PostType: "St", ZIP: "97527"}),
		entry("t3", address.Components{Number: "3", StreetName: "Fir", PostType: "Avenue"}),
	}

	report := e.Reconcile(source, target)
	sum := report.Summary
	if got := sum.Matching + sum.Divergent + sum.Missing; got != len(source) {
		t.Errorf("partition not total: %d classified of %d", got, len(source))
	}
	if report.SourceCount != 4 || report.TargetCount != 3 {
		t.Errorf("counts = (%d, %d)", report.SourceCount, report.TargetCount)
	}
	if report.RunID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("run id not assigned")
	}
}

func TestReconcileDeterministicTieBreak(t *testing.T) {
	e := newTestEngine(t, Options{Workers: 4})

	source := []address.Record{
		entry("s1", address.Components{Number: "9", StreetName: "Ash", PostType: "St", ZIP: "97526"}),
	}
	// Both targets share the key and diverge on ZIP; t1 additionally
	// diverges on subaddress, so t2 has fewer differing fields.
	target := []address.Record{
		entry("t1", address.Components{Number: "9", StreetName: "Ash", PostType: "St", ZIP: "97001", SubaddressType: "Apt", SubaddressID: "1"}),
		entry("t2", address.Components{Number: "9", StreetName: "Ash", PostType: "St", ZIP: "97002"}),
		entry("t3", address.Components{Number: "9", StreetName: "Ash", PostType: "St", ZIP: "97003"}),
	}

	for i := 0; i < 10; i++ {
		r := e.Reconcile(source, target).Results[0]
		if r.Class != Divergent {
			t.Fatalf("class = %v, want divergent", r.Class)
		}
		// t2 and t3 tie on one differing field; earliest insertion wins.
		if r.TargetID != "t2" {
			t.Fatalf("target = %s, want t2", r.TargetID)
		}
	}
}

func TestReconcileFieldAbsentOnOneSide(t *testing.T) {
	e := newTestEngine(t, Options{Fields: []string{address.FieldStatus, address.FieldZIP}})

	source := []address.Record{
		&address.BusinessLicense{
			LicenseNumber: "L-1",
			CompanyName:   "Rogue Coffee",
			Parts:         address.Components{Number: "12", StreetName: "Pine", PostType: "St", ZIP: "97526"},
		},
	}
	target := []address.Record{
		&address.Entry{
			SourceID: "t1", Provenance: "city",
			Parts:  address.Components{Number: "12", StreetName: "Pine", PostType: "St", ZIP: "97526"},
			Status: "Current",
		},
	}

	// License rolls carry no status field, so status must not read as
	// divergent against a dataset that does.
	r := e.Reconcile(source, target).Results[0]
	if r.Class != Matching {
		t.Errorf("class = %v (fields %v), want matching", r.Class, r.Fields)
	}
}

func TestFindDuplicates(t *testing.T) {
	e := newTestEngine(t, Options{})

	dataset := []address.Record{
		entry("A", address.Components{Number: "10", StreetName: "Elm", PostType: "St"}),
		entry("B", address.Components{Number: "10", StreetName: "Elm", PostType: "Street"}),
		entry("C", address.Components{Number: "11", StreetName: "Elm", PostType: "St"}),
	}

	groups := e.FindDuplicates(dataset)
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	if !reflect.DeepEqual(groups[0].IDs, []string{"A", "B"}) {
		t.Errorf("group ids = %v", groups[0].IDs)
	}

	for _, g := range groups {
		if len(g.IDs) < 2 {
			t.Errorf("singleton group emitted: %+v", g)
		}
	}
}

func TestFindDuplicatesIgnoresRepeatedIdentity(t *testing.T) {
	e := newTestEngine(t, Options{})

	// The same identity listed twice is not a duplicate pair.
	dataset := []address.Record{
		entry("A", address.Components{Number: "10", StreetName: "Elm", PostType: "St"}),
		entry("A", address.Components{Number: "10", StreetName: "Elm", PostType: "St"}),
	}
	if groups := e.FindDuplicates(dataset); len(groups) != 0 {
		t.Errorf("groups = %v, want none", groups)
	}
}

func TestComputeDrift(t *testing.T) {
	e := newTestEngine(t, Options{})

	c := address.Components{Number: "5", StreetName: "Gap", PostType: "Rd"}
	pairs := []Pair{
		{Source: located("s1", c, 0, 0), Target: located("t1", c, 3, 4)},
		{Source: located("s2", c, 1, 1), Target: located("t2", c, 1, 1)},
		{Source: entry("s3", c), Target: located("t3", c, 2, 2)},
		{Source: located("s4", c, 2, 2), Target: entry("t4", c)},
	}

	records := e.ComputeDrift(pairs, 2.5)
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 (coordinate-less pairs skipped)", len(records))
	}
	if records[0].Distance != 5 || !records[0].Exceeds {
		t.Errorf("record 0 = %+v", records[0])
	}
	if records[1].Distance != 0 || records[1].Exceeds {
		t.Errorf("record 1 = %+v", records[1])
	}
}

func TestMatchedPairs(t *testing.T) {
	e := newTestEngine(t, Options{})

	source := []address.Record{
		entry("s1", address.Components{Number: "1", StreetName: "Elm", PostType: "St"}),
		entry("s2", address.Components{Number: "99", StreetName: "Nowhere", PostType: "Rd"}),
	}
	target := []address.Record{
		entry("t1", address.Components{Number: "1", StreetName: "Elm", PostType: "St"}),
	}

	report := e.Reconcile(source, target)
	pairs := MatchedPairs(report, source, target)
	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(pairs))
	}
	if pairs[0].Source.ID() != "s1" || pairs[0].Target.ID() != "t1" {
		t.Errorf("pair = (%s, %s)", pairs[0].Source.ID(), pairs[0].Target.ID())
	}
}

func TestFindOrphanStreets(t *testing.T) {
	e := newTestEngine(t, Options{})

	source := []address.Record{
		entry("s1", address.Components{Number: "1", StreetName: "Main", PostType: "St"}),
		entry("s2", address.Components{Number: "2", StreetName: "Lost", PostType: "Ln"}),
		entry("s3", address.Components{Number: "3", StreetName: "Lost", PostType: "Lane"}),
	}
	target := []address.Record{
		entry("t1", address.Components{Number: "1", StreetName: "Main", PostType: "Street"}),
		entry("t2", address.Components{Number: "9", StreetName: "Hidden", PostType: "Dr"}),
	}

	srcOnly, tgtOnly := e.FindOrphanStreets(source, target)
	if !reflect.DeepEqual(srcOnly, []string{"lost ln"}) {
		t.Errorf("source-only = %v", srcOnly)
	}
	if !reflect.DeepEqual(tgtOnly, []string{"hidden dr"}) {
		t.Errorf("target-only = %v", tgtOnly)
	}

	// The two difference sets are disjoint by construction.
	for _, s := range srcOnly {
		for _, g := range tgtOnly {
			if s == g {
				t.Errorf("street %q in both difference sets", s)
			}
		}
	}
}
