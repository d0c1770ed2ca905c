package export

import (
	"strings"
	"testing"

	"github.com/gpgis-ams/internal/address"
	"github.com/gpgis-ams/internal/engine"
	"github.com/gpgis-ams/internal/vocab"
)

func entry(id, num string, c address.Components) *address.Entry {
	c.Number = num
	return &address.Entry{SourceID: id, Provenance: "test", Parts: c}
}

func TestWriteResults(t *testing.T) {
	report := &engine.Report{
		Results: []engine.Result{
			{Class: engine.Matching, SourceID: "s1", TargetID: "t1", Key: "123||main st|"},
			{Class: engine.Divergent, SourceID: "s2", TargetID: "t2", Key: "45||oak ave|", Fields: []string{"subaddress", "zip"}},
			{Class: engine.Missing, SourceID: "s3", Key: "7||pine rd|"},
		},
	}

	var buf strings.Builder
	if err := WriteResults(&buf, report); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header + 3", len(lines))
	}
	if lines[0] != "class,source_id,target_id,match_key,differing_fields" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "divergent,s2,t2,45||oak ave|,subaddress;zip" {
		t.Errorf("divergent row = %q", lines[2])
	}
	if lines[3] != "missing,s3,,7||pine rd|," {
		t.Errorf("missing row = %q", lines[3])
	}
}

func TestWriteOrphans(t *testing.T) {
	var buf strings.Builder
	if err := WriteOrphans(&buf, []string{"lost ln"}, []string{"hidden dr"}); err != nil {
		t.Fatal(err)
	}
	got := strings.TrimSpace(buf.String())
	want := "street,only_in\nlost ln,source\nhidden dr,target"
	if got != want {
		t.Errorf("output:\n%s\nwant:\n%s", got, want)
	}
}

func TestLexisNexisRanges(t *testing.T) {
	v := vocab.Default()
	street := address.Components{StreetName: "MAIN", PostType: "St", Community: "Grants Pass", ZIP: "97526"}

	include := []address.Record{
		entry("a", "100", street),
		entry("b", "102", street),
		entry("c", "110", street),
		entry("d", "112", street),
	}
	exclude := []address.Record{
		entry("x", "105", street),
	}

	rows := LexisNexisRanges(include, exclude, v)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (excluded number splits the range)", len(rows))
	}
	if rows[0].NumberFrom != 100 || rows[0].NumberTo != 102 {
		t.Errorf("first range = %d-%d", rows[0].NumberFrom, rows[0].NumberTo)
	}
	if rows[1].NumberFrom != 110 || rows[1].NumberTo != 112 {
		t.Errorf("second range = %d-%d", rows[1].NumberFrom, rows[1].NumberTo)
	}
	if rows[0].StreetName != "MAIN" || rows[0].ZIP != "97526" {
		t.Errorf("row detail = %+v", rows[0])
	}
}

func TestLexisNexisRangesSharedNumberStaysServed(t *testing.T) {
	v := vocab.Default()
	street := address.Components{StreetName: "OAK", PostType: "Ave"}

	include := []address.Record{entry("a", "10", street), entry("b", "12", street)}
	exclude := []address.Record{entry("x", "12", street)}

	rows := LexisNexisRanges(include, exclude, v)
	if len(rows) != 1 || rows[0].NumberFrom != 10 || rows[0].NumberTo != 12 {
		t.Fatalf("rows = %+v, want single 10-12 range", rows)
	}
}

func TestLexisNexisStreetVariantsMerge(t *testing.T) {
	v := vocab.Default()

	include := []address.Record{
		entry("a", "1", address.Components{StreetName: "Elm", PostType: "Street"}),
		entry("b", "3", address.Components{StreetName: "Elm", PostType: "St"}),
	}

	rows := LexisNexisRanges(include, nil, v)
	if len(rows) != 1 {
		t.Fatalf("rows = %+v, want one merged street", rows)
	}
	if rows[0].NumberFrom != 1 || rows[0].NumberTo != 3 {
		t.Errorf("range = %d-%d", rows[0].NumberFrom, rows[0].NumberTo)
	}
}

func TestWriteLexisNexisFormat(t *testing.T) {
	var buf strings.Builder
	rows := []RangeRow{{
		NumberFrom: 100, NumberTo: 200,
		PreDirectional: "NE", StreetName: "MAIN", PostType: "St",
		Community: "Grants Pass", ZIP: "97526",
	}}
	if err := WriteLexisNexis(&buf, rows); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "StNumFrom,StNumTo,StPreDirection,StName,StType,StPostDirection,City,Beat,Area,District,Zone,Zipcode,CommonPlace,StNum" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "100,200,NE,MAIN,St,,Grants Pass,,,,,97526,," {
		t.Errorf("row = %q", lines[1])
	}
}
