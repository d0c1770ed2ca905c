package engine

import (
	"reflect"
	"testing"

	"github.com/gpgis-ams/internal/address"
)

func TestReportFilter(t *testing.T) {
	report := &Report{
		SourceCount: 4,
		TargetCount: 3,
		Results: []Result{
			{Class: Matching, SourceID: "a", TargetID: "t1"},
			{Class: Divergent, SourceID: "b", TargetID: "t2", Fields: []string{address.FieldZIP}},
			{Class: Divergent, SourceID: "c", TargetID: "t3", Fields: []string{address.FieldSubaddress, address.FieldZIP}},
			{Class: Missing, SourceID: "d"},
		},
		Summary: Summary{Matching: 1, Divergent: 2, Missing: 1},
	}

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"class missing", "missing", []string{"d"}},
		{"class matching", "matching", []string{"a"}},
		{"class divergent", "divergent", []string{"b", "c"}},
		{"field selects divergent carriers", address.FieldSubaddress, []string{"c"}},
		{"field shared by all divergent", address.FieldZIP, []string{"b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := report.Filter(tt.term)
			if err != nil {
				t.Fatalf("Filter(%q): %v", tt.term, err)
			}
			var ids []string
			for _, r := range got.Results {
				ids = append(ids, r.SourceID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("kept = %v, want %v", ids, tt.want)
			}
			sum := got.Summary
			if total := sum.Matching + sum.Divergent + sum.Missing; total != len(got.Results) {
				t.Errorf("summary total = %d, results = %d", total, len(got.Results))
			}
			if got.SourceCount != report.SourceCount || got.TargetCount != report.TargetCount {
				t.Errorf("dataset counts changed: (%d, %d)", got.SourceCount, got.TargetCount)
			}
		})
	}

	if _, err := report.Filter("color"); err == nil {
		t.Error("unknown filter term accepted")
	}
}
