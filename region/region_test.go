package region

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		expression string
		want       Region
	}{
		{"chr1", Region{Contig: "chr1"}},
		{"chr1:100", Region{Contig: "chr1", Start: 100}},
		{"chr1:100-200", Region{Contig: "chr1", Start: 100, End: 200}},
		{"chr1:1,000-2,000", Region{Contig: "chr1", Start: 1000, End: 2000}},
	}
	for _, c := range cases {
		got, err := Parse(c.expression)
		if err != nil {
			t.Errorf("Parse(%v): unexpected error %v", c.expression, err)
			continue
		}
		if got != c.want {
			t.Errorf("Parse(%v) = %v, want %v", c.expression, got, c.want)
		}
	}
	// Only the last colon separates the interval, so contig names
	// containing colons still parse.
	got, err := Parse("HLA-A*01:01:100-200")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got.Contig != "HLA-A*01:01" || got.Start != 100 || got.End != 200 {
		t.Errorf("unexpected region %v", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, expression := range []string{
		"",
		":100-200",
		"chr1:abc",
		"chr1:100-xyz",
		"chr1:0-200",
		"chr1:200-100",
	} {
		if _, err := Parse(expression); err == nil {
			t.Errorf("Parse(%v) succeeded, want error", expression)
		} else {
			var regionErr *RegionError
			if !errors.As(err, &regionErr) {
				t.Errorf("Parse(%v) returned %T, want *RegionError", expression, err)
			}
		}
	}
}

func TestString(t *testing.T) {
	for _, expression := range []string{"chr1", "chr1:100", "chr1:100-200"} {
		reg, err := Parse(expression)
		if err != nil {
			t.Fatal(err)
		}
		if reg.String() != expression {
			t.Errorf("String() = %v, want %v", reg.String(), expression)
		}
	}
}

func TestOverlaps(t *testing.T) {
	reg := Region{Contig: "chr1", Start: 100, End: 200}
	cases := []struct {
		contig     string
		start, end int64
		want       bool
	}{
		{"chr1", 150, 160, true},
		{"chr1", 50, 100, true},
		{"chr1", 200, 300, true},
		{"chr1", 50, 99, false},
		{"chr1", 201, 300, false},
		{"chr2", 150, 160, false},
		{"chr1", 0, 0, false},
	}
	for _, c := range cases {
		if got := reg.Overlaps(c.contig, c.start, c.end); got != c.want {
			t.Errorf("Overlaps(%v, %v, %v) = %v, want %v", c.contig, c.start, c.end, got, c.want)
		}
	}
	open := Region{Contig: "chr1"}
	if !open.Overlaps("chr1", 1, 1) {
		t.Error("contig-only region should overlap any positioned record on the contig")
	}
}

func TestPlanScan(t *testing.T) {
	contigs := map[string]bool{"chr1": true, "chr2": true}

	plan, err := PlanScan("", "in.vcf.gz", contigs, false, false)
	if err != nil || plan.Bound {
		t.Errorf("unconstrained scan should yield an unbound plan, got %v, %v", plan, err)
	}

	plan, err = PlanScan("chr1:100-200", "in.vcf.gz", contigs, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if !plan.Bound || plan.Empty || plan.Sequential {
		t.Errorf("indexed plan should be bound and direct, got %+v", plan)
	}

	plan, err = PlanScan("chrUn:1-10", "in.vcf.gz", contigs, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if !plan.Empty || plan.Note == "" {
		t.Errorf("unknown contig should yield an empty plan with a note, got %+v", plan)
	}

	if _, err = PlanScan("chr1:100-200", "in.vcf.gz", contigs, false, false); err == nil {
		t.Error("missing index should be an error when the fallback is not allowed")
	} else {
		var indexErr *IndexRequiredError
		if !errors.As(err, &indexErr) {
			t.Errorf("got %T, want *IndexRequiredError", err)
		}
	}

	plan, err = PlanScan("chr1:100-200", "in.vcf.gz", contigs, false, true)
	if err != nil {
		t.Fatal(err)
	}
	if !plan.Sequential || plan.Note == "" {
		t.Errorf("missing index with fallback should yield a sequential plan with a note, got %+v", plan)
	}

	// A nil contig set skips contig validation.
	plan, err = PlanScan("chrUn:1-10", "in.vcf.gz", nil, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Empty {
		t.Errorf("nil contig set should not mark the plan empty, got %+v", plan)
	}

	if _, err = PlanScan("chr1:200-100", "in.vcf.gz", contigs, true, false); err == nil {
		t.Error("inverted coordinates should be an error")
	}
}
