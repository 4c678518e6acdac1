package region

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// A Region is a half-open genomic interval on a contig. Start and End
// are 1-based and inclusive, matching the samtools and tabix region
// notation. A zero Start means the beginning of the contig, a zero
// End means its end.
type Region struct {
	Contig string
	Start  int64
	End    int64
}

// A RegionError reports a region string that cannot be turned into a
// query, either because it does not parse or because its coordinates
// are inconsistent.
type RegionError struct {
	Expression string
	Reason     string
}

func (err *RegionError) Error() string {
	return fmt.Sprintf("invalid region %v: %v", err.Expression, err.Reason)
}

// An IndexRequiredError reports a region query against a file format
// that can only be sliced with an index, where no index file was
// found next to the input.
type IndexRequiredError struct {
	Path string
}

func (err *IndexRequiredError) Error() string {
	return fmt.Sprintf("region query requires an index for %v", err.Path)
}

// Parse parses a region expression of the form contig, contig:start,
// or contig:start-end. Commas in coordinates are ignored, so
// chr1:1,000-2,000 parses the same as chr1:1000-2000.
func Parse(expression string) (Region, error) {
	if expression == "" {
		return Region{}, &RegionError{expression, "empty expression"}
	}
	colon := strings.LastIndexByte(expression, ':')
	if colon < 0 {
		return Region{Contig: expression}, nil
	}
	contig := expression[:colon]
	if contig == "" {
		return Region{}, &RegionError{expression, "empty contig name"}
	}
	interval := strings.ReplaceAll(expression[colon+1:], ",", "")
	startString, endString, hasEnd := strings.Cut(interval, "-")
	start, err := strconv.ParseInt(startString, 10, 64)
	if err != nil || start < 1 {
		return Region{}, &RegionError{expression, "start coordinate is not a positive integer"}
	}
	if !hasEnd {
		return Region{Contig: contig, Start: start}, nil
	}
	end, err := strconv.ParseInt(endString, 10, 64)
	if err != nil || end < 1 {
		return Region{}, &RegionError{expression, "end coordinate is not a positive integer"}
	}
	if start > end {
		return Region{}, &RegionError{expression, "start coordinate exceeds end coordinate"}
	}
	return Region{Contig: contig, Start: start, End: end}, nil
}

// String renders the region in samtools notation.
func (r Region) String() string {
	switch {
	case r.Start == 0 && r.End == 0:
		return r.Contig
	case r.End == 0:
		return fmt.Sprintf("%v:%v", r.Contig, r.Start)
	default:
		return fmt.Sprintf("%v:%v-%v", r.Contig, r.Start, r.End)
	}
}

// Overlaps reports whether a record spanning positions start to end,
// 1-based inclusive, intersects the region. Records with unknown
// position, start < 1, never overlap.
func (r Region) Overlaps(contig string, start, end int64) bool {
	if contig != r.Contig || start < 1 {
		return false
	}
	if r.End != 0 && start > r.End {
		return false
	}
	if r.Start != 0 && end < r.Start {
		return false
	}
	return true
}

// A Plan describes how a region constraint is applied to a scan.
type Plan struct {
	// Region is the parsed constraint, valid when Bound is true.
	Region Region
	// Bound is false when the scan has no region constraint.
	Bound bool
	// Empty is true when the scan can be answered without reading any
	// record, for example when the contig does not occur in the file.
	Empty bool
	// Sequential is true when no index can narrow the scan, so every
	// record is read and filtered against Region after decoding.
	Sequential bool
	// Note carries a human-readable warning about a degraded plan.
	Note string
}

// PlanScan decides how the given region expression constrains a scan.
//
// contigs is the set of contig names declared by the file header, or
// nil when the header declares none; with a nil set contig validation
// is skipped. When the named contig is known to be absent the plan is
// Empty and carries a warning note, it is never an error. When the
// format needs an index to slice and none is present, PlanScan
// returns an IndexRequiredError unless allowNoIndex permits the
// sequential fallback.
func PlanScan(expression, path string, contigs map[string]bool, hasIndex, allowNoIndex bool) (Plan, error) {
	if expression == "" {
		return Plan{}, nil
	}
	reg, err := Parse(expression)
	if err != nil {
		return Plan{}, err
	}
	if contigs != nil && !contigs[reg.Contig] {
		return Plan{
			Region: reg,
			Bound:  true,
			Empty:  true,
			Note:   fmt.Sprintf("contig %v not present in %v, returning no records", reg.Contig, path),
		}, nil
	}
	if hasIndex {
		return Plan{Region: reg, Bound: true}, nil
	}
	if !allowNoIndex {
		return Plan{}, &IndexRequiredError{Path: path}
	}
	return Plan{
		Region:     reg,
		Bound:      true,
		Sequential: true,
		Note:       fmt.Sprintf("no index found for %v, scanning sequentially", path),
	}, nil
}

// indexSuffixes lists the index files recognized next to an input, in
// the order samtools and tabix look for them.
var indexSuffixes = []string{".bai", ".csi", ".crai", ".tbi"}

// HasIndex reports whether an index file sits next to the given input
// file.
func HasIndex(path string) bool {
	for _, suffix := range indexSuffixes {
		if _, err := os.Stat(path + suffix); err == nil {
			return true
		}
	}
	return false
}
