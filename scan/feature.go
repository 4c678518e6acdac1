package scan

import (
	"io"

	"github.com/rgenomicsetl/htscan/gff"
	"github.com/rgenomicsetl/htscan/internal"
	"github.com/rgenomicsetl/htscan/region"
)

// The columns of a feature scan. The attribute map column exists only
// when requested.
const (
	featureSeqname = iota
	featureSource
	featureFeature
	featureStart
	featureEnd
	featureScore
	featureStrand
	featureFrame
	featureAttributes
	featureColumns
)

// A FeatureScanner scans GFF, GFF3, and GTF files. The attributes
// column carries the raw attribute text; an optional extra column
// decodes it into a key/value map, accepting both the GTF and the
// GFF3 attribute dialect.
type FeatureScanner struct {
	base
	reader *gff.Reader
	plan   region.Plan
	mapCol int
}

func newFeatureScanner(path string, opts Options) (Scanner, error) {
	// Sequence-region directives only turn up while reading, so the
	// plan cannot rule out contigs up front.
	hasIndex := internal.PlainBase(path) != path && region.HasIndex(path)
	plan, err := region.PlanScan(opts.Region, path, nil, hasIndex, opts.AllowNoIndex)
	if err != nil {
		return nil, err
	}
	s := &FeatureScanner{base: newBase(path), plan: plan, mapCol: -1}
	s.schema = Schema{
		{Name: "seqname", Type: Varchar},
		{Name: "source", Type: Varchar},
		{Name: "feature", Type: Varchar},
		{Name: "start", Type: Int64},
		{Name: "end", Type: Int64},
		{Name: "score", Type: Double, Nullable: true},
		{Name: "strand", Type: Varchar},
		{Name: "frame", Type: Varchar},
		{Name: "attributes", Type: Varchar},
	}
	if opts.AttributesMap {
		s.mapCol = len(s.schema)
		s.schema = append(s.schema, ColumnSpec{Name: "attributes_map", Type: VarcharMap, Nullable: true})
	}
	if err := s.project(opts.Columns); err != nil {
		return nil, err
	}
	if plan.Note != "" {
		s.warnf("%v", plan.Note)
	}
	regionArg := ""
	if plan.Bound && !plan.Sequential {
		regionArg = plan.Region.String()
	}
	reader, err := gff.Open(path, regionArg)
	if err != nil {
		return nil, &HeaderError{Path: path, Err: err}
	}
	s.reader = reader
	return s, nil
}

func (s *FeatureScanner) Next() ([]interface{}, error) {
	for {
		record, err := s.reader.Next()
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, s.malformed(err)
		}
		s.records++
		if s.plan.Sequential && !s.plan.Region.Overlaps(record.Seqname, record.Start, record.End) {
			continue
		}
		return s.row(record), nil
	}
}

func (s *FeatureScanner) row(record *gff.Record) []interface{} {
	row := make([]interface{}, len(s.schema))
	if s.mask.Has(featureSeqname) {
		row[featureSeqname] = record.Seqname
	}
	if s.mask.Has(featureSource) {
		row[featureSource] = record.Source
	}
	if s.mask.Has(featureFeature) {
		row[featureFeature] = record.Feature
	}
	if s.mask.Has(featureStart) {
		row[featureStart] = record.Start
	}
	if s.mask.Has(featureEnd) {
		row[featureEnd] = record.End
	}
	if s.mask.Has(featureScore) {
		row[featureScore] = record.Score
	}
	if s.mask.Has(featureStrand) {
		row[featureStrand] = record.Strand
	}
	if s.mask.Has(featureFrame) {
		row[featureFrame] = record.Frame
	}
	if s.mask.Has(featureAttributes) {
		row[featureAttributes] = record.Attributes
	}
	if s.mapCol >= 0 && s.mask.Has(s.mapCol) && record.Attributes != "." && record.Attributes != "" {
		row[s.mapCol] = gff.ParseAttributes(record.Attributes)
	}
	return row
}

func (s *FeatureScanner) Close() error {
	return s.reader.Close()
}
