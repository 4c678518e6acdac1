package scan

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rgenomicsetl/htscan/internal"
	"github.com/rgenomicsetl/htscan/region"
	"github.com/rgenomicsetl/htscan/sam"
	"github.com/rgenomicsetl/htscan/utils"
)

// The columns of an alignment scan.
const (
	alignmentQname = iota
	alignmentFlag
	alignmentRname
	alignmentPos
	alignmentMapq
	alignmentCigar
	alignmentRnext
	alignmentPnext
	alignmentTlen
	alignmentSeq
	alignmentQual
	alignmentFixedColumns
)

// An AlignmentScanner scans SAM, BAM, and CRAM files. Next to the
// mandatory alignment fields it optionally resolves the read group
// and, through the header, the sample and edit distance of every
// alignment, and collects the remaining optional fields into a map
// column.
type AlignmentScanner struct {
	base
	input   *internal.InputFile
	sc      sam.StringScanner
	plan    region.Plan
	samples map[string]string

	rgCol     int
	sampleCol int
	nmCol     int
	auxCol    int
}

func binaryAlignmentFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".bam" || ext == ".cram"
}

func newAlignmentScanner(path string, opts Options) (Scanner, error) {
	headerInput, err := sam.Open(path, true, "", opts.Reference)
	if err != nil {
		return nil, &HeaderError{Path: path, Err: err}
	}
	hdr, _, err := sam.ParseHeader(headerInput.Reader)
	if err != nil {
		headerInput.Close()
		return nil, &HeaderError{Path: path, Err: err}
	}
	if err := headerInput.Close(); err != nil {
		return nil, &HeaderError{Path: path, Err: err}
	}
	hasIndex := binaryAlignmentFile(path) && region.HasIndex(path)
	plan, err := region.PlanScan(opts.Region, path, hdr.Contigs(), hasIndex, opts.AllowNoIndex)
	if err != nil {
		return nil, err
	}
	s := &AlignmentScanner{
		base:    newBase(path),
		plan:    plan,
		samples: hdr.ReadGroupSamples(),
		rgCol:   -1, sampleCol: -1, nmCol: -1, auxCol: -1,
	}
	s.schema = Schema{
		{Name: "QNAME", Type: Varchar},
		{Name: "FLAG", Type: Int64},
		{Name: "RNAME", Type: Varchar},
		{Name: "POS", Type: Int64},
		{Name: "MAPQ", Type: Int64},
		{Name: "CIGAR", Type: Varchar},
		{Name: "RNEXT", Type: Varchar},
		{Name: "PNEXT", Type: Int64},
		{Name: "TLEN", Type: Int64},
		{Name: "SEQ", Type: Varchar},
		{Name: "QUAL", Type: Varchar},
	}
	if opts.StandardTags {
		s.rgCol = len(s.schema)
		s.sampleCol = s.rgCol + 1
		s.nmCol = s.rgCol + 2
		s.schema = append(s.schema,
			ColumnSpec{Name: "READ_GROUP_ID", Type: Varchar, Nullable: true},
			ColumnSpec{Name: "SAMPLE_ID", Type: Varchar, Nullable: true},
			ColumnSpec{Name: "EDIT_DISTANCE", Type: Int64, Nullable: true},
		)
	}
	if opts.AuxiliaryTags {
		s.auxCol = len(s.schema)
		s.schema = append(s.schema, ColumnSpec{Name: "TAGS", Type: VarcharMap, Nullable: true})
	}
	if err := s.project(opts.Columns); err != nil {
		return nil, err
	}
	if plan.Note != "" {
		s.warnf("%v", plan.Note)
	}
	if plan.Empty {
		return &emptyScanner{base: s.base}, nil
	}
	regionArg := ""
	if plan.Bound && !plan.Sequential {
		regionArg = plan.Region.String()
	}
	input, err := sam.Open(path, false, regionArg, opts.Reference)
	if err != nil {
		return nil, err
	}
	if _, err := sam.SkipHeader(input.Reader); err != nil {
		input.Close()
		return nil, &HeaderError{Path: path, Err: err}
	}
	s.input = input
	return s, nil
}

func (s *AlignmentScanner) Next() ([]interface{}, error) {
	for {
		line, err := s.input.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, err
		}
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if line == "" {
			if err == io.EOF {
				return nil, io.EOF
			}
			continue
		}
		s.sc.Reset(line)
		aln := s.sc.ParseAlignment()
		if serr := s.sc.Err(); serr != nil {
			return nil, s.malformed(serr)
		}
		s.records++
		if s.plan.Sequential && !s.plan.Region.Overlaps(aln.RNAME, int64(aln.POS), aln.End()) {
			continue
		}
		return s.row(aln), nil
	}
}

func (s *AlignmentScanner) row(aln *sam.Alignment) []interface{} {
	row := make([]interface{}, len(s.schema))
	if s.mask.Has(alignmentQname) {
		row[alignmentQname] = aln.QNAME
	}
	if s.mask.Has(alignmentFlag) {
		row[alignmentFlag] = int64(aln.FLAG)
	}
	if s.mask.Has(alignmentRname) {
		row[alignmentRname] = aln.RNAME
	}
	if s.mask.Has(alignmentPos) {
		row[alignmentPos] = int64(aln.POS)
	}
	if s.mask.Has(alignmentMapq) {
		row[alignmentMapq] = int64(aln.MAPQ)
	}
	if s.mask.Has(alignmentCigar) {
		row[alignmentCigar] = aln.CIGAR
	}
	if s.mask.Has(alignmentRnext) {
		row[alignmentRnext] = aln.RNEXT
	}
	if s.mask.Has(alignmentPnext) {
		row[alignmentPnext] = int64(aln.PNEXT)
	}
	if s.mask.Has(alignmentTlen) {
		row[alignmentTlen] = int64(aln.TLEN)
	}
	if s.mask.Has(alignmentSeq) {
		row[alignmentSeq] = aln.SEQ
	}
	if s.mask.Has(alignmentQual) {
		row[alignmentQual] = aln.QUAL
	}
	if s.rgCol >= 0 {
		readGroup := aln.ReadGroup()
		if s.mask.Has(s.rgCol) && readGroup != "" {
			row[s.rgCol] = readGroup
		}
		if s.mask.Has(s.sampleCol) && readGroup != "" {
			if sample, found := s.samples[readGroup]; found {
				row[s.sampleCol] = sample
			}
		}
		if s.mask.Has(s.nmCol) {
			if nm, found := aln.TAGS.Get(sam.NM); found {
				if distance, ok := nm.(int32); ok {
					row[s.nmCol] = int64(distance)
				}
			}
		}
	}
	if s.auxCol >= 0 && s.mask.Has(s.auxCol) {
		row[s.auxCol] = auxiliaryTags(aln)
	}
	return row
}

// auxiliaryTags renders the optional fields of an alignment as a
// string map, skipping the fields that already feed dedicated
// columns.
func auxiliaryTags(aln *sam.Alignment) utils.StringMap {
	if len(aln.TAGS) == 0 {
		return nil
	}
	tags := make(utils.StringMap, len(aln.TAGS))
	for _, entry := range aln.TAGS {
		if entry.Key == sam.RG || entry.Key == sam.NM {
			continue
		}
		tags[*entry.Key] = formatTagValue(entry.Value)
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func formatTagValue(value interface{}) string {
	switch v := value.(type) {
	case byte:
		return string(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case string:
		return v
	case sam.ByteArray:
		var out strings.Builder
		for _, b := range v {
			if b < 16 {
				_ = out.WriteByte('0')
			}
			_, _ = out.WriteString(strconv.FormatUint(uint64(b), 16))
		}
		return out.String()
	case []int64:
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = strconv.FormatInt(n, 10)
		}
		return strings.Join(parts, ",")
	case []float32:
		parts := make([]string, len(v))
		for i, f := range v {
			parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

func (s *AlignmentScanner) Close() error {
	return s.input.Close()
}
