package scan

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rgenomicsetl/htscan/internal"
	"github.com/rgenomicsetl/htscan/region"
	"github.com/rgenomicsetl/htscan/utils"
	"github.com/rgenomicsetl/htscan/vcf"
)

// The fixed leading columns of a variant scan.
const (
	variantChrom = iota
	variantPos
	variantID
	variantRef
	variantAlt
	variantQual
	variantFilter
	variantFixedColumns
)

type infoColumn struct {
	col  int
	key  utils.Symbol
	typ  Type
	flag bool
}

type formatColumn struct {
	col    int
	key    utils.Symbol
	typ    Type
	sample int // tidy scans use the running sample instead
}

// A VariantScanner scans VCF and BCF files. INFO fields become typed
// columns derived from the header declarations, FORMAT fields become
// either per-sample column sets or, in tidy mode, a SAMPLE_ID column
// with one output row per sample. Annotation INFO fields (CSQ, BCSQ,
// ANN) expand into per-field columns listing the values over all
// transcripts.
type VariantScanner struct {
	base
	input   *internal.InputFile
	hdr     *vcf.Header
	vp      *vcf.VariantParser
	sc      vcf.StringScanner
	plan    region.Plan
	tidy    bool
	samples []string

	infoCols   []infoColumn
	vepKey     utils.Symbol
	vepFields  []string
	vepTypes   []Type
	vepStart   int
	sampleCol  int
	formatCols []formatColumn

	current  *vcf.Variant
	sampleIx int
}

func infoColumnType(format *vcf.FormatInformation) (typ Type, flag bool) {
	if format.Type == vcf.Flag {
		return Boolean, true
	}
	if format.Number == 1 {
		switch format.Type {
		case vcf.Integer:
			return Int64, false
		case vcf.Float:
			return Double, false
		default:
			return Varchar, false
		}
	}
	switch format.Type {
	case vcf.Integer:
		return Int64List, false
	case vcf.Float:
		return DoubleList, false
	default:
		return VarcharList, false
	}
}

func vepColumnType(field string) Type {
	switch vcf.VepFieldType(field) {
	case vcf.Integer:
		return Int64List
	case vcf.Float:
		return DoubleList
	default:
		return VarcharList
	}
}

func (s *VariantScanner) buildSchema() {
	s.schema = Schema{
		{Name: "CHROM", Type: Varchar},
		{Name: "POS", Type: Int64},
		{Name: "ID", Type: Varchar, Nullable: true},
		{Name: "REF", Type: Varchar},
		{Name: "ALT", Type: VarcharList},
		{Name: "QUAL", Type: Double, Nullable: true},
		{Name: "FILTER", Type: VarcharList},
	}
	vepInfo, vepFields := s.hdr.FindVepInfo()
	for _, info := range s.hdr.Infos {
		if vepInfo != nil && info == vepInfo {
			continue
		}
		typ, flag := infoColumnType(info)
		s.infoCols = append(s.infoCols, infoColumn{
			col:  len(s.schema),
			key:  info.ID,
			typ:  typ,
			flag: flag,
		})
		s.schema = append(s.schema, ColumnSpec{Name: "INFO_" + *info.ID, Type: typ, Nullable: !flag})
	}
	s.vepStart = -1
	if vepInfo != nil {
		s.vepKey = vepInfo.ID
		s.vepFields = vepFields
		s.vepStart = len(s.schema)
		for _, field := range vepFields {
			typ := vepColumnType(field)
			s.vepTypes = append(s.vepTypes, typ)
			s.schema = append(s.schema, ColumnSpec{Name: "VEP_" + field, Type: typ, Nullable: true})
		}
	}
	s.samples = s.hdr.Samples()
	s.sampleCol = -1
	if len(s.samples) == 0 {
		return
	}
	if s.tidy {
		s.sampleCol = len(s.schema)
		s.schema = append(s.schema, ColumnSpec{Name: "SAMPLE_ID", Type: Varchar})
		for _, format := range s.hdr.Formats {
			typ, _ := infoColumnType(format)
			s.formatCols = append(s.formatCols, formatColumn{
				col: len(s.schema),
				key: format.ID,
				typ: typ,
			})
			s.schema = append(s.schema, ColumnSpec{Name: "FORMAT_" + *format.ID, Type: typ, Nullable: true})
		}
		return
	}
	for _, format := range s.hdr.Formats {
		typ, _ := infoColumnType(format)
		for i, sample := range s.samples {
			s.formatCols = append(s.formatCols, formatColumn{
				col:    len(s.schema),
				key:    format.ID,
				typ:    typ,
				sample: i,
			})
			s.schema = append(s.schema, ColumnSpec{
				Name:     "FORMAT_" + *format.ID + "_" + sample,
				Type:     typ,
				Nullable: true,
			})
		}
	}
}

func newVariantScanner(path string, opts Options) (Scanner, error) {
	input, err := vcf.Open(path, "")
	if err != nil {
		return nil, &HeaderError{Path: path, Err: err}
	}
	hdr, _, err := vcf.ParseHeader(input.Reader)
	if err != nil {
		input.Close()
		return nil, &HeaderError{Path: path, Err: err}
	}
	// An index only helps when the file itself can be sliced, that
	// is when bcftools or tabix can be asked for the region. A stray
	// index next to a plain VCF file must not suppress the
	// sequential fallback.
	sliceable := filepath.Ext(internal.PlainBase(path)) == ".bcf" || internal.PlainBase(path) != path
	plan, err := region.PlanScan(opts.Region, path, hdr.Contigs(), sliceable && region.HasIndex(path), opts.AllowNoIndex)
	if err != nil {
		input.Close()
		return nil, err
	}
	s := &VariantScanner{base: newBase(path), hdr: hdr, plan: plan, tidy: opts.TidyFormat}
	s.buildSchema()
	if err := s.project(opts.Columns); err != nil {
		input.Close()
		return nil, err
	}
	if plan.Note != "" {
		s.warnf("%v", plan.Note)
	}
	if plan.Empty {
		input.Close()
		return &emptyScanner{base: s.base}, nil
	}
	if plan.Bound && !plan.Sequential {
		input.Close()
		if input, err = vcf.Open(path, plan.Region.String()); err != nil {
			return nil, err
		}
		if _, _, err = vcf.ParseHeader(input.Reader); err != nil {
			input.Close()
			return nil, &HeaderError{Path: path, Err: err}
		}
	}
	vp, err := hdr.NewVariantParser()
	if err != nil {
		input.Close()
		return nil, &HeaderError{Path: path, Err: err}
	}
	s.pruneParsers(vp)
	s.input = input
	s.vp = vp
	return s, nil
}

// pruneParsers drops the typed parsers behind columns outside the
// projection. Unprojected INFO and FORMAT keys then decode through
// the generic parsers, which accept any well-formed field, so their
// content cannot fail the scan. When no FORMAT column is projected
// the genotype block is not decoded at all.
func (s *VariantScanner) pruneParsers(vp *vcf.VariantParser) {
	if s.mask == nil {
		return
	}
	keep := make(map[utils.Symbol]bool)
	for _, info := range s.infoCols {
		if s.mask.Has(info.col) {
			keep[info.key] = true
		}
	}
	if s.vepStart >= 0 {
		for i := range s.vepFields {
			if s.mask.Has(s.vepStart + i) {
				keep[s.vepKey] = true
				break
			}
		}
	}
	if s.plan.Sequential {
		// The overlap filter reads the END info field.
		keep[vcf.END] = true
	}
	infoParsers := vp.InfoParsers[:0]
	for _, entry := range vp.InfoParsers {
		if keep[entry.Key] {
			infoParsers = append(infoParsers, entry)
		}
	}
	vp.InfoParsers = infoParsers

	keepFormat := make(map[utils.Symbol]bool)
	for _, format := range s.formatCols {
		if s.mask.Has(format.col) {
			keepFormat[format.key] = true
		}
	}
	if len(keepFormat) == 0 {
		vp.NSamples = 0
		vp.FormatParsers = nil
		return
	}
	formatParsers := vp.FormatParsers[:0]
	for _, entry := range vp.FormatParsers {
		if keepFormat[entry.Key] {
			formatParsers = append(formatParsers, entry)
		}
	}
	vp.FormatParsers = formatParsers
}

func (s *VariantScanner) nextVariant() (*vcf.Variant, error) {
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
		variant := s.sc.ParseVariant(s.vp)
		if serr := s.sc.Err(); serr != nil {
			return nil, s.malformed(serr)
		}
		s.records++
		if s.plan.Sequential && !s.plan.Region.Overlaps(variant.Chrom, int64(variant.Start()), int64(variant.End())) {
			continue
		}
		return variant, nil
	}
}

// Next returns the next output row. Tidy scans with N samples yield N
// rows per variant, with identical values in the shared columns.
func (s *VariantScanner) Next() ([]interface{}, error) {
	if s.tidy && s.current != nil && s.sampleIx < len(s.samples) {
		row := s.sharedRow(s.current)
		s.tidyColumns(row, s.current, s.sampleIx)
		s.sampleIx++
		return row, nil
	}
	variant, err := s.nextVariant()
	if err != nil {
		return nil, err
	}
	row := s.sharedRow(variant)
	switch {
	case len(s.samples) == 0:
	case s.tidy:
		s.current = variant
		s.sampleIx = 0
		s.tidyColumns(row, variant, 0)
		s.sampleIx = 1
	default:
		s.wideColumns(row, variant)
	}
	return row, nil
}

// sharedRow fills the columns every output row of a variant carries,
// the fixed leading columns plus INFO and annotation columns.
func (s *VariantScanner) sharedRow(variant *vcf.Variant) []interface{} {
	row := make([]interface{}, len(s.schema))
	if s.mask.Has(variantChrom) {
		row[variantChrom] = variant.Chrom
	}
	if s.mask.Has(variantPos) {
		row[variantPos] = int64(variant.Pos)
	}
	if s.mask.Has(variantID) && len(variant.ID) > 0 {
		row[variantID] = strings.Join(variant.ID, ";")
	}
	if s.mask.Has(variantRef) {
		row[variantRef] = variant.Ref
	}
	if s.mask.Has(variantAlt) {
		alt := make([]interface{}, len(variant.Alt))
		for i, a := range variant.Alt {
			alt[i] = a
		}
		row[variantAlt] = alt
	}
	if s.mask.Has(variantQual) {
		row[variantQual] = variant.Qual
	}
	if s.mask.Has(variantFilter) {
		if len(variant.Filter) == 0 {
			row[variantFilter] = []interface{}{"PASS"}
		} else {
			filter := make([]interface{}, len(variant.Filter))
			for i, f := range variant.Filter {
				filter[i] = *f
			}
			row[variantFilter] = filter
		}
	}
	for _, info := range s.infoCols {
		if !s.mask.Has(info.col) {
			continue
		}
		value, found := variant.Info.Get(info.key)
		if info.flag {
			row[info.col] = found && value == true
			continue
		}
		if found {
			row[info.col] = convertValue(value, info.typ)
		}
	}
	if s.vepStart >= 0 {
		s.vepColumns(row, variant)
	}
	return row
}

func (s *VariantScanner) vepColumns(row []interface{}, variant *vcf.Variant) {
	projected := false
	for i := range s.vepFields {
		if s.mask.Has(s.vepStart + i) {
			projected = true
			break
		}
	}
	if !projected {
		return
	}
	value, found := variant.Info.Get(s.vepKey)
	if !found {
		return
	}
	transcripts := transcriptFields(value, len(s.vepFields))
	if transcripts == nil {
		return
	}
	for i := range s.vepFields {
		col := s.vepStart + i
		if !s.mask.Has(col) {
			continue
		}
		list := make([]interface{}, len(transcripts))
		for t, fields := range transcripts {
			list[t] = convertVepElement(fields[i], s.vepTypes[i])
		}
		row[col] = list
	}
}

// transcriptFields normalizes the decoded value of an annotation INFO
// entry into per-transcript field lists.
func transcriptFields(value interface{}, nfields int) [][]string {
	switch v := value.(type) {
	case string:
		return vcf.ParseVepValue(v, nfields)
	case []interface{}:
		var result [][]string
		for _, entry := range v {
			if str, ok := entry.(string); ok {
				result = append(result, vcf.ParseVepValue(str, nfields)...)
			}
		}
		return result
	default:
		return nil
	}
}

func convertVepElement(field string, typ Type) interface{} {
	if field == "" {
		return nil
	}
	switch typ {
	case Int64List:
		if i, err := strconv.ParseInt(field, 10, 64); err == nil {
			return i
		}
		return nil
	case DoubleList:
		if f, err := strconv.ParseFloat(field, 64); err == nil {
			return f
		}
		return nil
	default:
		return field
	}
}

func (s *VariantScanner) tidyColumns(row []interface{}, variant *vcf.Variant, sample int) {
	if s.mask.Has(s.sampleCol) {
		row[s.sampleCol] = s.samples[sample]
	}
	if sample >= len(variant.GenotypeData) {
		return
	}
	data := variant.GenotypeData[sample]
	for _, format := range s.formatCols {
		if !s.mask.Has(format.col) {
			continue
		}
		if value, found := data.Get(format.key); found {
			row[format.col] = convertValue(value, format.typ)
		}
	}
}

func (s *VariantScanner) wideColumns(row []interface{}, variant *vcf.Variant) {
	for _, format := range s.formatCols {
		if !s.mask.Has(format.col) || format.sample >= len(variant.GenotypeData) {
			continue
		}
		if value, found := variant.GenotypeData[format.sample].Get(format.key); found {
			row[format.col] = convertValue(value, format.typ)
		}
	}
}

// convertValue maps a decoded VCF value onto the value space of a
// column type. Values the type cannot represent become nil.
func convertValue(value interface{}, typ Type) interface{} {
	switch typ {
	case Int64List, DoubleList, VarcharList:
		list, ok := value.([]interface{})
		if !ok {
			if value == nil {
				return nil
			}
			list = []interface{}{value}
		}
		result := make([]interface{}, len(list))
		for i, entry := range list {
			result[i] = convertScalar(entry, scalarOf(typ))
		}
		return result
	default:
		return convertScalar(value, typ)
	}
}

func scalarOf(typ Type) Type {
	switch typ {
	case Int64List:
		return Int64
	case DoubleList:
		return Double
	default:
		return Varchar
	}
}

func convertScalar(value interface{}, typ Type) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case int:
		switch typ {
		case Int64:
			return int64(v)
		case Double:
			return float64(v)
		default:
			return strconv.Itoa(v)
		}
	case float64:
		switch typ {
		case Double:
			return v
		case Int64:
			return int64(v)
		default:
			return strconv.FormatFloat(v, 'g', -1, 64)
		}
	case rune:
		return string(v)
	case string:
		switch typ {
		case Int64:
			if i, err := strconv.ParseInt(v, 10, 64); err == nil {
				return i
			}
			return nil
		case Double:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			return nil
		default:
			return v
		}
	case bool:
		return v
	default:
		return nil
	}
}

func (s *VariantScanner) Close() error {
	return s.input.Close()
}
