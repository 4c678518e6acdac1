package scan

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rgenomicsetl/htscan/internal"
	"github.com/rgenomicsetl/htscan/region"
	"github.com/rgenomicsetl/htscan/tsv"
)

// A TableScanner scans generic tab-separated files. The column layout
// comes from explicit names, from a header line, or from sampling the
// first data line, in which case the columns are named
// column1..columnN. Columns are VARCHAR unless types are declared
// explicitly or detected from the first data line.
type TableScanner struct {
	base
	reader  *tsv.Reader
	pending []string
	warned  bool
}

func tableOptions(opts Options) tsv.Options {
	return tsv.Options{
		Header: opts.Header,
		Names:  opts.HeaderNames,
	}
}

// detectType infers a column type from one sample value. Unparseable
// and missing values stay VARCHAR.
func detectType(field string) Type {
	if field == "" || field == "." {
		return Varchar
	}
	if _, err := strconv.ParseInt(field, 10, 64); err == nil {
		return Int64
	}
	if _, err := strconv.ParseFloat(field, 64); err == nil {
		return Double
	}
	return Varchar
}

func newTableScanner(path string, opts Options) (Scanner, error) {
	var plan region.Plan
	if opts.Region != "" {
		// Generic rows carry no coordinates the scan could filter on
		// after decoding, so a region strictly requires an index.
		hasIndex := internal.PlainBase(path) != path && region.HasIndex(path)
		var err error
		plan, err = region.PlanScan(opts.Region, path, nil, hasIndex, false)
		if err != nil {
			return nil, err
		}
	}
	names := opts.HeaderNames
	if plan.Bound && len(names) == 0 {
		// tabix emits no header for a sliced file, so the layout is
		// taken from an unrestricted pass first.
		layout, err := tsv.Open(path, "", tableOptions(opts))
		if err != nil {
			return nil, &HeaderError{Path: path, Err: err}
		}
		names = layout.Names()
		if err := layout.Close(); err != nil {
			return nil, &HeaderError{Path: path, Err: err}
		}
	}
	regionArg := ""
	if plan.Bound {
		regionArg = plan.Region.String()
	}
	tsvOpts := tableOptions(opts)
	if len(names) > 0 {
		tsvOpts.Names = names
	}
	reader, err := tsv.Open(path, regionArg, tsvOpts)
	if err != nil {
		return nil, &HeaderError{Path: path, Err: err}
	}
	if len(reader.Names()) == 0 {
		reader.Close()
		return nil, &AmbiguousSchemaError{Path: path, Reason: "no header and no data line to sample the column layout from"}
	}
	s := &TableScanner{base: newBase(path), reader: reader}
	s.schema = make(Schema, len(reader.Names()))
	for i, name := range reader.Names() {
		s.schema[i] = ColumnSpec{Name: name, Type: Varchar, Nullable: true}
	}
	for i, name := range opts.ColumnTypes {
		if i >= len(s.schema) {
			break
		}
		typ, ok := ParseType(name)
		if !ok {
			reader.Close()
			return nil, &AmbiguousSchemaError{Path: path, Reason: fmt.Sprintf("unknown column type %v", name)}
		}
		s.schema[i].Type = typ
	}
	if opts.AutoDetect && len(opts.ColumnTypes) == 0 {
		fields, err := reader.Next()
		switch {
		case err == io.EOF:
		case err != nil:
			reader.Close()
			return nil, &HeaderError{Path: path, Err: err}
		default:
			s.pending = fields
			for i := range s.schema {
				if i < len(fields) {
					s.schema[i].Type = detectType(fields[i])
				}
			}
		}
	}
	if err := s.project(opts.Columns); err != nil {
		reader.Close()
		return nil, err
	}
	return s, nil
}

func (s *TableScanner) Next() ([]interface{}, error) {
	fields := s.pending
	if fields == nil {
		var err error
		fields, err = s.reader.Next()
		if err != nil {
			return nil, err
		}
	} else {
		s.pending = nil
	}
	if len(fields) != len(s.schema) && !s.warned {
		s.warned = true
		s.warnf("row %v of %v has %v fields, expected %v; reconciling",
			s.reader.Line(), s.path, len(fields), len(s.schema))
	}
	row := make([]interface{}, len(s.schema))
	for i := range s.schema {
		if i >= len(fields) || !s.mask.Has(i) {
			continue
		}
		value, err := s.convert(fields[i], s.schema[i].Type)
		if err != nil {
			return nil, s.malformed(err)
		}
		row[i] = value
	}
	s.records++
	return row, nil
}

// convert parses a field according to its column type. The missing
// markers decode as null for typed columns.
func (s *TableScanner) convert(field string, typ Type) (interface{}, error) {
	if typ == Varchar {
		return field, nil
	}
	if field == "" || field == "." {
		return nil, nil
	}
	switch typ {
	case Int64:
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %v as %v", field, typ)
		}
		return value, nil
	case Double:
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %v as %v", field, typ)
		}
		return value, nil
	case Boolean:
		value, err := strconv.ParseBool(field)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %v as %v", field, typ)
		}
		return value, nil
	default:
		return field, nil
	}
}

func (s *TableScanner) Close() error {
	return s.reader.Close()
}
