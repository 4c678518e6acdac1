package scan

import (
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
)

/*
A Scanner produces the rows of one scan over a genomic file. Rows
line up positionally with the schema; values of columns outside the
projection are nil, as are null values of projected columns.

Next returns io.EOF at the end of the scan. Scanners are not safe for
concurrent use.
*/
type Scanner interface {
	Schema() Schema
	Next() ([]interface{}, error)
	Warnings() []string
	Close() error
}

/*
Open opens a scan over the given file.

The format is taken from the options, or detected from the file name.
Header problems surface as HeaderError, undecidable column layouts as
AmbiguousSchemaError, region problems as RegionError or
IndexRequiredError, and undecodable records as MalformedRecordError
from Next.
*/
func Open(path string, opts Options) (Scanner, error) {
	format := opts.Format
	if format == FormatAuto {
		format = DetectFormat(path)
	}
	switch format {
	case FormatVariant:
		return newVariantScanner(path, opts)
	case FormatAlignment:
		return newAlignmentScanner(path, opts)
	case FormatSequence:
		return newSequenceScanner(path, opts)
	case FormatFeature:
		return newFeatureScanner(path, opts)
	default:
		return newTableScanner(path, opts)
	}
}

// base carries the bookkeeping shared by all scanners. Every scan
// gets a unique identifier that tags its log lines, so interleaved
// scans in one process can be told apart.
type base struct {
	id       string
	path     string
	schema   Schema
	mask     *ProjectionMask
	warnings []string
	records  int64
}

func newBase(path string) base {
	return base{id: uuid.New().String(), path: path}
}

func (b *base) Schema() Schema {
	return b.schema
}

// Warnings returns the warnings collected so far during the scan.
func (b *base) Warnings() []string {
	return b.warnings
}

func (b *base) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	b.warnings = append(b.warnings, msg)
	log.Printf("scan %v: %v", b.id, msg)
}

// project resolves the projected columns against the schema, which
// must be set beforehand.
func (b *base) project(columns []string) error {
	mask, err := NewProjectionMask(b.schema, columns)
	if err != nil {
		return err
	}
	b.mask = mask
	return nil
}

// malformed wraps a decoding error with the position of the failing
// record.
func (b *base) malformed(err error) error {
	return &MalformedRecordError{Path: b.path, Record: b.records, Err: err}
}

// An emptyScanner yields no rows. It stands in for scans whose region
// plan proves the result empty before any record is read.
type emptyScanner struct {
	base
}

func (s *emptyScanner) Next() ([]interface{}, error) {
	return nil, io.EOF
}

func (s *emptyScanner) Close() error {
	return nil
}
