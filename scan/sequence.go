package scan

import (
	"errors"
	"io"

	"github.com/rgenomicsetl/htscan/fastq"
	"github.com/rgenomicsetl/htscan/region"
)

// The columns of a sequence scan. The mate columns exist only for
// paired scans.
const (
	sequenceName = iota
	sequenceDescription
	sequenceSequence
	sequenceQuality
	sequenceMate
	sequencePairID
)

// A SequenceScanner scans FASTA and FASTQ files. Paired scans read
// either two files in lockstep or one interleaved file, yield two
// rows per fragment, and verify that mates pair up.
type SequenceScanner struct {
	base
	reader  *fastq.Reader
	pairs   *fastq.PairReader
	pending []interface{}
}

func newSequenceScanner(path string, opts Options) (Scanner, error) {
	if opts.Region != "" {
		return nil, &region.RegionError{
			Expression: opts.Region,
			Reason:     "sequence files have no coordinate system to slice",
		}
	}
	if opts.MatePath != "" && opts.Interleaved {
		return nil, errors.New("a mate file and interleaved input are mutually exclusive")
	}
	paired := opts.MatePath != "" || opts.Interleaved
	s := &SequenceScanner{base: newBase(path)}
	s.schema = Schema{
		{Name: "NAME", Type: Varchar},
		{Name: "DESCRIPTION", Type: Varchar, Nullable: true},
		{Name: "SEQUENCE", Type: Varchar},
		{Name: "QUALITY", Type: Varchar, Nullable: true},
	}
	if paired {
		s.schema = append(s.schema,
			ColumnSpec{Name: "MATE", Type: Int64},
			ColumnSpec{Name: "PAIR_ID", Type: Varchar},
		)
	}
	if err := s.project(opts.Columns); err != nil {
		return nil, err
	}
	var err error
	switch {
	case opts.MatePath != "":
		s.pairs, err = fastq.OpenPair(path, opts.MatePath)
	case opts.Interleaved:
		s.pairs, err = fastq.OpenInterleaved(path)
	default:
		s.reader, err = fastq.Open(path)
	}
	if err != nil {
		return nil, &HeaderError{Path: path, Err: err}
	}
	return s, nil
}

func (s *SequenceScanner) row(record *fastq.Record, mate int64, pairID string) []interface{} {
	row := make([]interface{}, len(s.schema))
	if s.mask.Has(sequenceName) {
		row[sequenceName] = record.Name
	}
	if s.mask.Has(sequenceDescription) && record.Description != "" {
		row[sequenceDescription] = record.Description
	}
	if s.mask.Has(sequenceSequence) {
		row[sequenceSequence] = record.Sequence
	}
	if s.mask.Has(sequenceQuality) && record.Quality != "" {
		row[sequenceQuality] = record.Quality
	}
	if mate > 0 {
		if s.mask.Has(sequenceMate) {
			row[sequenceMate] = mate
		}
		if s.mask.Has(sequencePairID) {
			row[sequencePairID] = pairID
		}
	}
	return row
}

func (s *SequenceScanner) Next() ([]interface{}, error) {
	if s.pending != nil {
		row := s.pending
		s.pending = nil
		return row, nil
	}
	if s.pairs != nil {
		pair, err := s.pairs.Next()
		if err != nil {
			return nil, err
		}
		s.records += 2
		pairID := fastq.BaseName(pair.R1.Name)
		s.pending = s.row(pair.R2, 2, pairID)
		return s.row(pair.R1, 1, pairID), nil
	}
	record, err := s.reader.Next()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, s.malformed(err)
	}
	s.records++
	return s.row(record, 0, ""), nil
}

func (s *SequenceScanner) Close() error {
	if s.pairs != nil {
		return s.pairs.Close()
	}
	return s.reader.Close()
}
