package fastq

import (
	"fmt"
	"io"
	"strings"
)

// A PairingError reports two records at the same position of a read
// pair stream whose names do not belong to the same fragment.
type PairingError struct {
	Position     int64
	Name1, Name2 string
}

func (err *PairingError) Error() string {
	return fmt.Sprintf("read names %v and %v at pair %v do not match", err.Name1, err.Name2, err.Position)
}

// An UnpairedTrailingError reports a record at the end of a read pair
// stream that has no mate, either because one of two paired files is
// longer than the other or because an interleaved file holds an odd
// number of records.
type UnpairedTrailingError struct {
	Position int64
	Name     string
}

func (err *UnpairedTrailingError) Error() string {
	return fmt.Sprintf("read %v at pair %v has no mate", err.Name, err.Position)
}

// BaseName strips the conventional mate suffixes /1 and /2 from a
// read name, so the two reads of a fragment compare equal.
func BaseName(name string) string {
	if strings.HasSuffix(name, "/1") || strings.HasSuffix(name, "/2") {
		return name[:len(name)-2]
	}
	return name
}

// A Pair holds the two reads of a fragment.
type Pair struct {
	R1, R2 *Record
}

// A PairReader yields read pairs, either from two files read in
// lockstep or from a single interleaved file.
type PairReader struct {
	r1, r2      *Reader
	interleaved bool
	position    int64
}

// OpenPair opens two FASTA or FASTQ files whose records pair up
// positionally.
func OpenPair(name1, name2 string) (*PairReader, error) {
	r1, err := Open(name1)
	if err != nil {
		return nil, err
	}
	r2, err := Open(name2)
	if err != nil {
		r1.Close()
		return nil, err
	}
	return &PairReader{r1: r1, r2: r2}, nil
}

// OpenInterleaved opens a single FASTA or FASTQ file holding mates in
// alternating order.
func OpenInterleaved(name string) (*PairReader, error) {
	r, err := Open(name)
	if err != nil {
		return nil, err
	}
	return &PairReader{r1: r, interleaved: true}, nil
}

// Position returns the zero-based index of the last pair returned by
// Next.
func (p *PairReader) Position() int64 {
	return p.position - 1
}

// Next returns the next pair, or io.EOF at the end of the input. The
// two mates must agree on their name after mate suffix stripping, and
// the input must not end between the mates of a pair.
func (p *PairReader) Next() (*Pair, error) {
	var rec1, rec2 *Record
	var err1, err2 error
	if p.interleaved {
		rec1, err1 = p.r1.Next()
		if err1 == io.EOF {
			return nil, io.EOF
		}
		if err1 != nil {
			return nil, err1
		}
		rec2, err2 = p.r1.Next()
		if err2 == io.EOF {
			return nil, &UnpairedTrailingError{Position: p.position, Name: rec1.Name}
		}
		if err2 != nil {
			return nil, err2
		}
	} else {
		rec1, err1 = p.r1.Next()
		rec2, err2 = p.r2.Next()
		switch {
		case err1 == io.EOF && err2 == io.EOF:
			return nil, io.EOF
		case err1 == io.EOF:
			if err2 != nil {
				return nil, err2
			}
			return nil, &UnpairedTrailingError{Position: p.position, Name: rec2.Name}
		case err2 == io.EOF:
			if err1 != nil {
				return nil, err1
			}
			return nil, &UnpairedTrailingError{Position: p.position, Name: rec1.Name}
		case err1 != nil:
			return nil, err1
		case err2 != nil:
			return nil, err2
		}
	}
	if BaseName(rec1.Name) != BaseName(rec2.Name) {
		return nil, &PairingError{Position: p.position, Name1: rec1.Name, Name2: rec2.Name}
	}
	p.position++
	return &Pair{R1: rec1, R2: rec2}, nil
}

// Close closes the underlying inputs.
func (p *PairReader) Close() error {
	err := p.r1.Close()
	if p.r2 != nil {
		if nerr := p.r2.Close(); err == nil {
			err = nerr
		}
	}
	return err
}
