package fastq

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rgenomicsetl/htscan/internal"
	"github.com/rgenomicsetl/htscan/utils"
)

// A Record is a single sequence read from a FASTA or FASTQ file.
// Quality is empty for FASTA input.
type Record struct {
	Name        string
	Description string
	Sequence    string
	Quality     string
}

// A Reader reads sequence records from FASTA or FASTQ input. The
// flavor is detected from the first record marker, > for FASTA and @
// for FASTQ. FASTA sequences and FASTQ sequences and quality strings
// may span multiple lines.
type Reader struct {
	input  *internal.InputFile
	buf    *bufio.Reader
	fastq  bool
	record int64
	peeked *Record
}

// Open opens a FASTA or FASTQ file for reading. Plain and
// bgzip-compressed inputs are both accepted.
func Open(name string) (*Reader, error) {
	input, err := internal.OpenPlain(name)
	if err != nil {
		return nil, err
	}
	r, err := utils.HandleBGZF(input.Reader)
	if err != nil {
		input.Close()
		return nil, err
	}
	if _, ok := r.(*bufio.Reader); !ok {
		input.Wrap(r)
	}
	reader := &Reader{input: input, buf: input.Reader}
	marker, err := reader.buf.Peek(1)
	if err != nil {
		if err == io.EOF {
			return reader, nil
		}
		input.Close()
		return nil, err
	}
	switch marker[0] {
	case '>':
	case '@':
		reader.fastq = true
	default:
		input.Close()
		return nil, fmt.Errorf("unexpected record marker %q in %v, want > or @", marker[0], name)
	}
	return reader, nil
}

// Record returns the zero-based index of the last record returned by
// Next.
func (r *Reader) Record() int64 {
	return r.record - 1
}

func (r *Reader) getLine() (string, error) {
	line, err := r.buf.ReadString('\n')
	switch {
	case err == nil:
		line = line[:len(line)-1]
	case err == io.EOF && line != "":
		err = nil
	}
	return strings.TrimSuffix(line, "\r"), err
}

func splitHeader(line string) (name, description string) {
	header := line[1:]
	if space := strings.IndexByte(header, ' '); space >= 0 {
		return header[:space], header[space+1:]
	}
	return header, ""
}

// Next returns the next record, or io.EOF at the end of the input.
func (r *Reader) Next() (*Record, error) {
	if peeked := r.peeked; peeked != nil {
		r.peeked = nil
		r.record++
		return peeked, nil
	}
	record, err := r.read()
	if err != nil {
		return nil, err
	}
	r.record++
	return record, nil
}

// Peek returns the record Next would return without consuming it.
func (r *Reader) Peek() (*Record, error) {
	if r.peeked == nil {
		record, err := r.read()
		if err != nil {
			return nil, err
		}
		r.peeked = record
	}
	return r.peeked, nil
}

func (r *Reader) read() (*Record, error) {
	if r.fastq {
		return r.readFastq()
	}
	return r.readFasta()
}

func (r *Reader) readFasta() (*Record, error) {
	line, err := r.getLine()
	if err != nil {
		return nil, err
	}
	if len(line) == 0 || line[0] != '>' {
		return nil, fmt.Errorf("missing > marker in FASTA record %v", r.record)
	}
	record := &Record{}
	record.Name, record.Description = splitHeader(line)
	var seq strings.Builder
	for {
		data, err := r.buf.Peek(1)
		if err == io.EOF || (err == nil && data[0] == '>') {
			break
		}
		if err != nil {
			return nil, err
		}
		line, err := r.getLine()
		if err != nil {
			return nil, err
		}
		_, _ = seq.WriteString(line)
	}
	record.Sequence = seq.String()
	return record, nil
}

func (r *Reader) readFastq() (*Record, error) {
	line, err := r.getLine()
	if err != nil {
		return nil, err
	}
	if len(line) == 0 || line[0] != '@' {
		return nil, fmt.Errorf("missing @ marker in FASTQ record %v", r.record)
	}
	record := &Record{}
	record.Name, record.Description = splitHeader(line)
	var seq strings.Builder
	for {
		line, err := r.getLine()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("truncated FASTQ record %v", r.record)
			}
			return nil, err
		}
		if len(line) > 0 && line[0] == '+' {
			break
		}
		_, _ = seq.WriteString(line)
	}
	record.Sequence = seq.String()
	var qual strings.Builder
	for qual.Len() < len(record.Sequence) {
		line, err := r.getLine()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("truncated quality in FASTQ record %v", r.record)
			}
			return nil, err
		}
		_, _ = qual.WriteString(line)
	}
	record.Quality = qual.String()
	if len(record.Quality) != len(record.Sequence) {
		return nil, fmt.Errorf("sequence and quality lengths differ in FASTQ record %v", r.record)
	}
	return record, nil
}

// Close closes the underlying input.
func (r *Reader) Close() error {
	return r.input.Close()
}
