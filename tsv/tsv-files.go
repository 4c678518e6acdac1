package tsv

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rgenomicsetl/htscan/internal"
	"github.com/rgenomicsetl/htscan/utils"
)

// Options configure how a tab-separated file is interpreted.
type Options struct {
	// Comment is the byte that marks meta lines to skip. The zero
	// value means '#'.
	Comment byte
	// Header makes the first non-meta line a header holding the
	// column names.
	Header bool
	// Names sets the column names explicitly. It takes precedence
	// over Header.
	Names []string
}

// A Reader reads rows from a tab-separated file. The column layout is
// taken from explicit names, from a header line, or sampled from the
// first data line, in that order of preference.
type Reader struct {
	input   *internal.InputFile
	names   []string
	comment byte
	line    int64
	pending []string
}

/*
Open opens a tab-separated file for reading.

A region restriction is answered through tabix; the caller must have
verified that an index is present. Note that tabix does not emit the
header of the sliced file, so region queries need explicit column
names or a sampled layout from an unrestricted scan.

A file that yields no line to take the column layout from leaves
Names empty; the caller decides whether that is an error.
*/
func Open(name, region string, opts Options) (*Reader, error) {
	var input *internal.InputFile
	var err error
	if region != "" {
		input, err = internal.OpenPipe("tabix", name, region)
		if err != nil {
			return nil, err
		}
	} else {
		input, err = internal.OpenPlain(name)
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
	}
	comment := opts.Comment
	if comment == 0 {
		comment = '#'
	}
	reader := &Reader{input: input, names: opts.Names, comment: comment}
	if len(reader.names) > 0 {
		return reader, nil
	}
	fields, err := reader.nextFields()
	if err == io.EOF {
		return reader, nil
	}
	if err != nil {
		input.Close()
		return nil, err
	}
	if opts.Header {
		reader.names = fields
		return reader, nil
	}
	reader.names = make([]string, len(fields))
	for i := range fields {
		reader.names[i] = fmt.Sprintf("column%d", i+1)
	}
	reader.pending = fields
	return reader, nil
}

// Names returns the column names of the file, or nil when the file
// yielded no line to take the layout from.
func (r *Reader) Names() []string {
	return r.names
}

// Line returns the one-based number of the last line read.
func (r *Reader) Line() int64 {
	return r.line
}

func (r *Reader) nextFields() ([]string, error) {
	for {
		line, err := r.input.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, err
		}
		r.line++
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if line == "" {
			continue
		}
		if line[0] == r.comment {
			continue
		}
		return strings.Split(line, "\t"), nil
	}
}

// Next returns the fields of the next data row, or io.EOF at the end
// of the input. The field count may differ from the column count; the
// caller reconciles the two.
func (r *Reader) Next() ([]string, error) {
	if pending := r.pending; pending != nil {
		r.pending = nil
		return pending, nil
	}
	return r.nextFields()
}

// Close closes the underlying input.
func (r *Reader) Close() error {
	return r.input.Close()
}
