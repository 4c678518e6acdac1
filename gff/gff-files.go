package gff

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rgenomicsetl/htscan/internal"
	"github.com/rgenomicsetl/htscan/utils"
)

// A Record is a single feature line from a GFF or GTF file. Score is
// a float64, or nil when the column holds the missing marker. Start
// and End are 0 when their column holds the missing marker. The other
// columns keep their literal text, including a literal dot.
type Record struct {
	Seqname    string
	Source     string
	Feature    string
	Start      int64
	End        int64
	Score      interface{}
	Strand     string
	Frame      string
	Attributes string
}

const recordColumns = 9

func parseCoordinate(field string) (int64, error) {
	if field == "." {
		return 0, nil
	}
	return strconv.ParseInt(field, 10, 64)
}

// ParseRecord parses a single feature line.
func ParseRecord(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != recordColumns {
		return nil, fmt.Errorf("expected %v columns in a GFF record, got %v", recordColumns, len(fields))
	}
	record := &Record{
		Seqname:    fields[0],
		Source:     fields[1],
		Feature:    fields[2],
		Strand:     fields[6],
		Frame:      fields[7],
		Attributes: fields[8],
	}
	start, err := parseCoordinate(fields[3])
	if err != nil {
		return nil, fmt.Errorf("invalid start coordinate in a GFF record: %v", fields[3])
	}
	record.Start = start
	end, err := parseCoordinate(fields[4])
	if err != nil {
		return nil, fmt.Errorf("invalid end coordinate in a GFF record: %v", fields[4])
	}
	record.End = end
	if fields[5] != "." {
		score, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid score in a GFF record: %v", fields[5])
		}
		record.Score = score
	}
	return record, nil
}

// ParseAttributes parses the attributes column of a feature line into
// a key/value map. Both the GFF3 dialect (key=value;key=value) and
// the GTF dialect (key "value"; key "value";) are recognized, keyed
// per attribute so mixed lines decode too. Repeated keys keep the
// last value.
func ParseAttributes(attributes string) utils.StringMap {
	result := make(utils.StringMap)
	for _, attribute := range strings.Split(attributes, ";") {
		attribute = strings.TrimSpace(attribute)
		if attribute == "" {
			continue
		}
		var key, value string
		if equal := strings.IndexByte(attribute, '='); equal >= 0 {
			key = attribute[:equal]
			value = attribute[equal+1:]
		} else if space := strings.IndexByte(attribute, ' '); space >= 0 {
			key = attribute[:space]
			value = strings.TrimSpace(attribute[space+1:])
		} else {
			key = attribute
		}
		value = strings.Trim(value, "\"")
		result[key] = value
	}
	return result
}

// A Reader reads feature records from GFF or GTF input. Comment and
// directive lines are skipped; ##sequence-region directives feed the
// contig set.
type Reader struct {
	input   *internal.InputFile
	contigs map[string]bool
	line    int64
}

/*
Open opens a GFF or GTF file for reading.

A region restriction is answered through tabix; the caller must have
verified that an index is present. Without a region, plain and
bgzip-compressed inputs are read directly.
*/
func Open(name, region string) (*Reader, error) {
	if region != "" {
		input, err := internal.OpenPipe("tabix", name, region)
		if err != nil {
			return nil, err
		}
		return &Reader{input: input}, nil
	}
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
	return &Reader{input: input}, nil
}

// Line returns the one-based number of the last line returned by
// Next.
func (r *Reader) Line() int64 {
	return r.line
}

// Contigs returns the contig names declared by the ##sequence-region
// directives seen so far, or nil when none were declared.
func (r *Reader) Contigs() map[string]bool {
	return r.contigs
}

func (r *Reader) directive(line string) {
	const marker = "##sequence-region"
	if !strings.HasPrefix(line, marker) {
		return
	}
	fields := strings.Fields(line[len(marker):])
	if len(fields) == 0 {
		return
	}
	if r.contigs == nil {
		r.contigs = make(map[string]bool)
	}
	r.contigs[fields[0]] = true
}

// Next returns the next feature record, or io.EOF at the end of the
// input.
func (r *Reader) Next() (*Record, error) {
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
		if line[0] == '#' {
			r.directive(line)
			continue
		}
		return ParseRecord(line)
	}
}

// Close closes the underlying input.
func (r *Reader) Close() error {
	return r.input.Close()
}
