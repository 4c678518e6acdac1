package sam

import (
	"github.com/rgenomicsetl/htscan/utils"
)

// IsHeaderUserTag reports whether the given header record type code
// is a user-defined code, which per the SAM specification contains at
// least one lowercase letter.
func IsHeaderUserTag(code string) bool {
	for _, c := range code {
		if ('a' <= c) && (c <= 'z') {
			return true
		}
	}
	return false
}

/*
A Header represents the header of a SAM file.

HD, SQ, RG, and PG hold the key/value fields of the @HD line and the
@SQ, @RG, and @PG lines. CO holds the comment lines, and UserRecords
any header lines with user-defined record type codes.
*/
type Header struct {
	HD          utils.StringMap
	SQ, RG, PG  []utils.StringMap
	CO          []string
	UserRecords map[string][]utils.StringMap
}

// NewHeader allocates and initializes an empty header.
func NewHeader() *Header { return &Header{} }

// Contigs returns the set of contig names declared by the @SQ lines,
// or nil when the header declares none.
func (hdr *Header) Contigs() map[string]bool {
	if len(hdr.SQ) == 0 {
		return nil
	}
	contigs := make(map[string]bool, len(hdr.SQ))
	for _, sq := range hdr.SQ {
		if sn, found := sq["SN"]; found {
			contigs[sn] = true
		}
	}
	return contigs
}

// ReadGroupSamples returns a mapping from @RG identifiers to the
// sample names they declare. Read groups without an SM field are
// absent from the result.
func (hdr *Header) ReadGroupSamples() map[string]string {
	samples := make(map[string]string, len(hdr.RG))
	for _, rg := range hdr.RG {
		id, found := rg["ID"]
		if !found {
			continue
		}
		if sm, found := rg["SM"]; found {
			samples[id] = sm
		}
	}
	return samples
}

func (hdr *Header) EnsureUserRecords() map[string][]utils.StringMap {
	if hdr.UserRecords == nil {
		hdr.UserRecords = make(map[string][]utils.StringMap)
	}
	return hdr.UserRecords
}

// AddUserRecord adds a header line for the given user-defined record
// type code.
func (hdr *Header) AddUserRecord(code string, record utils.StringMap) {
	if records, found := hdr.UserRecords[code]; found {
		hdr.UserRecords[code] = append(records, record)
	} else {
		hdr.EnsureUserRecords()[code] = []utils.StringMap{record}
	}
}

/*
An Alignment represents a single read alignment. The fields with
uppercase names correspond to the mandatory fields of a SAM alignment
line. TAGS holds the optional fields.
*/
type Alignment struct {
	QNAME string
	FLAG  uint16
	RNAME string
	POS   int32
	MAPQ  byte
	CIGAR string
	RNEXT string
	PNEXT int32
	TLEN  int32
	SEQ   string
	QUAL  string
	TAGS  utils.SmallMap
}

var (
	// RG is the read group optional field tag.
	RG = utils.Intern("RG")
	// NM is the edit distance optional field tag.
	NM = utils.Intern("NM")
)

// ReadGroup returns the value of the RG optional field, or the empty
// string when the alignment has none.
func (aln *Alignment) ReadGroup() string {
	if rg, ok := aln.TAGS.Get(RG); ok {
		if s, ok := rg.(string); ok {
			return s
		}
	}
	return ""
}

// NewAlignment allocates and initializes an empty alignment.
func NewAlignment() *Alignment {
	return &Alignment{
		TAGS: make(utils.SmallMap, 0, 16),
	}
}

// Flag values for SAM alignments.
const (
	Multiple      = 0x1
	Proper        = 0x2
	Unmapped      = 0x4
	NextUnmapped  = 0x8
	Reversed      = 0x10
	NextReversed  = 0x20
	First         = 0x40
	Last          = 0x80
	Secondary     = 0x100
	QCFailed      = 0x200
	Duplicate     = 0x400
	Supplementary = 0x800
)

func (aln *Alignment) IsMultiple() bool      { return (aln.FLAG & Multiple) != 0 }
func (aln *Alignment) IsUnmapped() bool      { return (aln.FLAG & Unmapped) != 0 }
func (aln *Alignment) IsFirst() bool         { return (aln.FLAG & First) != 0 }
func (aln *Alignment) IsLast() bool          { return (aln.FLAG & Last) != 0 }
func (aln *Alignment) IsSecondary() bool     { return (aln.FLAG & Secondary) != 0 }
func (aln *Alignment) IsSupplementary() bool { return (aln.FLAG & Supplementary) != 0 }

// End returns the 1-based inclusive position of the last reference
// base the alignment covers, derived from POS and the CIGAR string.
// Unmapped alignments return POS.
func (aln *Alignment) End() int64 {
	if aln.CIGAR == "*" || aln.CIGAR == "" {
		return int64(aln.POS)
	}
	end := int64(aln.POS) - 1
	length := int64(0)
	for i := 0; i < len(aln.CIGAR); i++ {
		c := aln.CIGAR[i]
		if '0' <= c && c <= '9' {
			length = length*10 + int64(c-'0')
			continue
		}
		switch c {
		case 'M', 'D', 'N', '=', 'X':
			end += length
		}
		length = 0
	}
	if end < int64(aln.POS) {
		return int64(aln.POS)
	}
	return end
}

// A ByteArray is a value of an optional field of type H.
type ByteArray []byte
