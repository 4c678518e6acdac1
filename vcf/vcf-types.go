package vcf

import (
	"github.com/rgenomicsetl/htscan/utils"
)

const fileFormatVersionLinePrefix = "##fileformat=VCFv4."

// DefaultHeaderColumns for VCF files.
var DefaultHeaderColumns = []string{"CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"}

// Type is an enumeration type for different VCF field types
type Type uint

// The different VCF field types
const (
	InvalidType Type = iota
	Integer          // represented as int (not int32, since that's the same as rune in Go)
	Float            // represented as float64 (parsing as float32 seems problematic in some cases in Go)
	Flag             // represented as bool with fixed value true
	Character        // represented as rune
	String           // represented as string
)

// Constants for format information Number entries.
const (
	NumberA int32 = -1 * (1 + iota)
	NumberR
	NumberG
	NumberDot
	InvalidNumber
)

// Commonly used VCF entries.
var (
	END  = utils.Intern("END")
	GT   = utils.Intern("GT")
	PASS = utils.Intern("PASS")
)

type (
	// MetaInformation in VCF files.
	MetaInformation struct {
		ID          utils.Symbol
		Description string // "" if not present
		Fields      utils.StringMap
	}

	// FormatInformation describes an INFO or FORMAT field declared in
	// a VCF header.
	FormatInformation struct {
		ID          utils.Symbol
		Description string // "" if not present
		Number      int32  // > InvalidNumber
		Type        Type
		Fields      utils.StringMap
	}

	// Header section of a VCF file.
	Header struct {
		FileFormat string
		Infos      []*FormatInformation
		Formats    []*FormatInformation
		Meta       map[string][]interface{} // string or *MetaInformation
		Columns    []string
	}

	// Variant line in a VCF file. Info and GenotypeData hold the
	// decoded INFO and per-sample FORMAT entries.
	Variant struct {
		Chrom          string
		Pos            int32    // < 0 if unknown
		ID             []string // nil/empty if missing
		Ref            string
		Alt            []string       // nil/empty if missing
		Qual           interface{}    // float64, or nil if missing
		Filter         []utils.Symbol // nil/empty if missing
		Info           utils.SmallMap // values are int, float64, bool, rune, string, or []interface{}
		GenotypeFormat []utils.Symbol
		GenotypeData   []utils.SmallMap
	}
)

// NewMetaInformation creates an empty instance.
func NewMetaInformation() *MetaInformation {
	return &MetaInformation{Fields: make(utils.StringMap)}
}

// NewFormatInformation creates an empty instance.
func NewFormatInformation() *FormatInformation {
	return &FormatInformation{Number: InvalidNumber, Fields: make(utils.StringMap)}
}

// NewHeader creates an empty instance.
func NewHeader() *Header {
	return &Header{
		Meta: make(map[string][]interface{}),
	}
}

// Samples returns the sample names declared on the #CHROM line, in
// file order. Files without genotype data return nil.
func (hdr *Header) Samples() []string {
	if len(hdr.Columns) <= len(DefaultHeaderColumns)+1 {
		return nil
	}
	return hdr.Columns[len(DefaultHeaderColumns)+1:]
}

// Contigs returns the set of contig names declared by the ##contig
// meta-information lines, or nil when the header declares none.
func (hdr *Header) Contigs() map[string]bool {
	metas := hdr.Meta["contig"]
	if len(metas) == 0 {
		return nil
	}
	contigs := make(map[string]bool, len(metas))
	for _, meta := range metas {
		if m, ok := meta.(*MetaInformation); ok && m.ID != nil {
			contigs[*m.ID] = true
		}
	}
	if len(contigs) == 0 {
		return nil
	}
	return contigs
}

// FindInfo returns the INFO declaration with the given ID, or nil.
func (hdr *Header) FindInfo(id string) *FormatInformation {
	for _, info := range hdr.Infos {
		if info.ID != nil && *info.ID == id {
			return info
		}
	}
	return nil
}

// Start returns the start position of a VCF line in the reference.
func (v *Variant) Start() int32 {
	return v.Pos
}

// End returns the end position of a VCF line in the reference,
// determined either by the END field or len(v.Ref).
func (v *Variant) End() int32 {
	if end, ok := v.Info.Get(END); ok {
		switch e := end.(type) {
		case int:
			return int32(e)
		}
	}
	return v.Pos - 1 + int32(len(v.Ref))
}

// Pass determines whether the variant passed all filters.
func (v *Variant) Pass() bool {
	return len(v.Filter) == 1 && v.Filter[0] == PASS
}
