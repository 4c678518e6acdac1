package scan

import (
	"path/filepath"

	"github.com/rgenomicsetl/htscan/internal"
)

// Format identifies the kind of file a scan reads.
type Format int

// The supported formats. FormatAuto detects the format from the file
// name extension.
const (
	FormatAuto Format = iota
	FormatVariant
	FormatAlignment
	FormatSequence
	FormatFeature
	FormatTable
)

func (f Format) String() string {
	switch f {
	case FormatVariant:
		return "variant"
	case FormatAlignment:
		return "alignment"
	case FormatSequence:
		return "sequence"
	case FormatFeature:
		return "feature"
	case FormatTable:
		return "table"
	default:
		return "auto"
	}
}

// ParseFormat maps a format name to its Format. Unknown names map to
// FormatAuto.
func ParseFormat(name string) Format {
	switch name {
	case "variant", "vcf":
		return FormatVariant
	case "alignment", "sam":
		return FormatAlignment
	case "sequence", "fastq", "fasta":
		return FormatSequence
	case "feature", "gff", "gtf":
		return FormatFeature
	case "table", "tsv":
		return FormatTable
	default:
		return FormatAuto
	}
}

// DetectFormat determines the format of a file from its name,
// ignoring compression suffixes. Unrecognized extensions fall back to
// the generic table format.
func DetectFormat(path string) Format {
	switch filepath.Ext(internal.PlainBase(path)) {
	case ".vcf", ".bcf":
		return FormatVariant
	case ".sam", ".bam", ".cram":
		return FormatAlignment
	case ".fa", ".fasta", ".fna", ".fq", ".fastq":
		return FormatSequence
	case ".gff", ".gff3", ".gtf":
		return FormatFeature
	default:
		return FormatTable
	}
}

// Options configure a scan. The zero Options scan every column of an
// auto-detected format without a region restriction.
type Options struct {
	// Format of the input; FormatAuto detects it from the file name.
	Format Format

	// Region restricts the scan to records overlapping a genomic
	// interval, written as contig, contig:start, or contig:start-end.
	Region string

	// AllowNoIndex permits a sequential fallback scan when a region
	// is given but no index file is present.
	AllowNoIndex bool

	// Columns restricts the scan to the named columns. Nil scans all
	// columns.
	Columns []string

	// TidyFormat makes variant scans emit one row per sample with a
	// SAMPLE_ID column, instead of one set of per-sample columns per
	// row.
	TidyFormat bool

	// StandardTags adds typed columns for well-known alignment
	// optional fields: READ_GROUP_ID, SAMPLE_ID resolved through the
	// header read groups, and EDIT_DISTANCE from the NM tag.
	StandardTags bool

	// AuxiliaryTags adds a map column with the remaining optional
	// fields to alignment scans.
	AuxiliaryTags bool

	// Reference is the FASTA file CRAM input was compressed against.
	Reference string

	// MatePath names the second file of a read pair for sequence
	// scans.
	MatePath string

	// Interleaved marks a single sequence file as holding mates in
	// alternating order.
	Interleaved bool

	// AttributesMap adds a decoded key/value map column to feature
	// scans next to the raw attributes column.
	AttributesMap bool

	// Header makes the first data line of a table scan a header
	// holding the column names.
	Header bool

	// HeaderNames sets the column names of a table scan explicitly.
	HeaderNames []string

	// AutoDetect infers the column types of a table scan from the
	// first data line instead of treating every column as VARCHAR.
	AutoDetect bool

	// ColumnTypes sets the column types of a table scan explicitly,
	// by type name, aligned with the columns. Shorter lists leave the
	// remaining columns VARCHAR.
	ColumnTypes []string
}
