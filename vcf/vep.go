package vcf

import (
	"strings"
)

// VepInfoIDs lists the INFO identifiers under which variant effect
// annotations are commonly emitted, by VEP, bcftools csq, and SnpEff
// respectively.
var VepInfoIDs = []string{"CSQ", "BCSQ", "ANN"}

// VepFields extracts the annotation field names from the Description
// of an INFO declaration. Annotation tools document their pipe
// separated sub-fields as "... Format: Allele|Consequence|...". It
// returns nil when the declaration does not carry such a format
// description.
func VepFields(info *FormatInformation) []string {
	if info == nil || info.Description == "" {
		return nil
	}
	const marker = "Format: "
	pos := strings.Index(info.Description, marker)
	if pos < 0 {
		return nil
	}
	spec := info.Description[pos+len(marker):]
	if end := strings.IndexAny(spec, "\"'"); end >= 0 {
		spec = spec[:end]
	}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}
	fields := strings.Split(spec, "|")
	for i, field := range fields {
		fields[i] = strings.TrimSpace(field)
	}
	return fields
}

// FindVepInfo returns the first INFO declaration carrying annotation
// fields, together with those field names.
func (hdr *Header) FindVepInfo() (*FormatInformation, []string) {
	for _, id := range VepInfoIDs {
		if info := hdr.FindInfo(id); info != nil {
			if fields := VepFields(info); fields != nil {
				return info, fields
			}
		}
	}
	return nil, nil
}

// vepIntegerFields are annotation fields whose values are whole
// numbers, keyed by their conventional VEP names.
var vepIntegerFields = map[string]bool{
	"DISTANCE":    true,
	"STRAND":      true,
	"TSL":         true,
	"GENE_PHENO":  true,
	"HGVS_OFFSET": true,
}

// VepFieldType infers the value type of an annotation field from its
// name. Allele frequency fields and motif scores are floating point,
// a handful of well-known fields are integers, and everything else
// stays a string.
func VepFieldType(name string) Type {
	if vepIntegerFields[name] {
		return Integer
	}
	if name == "AF" || strings.HasSuffix(name, "_AF") || name == "MOTIF_SCORE_CHANGE" {
		return Float
	}
	return String
}

// ParseVepValue splits the raw value of an annotation INFO entry into
// its per-transcript field lists. Transcripts are separated by
// commas, fields within a transcript by pipes. Transcripts with fewer
// fields than declared are padded with empty strings, so every inner
// slice has length nfields.
func ParseVepValue(raw string, nfields int) [][]string {
	if raw == "" {
		return nil
	}
	transcripts := strings.Split(raw, ",")
	result := make([][]string, len(transcripts))
	for i, transcript := range transcripts {
		fields := strings.Split(transcript, "|")
		if len(fields) < nfields {
			padded := make([]string, nfields)
			copy(padded, fields)
			fields = padded
		} else if len(fields) > nfields {
			fields = fields[:nfields]
		}
		result[i] = fields
	}
	return result
}
