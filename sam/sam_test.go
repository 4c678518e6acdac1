package sam

import (
	"bufio"
	"strings"
	"testing"

	"github.com/rgenomicsetl/htscan/utils"
)

const testHeader = "@HD\tVN:1.6\tSO:coordinate\n" +
	"@SQ\tSN:chr1\tLN:248956422\n" +
	"@SQ\tSN:chr2\tLN:242193529\n" +
	"@RG\tID:rg1\tSM:sampleA\tPL:ILLUMINA\n" +
	"@RG\tID:rg2\tSM:sampleB\n" +
	"@PG\tID:bwa\tPN:bwa\n" +
	"@CO\tsome comment\n"

func TestParseHeader(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader(testHeader + "read1\t0\tchr1\t100\t60\t4M\t*\t0\t0\tACGT\tFFFF\n"))
	hdr, lines, err := ParseHeader(reader)
	if err != nil {
		t.Fatal(err)
	}
	if lines != 7 {
		t.Errorf("expected 7 header lines, got %v", lines)
	}
	if hdr.HD["SO"] != "coordinate" {
		t.Errorf("unexpected HD: %v", hdr.HD)
	}
	if len(hdr.SQ) != 2 || hdr.SQ[0]["SN"] != "chr1" {
		t.Errorf("unexpected SQ: %v", hdr.SQ)
	}
	if len(hdr.CO) != 1 || hdr.CO[0] != "some comment" {
		t.Errorf("unexpected CO: %v", hdr.CO)
	}
	contigs := hdr.Contigs()
	if !contigs["chr1"] || !contigs["chr2"] || len(contigs) != 2 {
		t.Errorf("unexpected contigs: %v", contigs)
	}
	samples := hdr.ReadGroupSamples()
	if samples["rg1"] != "sampleA" || samples["rg2"] != "sampleB" {
		t.Errorf("unexpected read group samples: %v", samples)
	}
	// The first alignment line stays in the reader.
	if data, err := reader.Peek(5); err != nil || string(data) != "read1" {
		t.Errorf("expected alignment line after header, got %v, %v", string(data), err)
	}
}

func TestParseHeaderEmptySQ(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("@HD\tVN:1.6\n"))
	hdr, _, err := ParseHeader(reader)
	if err != nil {
		t.Fatal(err)
	}
	if hdr.Contigs() != nil {
		t.Error("header without SQ lines should yield a nil contig set")
	}
}

func TestParseAlignment(t *testing.T) {
	var sc StringScanner
	sc.Reset("read1\t99\tchr1\t100\t60\t8M2D4M\tchr1\t250\t162\tACGTACGTACGT\tFFFFFFFFFFFF\tRG:Z:x1\tNM:i:2\tXZ:Z:foo")
	aln := sc.ParseAlignment()
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}
	if aln.QNAME != "read1" || aln.FLAG != 99 || aln.RNAME != "chr1" || aln.POS != 100 {
		t.Errorf("unexpected mandatory fields: %+v", aln)
	}
	if aln.MAPQ != 60 || aln.CIGAR != "8M2D4M" || aln.RNEXT != "chr1" || aln.PNEXT != 250 || aln.TLEN != 162 {
		t.Errorf("unexpected mandatory fields: %+v", aln)
	}
	if aln.SEQ != "ACGTACGTACGT" || aln.QUAL != "FFFFFFFFFFFF" {
		t.Errorf("unexpected sequence fields: %+v", aln)
	}
	if aln.ReadGroup() != "x1" {
		t.Errorf("unexpected read group %v", aln.ReadGroup())
	}
	if nm, ok := aln.TAGS.Get(NM); !ok || nm != int32(2) {
		t.Errorf("unexpected NM tag %v", nm)
	}
	if xz, ok := aln.TAGS.Get(utils.Intern("XZ")); !ok || xz != "foo" {
		t.Errorf("unexpected XZ tag %v", xz)
	}
	if !aln.IsMultiple() || aln.IsUnmapped() || !aln.IsFirst() {
		t.Errorf("unexpected flag predicates for flag %v", aln.FLAG)
	}
	// 8M2D4M covers 14 reference bases from position 100.
	if end := aln.End(); end != 113 {
		t.Errorf("End() = %v, want 113", end)
	}
}

func TestParseAlignmentNumericArray(t *testing.T) {
	var sc StringScanner
	sc.Reset("read1\t0\tchr1\t100\t60\t4M\t*\t0\t0\tACGT\tFFFF\tZC:B:i,1,2,3")
	aln := sc.ParseAlignment()
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}
	value, ok := aln.TAGS.Get(utils.Intern("ZC"))
	if !ok {
		t.Fatal("ZC tag missing")
	}
	ints, ok := value.([]int64)
	if !ok || len(ints) != 3 || ints[0] != 1 || ints[2] != 3 {
		t.Errorf("unexpected ZC value %v", value)
	}
}

func TestParseAlignmentMalformed(t *testing.T) {
	var sc StringScanner
	sc.Reset("read1\tnotanumber\tchr1\t100\t60\t4M\t*\t0\t0\tACGT\tFFFF")
	sc.ParseAlignment()
	if sc.Err() == nil {
		t.Error("expected a parse error for a non-numeric FLAG")
	}
}

func TestParseAlignmentTruncatedField(t *testing.T) {
	// A line ending in an optional field with its value cut off must
	// report a parse error instead of panicking.
	var sc StringScanner
	sc.Reset("read1\t0\tchr1\t100\t60\t4M\t*\t0\t0\tACGT\tFFFF\tXA:A:")
	sc.ParseAlignment()
	if sc.Err() == nil {
		t.Error("expected a parse error for a truncated optional field")
	}
}

func TestAlignmentEndUnmapped(t *testing.T) {
	aln := NewAlignment()
	aln.POS = 100
	aln.CIGAR = "*"
	if end := aln.End(); end != 100 {
		t.Errorf("End() = %v, want 100", end)
	}
}
