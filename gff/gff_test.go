package gff

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestParseRecord(t *testing.T) {
	record, err := ParseRecord("chr1\thavana\tgene\t11869\t14409\t0.5\t+\t.\tgene_id \"ENSG1\";")
	if err != nil {
		t.Fatal(err)
	}
	if record.Seqname != "chr1" || record.Source != "havana" || record.Feature != "gene" {
		t.Errorf("unexpected record: %+v", record)
	}
	if record.Start != 11869 || record.End != 14409 {
		t.Errorf("unexpected coordinates: %v-%v", record.Start, record.End)
	}
	if record.Score != 0.5 {
		t.Errorf("unexpected score: %v", record.Score)
	}
	if record.Strand != "+" || record.Frame != "." {
		t.Errorf("unexpected strand/frame: %v/%v", record.Strand, record.Frame)
	}
}

func TestParseRecordMissingMarkers(t *testing.T) {
	record, err := ParseRecord("chr1\t.\texon\t.\t.\t.\t.\t.\t.")
	if err != nil {
		t.Fatal(err)
	}
	if record.Start != 0 || record.End != 0 {
		t.Errorf("missing coordinates should decode as 0, got %v-%v", record.Start, record.End)
	}
	if record.Score != nil {
		t.Errorf("missing score should decode as nil, got %v", record.Score)
	}
	// Other columns keep the literal dot.
	if record.Source != "." || record.Strand != "." || record.Attributes != "." {
		t.Errorf("unexpected record: %+v", record)
	}
}

func TestParseRecordErrors(t *testing.T) {
	for _, line := range []string{
		"chr1\thavana\tgene\t11869\t14409\t.\t+\t.",
		"chr1\thavana\tgene\tabc\t14409\t.\t+\t.\t.",
		"chr1\thavana\tgene\t11869\txyz\t.\t+\t.\t.",
		"chr1\thavana\tgene\t11869\t14409\tnotascore\t+\t.\t.",
	} {
		if _, err := ParseRecord(line); err == nil {
			t.Errorf("expected an error for %q", line)
		}
	}
}

func TestParseAttributesGTF(t *testing.T) {
	attrs := ParseAttributes(`gene_id "ENSG1"; gene_name "BRCA1"; level 2;`)
	if attrs["gene_id"] != "ENSG1" || attrs["gene_name"] != "BRCA1" || attrs["level"] != "2" {
		t.Errorf("unexpected attributes: %v", attrs)
	}
}

func TestParseAttributesGFF3(t *testing.T) {
	attrs := ParseAttributes("ID=gene:ENSG1;Name=BRCA1;biotype=protein_coding")
	if attrs["ID"] != "gene:ENSG1" || attrs["Name"] != "BRCA1" || attrs["biotype"] != "protein_coding" {
		t.Errorf("unexpected attributes: %v", attrs)
	}
}

func TestParseAttributesRepeatedKey(t *testing.T) {
	attrs := ParseAttributes(`tag "basic"; tag "CCDS";`)
	if attrs["tag"] != "CCDS" {
		t.Errorf("repeated keys should keep the last value, got %v", attrs["tag"])
	}
}

func TestParseAttributesBareKey(t *testing.T) {
	attrs := ParseAttributes("pseudo;ID=x")
	if value, found := attrs["pseudo"]; !found || value != "" {
		t.Errorf("bare keys should map to an empty value, got %v", attrs)
	}
}

func TestReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.gff3")
	content := "##gff-version 3\n" +
		"##sequence-region chr1 1 248956422\n" +
		"chr1\thavana\tgene\t11869\t14409\t.\t+\t.\tID=gene1\n" +
		"# a comment\n" +
		"chr1\thavana\texon\t11869\t12227\t.\t+\t.\tID=exon1;Parent=gene1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	reader, err := Open(path, "")
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()
	var records []*Record
	for {
		record, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		records = append(records, record)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %v", len(records))
	}
	if records[1].Feature != "exon" {
		t.Errorf("unexpected record: %+v", records[1])
	}
	contigs := reader.Contigs()
	if !contigs["chr1"] || len(contigs) != 1 {
		t.Errorf("unexpected contigs: %v", contigs)
	}
}
