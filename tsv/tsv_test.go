package tsv

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.tsv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readAll(t *testing.T, reader *Reader) [][]string {
	t.Helper()
	var rows [][]string
	for {
		fields, err := reader.Next()
		if err == io.EOF {
			return rows
		}
		if err != nil {
			t.Fatal(err)
		}
		rows = append(rows, fields)
	}
}

func TestSampledLayout(t *testing.T) {
	path := writeFile(t, "# meta line\nchr1\t100\tfoo\nchr1\t200\tbar\n")
	reader, err := Open(path, "", Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()
	names := reader.Names()
	if len(names) != 3 || names[0] != "column1" || names[2] != "column3" {
		t.Errorf("unexpected names: %v", names)
	}
	rows := readAll(t, reader)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %v", len(rows))
	}
	// The sampled line is still delivered as data.
	if rows[0][0] != "chr1" || rows[0][2] != "foo" {
		t.Errorf("unexpected first row: %v", rows[0])
	}
}

func TestHeaderLayout(t *testing.T) {
	path := writeFile(t, "contig\tpos\tname\nchr1\t100\tfoo\n")
	reader, err := Open(path, "", Options{Header: true})
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()
	names := reader.Names()
	if len(names) != 3 || names[0] != "contig" || names[1] != "pos" {
		t.Errorf("unexpected names: %v", names)
	}
	rows := readAll(t, reader)
	if len(rows) != 1 || rows[0][1] != "100" {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestExplicitNames(t *testing.T) {
	path := writeFile(t, "chr1\t100\n")
	reader, err := Open(path, "", Options{Names: []string{"contig", "pos"}})
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()
	if names := reader.Names(); names[0] != "contig" {
		t.Errorf("unexpected names: %v", names)
	}
	rows := readAll(t, reader)
	if len(rows) != 1 {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestEmptyFile(t *testing.T) {
	path := writeFile(t, "# only meta\n")
	reader, err := Open(path, "", Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()
	if reader.Names() != nil {
		t.Errorf("an empty file should yield no names, got %v", reader.Names())
	}
	if rows := readAll(t, reader); rows != nil {
		t.Errorf("an empty file should yield no rows, got %v", rows)
	}
}

func TestCustomComment(t *testing.T) {
	path := writeFile(t, "%meta\nchr1\t100\n")
	reader, err := Open(path, "", Options{Comment: '%'})
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()
	if names := reader.Names(); len(names) != 2 {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestFieldCountDrift(t *testing.T) {
	path := writeFile(t, "chr1\t100\tfoo\nchr1\t200\nchr1\t300\tbar\textra\n")
	reader, err := Open(path, "", Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()
	rows := readAll(t, reader)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %v", len(rows))
	}
	// Short and long rows are delivered as-is; the caller reconciles
	// them with the column layout.
	if len(rows[1]) != 2 || len(rows[2]) != 4 {
		t.Errorf("unexpected field counts: %v, %v", len(rows[1]), len(rows[2]))
	}
}
