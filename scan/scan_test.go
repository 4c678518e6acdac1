package scan

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgenomicsetl/htscan/fastq"
	"github.com/rgenomicsetl/htscan/region"
	"github.com/rgenomicsetl/htscan/utils"
)

const testVcf = "##fileformat=VCFv4.3\n" +
	"##contig=<ID=chr1>\n" +
	"##contig=<ID=chr2>\n" +
	"##INFO=<ID=DP,Number=1,Type=Integer,Description=\"Total Depth\">\n" +
	"##INFO=<ID=DB,Number=0,Type=Flag,Description=\"dbSNP membership\">\n" +
	"##FORMAT=<ID=GT,Number=1,Type=String,Description=\"Genotype\">\n" +
	"##FORMAT=<ID=DP,Number=1,Type=Integer,Description=\"Read Depth\">\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tsampleA\tsampleB\n" +
	"chr1\t100\t.\tA\tG\t50\tPASS\tDP=10;DB\tGT:DP\t0/1:12\t1/1:9\n" +
	"chr1\t200\trs1\tC\tT\t.\tq10\tDP=7\tGT\t0/0\t0/1\n" +
	"chr2\t300\t.\tG\tA\t10\t.\tDP=3\tGT:DP\t0/1:4\t./.:.\n"

const testSam = "@HD\tVN:1.6\n" +
	"@SQ\tSN:chr1\tLN:1000\n" +
	"@RG\tID:x1\tSM:sampleA\n" +
	"read1\t0\tchr1\t100\t60\t4M\t*\t0\t0\tACGT\tFFFF\tRG:Z:x1\tNM:i:1\tXZ:Z:foo\n" +
	"read2\t4\t*\t0\t0\t*\t*\t0\t0\tAAAA\tFFFF\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func collectRows(t *testing.T, scanner Scanner) [][]interface{} {
	t.Helper()
	var rows [][]interface{}
	for {
		row, err := scanner.Next()
		if err == io.EOF {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"in.vcf":      FormatVariant,
		"in.vcf.gz":   FormatVariant,
		"in.bcf":      FormatVariant,
		"in.bam":      FormatAlignment,
		"in.sam.gz":   FormatAlignment,
		"in.fastq.gz": FormatSequence,
		"in.fa":       FormatSequence,
		"in.gtf":      FormatFeature,
		"in.gff3.gz":  FormatFeature,
		"in.bed.gz":   FormatTable,
		"in.tsv":      FormatTable,
	}
	for path, want := range cases {
		assert.Equal(t, want, DetectFormat(path), path)
	}
}

func TestVariantSchemaWide(t *testing.T) {
	path := writeFile(t, "in.vcf", testVcf)
	scanner, err := Open(path, Options{})
	require.NoError(t, err)
	defer scanner.Close()
	want := []string{
		"CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER",
		"INFO_DP", "INFO_DB",
		"FORMAT_GT_sampleA", "FORMAT_GT_sampleB",
		"FORMAT_DP_sampleA", "FORMAT_DP_sampleB",
	}
	assert.Equal(t, want, scanner.Schema().Names())
}

func TestVariantScanWide(t *testing.T) {
	path := writeFile(t, "in.vcf", testVcf)
	scanner, err := Open(path, Options{})
	require.NoError(t, err)
	defer scanner.Close()
	schema := scanner.Schema()
	rows := collectRows(t, scanner)
	require.Len(t, rows, 3)

	row := rows[0]
	assert.Equal(t, "chr1", row[schema.Find("CHROM")])
	assert.Equal(t, int64(100), row[schema.Find("POS")])
	assert.Nil(t, row[schema.Find("ID")])
	assert.Equal(t, "A", row[schema.Find("REF")])
	assert.Equal(t, []interface{}{"G"}, row[schema.Find("ALT")])
	assert.Equal(t, 50.0, row[schema.Find("QUAL")])
	assert.Equal(t, []interface{}{"PASS"}, row[schema.Find("FILTER")])
	assert.Equal(t, int64(10), row[schema.Find("INFO_DP")])
	assert.Equal(t, true, row[schema.Find("INFO_DB")])
	assert.Equal(t, "0/1", row[schema.Find("FORMAT_GT_sampleA")])
	assert.Equal(t, int64(12), row[schema.Find("FORMAT_DP_sampleA")])
	assert.Equal(t, int64(9), row[schema.Find("FORMAT_DP_sampleB")])

	assert.Equal(t, "rs1", rows[1][schema.Find("ID")])
	assert.Nil(t, rows[1][schema.Find("QUAL")])
	assert.Equal(t, []interface{}{"q10"}, rows[1][schema.Find("FILTER")])
	assert.Equal(t, false, rows[1][schema.Find("INFO_DB")])
	assert.Nil(t, rows[1][schema.Find("FORMAT_DP_sampleA")])

	// A missing FILTER means the record passed.
	assert.Equal(t, []interface{}{"PASS"}, rows[2][schema.Find("FILTER")])
	assert.Nil(t, rows[2][schema.Find("FORMAT_DP_sampleB")])
}

func TestVariantScanTidy(t *testing.T) {
	path := writeFile(t, "in.vcf", testVcf)
	scanner, err := Open(path, Options{TidyFormat: true})
	require.NoError(t, err)
	defer scanner.Close()
	schema := scanner.Schema()
	assert.Equal(t, []string{
		"CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER",
		"INFO_DP", "INFO_DB", "SAMPLE_ID", "FORMAT_GT", "FORMAT_DP",
	}, schema.Names())

	rows := collectRows(t, scanner)
	// Three variants with two samples each.
	require.Len(t, rows, 6)
	sampleCol := schema.Find("SAMPLE_ID")
	assert.Equal(t, "sampleA", rows[0][sampleCol])
	assert.Equal(t, "sampleB", rows[1][sampleCol])
	// The shared columns of the two rows of a variant are identical.
	for col := 0; col < sampleCol; col++ {
		assert.Equal(t, rows[0][col], rows[1][col], schema[col].Name)
	}
	assert.Equal(t, int64(12), rows[0][schema.Find("FORMAT_DP")])
	assert.Equal(t, int64(9), rows[1][schema.Find("FORMAT_DP")])
}

func TestVariantProjection(t *testing.T) {
	path := writeFile(t, "in.vcf", testVcf)
	scanner, err := Open(path, Options{Columns: []string{"POS", "INFO_DP"}})
	require.NoError(t, err)
	defer scanner.Close()
	schema := scanner.Schema()
	rows := collectRows(t, scanner)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(100), rows[0][schema.Find("POS")])
	assert.Equal(t, int64(10), rows[0][schema.Find("INFO_DP")])
	assert.Nil(t, rows[0][schema.Find("CHROM")])
	assert.Nil(t, rows[0][schema.Find("FORMAT_GT_sampleA")])
}

func TestVariantProjectionUnknownColumn(t *testing.T) {
	path := writeFile(t, "in.vcf", testVcf)
	_, err := Open(path, Options{Columns: []string{"NO_SUCH_COLUMN"}})
	require.Error(t, err)
}

const testBadVcf = "##fileformat=VCFv4.3\n" +
	"##contig=<ID=chr1>\n" +
	"##INFO=<ID=DP,Number=1,Type=Integer,Description=\"Total Depth\">\n" +
	"##FORMAT=<ID=GT,Number=1,Type=String,Description=\"Genotype\">\n" +
	"##FORMAT=<ID=DP,Number=1,Type=Integer,Description=\"Read Depth\">\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tsampleA\n" +
	"chr1\t100\t.\tA\tG\t.\tPASS\tDP=notanumber\tGT:DP\t0/1:alsobad\n"

func TestVariantProjectionSkipsBadInfo(t *testing.T) {
	// Content that cannot decode under its declared type must not
	// fail the scan when its column is not projected.
	path := writeFile(t, "in.vcf", testBadVcf)
	scanner, err := Open(path, Options{Columns: []string{"POS"}})
	require.NoError(t, err)
	defer scanner.Close()
	schema := scanner.Schema()
	rows := collectRows(t, scanner)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(100), rows[0][schema.Find("POS")])
}

func TestVariantProjectionSkipsBadFormat(t *testing.T) {
	path := writeFile(t, "in.vcf", testBadVcf)
	scanner, err := Open(path, Options{Columns: []string{"FORMAT_GT_sampleA"}})
	require.NoError(t, err)
	defer scanner.Close()
	schema := scanner.Schema()
	rows := collectRows(t, scanner)
	require.Len(t, rows, 1)
	assert.Equal(t, "0/1", rows[0][schema.Find("FORMAT_GT_sampleA")])
}

func TestVariantProjectionDecodesProjected(t *testing.T) {
	// Projecting the bad column still surfaces the decode error.
	path := writeFile(t, "in.vcf", testBadVcf)
	scanner, err := Open(path, Options{Columns: []string{"INFO_DP"}})
	require.NoError(t, err)
	defer scanner.Close()
	_, err = scanner.Next()
	var malformed *MalformedRecordError
	require.ErrorAs(t, err, &malformed)
}

func TestVariantRegionSequential(t *testing.T) {
	path := writeFile(t, "in.vcf", testVcf)
	scanner, err := Open(path, Options{Region: "chr1:150-250", AllowNoIndex: true})
	require.NoError(t, err)
	defer scanner.Close()
	schema := scanner.Schema()
	rows := collectRows(t, scanner)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(200), rows[0][schema.Find("POS")])
	require.NotEmpty(t, scanner.Warnings())
}

func TestVariantRegionStrayIndex(t *testing.T) {
	// An index file next to a plain VCF cannot slice it; the scan
	// must fall back to sequential filtering rather than return the
	// whole file.
	path := writeFile(t, "in.vcf", testVcf)
	require.NoError(t, os.WriteFile(path+".tbi", []byte{}, 0644))
	scanner, err := Open(path, Options{Region: "chr1:150-250", AllowNoIndex: true})
	require.NoError(t, err)
	defer scanner.Close()
	schema := scanner.Schema()
	rows := collectRows(t, scanner)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(200), rows[0][schema.Find("POS")])

	_, err = Open(path, Options{Region: "chr1:150-250"})
	var indexErr *region.IndexRequiredError
	require.ErrorAs(t, err, &indexErr)
}

func TestVariantRegionUnknownContig(t *testing.T) {
	path := writeFile(t, "in.vcf", testVcf)
	scanner, err := Open(path, Options{Region: "chrX:1-100"})
	require.NoError(t, err)
	defer scanner.Close()
	rows := collectRows(t, scanner)
	assert.Empty(t, rows)
	require.NotEmpty(t, scanner.Warnings())
	assert.Contains(t, scanner.Warnings()[0], "chrX")
}

func TestVariantRegionRequiresIndex(t *testing.T) {
	path := writeFile(t, "in.vcf", testVcf)
	_, err := Open(path, Options{Region: "chr1:1-1000"})
	var indexErr *region.IndexRequiredError
	require.ErrorAs(t, err, &indexErr)
}

func TestVariantRegionMalformed(t *testing.T) {
	path := writeFile(t, "in.vcf", testVcf)
	_, err := Open(path, Options{Region: "chr1:200-100"})
	var regionErr *region.RegionError
	require.ErrorAs(t, err, &regionErr)
}

func TestVariantMalformedRecord(t *testing.T) {
	content := "##fileformat=VCFv4.3\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"chr1\tnotapos\t.\tA\tG\t.\tPASS\t.\n"
	path := writeFile(t, "in.vcf", content)
	scanner, err := Open(path, Options{})
	require.NoError(t, err)
	defer scanner.Close()
	_, err = scanner.Next()
	var malformed *MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, int64(0), malformed.Record)
}

func TestVariantHeaderUnreadable(t *testing.T) {
	path := writeFile(t, "in.vcf", "this is not a vcf\n")
	_, err := Open(path, Options{})
	var headerErr *HeaderError
	require.ErrorAs(t, err, &headerErr)
}

func TestVariantReopenIdempotent(t *testing.T) {
	path := writeFile(t, "in.vcf", testVcf)
	first, err := Open(path, Options{})
	require.NoError(t, err)
	rows1 := collectRows(t, first)
	require.NoError(t, first.Close())
	second, err := Open(path, Options{})
	require.NoError(t, err)
	rows2 := collectRows(t, second)
	require.NoError(t, second.Close())
	assert.Equal(t, rows1, rows2)
}

func TestVariantVepColumns(t *testing.T) {
	content := "##fileformat=VCFv4.3\n" +
		"##INFO=<ID=CSQ,Number=.,Type=String,Description=\"Consequence annotations. Format: Allele|Consequence|DISTANCE|gnomAD_AF\">\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"chr1\t100\t.\tA\tG\t.\tPASS\tCSQ=G|missense_variant|12|0.25,G|intron_variant||\n"
	path := writeFile(t, "in.vcf", content)
	scanner, err := Open(path, Options{})
	require.NoError(t, err)
	defer scanner.Close()
	schema := scanner.Schema()
	assert.Equal(t, []string{
		"CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER",
		"VEP_Allele", "VEP_Consequence", "VEP_DISTANCE", "VEP_gnomAD_AF",
	}, schema.Names())
	assert.Equal(t, Int64List, schema[schema.Find("VEP_DISTANCE")].Type)
	assert.Equal(t, DoubleList, schema[schema.Find("VEP_gnomAD_AF")].Type)

	rows := collectRows(t, scanner)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, []interface{}{"missense_variant", "intron_variant"}, row[schema.Find("VEP_Consequence")])
	assert.Equal(t, []interface{}{int64(12), nil}, row[schema.Find("VEP_DISTANCE")])
	assert.Equal(t, []interface{}{0.25, nil}, row[schema.Find("VEP_gnomAD_AF")])
}

func TestAlignmentScan(t *testing.T) {
	path := writeFile(t, "in.sam", testSam)
	scanner, err := Open(path, Options{StandardTags: true, AuxiliaryTags: true})
	require.NoError(t, err)
	defer scanner.Close()
	schema := scanner.Schema()
	rows := collectRows(t, scanner)
	require.Len(t, rows, 2)

	row := rows[0]
	assert.Equal(t, "read1", row[schema.Find("QNAME")])
	assert.Equal(t, int64(0), row[schema.Find("FLAG")])
	assert.Equal(t, "chr1", row[schema.Find("RNAME")])
	assert.Equal(t, int64(100), row[schema.Find("POS")])
	assert.Equal(t, "x1", row[schema.Find("READ_GROUP_ID")])
	assert.Equal(t, "sampleA", row[schema.Find("SAMPLE_ID")])
	assert.Equal(t, int64(1), row[schema.Find("EDIT_DISTANCE")])
	assert.Equal(t, utils.StringMap{"XZ": "foo"}, row[schema.Find("TAGS")])

	// Alignments without the optional fields yield nulls.
	assert.Nil(t, rows[1][schema.Find("READ_GROUP_ID")])
	assert.Nil(t, rows[1][schema.Find("SAMPLE_ID")])
	assert.Nil(t, rows[1][schema.Find("EDIT_DISTANCE")])
	assert.Nil(t, rows[1][schema.Find("TAGS")])
}

func TestAlignmentSchemaDefault(t *testing.T) {
	path := writeFile(t, "in.sam", testSam)
	scanner, err := Open(path, Options{})
	require.NoError(t, err)
	defer scanner.Close()
	assert.Equal(t, []string{
		"QNAME", "FLAG", "RNAME", "POS", "MAPQ", "CIGAR",
		"RNEXT", "PNEXT", "TLEN", "SEQ", "QUAL",
	}, scanner.Schema().Names())
}

func TestAlignmentRegionSequential(t *testing.T) {
	path := writeFile(t, "in.sam", testSam)
	scanner, err := Open(path, Options{Region: "chr1:100-200", AllowNoIndex: true})
	require.NoError(t, err)
	defer scanner.Close()
	rows := collectRows(t, scanner)
	require.Len(t, rows, 1)
	assert.Equal(t, "read1", rows[0][0])
}

func TestSequenceScan(t *testing.T) {
	path := writeFile(t, "in.fastq", "@read1 lane1\nACGT\n+\nFFFF\n")
	scanner, err := Open(path, Options{})
	require.NoError(t, err)
	defer scanner.Close()
	schema := scanner.Schema()
	assert.Equal(t, []string{"NAME", "DESCRIPTION", "SEQUENCE", "QUALITY"}, schema.Names())
	rows := collectRows(t, scanner)
	require.Len(t, rows, 1)
	assert.Equal(t, "read1", rows[0][0])
	assert.Equal(t, "lane1", rows[0][1])
	assert.Equal(t, "ACGT", rows[0][2])
	assert.Equal(t, "FFFF", rows[0][3])
}

func TestSequenceScanFasta(t *testing.T) {
	path := writeFile(t, "in.fa", ">seq1\nACGT\n")
	scanner, err := Open(path, Options{})
	require.NoError(t, err)
	defer scanner.Close()
	rows := collectRows(t, scanner)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0][1], "description")
	assert.Nil(t, rows[0][3], "quality")
}

func TestSequenceScanEmpty(t *testing.T) {
	path := writeFile(t, "in.fastq", "")
	scanner, err := Open(path, Options{})
	require.NoError(t, err)
	defer scanner.Close()
	assert.Empty(t, collectRows(t, scanner))
}

func TestSequenceScanInterleaved(t *testing.T) {
	path := writeFile(t, "in.fastq",
		"@read1/1\nACGT\n+\nFFFF\n@read1/2\nTTTT\n+\nFFFF\n")
	scanner, err := Open(path, Options{Interleaved: true})
	require.NoError(t, err)
	defer scanner.Close()
	schema := scanner.Schema()
	rows := collectRows(t, scanner)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0][schema.Find("MATE")])
	assert.Equal(t, int64(2), rows[1][schema.Find("MATE")])
	assert.Equal(t, "read1", rows[0][schema.Find("PAIR_ID")])
	assert.Equal(t, "read1", rows[1][schema.Find("PAIR_ID")])
}

func TestSequenceScanPairMismatch(t *testing.T) {
	path1 := writeFile(t, "r1.fastq", "@read1/1\nACGT\n+\nFFFF\n")
	path2 := writeFile(t, "r2.fastq", "@read9/2\nTTTT\n+\nFFFF\n")
	scanner, err := Open(path1, Options{MatePath: path2})
	require.NoError(t, err)
	defer scanner.Close()
	_, err = scanner.Next()
	var pairingErr *fastq.PairingError
	require.ErrorAs(t, err, &pairingErr)
}

func TestSequenceScanOddInterleaved(t *testing.T) {
	path := writeFile(t, "in.fastq",
		"@read1/1\nACGT\n+\nFFFF\n@read1/2\nTTTT\n+\nFFFF\n@read2/1\nCCCC\n+\nFFFF\n")
	scanner, err := Open(path, Options{Interleaved: true})
	require.NoError(t, err)
	defer scanner.Close()
	_, err = scanner.Next()
	require.NoError(t, err)
	_, err = scanner.Next()
	require.NoError(t, err)
	_, err = scanner.Next()
	var trailingErr *fastq.UnpairedTrailingError
	require.ErrorAs(t, err, &trailingErr)
}

func TestSequenceRegionUnsupported(t *testing.T) {
	path := writeFile(t, "in.fastq", "@read1\nACGT\n+\nFFFF\n")
	_, err := Open(path, Options{Region: "chr1:1-10"})
	var regionErr *region.RegionError
	require.ErrorAs(t, err, &regionErr)
}

func TestFeatureScan(t *testing.T) {
	content := "##gff-version 3\n" +
		"chr1\thavana\tgene\t11869\t14409\t0.5\t+\t.\tgene_id \"ENSG1\"; gene_name \"BRCA1\";\n" +
		"chr1\thavana\texon\t11869\t12227\t.\t+\t.\tID=exon1;Parent=gene1\n"
	path := writeFile(t, "in.gtf", content)
	scanner, err := Open(path, Options{AttributesMap: true})
	require.NoError(t, err)
	defer scanner.Close()
	schema := scanner.Schema()
	assert.Equal(t, []string{
		"seqname", "source", "feature", "start", "end",
		"score", "strand", "frame", "attributes", "attributes_map",
	}, schema.Names())
	rows := collectRows(t, scanner)
	require.Len(t, rows, 2)
	assert.Equal(t, "gene", rows[0][schema.Find("feature")])
	assert.Equal(t, int64(11869), rows[0][schema.Find("start")])
	assert.Equal(t, 0.5, rows[0][schema.Find("score")])
	assert.Nil(t, rows[1][schema.Find("score")])
	attrs := rows[0][schema.Find("attributes_map")].(utils.StringMap)
	assert.Equal(t, "ENSG1", attrs["gene_id"])
	attrs = rows[1][schema.Find("attributes_map")].(utils.StringMap)
	assert.Equal(t, "exon1", attrs["ID"])
}

func TestFeatureRegionSequential(t *testing.T) {
	content := "chr1\t.\tgene\t100\t200\t.\t+\t.\t.\n" +
		"chr1\t.\tgene\t500\t600\t.\t+\t.\t.\n"
	path := writeFile(t, "in.gff3", content)
	scanner, err := Open(path, Options{Region: "chr1:150-300", AllowNoIndex: true})
	require.NoError(t, err)
	defer scanner.Close()
	rows := collectRows(t, scanner)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(100), rows[0][3])
}

func TestTableScanSampled(t *testing.T) {
	path := writeFile(t, "in.tsv", "# header comment\nchr1\t100\tfoo\nchr1\t200\tbar\n")
	scanner, err := Open(path, Options{})
	require.NoError(t, err)
	defer scanner.Close()
	schema := scanner.Schema()
	assert.Equal(t, []string{"column1", "column2", "column3"}, schema.Names())
	for _, col := range schema {
		assert.Equal(t, Varchar, col.Type)
		assert.True(t, col.Nullable)
	}
	rows := collectRows(t, scanner)
	require.Len(t, rows, 2)
	assert.Equal(t, "chr1", rows[0][0])
	assert.Equal(t, "bar", rows[1][2])
}

func TestTableScanDrift(t *testing.T) {
	path := writeFile(t, "in.tsv", "chr1\t100\tfoo\nchr1\t200\nchr1\t300\tbar\textra\n")
	scanner, err := Open(path, Options{})
	require.NoError(t, err)
	defer scanner.Close()
	rows := collectRows(t, scanner)
	require.Len(t, rows, 3)
	// Short rows pad with nulls, long rows drop the excess.
	assert.Nil(t, rows[1][2])
	assert.Equal(t, "bar", rows[2][2])
	assert.Len(t, rows[2], 3)
	require.NotEmpty(t, scanner.Warnings())
}

func TestTableScanAmbiguousSchema(t *testing.T) {
	path := writeFile(t, "in.tsv", "# nothing but comments\n")
	_, err := Open(path, Options{})
	var ambiguous *AmbiguousSchemaError
	require.ErrorAs(t, err, &ambiguous)

	path = writeFile(t, "empty.tsv", "")
	_, err = Open(path, Options{})
	require.ErrorAs(t, err, &ambiguous)
}

func TestTableScanColumnTypes(t *testing.T) {
	path := writeFile(t, "in.tsv", "chr1\t100\t0.5\t.\n")
	scanner, err := Open(path, Options{
		HeaderNames: []string{"contig", "pos", "score", "extra"},
		ColumnTypes: []string{"VARCHAR", "BIGINT", "DOUBLE"},
	})
	require.NoError(t, err)
	defer scanner.Close()
	schema := scanner.Schema()
	assert.Equal(t, Int64, schema[1].Type)
	assert.Equal(t, Double, schema[2].Type)
	assert.Equal(t, Varchar, schema[3].Type)
	rows := collectRows(t, scanner)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(100), rows[0][1])
	assert.Equal(t, 0.5, rows[0][2])
	assert.Equal(t, ".", rows[0][3])
}

func TestTableScanColumnTypeMismatch(t *testing.T) {
	path := writeFile(t, "in.tsv", "chr1\tnotanumber\n")
	scanner, err := Open(path, Options{
		HeaderNames: []string{"contig", "pos"},
		ColumnTypes: []string{"VARCHAR", "BIGINT"},
	})
	require.NoError(t, err)
	defer scanner.Close()
	_, err = scanner.Next()
	var malformed *MalformedRecordError
	require.ErrorAs(t, err, &malformed)
}

func TestTableScanAutoDetect(t *testing.T) {
	path := writeFile(t, "in.tsv", "chr1\t100\t0.5\nchr2\t200\t.\n")
	scanner, err := Open(path, Options{AutoDetect: true})
	require.NoError(t, err)
	defer scanner.Close()
	schema := scanner.Schema()
	assert.Equal(t, Varchar, schema[0].Type)
	assert.Equal(t, Int64, schema[1].Type)
	assert.Equal(t, Double, schema[2].Type)
	rows := collectRows(t, scanner)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(100), rows[0][1])
	assert.Equal(t, 0.5, rows[0][2])
	// The missing marker is null in a typed column.
	assert.Nil(t, rows[1][2])
}

func TestSequencePairOptionsConflict(t *testing.T) {
	path := writeFile(t, "in.fastq", "@read1\nACGT\n+\nFFFF\n")
	_, err := Open(path, Options{MatePath: path, Interleaved: true})
	require.Error(t, err)
}

func TestTableScanExplicitNames(t *testing.T) {
	path := writeFile(t, "in.tsv", "chr1\t100\n")
	scanner, err := Open(path, Options{HeaderNames: []string{"contig", "pos"}})
	require.NoError(t, err)
	defer scanner.Close()
	assert.Equal(t, []string{"contig", "pos"}, scanner.Schema().Names())
	rows := collectRows(t, scanner)
	require.Len(t, rows, 1)
}

func TestErrorsUnwrap(t *testing.T) {
	inner := errors.New("boom")
	assert.ErrorIs(t, &HeaderError{Path: "x", Err: inner}, inner)
	assert.ErrorIs(t, &MalformedRecordError{Path: "x", Err: inner}, inner)
}
