package cmd

import (
	"io"
	"log"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/rgenomicsetl/htscan/internal"
	"github.com/rgenomicsetl/htscan/scan"
)

var scanOpts struct {
	format        string
	region        string
	allowNoIndex  bool
	columns       []string
	tidy          bool
	standardTags  bool
	auxTags       bool
	reference     string
	mate          string
	interleaved   bool
	attributesMap bool
	header        bool
	names         []string
	autoDetect    bool
	columnTypes   []string
	limit         int64
}

// addScanFlags registers the flags shared by the scan and schema
// commands, which both have to open the input the same way.
func addScanFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&scanOpts.format, "format", "", "input format (variant, alignment, sequence, feature, table); detected from the file name when empty")
	flags.StringVar(&scanOpts.region, "region", "", "restrict the scan to a genomic interval, written as contig, contig:start, or contig:start-end")
	flags.BoolVar(&scanOpts.allowNoIndex, "allow-no-index", false, "fall back to a sequential scan when a region is given but no index is present")
	flags.StringSliceVar(&scanOpts.columns, "columns", nil, "restrict the scan to the named columns")
	flags.BoolVar(&scanOpts.tidy, "tidy", false, "emit one row per sample of a variant file, with a SAMPLE_ID column")
	flags.BoolVar(&scanOpts.standardTags, "standard-tags", false, "add READ_GROUP_ID, SAMPLE_ID, and EDIT_DISTANCE columns to alignment scans")
	flags.BoolVar(&scanOpts.auxTags, "aux-tags", false, "add a TAGS map column with the remaining optional fields of alignments")
	flags.StringVar(&scanOpts.reference, "reference", "", "FASTA reference file for CRAM input")
	flags.StringVar(&scanOpts.mate, "mate", "", "second file of a sequence read pair")
	flags.BoolVar(&scanOpts.interleaved, "interleaved", false, "treat a single sequence file as holding mates in alternating order")
	flags.BoolVar(&scanOpts.attributesMap, "attributes-map", false, "add a decoded attributes_map column to feature scans")
	flags.BoolVar(&scanOpts.header, "header", false, "take the column names of a table scan from its first data line")
	flags.StringSliceVar(&scanOpts.names, "names", nil, "set the column names of a table scan explicitly")
	flags.BoolVar(&scanOpts.autoDetect, "auto-detect", false, "infer the column types of a table scan from its first data line")
	flags.StringSliceVar(&scanOpts.columnTypes, "column-types", nil, "set the column types of a table scan explicitly (BIGINT, DOUBLE, BOOLEAN, VARCHAR)")
}

func scanOptions() scan.Options {
	return scan.Options{
		Format:        scan.ParseFormat(scanOpts.format),
		Region:        scanOpts.region,
		AllowNoIndex:  scanOpts.allowNoIndex,
		Columns:       scanOpts.columns,
		TidyFormat:    scanOpts.tidy,
		StandardTags:  scanOpts.standardTags,
		AuxiliaryTags: scanOpts.auxTags,
		Reference:     scanOpts.reference,
		MatePath:      scanOpts.mate,
		Interleaved:   scanOpts.interleaved,
		AttributesMap: scanOpts.attributesMap,
		Header:        scanOpts.header,
		HeaderNames:   scanOpts.names,
		AutoDetect:    scanOpts.autoDetect,
		ColumnTypes:   scanOpts.columnTypes,
	}
}

func openScanner(path string) (scan.Scanner, error) {
	pathname, err := internal.FullPathname(path)
	if err != nil {
		return nil, err
	}
	return scan.Open(pathname, scanOptions())
}

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Stream the rows of a genomic file as NDJSON",
	Long: `Scan a genomic file and write its rows to standard output, one JSON
object per line keyed by column name. Null values are omitted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(args[0], os.Stdout)
	},
}

func init() {
	addScanFlags(scanCmd)
	scanCmd.Flags().Int64Var(&scanOpts.limit, "limit", 0, "stop after this many rows; 0 scans everything")
}

func runScan(path string, out io.Writer) error {
	scanner, err := openScanner(path)
	if err != nil {
		return err
	}
	defer scanner.Close()
	names := scanner.Schema().Names()
	encoder := json.NewEncoder(out)
	var count int64
	for {
		row, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		record := make(map[string]interface{}, len(names))
		for i, name := range names {
			if row[i] != nil {
				record[name] = row[i]
			}
		}
		if err := encoder.Encode(record); err != nil {
			return err
		}
		count++
		if scanOpts.limit > 0 && count >= scanOpts.limit {
			break
		}
	}
	for _, warning := range scanner.Warnings() {
		log.Println("Warning:", warning)
	}
	var rusage unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &rusage); err == nil {
		log.Printf("Scanned %v rows, maximum resident set size %v kB.", count, rusage.Maxrss)
	}
	return nil
}
