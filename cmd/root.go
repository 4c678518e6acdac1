package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/rgenomicsetl/htscan/utils"
)

// ProgramMessage is the first line printed when the htscan binary is
// called.
var ProgramMessage string

var logPath string

var rootCmd = &cobra.Command{
	Use:   "htscan",
	Short: "Schema-aware scans over genomic file formats",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stderr, ProgramMessage)
		if logPath != "" {
			setLogOutput(logPath)
		}
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	ProgramMessage = fmt.Sprint(
		utils.ProgramName, " version ", utils.ProgramVersion,
		" compiled with ", runtime.Version(),
		" - see ", utils.ProgramURL, " for more information.",
	)
	rootCmd.Long = ProgramMessage + `

htscan turns VCF/BCF, SAM/BAM/CRAM, FASTA/FASTQ, GFF/GTF, and generic
tab-separated files into relational rows with a schema derived from
their headers. Binary and indexed inputs are decoded through samtools,
bcftools, and tabix, which must be on the PATH for those inputs.`
	rootCmd.PersistentFlags().StringVar(&logPath, "log-path", "", "write a log file under this directory")
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(scanCmd)
}

func createLogFilename() string {
	t := time.Now()
	zone, _ := t.Zone()
	return fmt.Sprintf("htscan-%d-%02d-%02d-%02d-%02d-%02d-%09d-%v.log",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), zone)
}

// setLogOutput redirects stderr into a log file while keeping a copy
// on the original stderr, so messages from delegated external
// commands end up in the log too.
func setLogOutput(path string) {
	fullPath := filepath.Join(path, createLogFilename())
	if err := os.MkdirAll(filepath.Dir(fullPath), 0700); err != nil {
		log.Panic(err)
	}
	f, err := os.Create(fullPath)
	if err != nil {
		log.Panic(err)
	}
	fmt.Fprintln(f, ProgramMessage)

	orgStderr, err := unix.Dup(2)
	if err != nil {
		log.Panic(err)
	}
	ferr := os.NewFile(uintptr(orgStderr), "/dev/stderr")
	if err := unix.Dup2(int(f.Fd()), 2); err != nil {
		log.Panic(err)
	}

	multi := io.MultiWriter(f, ferr)

	log.SetOutput(multi)
	log.Println("Created log file at", fullPath)
	log.Println("Command line:", os.Args)
}
