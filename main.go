// htscan scans genomic file formats into relational rows.
//
// Please see https://github.com/rgenomicsetl/htscan for a
// documentation of the tool, and the package documentation for the
// API.
package main

import (
	"os"

	"github.com/rgenomicsetl/htscan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
