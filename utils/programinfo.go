package utils

const (
	// ProgramName is "htscan"
	ProgramName = "htscan"

	// ProgramVersion is the version of the htscan binary
	ProgramVersion = "0.3.1"

	// ProgramURL is the repository for the htscan source code
	ProgramURL = "http://github.com/rgenomicsetl/htscan"
)
