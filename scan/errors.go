package scan

import (
	"fmt"
)

// A HeaderError reports an input whose header section could not be
// read or decoded, so no schema can be derived from it.
type HeaderError struct {
	Path string
	Err  error
}

func (err *HeaderError) Error() string {
	return fmt.Sprintf("cannot read header of %v: %v", err.Path, err.Err)
}

func (err *HeaderError) Unwrap() error {
	return err.Err
}

// An AmbiguousSchemaError reports an input for which no column layout
// can be determined, for example a headerless file with no data line
// to sample.
type AmbiguousSchemaError struct {
	Path   string
	Reason string
}

func (err *AmbiguousSchemaError) Error() string {
	return fmt.Sprintf("cannot determine schema of %v: %v", err.Path, err.Reason)
}

// A MalformedRecordError reports a record that could not be decoded.
// Record is the zero-based index of the record in the scan.
type MalformedRecordError struct {
	Path   string
	Record int64
	Err    error
}

func (err *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %v in %v: %v", err.Record, err.Path, err.Err)
}

func (err *MalformedRecordError) Unwrap() error {
	return err.Err
}
