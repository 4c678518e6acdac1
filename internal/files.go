package internal

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

type (
	// An InputFile is a source of decompressed text records. It either
	// wraps a plain file, or the stdout pipe of an external command
	// such as samtools or tabix that decodes a binary or indexed file
	// on our behalf.
	InputFile struct {
		rc io.ReadCloser
		*bufio.Reader
		*exec.Cmd
	}
)

// OpenPlain opens a regular file, or stdin when the name is
// /dev/stdin, for buffered reading.
func OpenPlain(name string) (*InputFile, error) {
	if name == "/dev/stdin" {
		return &InputFile{os.Stdin, bufio.NewReader(os.Stdin), nil}, nil
	}
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return &InputFile{file, bufio.NewReader(file), nil}, nil
}

// OpenPipe starts the given command and returns its standard output
// as an InputFile. Closing the InputFile waits for the command to
// exit, so decoding errors reported by the command surface on Close.
func OpenPipe(command string, args ...string) (*InputFile, error) {
	cmd := exec.Command(command, args...)
	cmd.Stderr = os.Stderr
	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &InputFile{outPipe, bufio.NewReader(outPipe), cmd}, nil
}

// Wrap layers a decompression reader over an already open input. The
// buffered reader is replaced, so callers must wrap before reading.
func (input *InputFile) Wrap(r io.Reader) {
	input.Reader = bufio.NewReader(r)
}

// Close closes the underlying reader and, for piped inputs, waits for
// the external command to exit.
func (input *InputFile) Close() error {
	if input.rc != os.Stdin {
		if err := input.rc.Close(); err != nil {
			return err
		}
	}
	if input.Cmd != nil {
		return input.Wait()
	}
	return nil
}

// PlainBase strips the compression suffix from a file name, so the
// format extension of compressed inputs can be inspected.
func PlainBase(name string) string {
	name = strings.TrimSuffix(name, ".gz")
	return strings.TrimSuffix(name, ".bgz")
}

// FullPathname makes the given file name absolute by prefixing the
// working directory when necessary.
func FullPathname(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		return filename, nil
	}
	wd, err := os.Getwd()
	return filepath.Join(wd, filename), err
}
