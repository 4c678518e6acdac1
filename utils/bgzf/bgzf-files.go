package bgzf

import (
	"compress/gzip"
	"io"
)

// maxBlockSize is the maximum size of a BGZF block.
const maxBlockSize = 0x10000

// IsGzip determines if the given byte scanner produces a gzip file.
// It uses ReadByte and UnreadByte to check only the initial byte from
// the input. Empty input is not gzip.
func IsGzip(scanner io.ByteScanner) (bool, error) {
	b, err := scanner.ReadByte()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := scanner.UnreadByte(); err != nil {
		return false, err
	}
	return b == 0x1f, nil
}

// A Reader decompresses BGZF input. BGZF files are sequences of gzip
// members of at most 64 KiB each, so the multistream mode of the
// standard gzip reader decodes them, including the empty terminating
// block. Reader additionally records whether the first member carries
// the BGZF BC extra subfield, which distinguishes BGZF from plain
// gzip input.
type Reader struct {
	gz   *gzip.Reader
	bgzf bool
}

// isBgzfExtra reports whether a gzip extra field contains the BGZF
// BC subfield with a block size entry.
func isBgzfExtra(extra []byte) bool {
	var slen int
	for i := 0; i+4 <= len(extra); i += 4 + slen {
		slen = int(extra[i+2]) | int(extra[i+3])<<8
		if extra[i] == 'B' && extra[i+1] == 'C' && slen == 2 {
			return true
		}
	}
	return false
}

// NewReader creates a Reader for the given BGZF or plain gzip input.
func NewReader(r io.Reader) (*Reader, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &Reader{gz: gz, bgzf: isBgzfExtra(gz.Extra)}, nil
}

// IsBgzf reports whether the input started with a BGZF block rather
// than a plain gzip member. Plain gzip input still decompresses, but
// cannot be sliced by a tabix index.
func (r *Reader) IsBgzf() bool {
	return r.bgzf
}

func (r *Reader) Read(p []byte) (n int, err error) {
	return r.gz.Read(p)
}

// Close closes the underlying gzip reader. It does not close the
// wrapped io.Reader.
func (r *Reader) Close() error {
	return r.gz.Close()
}
