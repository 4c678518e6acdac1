package utils

import (
	"bufio"
	"io"

	"github.com/rgenomicsetl/htscan/utils/bgzf"
)

// HandleBGZF checks if the given reader produces a gzip file by
// looking at the initial byte. It then either returns a bgzf.Reader,
// or returns the given reader unchanged. HandleBGZF uses ReadByte and
// UnreadByte.
func HandleBGZF(buf *bufio.Reader) (io.Reader, error) {
	ok, err := bgzf.IsGzip(buf)
	if err != nil {
		return nil, err
	}
	if !ok {
		return buf, nil
	}
	return bgzf.NewReader(buf)
}
