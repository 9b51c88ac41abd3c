package iolib

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// DefaultChunkSize is the read size used when a non-positive chunk size is given.
const DefaultChunkSize = 4096

func WriteFull(w io.Writer, buf []byte) (uint, error) {
	total := uint(0)
	for total < uint(len(buf)) {
		n, err := w.Write(buf[total:])
		total += uint(n)
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

// ReadUntilEOF reads r in chunks of chunkSize bytes until r reports [io.EOF]
// or a zero-length read, and returns everything read.
// On any other error the partial data is discarded.
func ReadUntilEOF(r io.Reader, chunkSize int) ([]byte, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	var buf bytes.Buffer
	chunk := make([]byte, chunkSize)
	for {
		n, err := r.Read(chunk)
		buf.Write(chunk[:n])

		if errors.Is(err, io.EOF) {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			// Peer signaled end of stream with an empty read.
			return buf.Bytes(), nil
		}
	}
}
