package iolib

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFull(t *testing.T) {
	data := []byte("Hello, World!")
	var buf bytes.Buffer

	written, err := WriteFull(&buf, data)
	assert.NoError(t, err)
	assert.Equal(t, uint(len(data)), written)
	assert.Equal(t, data, buf.Bytes())
}

// shortWriter accepts at most max bytes per call.
type shortWriter struct {
	w   io.Writer
	max int
	err error
}

func (s *shortWriter) Write(p []byte) (int, error) {
	if len(p) > s.max {
		p = p[:s.max]
	}
	n, _ := s.w.Write(p)
	return n, s.err
}

func TestWriteFullShortWrites(t *testing.T) {
	data := []byte("GET / HTTP/1.0\r\n\r\n")
	var buf bytes.Buffer

	written, err := WriteFull(&shortWriter{w: &buf, max: 3}, data)
	require.NoError(t, err)
	assert.Equal(t, uint(len(data)), written)
	assert.Equal(t, data, buf.Bytes())
}

func TestWriteFullError(t *testing.T) {
	boom := errors.New("boom")
	var buf bytes.Buffer

	written, err := WriteFull(&shortWriter{w: &buf, max: 4, err: boom}, []byte("Hello, World!"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint(4), written)
}

func TestWriteFullZeroProgress(t *testing.T) {
	_, err := WriteFull(&shortWriter{w: io.Discard, max: 0}, []byte("x"))
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

func TestReadUntilEOF(t *testing.T) {
	input := strings.Repeat("HTTP/1.0 200 OK\r\n", 100)

	testcases := []struct {
		desc      string
		r         io.Reader
		chunkSize int
	}{
		{desc: "small chunks", r: strings.NewReader(input), chunkSize: 7},
		{desc: "default chunk size", r: strings.NewReader(input), chunkSize: 0},
		{desc: "one byte reader", r: iotest.OneByteReader(strings.NewReader(input)), chunkSize: 100},
		{desc: "data with eof", r: iotest.DataErrReader(strings.NewReader(input)), chunkSize: 100},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			b, err := ReadUntilEOF(tc.r, tc.chunkSize)
			require.NoError(t, err)
			assert.Equal(t, input, string(b))
		})
	}
}

func TestReadUntilEOFError(t *testing.T) {
	r := io.MultiReader(strings.NewReader("partial"), iotest.ErrReader(iotest.ErrTimeout))

	b, err := ReadUntilEOF(r, 4)
	assert.ErrorIs(t, err, iotest.ErrTimeout)
	assert.Nil(t, b)
}

func TestReadUntilEOFEmpty(t *testing.T) {
	b, err := ReadUntilEOF(strings.NewReader(""), 16)
	require.NoError(t, err)
	assert.Empty(t, b)
}
