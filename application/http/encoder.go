package http

import (
	"bufio"
	"bytes"
	"io"

	"hypersinc/application/util/uri"

	"github.com/pkg/errors"
)

var crlf = []byte("\r\n")

const sp = ' '

type RequestEncoder struct {
	bw *bufio.Writer
}

func NewRequestEncoder(w io.Writer) *RequestEncoder {
	return &RequestEncoder{bw: bufio.NewWriter(w)}
}

func (re *RequestEncoder) Encode(request Request) error {
	if err := re.encodeRequestLine(request.requestLine); err != nil {
		return errors.Wrap(err, "encoding request line")
	}

	if err := re.encodeHeaders(request.Headers); err != nil {
		return errors.Wrap(err, "encoding headers")
	}

	if _, err := re.bw.Write(request.Body); err != nil {
		return errors.Wrap(err, "writing request body")
	}

	if err := re.bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing request")
	}

	return nil
}

func (re *RequestEncoder) writeLine(line []byte) error {
	if _, err := re.bw.Write(line); err != nil {
		return errors.Wrap(err, "writing line")
	}

	if _, err := re.bw.Write(crlf); err != nil {
		return errors.Wrap(err, "writing line terminator")
	}

	return nil
}

func (re *RequestEncoder) encodeRequestLine(reqLine requestLine) error {
	buf := bytes.NewBuffer(nil)

	buf.WriteString(string(reqLine.Method))
	buf.WriteByte(sp)
	buf.WriteString(reqLine.Target)
	buf.WriteByte(sp)
	buf.Write(reqLine.Version.Text())

	if err := re.writeLine(buf.Bytes()); err != nil {
		return errors.Wrap(err, "writing line")
	}

	return nil
}

func (re *RequestEncoder) encodeHeaders(headers []Field) error {
	for _, field := range headers {
		if err := re.writeLine(field.Text()); err != nil {
			return errors.Wrap(err, "writing field")
		}
	}

	// Write a empty line as all the headers are written.
	if err := re.writeLine(nil); err != nil {
		return errors.Wrap(err, "writing line terminator")
	}

	return nil
}

// BuildRequest returns the exact bytes to put on the wire.
func BuildRequest(method Method, target uri.Target, body []byte) ([]byte, error) {
	request, err := NewRequest(method, target, body)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := NewRequestEncoder(&buf).Encode(request); err != nil {
		return nil, errors.Wrap(err, "encoding request")
	}

	return buf.Bytes(), nil
}
