package http

import (
	"bytes"
	"strconv"
	"strings"

	"hypersinc/application/util/uri"

	"github.com/pkg/errors"
)

var ErrUnsupportedMethod = errors.New("unsupported method")

type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// ParseMethod accepts the methods this client can frame. Matching is exact.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodGet, MethodPost:
		return m, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedMethod, "%q", s)
	}
}

// [Major, Minor]
type Version [2]uint

var Version10 = Version{1, 0}

func (ver Version) Text() []byte {
	buf := bytes.NewBuffer(nil)
	buf.Write([]byte("HTTP/"))
	buf.Write([]byte(strconv.FormatUint(uint64(ver[0]), 10)))
	buf.Write([]byte{'.'})
	buf.Write([]byte(strconv.FormatUint(uint64(ver[1]), 10)))
	return buf.Bytes()
}

func (ver Version) String() string { return string(ver.Text()) }

type Field struct{ Name, Value string }

func (f Field) Text() []byte {
	buf := bytes.NewBuffer(nil)
	buf.WriteString(f.Name)
	buf.Write([]byte(": "))
	buf.WriteString(f.Value)
	return buf.Bytes()
}

const (
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_9_2) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/34.0.1847.131 Safari/537.36"
	Accept = "text/html"
)

type requestLine struct {
	Method  Method
	Target  string
	Version Version
}

type Request struct {
	requestLine
	Headers []Field

	Body []byte
}

// NewRequest lays out the request line and headers for method.
// Header order differs between GET and POST and is kept exactly.
func NewRequest(method Method, target uri.Target, body []byte) (Request, error) {
	req := Request{
		requestLine: requestLine{
			Method:  method,
			Target:  target.RequestURI(),
			Version: Version10,
		},
	}

	userAgent := Field{"User-Agent", UserAgent}
	host := Field{"Host", hostValue(target)}
	accept := Field{"Accept", Accept}

	switch method {
	case MethodGet:
		req.Headers = []Field{userAgent, host, accept}
	case MethodPost:
		req.Headers = []Field{
			host, userAgent, accept,
			{"Content-Length", strconv.Itoa(len(body))},
		}
		req.Body = body
	default:
		return Request{}, errors.Wrapf(ErrUnsupportedMethod, "%q", method)
	}

	return req, nil
}

// hostValue omits the default port.
func hostValue(target uri.Target) string {
	if target.Port == uri.DefaultPort {
		if strings.Contains(target.Host, ":") {
			return "[" + target.Host + "]"
		}
		return target.Host
	}
	return target.Authority()
}
