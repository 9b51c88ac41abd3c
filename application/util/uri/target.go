package uri

import (
	"net"
	"net/netip"
	"strconv"
	"strings"
	"unicode/utf8"

	"hypersinc/lib/types/pointer"

	"github.com/pkg/errors"
	"golang.org/x/net/idna"
)

var (
	ErrMalformedURL = errors.New("malformed url")
	ErrInvalidPort  = errors.New("invalid port")
)

const DefaultPort uint16 = 80

const schemeSep = "://"

// Target is where a single request goes.
type Target struct {
	Host string
	Port uint16
	// Path has no leading slash. Empty path is the root.
	Path string
}

// Authority is the host[:port] part of a URL.
// Port is nil when the URL does not carry one.
type Authority struct {
	Host string
	Port *uint16
}

// ParseTarget parses raw into a [Target].
// Port defaults to [DefaultPort]. One trailing slash of the path is removed.
func ParseTarget(raw string) (Target, error) {
	_, rest, found := strings.Cut(raw, schemeSep)
	if !found {
		return Target{}, errors.Wrapf(ErrMalformedURL, "%q has no %q", raw, schemeSep)
	}

	// Fragments are never sent to the server.
	rest, _, _ = strings.Cut(rest, "#")

	rawAuthority, path := rest, ""
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		rawAuthority, path = rest[:i], strings.TrimPrefix(rest[i:], "/")
	}

	authority, err := splitAuthority(rawAuthority)
	if err != nil {
		return Target{}, err
	}

	host, err := toASCII(authority.Host)
	if err != nil {
		return Target{}, err
	}

	port := DefaultPort
	if authority.Port != nil {
		port = *authority.Port
	}

	return Target{
		Host: host,
		Port: port,
		Path: strings.TrimSuffix(path, "/"),
	}, nil
}

// splitAuthority checks for the port delimiter explicitly instead of
// relying on a failed split.
func splitAuthority(raw string) (Authority, error) {
	host, rawPort, hasPort := raw, "", false

	if strings.HasPrefix(raw, "[") {
		// IPv6 literal.
		end := strings.IndexByte(raw, ']')
		if end < 0 {
			return Authority{}, errors.Wrapf(ErrMalformedURL, "unterminated ip literal %q", raw)
		}

		host = raw[1:end]
		switch after := raw[end+1:]; {
		case after == "":
		case after[0] == ':':
			rawPort, hasPort = after[1:], true
		default:
			return Authority{}, errors.Wrapf(ErrMalformedURL, "unexpected %q after ip literal", after)
		}
	} else {
		host, rawPort, hasPort = strings.Cut(raw, ":")
	}

	if host == "" {
		return Authority{}, errors.Wrapf(ErrMalformedURL, "empty host in %q", raw)
	}

	if !hasPort {
		return Authority{Host: host}, nil
	}

	port, err := parsePort(rawPort)
	if err != nil {
		return Authority{}, err
	}

	return Authority{Host: host, Port: pointer.To(port)}, nil
}

func parsePort(raw string) (uint16, error) {
	if raw == "" {
		return 0, errors.Wrap(ErrInvalidPort, "empty port")
	}

	port, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidPort, "%q is not a port number", raw)
	}
	if port == 0 {
		return 0, errors.Wrap(ErrInvalidPort, "port 0 is not dialable")
	}

	return uint16(port), nil
}

// toASCII converts internationalized host names into their punycode form.
// ASCII names and IP addresses are returned as they are.
func toASCII(host string) (string, error) {
	if isASCII(host) {
		return host, nil
	}
	if _, err := netip.ParseAddr(host); err == nil {
		return host, nil
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", errors.Wrapf(ErrMalformedURL, "host %q: %s", host, err)
	}
	return ascii, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Authority returns host:port, bracketing IPv6 hosts.
func (t Target) Authority() string {
	return net.JoinHostPort(t.Host, strconv.FormatUint(uint64(t.Port), 10))
}

// RequestURI returns the request-target written on the request line.
func (t Target) RequestURI() string {
	return "/" + t.Path
}

func (t Target) String() string {
	return "http://" + t.Authority() + t.RequestURI()
}
