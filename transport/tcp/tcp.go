// Package tcp carries transport connections over operating system stream sockets.
package tcp

import (
	"io"
	"net"
	"net/netip"
	"os"
	"strconv"
	"time"

	"hypersinc/transport"

	"github.com/pkg/errors"
)

type Addr struct {
	host string
	port uint16
}

var _ transport.Addr = Addr{}

func NewAddr(host string, port uint16) Addr {
	return Addr{host, port}
}

func (a Addr) Host() string                  { return a.host }
func (a Addr) Port() uint16                  { return a.port }
func (a Addr) Protocol() transport.Protocol { return transport.TCP }
func (a Addr) Identifier() any               { return a.port }

func (a Addr) String() string {
	return net.JoinHostPort(a.host, strconv.FormatUint(uint64(a.port), 10))
}

func addrFrom(a net.Addr) Addr {
	if tcpAddr, ok := a.(*net.TCPAddr); ok {
		ap := tcpAddr.AddrPort()
		return Addr{host: ap.Addr().Unmap().String(), port: ap.Port()}
	}

	ap, err := netip.ParseAddrPort(a.String())
	if err != nil {
		return Addr{host: a.String()}
	}
	return Addr{host: ap.Addr().String(), port: ap.Port()}
}

// conn adapts a [net.Conn] into a [transport.Conn].
type conn struct {
	nc net.Conn
}

var _ transport.Conn = (*conn)(nil)

func newConn(nc net.Conn) *conn { return &conn{nc: nc} }

func (c *conn) Read(p []byte) (int, error) {
	n, err := c.nc.Read(p)
	return n, convertErr(err)
}

func (c *conn) Write(p []byte) (int, error) {
	n, err := c.nc.Write(p)
	return n, convertErr(err)
}

func (c *conn) Close() error {
	return convertErr(c.nc.Close())
}

func (c *conn) LocalAddr() transport.Addr  { return addrFrom(c.nc.LocalAddr()) }
func (c *conn) RemoteAddr() transport.Addr { return addrFrom(c.nc.RemoteAddr()) }

// Deadline errors can only come from a closed socket, which Read and Write report anyway.
func (c *conn) SetReadDeadLine(t time.Time)  { _ = c.nc.SetReadDeadline(t) }
func (c *conn) SetWriteDeadLine(t time.Time) { _ = c.nc.SetWriteDeadline(t) }

// convertErr translates socket errors into transport errors,
// keeping the original error reachable.
func convertErr(err error) error {
	switch {
	case err == nil, err == io.EOF:
		return err
	case errors.Is(err, os.ErrDeadlineExceeded):
		return withKind(transport.ErrDeadLineExceeded, err)
	case errors.Is(err, net.ErrClosed):
		return withKind(transport.ErrConnClosed, err)
	}
	return err
}

type kindError struct {
	kind  error
	cause error
}

func withKind(kind, cause error) error {
	return &kindError{kind: kind, cause: cause}
}

func (e *kindError) Error() string   { return e.kind.Error() + ": " + e.cause.Error() }
func (e *kindError) Cause() error    { return e.cause }
func (e *kindError) Unwrap() []error { return []error{e.kind, e.cause} }
