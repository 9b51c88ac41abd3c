//go:build unix

package tcp

import (
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func (o SocketOptions) control(network, address string, c syscall.RawConn) error {
	var serr error
	err := c.Control(func(fd uintptr) {
		s := int(fd)
		if o.ReceiveBuffer > 0 {
			if serr = unix.SetsockoptInt(s, unix.SOL_SOCKET, unix.SO_RCVBUF, o.ReceiveBuffer); serr != nil {
				serr = errors.Wrap(serr, "setting SO_RCVBUF")
				return
			}
		}
		if o.SendBuffer > 0 {
			if serr = unix.SetsockoptInt(s, unix.SOL_SOCKET, unix.SO_SNDBUF, o.SendBuffer); serr != nil {
				serr = errors.Wrap(serr, "setting SO_SNDBUF")
				return
			}
		}
		if o.KeepAlive {
			if serr = unix.SetsockoptInt(s, unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1); serr != nil {
				serr = errors.Wrap(serr, "setting SO_KEEPALIVE")
				return
			}
		}
	})
	if err != nil {
		return errors.Wrap(err, "accessing raw socket")
	}
	return serr
}
