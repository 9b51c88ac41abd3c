//go:build !unix

package tcp

import "syscall"

// Socket options are only applied on unix platforms.
func (o SocketOptions) control(network, address string, c syscall.RawConn) error {
	return nil
}
