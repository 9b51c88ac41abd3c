package client

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"hypersinc/application/util/uri"
	iolib "hypersinc/lib/io"
	"hypersinc/transport"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// conn owns one connection for exactly one request.
type conn struct {
	con transport.Conn

	opts   Options
	logger *slog.Logger
	clock  clock.Clock

	closeOnce sync.Once
	closeErr  error
}

func (c *Client) open(ctx context.Context, target uri.Target, logger *slog.Logger) (*conn, error) {
	addr := c.combineAddr(target)
	logger.Info("connecting", slog.String("addr", addr.String()))

	dialCtx := ctx
	if timeout := c.opts.Timeout.Connect; timeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = c.clock.WithTimeout(ctx, timeout)
		defer cancel()
	}

	con, err := c.connDialer.Dial(dialCtx, addr)
	if err != nil {
		return nil, newError("dial", ErrConnection, err)
	}

	return &conn{
		con:    con,
		opts:   c.opts,
		logger: logger,
		clock:  c.clock,
	}, nil
}

// send returns only after every byte of p is written.
func (c *conn) send(ctx context.Context, p []byte) error {
	if timeout := c.opts.Timeout.Send; timeout > 0 {
		c.con.SetWriteDeadLine(c.clock.Now().Add(timeout))
	}

	c.logger.Info("sending message", slog.String("message", string(p)))

	if _, err := iolib.WriteFull(c.con, p); err != nil {
		return newError("send", ErrTransport, interrupted(ctx, err))
	}

	return nil
}

// receiveUntilClose reads until the peer closes its side.
// Nothing read so far is returned on failure.
func (c *conn) receiveUntilClose(ctx context.Context) ([]byte, error) {
	if timeout := c.opts.Timeout.Receive; timeout > 0 {
		c.con.SetReadDeadLine(c.clock.Now().Add(timeout))
	}

	data, err := iolib.ReadUntilEOF(&connClosedReader{r: c.con}, c.opts.Receive.ChunkSize)
	if err == nil {
		// Our own close on cancellation also looks like end of stream.
		err = ctx.Err()
	}
	if err != nil {
		return nil, newError("receive", ErrTransport, interrupted(ctx, err))
	}

	c.logger.Info("received", slog.Int("bytes", len(data)))

	return data, nil
}

// close is safe to call more than once. The connection is closed only once.
func (c *conn) close() error {
	c.closeOnce.Do(func() {
		c.logger.Info("closing connection")
		c.closeErr = c.con.Close()
	})
	return c.closeErr
}

// interrupted prefers the context's error when the context ended the operation.
func interrupted(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return errors.Wrap(ctxErr, err.Error())
	}
	return err
}

// connClosedReader overwrites [transport.ErrConnClosed] as [io.EOF].
type connClosedReader struct{ r io.Reader }

func (r *connClosedReader) Read(p []byte) (n int, err error) {
	n, err = r.r.Read(p)
	if errors.Is(err, transport.ErrConnClosed) {
		return n, io.EOF
	}
	return n, err
}
