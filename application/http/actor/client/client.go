package client

import (
	"context"
	"log/slog"
	"sync/atomic"

	"hypersinc/application/http"
	"hypersinc/application/util/uri"
	"hypersinc/transport"
	"hypersinc/transport/tcp"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Client performs one HTTP/1.0 exchange at a time over a fresh connection.
// Use separate clients for concurrent requests.
type Client struct {
	opts Options

	logger *slog.Logger
	clock  clock.Clock

	connDialer transport.ConnDialer
	decode     decoder

	combineAddr CombineAddrFunc

	busy atomic.Bool
}

// CombineAddrFunc maps a parsed target to the address handed to the dialer.
type CombineAddrFunc func(target uri.Target) transport.Addr

// New panics if opts is not valid. See [Options.Validate].
func New(
	d transport.ConnDialer,
	logger *slog.Logger,
	clock clock.Clock,
	opts Options,
) *Client {
	if err := opts.Validate(); err != nil {
		panic(err)
	}

	decode, _ := newDecoder(opts.Receive.Charset)

	if logger == nil || !opts.Verbose {
		logger = slog.New(slog.DiscardHandler)
	}

	client := &Client{
		opts:       opts,
		logger:     logger,
		clock:      clock,
		connDialer: d,
		decode:     decode,
	}

	client.combineAddr = func(target uri.Target) transport.Addr {
		return tcp.NewAddr(target.Host, target.Port)
	}

	logger.Info("initialized http client")

	return client
}

func (c *Client) Get(ctx context.Context, url string) (string, error) {
	return c.Request(ctx, string(http.MethodGet), url, nil)
}

func (c *Client) Post(ctx context.Context, url string, body []byte) (string, error) {
	return c.Request(ctx, string(http.MethodPost), url, body)
}

// Request sends method to url and returns everything the server wrote
// before closing the connection, status line and headers included.
//
// The URL and the method are checked before anything touches the network.
// Once connected, the connection is closed before Request returns.
func (c *Client) Request(ctx context.Context, method, url string, body []byte) (string, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return "", ErrClientBusy
	}
	defer c.busy.Store(false)

	logger := c.logger.With(slog.String("request_id", uuid.NewString()))
	logger.Info("request",
		slog.String("method", method),
		slog.String("url", url),
		slog.Int("payload", len(body)),
	)

	target, err := uri.ParseTarget(url)
	if err != nil {
		logger.Error("invalid url", slog.Any("error", err))
		return "", errors.Wrap(err, "parsing url")
	}
	logger.Info("parsed target",
		slog.String("host", target.Host),
		slog.Any("port", target.Port),
		slog.String("path", target.Path),
	)

	m, err := http.ParseMethod(method)
	if err != nil {
		logger.Error("invalid method", slog.Any("error", err))
		return "", errors.Wrap(err, "checking method")
	}

	payload, err := http.BuildRequest(m, target, body)
	if err != nil {
		return "", errors.Wrap(err, "building request")
	}

	cn, err := c.open(ctx, target, logger)
	if err != nil {
		logger.Error("connection failed", slog.Any("error", err))
		return "", err
	}

	raw, err := c.exchange(ctx, cn, payload)
	if err != nil {
		logger.Error("exchange failed", slog.Any("error", err))
		return "", err
	}

	text, err := c.decode(raw)
	if err != nil {
		logger.Error("decoding failed", slog.Any("error", err))
		return "", newError("decode", ErrDecode, err)
	}

	return text, nil
}

// exchange always closes cn.
func (c *Client) exchange(ctx context.Context, cn *conn, payload []byte) (_ []byte, err error) {
	defer func() {
		if closeErr := cn.close(); closeErr != nil && err == nil {
			err = newError("close", ErrTransport, closeErr)
		}
	}()

	// Unblocks send and receive when ctx ends.
	stop := context.AfterFunc(ctx, func() { cn.close() })
	defer stop()

	if err := cn.send(ctx, payload); err != nil {
		return nil, err
	}

	return cn.receiveUntilClose(ctx)
}
