package client

import (
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultChunkSize      = 4096
	DefaultConnectTimeout = 10 * time.Second
	DefaultSendTimeout    = 10 * time.Second
	// DefaultReceiveTimeout bounds the whole read-until-close phase.
	// A peer that never closes fails the request after this long.
	DefaultReceiveTimeout = 30 * time.Second
)

type Options struct {
	// Verbose enables diagnostics on the logger given to [New].
	// It has no effect on what is sent or received.
	Verbose bool

	Receive ReceiveOptions
	Timeout TimeoutOptions
}

type ReceiveOptions struct {
	// ChunkSize is the size of each socket read.
	// Non-positive means [DefaultChunkSize].
	ChunkSize int

	// Charset the response text is decoded from, as named by the WHATWG
	// encoding standard (e.g. "utf-8", "iso-8859-1", "shift_jis").
	// Empty means utf-8, which rejects invalid byte sequences.
	Charset string
}

// TimeoutOptions bound each network phase of a request.
// Zero disables the bound.
type TimeoutOptions struct {
	Connect time.Duration
	Send    time.Duration
	Receive time.Duration
}

func DefaultOptions() Options {
	return Options{
		Receive: ReceiveOptions{
			ChunkSize: DefaultChunkSize,
			Charset:   "utf-8",
		},
		Timeout: TimeoutOptions{
			Connect: DefaultConnectTimeout,
			Send:    DefaultSendTimeout,
			Receive: DefaultReceiveTimeout,
		},
	}
}

func (o Options) Validate() error {
	if o.Receive.ChunkSize < 0 {
		return errors.Errorf("chunk size must not be negative: %d", o.Receive.ChunkSize)
	}

	t := o.Timeout
	if t.Connect < 0 || t.Send < 0 || t.Receive < 0 {
		return errors.New("timeouts must not be negative")
	}

	if _, err := newDecoder(o.Receive.Charset); err != nil {
		return err
	}

	return nil
}
