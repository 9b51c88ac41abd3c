package pipe

import (
	"context"
	"sync"
	"sync/atomic"

	"hypersinc/transport"

	"github.com/benbjohnson/clock"
)

type pipeRequest struct {
	conn     *pipe
	accepted chan struct{}
}

// PipeTransport connects dialers to listeners registered by [Addr].
type PipeTransport struct {
	listeners map[Addr]*pipeListener
	clock     clock.Clock

	dials atomic.Int64

	mu sync.Mutex
}

func NewPipeTransport(clock clock.Clock) *PipeTransport {
	return &PipeTransport{
		listeners: make(map[Addr]*pipeListener),
		clock:     clock,
	}
}

var _ transport.ConnDialer = (*PipeTransport)(nil)

// Dials reports how many times Dial has been called.
func (pt *PipeTransport) Dials() int64 { return pt.dials.Load() }

func (pt *PipeTransport) Dial(ctx context.Context, addr transport.Addr) (transport.Conn, error) {
	pt.dials.Add(1)

	pipeAddr, ok := addr.(Addr)
	if !ok {
		return nil, transport.ErrNetUnreachable
	}

	pt.mu.Lock()
	listener, ok := pt.listeners[pipeAddr]
	pt.mu.Unlock()

	if !ok {
		return nil, transport.ErrConnRefused
	}

	p1, p2 := NewPair("dialer", pipeAddr.Name, pt.clock)

	req := pipeRequest{
		conn:     p2,
		accepted: make(chan struct{}, 1),
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-listener.closed:
		return nil, transport.ErrConnRefused
	case listener.requests <- req:
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-listener.closed:
		return nil, transport.ErrConnRefused
	case <-req.accepted:
	}

	return p1, nil
}

func (pt *PipeTransport) Listen(addr Addr) (*pipeListener, error) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if _, ok := pt.listeners[addr]; ok {
		return nil, transport.ErrAddrAlreadyInUse
	}

	pl := &pipeListener{
		addr:      addr,
		transport: pt,
		requests:  make(chan pipeRequest),
		closed:    make(chan struct{}),
	}
	pt.listeners[addr] = pl

	return pl, nil
}

type pipeListener struct {
	addr      Addr
	transport *PipeTransport

	requests chan pipeRequest
	closed   chan struct{}
	once     sync.Once
}

var _ transport.ConnListener = (*pipeListener)(nil)

func (pl *pipeListener) Accept(ctx context.Context) (transport.Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-pl.closed:
		return nil, transport.ErrConnListenerClosed
	case request := <-pl.requests:
		request.accepted <- struct{}{}
		return request.conn, nil
	}
}

func (pl *pipeListener) Close() error {
	err := transport.ErrConnListenerClosed
	pl.once.Do(func() {
		close(pl.closed)

		pl.transport.mu.Lock()
		delete(pl.transport.listeners, pl.addr)
		pl.transport.mu.Unlock()

		err = nil
	})
	return err
}
