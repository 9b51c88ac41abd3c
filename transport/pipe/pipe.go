// Package pipe is an in-memory transport.
// Each pipe is synchronous and unbuffered: a write returns only after
// the counterpart has read every byte of it.
package pipe

import (
	"sync"
	"time"

	"hypersinc/transport"

	"github.com/benbjohnson/clock"
)

const Protocol transport.Protocol = "pipe"

type Addr struct {
	Name string
}

func (a Addr) Protocol() transport.Protocol { return Protocol }
func (a Addr) Identifier() any              { return a.Name }
func (a Addr) String() string               { return a.Name }

var _ transport.Addr = Addr{}

type pipe struct {
	stream chan []byte // stream that this pipe reads from.
	nc     chan int    // counterpart's read count is sent here.

	writeMu sync.Mutex

	closed chan struct{}
	once   sync.Once

	rdeadLine *deadLine
	wdeadLine *deadLine

	counterpart *pipe

	addr Addr
}

var _ transport.Conn = (*pipe)(nil)

// NewPair creates two connected pipes.
// Deadlines of both pipes are measured with clock.
func NewPair(name1, name2 string, clock clock.Clock) (c1, c2 *pipe) {
	c1, c2 = newPipe(name1, clock), newPipe(name2, clock)
	c1.counterpart, c2.counterpart = c2, c1
	return c1, c2
}

func newPipe(name string, clock clock.Clock) *pipe {
	return &pipe{
		stream:    make(chan []byte),
		nc:        make(chan int),
		closed:    make(chan struct{}),
		rdeadLine: newDeadLine(clock),
		wdeadLine: newDeadLine(clock),
		addr:      Addr{Name: name},
	}
}

func (p *pipe) LocalAddr() transport.Addr  { return p.addr }
func (p *pipe) RemoteAddr() transport.Addr { return p.counterpart.addr }

func (p *pipe) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func (p *pipe) Read(b []byte) (n int, err error) {
	if err := p.checkOK(p.rdeadLine); err != nil {
		return 0, err
	}

	select {
	case received := <-p.stream:
		n := copy(b, received)
		p.counterpart.nc <- n
		return n, nil
	case <-p.closed:
		return 0, transport.ErrConnClosed
	case <-p.counterpart.closed:
		return 0, transport.ErrConnClosed
	case <-p.rdeadLine.wait():
		return 0, transport.ErrDeadLineExceeded
	}
}

func (p *pipe) Write(b []byte) (n int, err error) {
	if err := p.checkOK(p.wdeadLine); err != nil {
		return 0, err
	}

	if len(b) == 0 {
		return 0, nil
	}

	// Serialize writes so that they don't interleave.
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	for len(b) > 0 {
		select {
		case p.counterpart.stream <- b:
			nn := <-p.nc
			b = b[nn:]
			n += nn
		case <-p.closed:
			return n, transport.ErrConnClosed
		case <-p.counterpart.closed:
			return n, transport.ErrConnClosed
		case <-p.wdeadLine.wait():
			return n, transport.ErrDeadLineExceeded
		}
	}

	return n, nil
}

func (p *pipe) checkOK(d *deadLine) error {
	switch {
	case isClosed(p.closed), isClosed(p.counterpart.closed):
		return transport.ErrConnClosed
	case isClosed(d.wait()):
		return transport.ErrDeadLineExceeded
	}
	return nil
}

func (p *pipe) SetReadDeadLine(t time.Time)  { p.rdeadLine.set(t) }
func (p *pipe) SetWriteDeadLine(t time.Time) { p.wdeadLine.set(t) }

// deadLine closes its channel once the deadline passes.
type deadLine struct {
	clock clock.Clock

	timer   *clock.Timer
	expired chan struct{}
	mu      sync.Mutex
}

func newDeadLine(clock clock.Clock) *deadLine {
	return &deadLine{
		clock:   clock,
		expired: make(chan struct{}),
	}
}

func (d *deadLine) set(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if isClosed(d.expired) {
		d.expired = make(chan struct{})
	}

	if t.IsZero() {
		// No deadline.
		return
	}

	dur := d.clock.Until(t)
	if dur <= 0 {
		close(d.expired)
		return
	}

	expired := d.expired
	d.timer = d.clock.AfterFunc(dur, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.expired == expired && !isClosed(expired) {
			close(expired)
		}
	})
}

func (d *deadLine) wait() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.expired
}

func isClosed(c <-chan struct{}) bool {
	select {
	case <-c:
		return true
	default:
		return false
	}
}
