package tcp

import (
	"context"
	"net"
	"net/netip"
	"strings"
	"syscall"

	"hypersinc/application/util/domain"
	"hypersinc/transport"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

type DialOptions struct {
	// Network is one of "tcp", "tcp4" or "tcp6". Empty means "tcp".
	Network string

	// RateLimit caps connection attempts per second. Zero means no limit.
	RateLimit rate.Limit
	// Burst defaults to 1 when RateLimit is set.
	Burst int

	Socket SocketOptions
}

// SocketOptions are applied to the raw socket before it connects.
// Zero values keep the operating system defaults.
type SocketOptions struct {
	ReceiveBuffer int // SO_RCVBUF
	SendBuffer    int // SO_SNDBUF
	KeepAlive     bool
}

func (o DialOptions) validate() error {
	switch o.Network {
	case "", "tcp", "tcp4", "tcp6":
	default:
		return errors.Errorf("unknown network %q", o.Network)
	}
	if o.RateLimit < 0 {
		return errors.New("rate limit must not be negative")
	}
	if o.Socket.ReceiveBuffer < 0 || o.Socket.SendBuffer < 0 {
		return errors.New("socket buffer sizes must not be negative")
	}
	return nil
}

// Dialer opens stream sockets to [Addr]s, resolving host names with a [domain.Lookuper].
type Dialer struct {
	lookuper domain.Lookuper
	limiter  *rate.Limiter
	opts     DialOptions

	nd net.Dialer
}

var _ transport.ConnDialer = (*Dialer)(nil)

func NewDialer(lookuper domain.Lookuper, opts DialOptions) *Dialer {
	if err := opts.validate(); err != nil {
		panic(err)
	}

	d := &Dialer{
		lookuper: lookuper,
		opts:     opts,
		nd: net.Dialer{
			// Keep-alive is configured through SocketOptions only.
			KeepAlive: -1,
			Control:   opts.Socket.control,
		},
	}

	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		d.limiter = rate.NewLimiter(opts.RateLimit, burst)
	}

	return d
}

// Dial connects to the first resolved address of addr that accepts.
func (d *Dialer) Dial(ctx context.Context, addr transport.Addr) (transport.Conn, error) {
	tcpAddr, ok := addr.(Addr)
	if !ok {
		return nil, errors.Errorf("tcp dialer can't dial %s address %q", addr.Protocol(), addr)
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "waiting for dial rate limit")
		}
	}

	ips, err := d.resolve(ctx, tcpAddr.host)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %q", tcpAddr.host)
	}

	var lastErr error
	for _, ip := range ips {
		dst := netip.AddrPortFrom(ip, tcpAddr.port)

		nc, err := d.nd.DialContext(ctx, d.network(), dst.String())
		if err == nil {
			return newConn(nc), nil
		}

		lastErr = convertDialErr(err)
		if ctx.Err() != nil {
			break
		}
	}

	return nil, errors.Wrapf(lastErr, "dialing %s", tcpAddr)
}

func (d *Dialer) network() string {
	if d.opts.Network == "" {
		return "tcp"
	}
	return d.opts.Network
}

func (d *Dialer) resolve(ctx context.Context, host string) ([]netip.Addr, error) {
	if ip, err := netip.ParseAddr(host); err == nil {
		return []netip.Addr{ip}, nil
	}

	found, err := d.lookuper.LookupIP(ctx, host)
	if err != nil {
		return nil, err
	}

	ips := make([]netip.Addr, 0, len(found))
	for _, ip := range found {
		ip = ip.Unmap()
		switch {
		case strings.HasSuffix(d.network(), "4") && !ip.Is4():
		case strings.HasSuffix(d.network(), "6") && !ip.Is6():
		default:
			ips = append(ips, ip)
		}
	}

	if len(ips) == 0 {
		return nil, errors.Wrapf(domain.ErrDomainNotFound, "no %s address", d.network())
	}

	return ips, nil
}

func convertDialErr(err error) error {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return withKind(transport.ErrConnRefused, err)
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return withKind(transport.ErrNetUnreachable, err)
	}
	return err
}
