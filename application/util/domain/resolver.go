package domain

import (
	"context"
	"net"
	"net/netip"

	"github.com/pkg/errors"
)

type ResolveConfig struct {
	// CustomDNSServer is a host:port every query is sent to instead of the system resolvers.
	CustomDNSServer string
	// Network is one of "ip4", "ip6". Default is "ip".
	Network string
	// StaticHosts resembles /etc/hosts and is consulted before DNS.
	StaticHosts map[string]string
}

type resolverLookuper struct {
	network  string
	static   *mapLookuper
	resolver *net.Resolver
}

var _ Lookuper = (*resolverLookuper)(nil)

// NewResolverLookuper resolves names through DNS, honoring cfg.
func NewResolverLookuper(cfg ResolveConfig) (*resolverLookuper, error) {
	network := cfg.Network
	switch network {
	case "":
		network = "ip"
	case "ip", "ip4", "ip6":
	default:
		return nil, errors.Errorf("unknown network %q", cfg.Network)
	}

	static := NewMapLookuper(nil)
	for host, raw := range cfg.StaticHosts {
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "static host %q", host)
		}
		static.Set(host, []netip.Addr{addr})
	}

	resolver := net.DefaultResolver
	if server := cfg.CustomDNSServer; server != "" {
		if _, _, err := net.SplitHostPort(server); err != nil {
			return nil, errors.Wrapf(err, "dns server %q", server)
		}

		var d net.Dialer
		resolver = &net.Resolver{
			PreferGo: true,
			Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
				return d.DialContext(ctx, network, server)
			},
		}
	}

	return &resolverLookuper{
		network:  network,
		static:   static,
		resolver: resolver,
	}, nil
}

func (r *resolverLookuper) LookupIP(ctx context.Context, domain string) ([]netip.Addr, error) {
	if addrs, err := r.static.LookupIP(ctx, domain); err == nil {
		return addrs, nil
	}

	addrs, err := r.resolver.LookupNetIP(ctx, r.network, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, errors.Wrap(ErrDomainNotFound, err.Error())
		}
		return nil, errors.Wrapf(err, "looking up %q", domain)
	}

	if len(addrs) == 0 {
		return nil, errors.Wrap(ErrDomainNotFound, domain)
	}

	return addrs, nil
}
