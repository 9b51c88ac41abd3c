package domain

import (
	"context"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LookuperTestSuite struct {
	suite.Suite

	lookuper Lookuper
}

var (
	localhost = netip.MustParseAddr("127.0.0.1")
	example   = netip.MustParseAddr("1.1.1.1") // It's actually cloudflare. But who cares?
)

func (s *LookuperTestSuite) TestLookup() {
	addrs, err := s.lookuper.LookupIP(context.Background(), "localhost")
	s.NoError(err)
	s.Equal([]netip.Addr{localhost}, addrs)

	addrs, err = s.lookuper.LookupIP(context.Background(), "example.com")
	s.NoError(err)
	s.Equal([]netip.Addr{example}, addrs)
}

type mapLookuperTestSuite struct {
	LookuperTestSuite

	initial map[string][]netip.Addr
}

func TestMapLookuperTestSuite(t *testing.T) {
	suite.Run(t, new(mapLookuperTestSuite))
}

func (s *mapLookuperTestSuite) SetupTest() {
	s.initial = map[string][]netip.Addr{
		"localhost":   {localhost},
		"example.com": {example},
	}
	s.lookuper = NewMapLookuper(s.initial)
}

func (s *mapLookuperTestSuite) TestLookupNotFound() {
	addrs, err := s.lookuper.LookupIP(context.Background(), "non-existent.com")
	s.ErrorIs(err, ErrDomainNotFound)
	s.Empty(addrs)
}

func (s *mapLookuperTestSuite) TestLookupInitCopied() {
	s.initial["localhost"] = []netip.Addr{example}

	addrs, err := s.lookuper.LookupIP(context.Background(), "localhost")
	s.NoError(err)
	s.Equal([]netip.Addr{localhost}, addrs)
}

func (s *mapLookuperTestSuite) TestSetDel() {
	m := s.lookuper.(*mapLookuper)

	m.Set("new.example", nil)
	_, err := m.LookupIP(context.Background(), "new.example")
	s.ErrorIs(err, ErrDomainNotFound)

	m.Set("new.example", []netip.Addr{example})
	addrs, err := m.LookupIP(context.Background(), "new.example")
	s.NoError(err)
	s.Equal([]netip.Addr{example}, addrs)

	m.Del("new.example")
	_, err = m.LookupIP(context.Background(), "new.example")
	s.ErrorIs(err, ErrDomainNotFound)
}

type resolverLookuperTestSuite struct{ LookuperTestSuite }

func TestResolverLookuperTestSuite(t *testing.T) {
	suite.Run(t, new(resolverLookuperTestSuite))
}

func (s *resolverLookuperTestSuite) SetupTest() {
	lookuper, err := NewResolverLookuper(ResolveConfig{
		StaticHosts: map[string]string{
			"localhost":   "127.0.0.1",
			"example.com": "1.1.1.1",
		},
	})
	s.Require().NoError(err)
	s.lookuper = lookuper
}

func (s *resolverLookuperTestSuite) TestInvalidConfig() {
	testcases := []struct {
		desc string
		cfg  ResolveConfig
	}{
		{desc: "unknown network", cfg: ResolveConfig{Network: "ipx"}},
		{desc: "bad static address", cfg: ResolveConfig{StaticHosts: map[string]string{"a": "not-an-ip"}}},
		{desc: "dns server without port", cfg: ResolveConfig{CustomDNSServer: "8.8.8.8"}},
	}

	for _, tc := range testcases {
		s.Run(tc.desc, func() {
			l, err := NewResolverLookuper(tc.cfg)
			s.Error(err)
			s.Nil(l)
		})
	}
}

func (s *resolverLookuperTestSuite) TestCustomServerUnreachable() {
	// Port 9 on loopback is discard; nothing answers DNS there.
	lookuper, err := NewResolverLookuper(ResolveConfig{CustomDNSServer: "127.0.0.1:9"})
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	addrs, err := lookuper.LookupIP(ctx, "unresolvable.invalid")
	s.Error(err)
	s.Empty(addrs)
}
