package pipe

import (
	"context"
	"testing"
	"time"

	"hypersinc/transport"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

type PipeTransportTestSuite struct {
	suite.Suite

	transport *PipeTransport
}

func TestPipeTransportTestSuite(t *testing.T) {
	suite.Run(t, new(PipeTransportTestSuite))
}

func (s *PipeTransportTestSuite) SetupTest() {
	s.transport = NewPipeTransport(clock.New())
}

func (s *PipeTransportTestSuite) TearDownTest() {
	goleak.VerifyNone(s.T())
}

func (s *PipeTransportTestSuite) TestListen() {
	addr := Addr{Name: "hey"}

	lis, err := s.transport.Listen(addr)
	s.Require().NoError(err)
	s.Require().NotNil(lis)

	got, ok := s.transport.listeners[addr]
	s.True(ok)
	s.Equal(lis, got)

	lis, err = s.transport.Listen(addr)
	s.ErrorIs(err, transport.ErrAddrAlreadyInUse)
	s.Nil(lis)
}

func (s *PipeTransportTestSuite) TestDial() {
	addr := Addr{Name: "hey"}

	lis, err := s.transport.Listen(addr)
	s.Require().NoError(err)
	defer lis.Close()

	accepted := make(chan transport.Conn, 1)
	go func() {
		conn, err := lis.Accept(context.Background())
		s.NoError(err)
		accepted <- conn
	}()

	conn, err := s.transport.Dial(context.Background(), addr)
	s.Require().NoError(err)
	s.Require().NotNil(conn)
	defer conn.Close()

	peer := <-accepted
	defer peer.Close()

	s.Equal(transport.Addr(addr), conn.RemoteAddr())
	s.Equal(conn.LocalAddr(), peer.RemoteAddr())
	s.EqualValues(1, s.transport.Dials())
}

func (s *PipeTransportTestSuite) TestDialRefused() {
	conn, err := s.transport.Dial(context.Background(), Addr{Name: "nobody"})
	s.ErrorIs(err, transport.ErrConnRefused)
	s.Nil(conn)
	s.EqualValues(1, s.transport.Dials())
}

func (s *PipeTransportTestSuite) TestDialContextDone() {
	addr := Addr{Name: "hey"}

	lis, err := s.transport.Listen(addr)
	s.Require().NoError(err)
	defer lis.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// Nobody accepts.
	conn, err := s.transport.Dial(ctx, addr)
	s.ErrorIs(err, context.DeadlineExceeded)
	s.Nil(conn)
}

func (s *PipeTransportTestSuite) TestListenerClose() {
	addr := Addr{Name: "hey"}

	lis, err := s.transport.Listen(addr)
	s.Require().NoError(err)

	s.NoError(lis.Close())
	s.ErrorIs(lis.Close(), transport.ErrConnListenerClosed)

	conn, err := lis.Accept(context.Background())
	s.ErrorIs(err, transport.ErrConnListenerClosed)
	s.Nil(conn)

	// The address is free again.
	lis, err = s.transport.Listen(addr)
	s.Require().NoError(err)
	s.NoError(lis.Close())
}
