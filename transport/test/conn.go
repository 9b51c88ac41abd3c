// Package test holds a conformance suite shared by [transport.Conn] implementations.
package test

import (
	"io"
	"sync"
	"time"

	"hypersinc/transport"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

// ConnTestSuite expects C1 and C2 to be the two ends of one connection,
// set up by the embedding suite after calling SetupTest.
type ConnTestSuite struct {
	suite.Suite
	C1, C2 transport.Conn
	Clock  clock.Clock

	done  chan struct{}
	timer *time.Timer
}

func (s *ConnTestSuite) SetupTest() {
	s.done = make(chan struct{})
	s.Clock = clock.New() // Use real-time timer for now.

	s.timer = time.AfterFunc(time.Second, func() {
		select {
		case <-s.done:
		default:
			s.FailNow("timeout exceeded")
		}
	})
}

func (s *ConnTestSuite) TearDownTest() {
	defer goleak.VerifyNone(s.T())
	s.C1.Close()
	s.C2.Close()
	close(s.done)
	s.timer.Stop()
}

// IsEndOfStream reports whether err means the peer is gone.
func IsEndOfStream(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, transport.ErrConnClosed)
}

func (s *ConnTestSuite) TestReadWrite() {
	data := []byte("Hello, World!")

	var wg sync.WaitGroup
	defer wg.Wait()
	wg.Add(1)

	go func() {
		defer wg.Done()
		n, err := s.C1.Write(data)
		s.NoError(err)
		s.Equal(len(data), n)
	}()

	got := make([]byte, 0, len(data))
	buf := make([]byte, 5)
	for len(got) < len(data) {
		n, err := s.C2.Read(buf)
		s.Require().NoError(err)
		got = append(got, buf[:n]...)
	}
	s.Equal(data, got)
}

func (s *ConnTestSuite) TestWriteThenPeerClose() {
	data := []byte("HTTP/1.0 200 OK\r\n\r\nok")

	var wg sync.WaitGroup
	defer wg.Wait()
	wg.Add(1)

	go func() {
		defer wg.Done()
		_, err := s.C1.Write(data)
		s.NoError(err)
		s.NoError(s.C1.Close())
	}()

	var got []byte
	buf := make([]byte, 4)
	for {
		n, err := s.C2.Read(buf)
		got = append(got, buf[:n]...)
		if err != nil {
			s.True(IsEndOfStream(err), "unexpected error: %v", err)
			break
		}
	}
	s.Equal(data, got)
}

func (s *ConnTestSuite) TestReadDeadLine() {
	s.C1.SetReadDeadLine(s.Clock.Now().Add(-time.Second))

	b := make([]byte, 1)
	n, err := s.C1.Read(b)
	s.ErrorIs(err, transport.ErrDeadLineExceeded)
	s.Zero(n)
}

func (s *ConnTestSuite) TestReadDeadLineWhileBlocked() {
	s.C1.SetReadDeadLine(s.Clock.Now().Add(50 * time.Millisecond))

	b := make([]byte, 1)
	n, err := s.C1.Read(b)
	s.ErrorIs(err, transport.ErrDeadLineExceeded)
	s.Zero(n)
}

func (s *ConnTestSuite) TestWriteDeadLine() {
	s.C1.SetWriteDeadLine(s.Clock.Now().Add(-time.Second))

	b := make([]byte, 1)
	n, err := s.C1.Write(b)
	s.ErrorIs(err, transport.ErrDeadLineExceeded)
	s.Zero(n)
}

func (s *ConnTestSuite) TestAddr() {
	local1, remote1 := s.C1.LocalAddr(), s.C1.RemoteAddr()
	local2, remote2 := s.C2.LocalAddr(), s.C2.RemoteAddr()

	s.Equal(local1, remote2)
	s.Equal(local2, remote1)
}
