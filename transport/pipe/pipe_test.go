package pipe

import (
	"testing"
	"time"

	"hypersinc/transport"
	"hypersinc/transport/test"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/suite"
)

type PipeTestSuite struct {
	test.ConnTestSuite
}

func TestPipeTestSuite(t *testing.T) {
	suite.Run(t, new(PipeTestSuite))
}

func (s *PipeTestSuite) SetupTest() {
	s.ConnTestSuite.SetupTest()
	s.C1, s.C2 = NewPair("A", "B", s.Clock)
}

func (s *PipeTestSuite) TestReadAfterLocalClose() {
	s.Require().NoError(s.C1.Close())

	n, err := s.C1.Read(make([]byte, 1))
	s.ErrorIs(err, transport.ErrConnClosed)
	s.Zero(n)

	n, err = s.C2.Write([]byte("x"))
	s.ErrorIs(err, transport.ErrConnClosed)
	s.Zero(n)
}

func (s *PipeTestSuite) TestClearDeadLine() {
	s.C1.SetReadDeadLine(s.Clock.Now().Add(-time.Second))
	s.C1.SetReadDeadLine(time.Time{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		b := make([]byte, 2)
		n, err := s.C1.Read(b)
		s.NoError(err)
		s.Equal("hi", string(b[:n]))
	}()

	_, err := s.C2.Write([]byte("hi"))
	s.NoError(err)
	<-done
}

func TestDeadLineWithMockClock(t *testing.T) {
	mock := clock.NewMock()
	c1, c2 := NewPair("A", "B", mock)
	defer c1.Close()
	defer c2.Close()

	c1.SetReadDeadLine(mock.Now().Add(time.Minute))

	errc := make(chan error, 1)
	go func() {
		_, err := c1.Read(make([]byte, 1))
		errc <- err
	}()

	for {
		select {
		case err := <-errc:
			if err != transport.ErrDeadLineExceeded {
				t.Fatalf("expected deadline exceeded, got %v", err)
			}
			return
		case <-time.After(time.Millisecond):
			mock.Add(time.Minute)
		}
	}
}
