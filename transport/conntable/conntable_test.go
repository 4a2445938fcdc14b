package conntable

import (
	"context"
	"log/slog"
	"sip-stack/transport"
	"sip-stack/transport/tuple"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type TableTestSuite struct {
	suite.Suite

	table *Table
	clock *clock.Mock
}

func TestTableTestSuite(t *testing.T) {
	suite.Run(t, new(TableTestSuite))
}

func (s *TableTestSuite) SetupTest() {
	s.clock = clock.NewMock()
	s.table = New(s.clock, time.Minute, slog.New(slog.DiscardHandler))
}

func (s *TableTestSuite) tuple(addr string, port uint16, typ transport.Type) tuple.Tuple {
	tup, err := tuple.Parse(addr, port, typ, "")
	s.Require().NoError(err)
	return tup
}

func (s *TableTestSuite) TestAttach() {
	remote := s.tuple("10.0.0.1", 5060, transport.TCP)

	first := s.table.Attach(remote)
	s.NotZero(first.ConnectionID())
	s.True(first.Equal(remote))

	again := s.table.Attach(remote.WithTargetDomain("example.com").WithConnectionID(99))
	s.Equal(first.ConnectionID(), again.ConnectionID(), "metadata does not split connections")
	s.Equal("example.com", again.TargetDomain())

	other := s.table.Attach(s.tuple("10.0.0.1", 5061, transport.TCP))
	s.Greater(other.ConnectionID(), first.ConnectionID())

	s.Equal(2, s.table.Len())
}

func (s *TableTestSuite) TestAttachConnectionless() {
	remote := s.tuple("10.0.0.1", 5060, transport.UDP)

	s.Equal(remote, s.table.Attach(remote))
	s.Zero(s.table.Len())
}

func (s *TableTestSuite) TestLookupAndDetach() {
	remote := s.tuple("10.0.0.1", 5061, transport.TLS)

	_, ok := s.table.Lookup(remote)
	s.False(ok)

	attached := s.table.Attach(remote)

	id, ok := s.table.Lookup(remote)
	s.True(ok)
	s.Equal(attached.ConnectionID(), id)

	s.True(s.table.Detach(remote))
	s.False(s.table.Detach(remote))

	_, ok = s.table.Lookup(remote)
	s.False(ok)

	reattached := s.table.Attach(remote)
	s.NotEqual(attached.ConnectionID(), reattached.ConnectionID(), "ids are never reused")
}

func (s *TableTestSuite) TestSweep() {
	idle := s.tuple("10.0.0.1", 5060, transport.TCP)
	busy := s.tuple("10.0.0.2", 5060, transport.TCP)

	s.table.Attach(idle)
	s.table.Attach(busy)

	s.clock.Add(40 * time.Second)
	s.True(s.table.Touch(busy))
	s.False(s.table.Touch(s.tuple("10.0.0.3", 5060, transport.TCP)))

	s.clock.Add(30 * time.Second)
	s.Equal(1, s.table.Sweep())

	_, ok := s.table.Lookup(idle)
	s.False(ok)
	_, ok = s.table.Lookup(busy)
	s.True(ok)
}

func (s *TableTestSuite) TestNewRejectsIdleTimeout() {
	for _, timeout := range []time.Duration{0, -time.Second} {
		s.Panics(func() { New(s.clock, timeout, nil) }, timeout.String())
	}
}

func (s *TableTestSuite) TestRun() {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.table.Run(ctx)
	}()

	s.table.Attach(s.tuple("10.0.0.1", 5060, transport.TCP))

	s.Eventually(func() bool {
		s.clock.Add(time.Minute)
		return s.table.Len() == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
