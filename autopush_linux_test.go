//go:build linux

package tryio

import (
	"io"
	"net"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/legamerdc/tryio/autopush"
	"github.com/legamerdc/tryio/internal/netutil"
)

// countingOpt 统计真实的 TCP_CORK get/setsockopt 调用
type countingOpt struct {
	gets, sets atomic.Int32
}

func (c *countingOpt) Corked(fd int) (bool, error) {
	c.gets.Add(1)
	return autopush.System.Corked(fd)
}

func (c *countingOpt) SetCork(fd int, on bool) error {
	c.sets.Add(1)
	return autopush.System.SetCork(fd, on)
}

type EngineAutopushSuite struct {
	suite.Suite
	opt  *countingOpt
	e    *Engine
	lfd  int
	addr string
}

func (s *EngineAutopushSuite) SetupTest() {
	s.opt = &countingOpt{}
	cfg := DefaultConfig()
	cfg.Autopush = true
	s.e = newEngine(cfg, autopush.New(autopush.WithSockopt(s.opt)))
	s.lfd, s.addr = listenTCP(s.T())
}

func (s *EngineAutopushSuite) calls() (int32, int32) {
	return s.opt.gets.Load(), s.opt.sets.Load()
}

func (s *EngineAutopushSuite) kernelCorked(fd int) bool {
	on, err := netutil.Corked(fd)
	s.Require().NoError(err)
	return on
}

func (s *EngineAutopushSuite) TestFlagAccessors() {
	s.True(s.e.Autopush())
	s.e.SetAutopush(false)
	s.False(s.e.Autopush())
	s.False(s.e.Config().Autopush)
	s.False(New(DefaultConfig()).Autopush())
}

func (s *EngineAutopushSuite) TestDisabledNeverCorks() {
	s.e.SetAutopush(false)
	dial(s.T(), "tcp", s.addr)
	a := accept(s.T(), s.e, s.lfd)

	n, st, err := s.e.TryWrite(a.FD, []byte("HI\n"))
	s.Require().NoError(err)
	s.Equal(Completed, st)
	s.Equal(3, n)

	gets, sets := s.calls()
	s.Zero(gets)
	s.Zero(sets)
	s.False(s.kernelCorked(a.FD))
}

// 监听 fd 未 cork：每条新连接恰好 setsockopt 一次，之后的写不再调用
func (s *EngineAutopushSuite) TestCorkAppliedOnce() {
	c := dial(s.T(), "tcp", s.addr)
	a := accept(s.T(), s.e, s.lfd)
	s.True(s.kernelCorked(a.FD))
	gets, sets := s.calls()
	s.EqualValues(1, gets)
	s.EqualValues(1, sets)

	n, st, err := s.e.TryWrite(a.FD, []byte("HI\n"))
	s.Require().NoError(err)
	s.Equal(Completed, st)
	s.Equal(3, n)
	_, _, err = s.e.TryWrite(a.FD, []byte("MORE\n"))
	s.Require().NoError(err)
	_, sets = s.calls()
	s.EqualValues(1, sets)

	// 读触发 flush，对端收到全部数据
	_, st, err = s.e.TryRead(a.FD, 16, nil)
	s.Require().NoError(err)
	s.Equal(WaitReadable, st)
	_, sets = s.calls()
	s.EqualValues(3, sets)

	s.Require().NoError(c.SetReadDeadline(time.Now().Add(5 * time.Second)))
	got := make([]byte, 8)
	_, err = io.ReadFull(c, got)
	s.Require().NoError(err)
	s.Equal("HI\nMORE\n", string(got))

	dial(s.T(), "tcp", s.addr)
	b := accept(s.T(), s.e, s.lfd)
	s.True(s.kernelCorked(b.FD))
	gets, sets = s.calls()
	s.EqualValues(1, gets)
	s.EqualValues(4, sets)
}

// 监听 fd 已 cork：新连接继承，只探测一次
func (s *EngineAutopushSuite) TestInheritedCork() {
	s.Require().NoError(netutil.SetCork(s.lfd, true))

	wr := dial(s.T(), "tcp", s.addr)
	rd := accept(s.T(), s.e, s.lfd)
	gets, sets := s.calls()
	s.EqualValues(1, gets)
	s.Zero(sets)
	s.True(s.kernelCorked(rd.FD))

	_, err := wr.Write([]byte("HI\n"))
	s.Require().NoError(err)
	waitReadable(s.T(), rd.FD)
	got, st, err := s.e.TryRead(rd.FD, 3, nil)
	s.Require().NoError(err)
	s.Equal(Completed, st)
	s.Equal("HI\n", string(got))
	_, sets = s.calls()
	s.Zero(sets)

	t0 := time.Now()
	_, _, err = s.e.TryWrite(rd.FD, []byte("HI2U2\n"))
	s.Require().NoError(err)
	_, _, err = s.e.TryWrite(rd.FD, []byte("HOW\n"))
	s.Require().NoError(err)
	_, st, err = s.e.TryRead(rd.FD, 666, nil)
	s.Require().NoError(err)
	s.Equal(WaitReadable, st)
	_, sets = s.calls()
	s.EqualValues(2, sets)

	s.Require().NoError(wr.SetReadDeadline(time.Now().Add(5 * time.Second)))
	buf := make([]byte, 10)
	_, err = io.ReadFull(wr, buf)
	s.Require().NoError(err)
	s.Equal("HI2U2\nHOW\n", string(buf))
	// TCP_CORK 自身的超时为 200ms，flush 后应早于它到达
	s.Less(time.Since(t0), 200*time.Millisecond)

	s.e.Release(rd.FD)
	dial(s.T(), "tcp", s.addr)
	rd2 := accept(s.T(), s.e, s.lfd)
	gets, sets = s.calls()
	s.EqualValues(1, gets)
	s.EqualValues(2, sets)
	s.True(s.kernelCorked(rd2.FD))
}

func (s *EngineAutopushSuite) TestUnixSocketIgnored() {
	path := filepath.Join(s.T().TempDir(), "ap.sock")
	lfd, err := netutil.Listen("unix", path, 4)
	s.Require().NoError(err)
	closer(s.T(), lfd)

	c := dial(s.T(), "unix", path)
	a := accept(s.T(), s.e, lfd)
	_, sets := s.calls()
	s.Zero(sets)

	_, _, err = s.e.TryWrite(a.FD, []byte("HI\n"))
	s.Require().NoError(err)
	_, st, err := s.e.TryRead(a.FD, 666, nil)
	s.Require().NoError(err)
	s.Equal(WaitReadable, st)
	_, sets = s.calls()
	s.Zero(sets)

	got := make([]byte, 3)
	s.Require().NoError(c.SetReadDeadline(time.Now().Add(5 * time.Second)))
	_, err = io.ReadFull(c.(*net.UnixConn), got)
	s.Require().NoError(err)
	s.Equal("HI\n", string(got))
}

func TestEngineAutopushSuite(t *testing.T) {
	suite.Run(t, new(EngineAutopushSuite))
}
