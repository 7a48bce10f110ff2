//go:build unix

package tryio

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/legamerdc/tryio/internal/netutil"
	"github.com/legamerdc/tryio/poller"
)

// closer 保证 fd 只关闭一次，测试中途关闭后 Cleanup 不会误关被复用的 fd
func closer(t *testing.T, fd int) func() {
	t.Helper()
	var once sync.Once
	c := func() { once.Do(func() { unix.Close(fd) }) }
	t.Cleanup(c)
	return c
}

// nbPipe 返回非阻塞管道及各自的关闭函数
func nbPipe(t *testing.T) (r, w int, closeR, closeW func()) {
	t.Helper()
	var p [2]int
	require.NoError(t, unix.Pipe(p[:]))
	closeR, closeW = closer(t, p[0]), closer(t, p[1])
	require.NoError(t, unix.SetNonblock(p[0], true))
	require.NoError(t, unix.SetNonblock(p[1], true))
	return p[0], p[1], closeR, closeW
}

func listenTCP(t *testing.T) (lfd int, addr string) {
	t.Helper()
	lfd, err := netutil.Listen("tcp", "127.0.0.1:0", 16)
	require.NoError(t, err)
	closer(t, lfd)
	addr, err = netutil.LocalAddr(lfd)
	require.NoError(t, err)
	return lfd, addr
}

func dial(t *testing.T, network, addr string) net.Conn {
	t.Helper()
	c, err := net.DialTimeout(network, addr, 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

// accept 等待 lfd 可读后 TryAccept 一次
func accept(t *testing.T, e *Engine, lfd int) Accepted {
	t.Helper()
	ev, err := poller.Wait(lfd, poller.Readable, 5*time.Second)
	require.NoError(t, err)
	require.NotZero(t, ev&poller.Readable, "listener never became readable")
	a, st, err := e.TryAccept(lfd)
	require.NoError(t, err)
	require.Equal(t, Completed, st)
	closer(t, a.FD)
	return a
}

func waitReadable(t *testing.T, fd int) {
	t.Helper()
	ev, err := poller.Wait(fd, poller.Readable, 5*time.Second)
	require.NoError(t, err)
	require.NotZero(t, ev, "fd %d never became ready", fd)
}
