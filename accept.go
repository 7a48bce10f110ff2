//go:build unix

package tryio

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/legamerdc/tryio/internal/netutil"
)

// Localhost 为 unix socket 连接的 Addr
const Localhost = "127.0.0.1"

// Accepted 为 TryAccept 成功时的新连接，FD 归调用方所有。
type Accepted struct {
	FD   int
	Addr string // 对端 IP（不含端口）
}

// TryAccept 在非阻塞监听 fd 上尝试 accept 一次。
// 无待处理连接时返回 WaitReadable。成功后 autopush 可能对新 fd 设置写合并。
// lfd 必须处于非阻塞模式，否则本调用会阻塞。
func (e *Engine) TryAccept(lfd int) (Accepted, Status, error) {
	fd, sa, err := e.sysAccept(lfd)
	if err != nil {
		st, err := Classify(OpAccept, -1, err)
		if err != nil {
			return Accepted{FD: -1}, st, &OpError{Op: "accept", FD: lfd, Err: err}
		}
		return Accepted{FD: -1}, st, nil
	}
	e.ap.Accept(lfd, fd)
	return Accepted{FD: fd, Addr: peerAddr(sa)}, Completed, nil
}

// acceptFallback 为没有 accept4 的平台：accept + fcntl。
func (e *Engine) acceptFallback(lfd int) (int, unix.Sockaddr, error) {
	// 与 fork 互斥，避免 fd 在设置 CLOEXEC 之前泄漏到子进程
	syscall.ForkLock.RLock()
	fd, sa, err := unix.Accept(lfd)
	if err == nil && e.cfg.AcceptCloexec {
		unix.CloseOnExec(fd)
	}
	syscall.ForkLock.RUnlock()
	if err != nil {
		return -1, nil, err
	}
	if e.cfg.AcceptNonblock {
		if err := netutil.SetNonblock(fd, true); err != nil {
			unix.Close(fd)
			return -1, nil, err
		}
	}
	return fd, sa, nil
}

func peerAddr(sa unix.Sockaddr) string {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return net.IP(a.Addr[:]).String()
	case *unix.SockaddrInet6:
		return net.IP(a.Addr[:]).String()
	case *unix.SockaddrUnix:
		return Localhost
	}
	return ""
}
