//go:build linux || freebsd || netbsd || openbsd || dragonfly

package tryio

import "golang.org/x/sys/unix"

// sysAccept 优先使用 accept4 一次完成 cloexec/nonblock 设置
func (e *Engine) sysAccept(lfd int) (int, unix.Sockaddr, error) {
	if !e.noAccept4.Load() {
		flags := 0
		if e.cfg.AcceptCloexec {
			flags |= unix.SOCK_CLOEXEC
		}
		if e.cfg.AcceptNonblock {
			flags |= unix.SOCK_NONBLOCK
		}
		fd, sa, err := unix.Accept4(lfd, flags)
		if err != unix.ENOSYS {
			return fd, sa, err
		}
		// 内核不支持 accept4，之后一律走 accept + fcntl
		e.noAccept4.Store(true)
	}
	return e.acceptFallback(lfd)
}
