//go:build unix && !linux && !freebsd && !netbsd && !openbsd && !dragonfly

package tryio

import "golang.org/x/sys/unix"

func (e *Engine) sysAccept(lfd int) (int, unix.Sockaddr, error) {
	return e.acceptFallback(lfd)
}
