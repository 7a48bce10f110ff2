//go:build unix

package netutil

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// SetNonblock 设置或清除 O_NONBLOCK。
func SetNonblock(fd int, nonblock bool) error {
	return unix.SetNonblock(fd, nonblock)
}

// SetNoDelay 设置 TCP_NODELAY。与写合并选项同时开启时，以写合并为准。
func SetNoDelay(fd int, enable bool) error {
	return unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, boolint(enable))
}

// SetCork 打开/关闭写合并选项（Linux 为 TCP_CORK，BSD 系为 TCP_NOPUSH）。
// 平台不支持时返回 ENOPROTOOPT。
func SetCork(fd int, enable bool) error {
	if corkOption < 0 {
		return unix.ENOPROTOOPT
	}
	return unix.SetsockoptInt(fd, unix.IPPROTO_TCP, corkOption, boolint(enable))
}

// Corked 读取 fd 当前的写合并选项。
func Corked(fd int) (bool, error) {
	if corkOption < 0 {
		return false, unix.ENOPROTOOPT
	}
	v, err := unix.GetsockoptInt(fd, unix.IPPROTO_TCP, corkOption)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// SetLinger0 使 Close 发送 RST 而不是 FIN。
func SetLinger0(fd int) error {
	return unix.SetsockoptLinger(fd, unix.SOL_SOCKET, unix.SO_LINGER, &unix.Linger{Onoff: 1, Linger: 0})
}

// FD 从 net.Conn / net.Listener / *os.File 中抽取 fd。
// 返回的 fd 仍归原对象所有，调用方不得关闭。
func FD(c syscall.Conn) (int, error) {
	rc, err := c.SyscallConn()
	if err != nil {
		return -1, err
	}
	fd := -1
	if err := rc.Control(func(rawfd uintptr) { fd = int(rawfd) }); err != nil {
		return -1, err
	}
	return fd, nil
}

func boolint(b bool) int {
	if b {
		return 1
	}
	return 0
}
