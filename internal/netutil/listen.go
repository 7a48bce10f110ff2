//go:build unix

package netutil

import (
	"net"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Listen 创建非阻塞监听 fd，支持 tcp/tcp4/tcp6 与 unix。
// 返回的 fd 归调用方所有。
func Listen(network, address string, backlog int) (int, error) {
	if backlog <= 0 {
		backlog = 1024
	}
	var (
		fam int
		sa  unix.Sockaddr
	)
	switch {
	case network == "unix":
		fam = unix.AF_UNIX
		sa = &unix.SockaddrUnix{Name: address}
	case strings.HasSuffix(network, "6"):
		addr, err := net.ResolveTCPAddr("tcp6", address)
		if err != nil {
			return -1, err
		}
		var sa6 unix.SockaddrInet6
		if addr.IP != nil {
			copy(sa6.Addr[:], addr.IP.To16())
		}
		sa6.Port = addr.Port
		fam, sa = unix.AF_INET6, &sa6
	default:
		addr, err := net.ResolveTCPAddr("tcp4", address)
		if err != nil {
			return -1, err
		}
		var sa4 unix.SockaddrInet4
		if addr.IP != nil {
			copy(sa4.Addr[:], addr.IP.To4())
		}
		sa4.Port = addr.Port
		fam, sa = unix.AF_INET, &sa4
	}

	fd, err := unix.Socket(fam, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, err
	}
	unix.CloseOnExec(fd)
	if fam != unix.AF_UNIX {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	}
	if err := SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -1, err
	}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return -1, err
	}
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return -1, err
	}
	return fd, nil
}

// LocalAddr 返回 fd 绑定的地址，格式与 net.Dial 的 address 参数一致。
func LocalAddr(fd int) (string, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return "", err
	}
	return SockaddrString(sa), nil
}

// SockaddrString 将 sockaddr 转为 host:port（unix socket 返回路径）。
func SockaddrString(sa unix.Sockaddr) string {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return net.JoinHostPort(net.IP(a.Addr[:]).String(), strconv.Itoa(a.Port))
	case *unix.SockaddrInet6:
		return net.JoinHostPort(net.IP(a.Addr[:]).String(), strconv.Itoa(a.Port))
	case *unix.SockaddrUnix:
		return a.Name
	}
	return ""
}

func Close(fd int) error { return unix.Close(fd) }
