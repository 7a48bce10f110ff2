//go:build linux

package netutil

import "golang.org/x/sys/unix"

// Linux 下 accept 出来的 socket 会继承监听 socket 的 TCP_CORK
const corkOption = unix.TCP_CORK
