//go:build darwin || freebsd

package netutil

import "golang.org/x/sys/unix"

const corkOption = unix.TCP_NOPUSH
