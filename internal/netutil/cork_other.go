//go:build unix && !linux && !darwin && !freebsd

package netutil

const corkOption = -1
