//go:build unix

package autopush

import "github.com/legamerdc/tryio/internal/netutil"

// Sockopt 抽象写合并选项的读写。
type Sockopt interface {
	Corked(fd int) (bool, error)
	SetCork(fd int, on bool) error
}

type sysSockopt struct{}

func (sysSockopt) Corked(fd int) (bool, error)   { return netutil.Corked(fd) }
func (sysSockopt) SetCork(fd int, on bool) error { return netutil.SetCork(fd, on) }

// System 直接调用 getsockopt/setsockopt。
var System Sockopt = sysSockopt{}
