//go:build unix

package tryio

import (
	"sync/atomic"

	"github.com/legamerdc/tryio/autopush"
)

// Config 为 Engine 的配置
type Config struct {
	Autopush       bool // autopush 初始开关，运行中可用 SetAutopush 修改
	AcceptCloexec  bool // accept 出的 fd 设置 FD_CLOEXEC
	AcceptNonblock bool // accept 出的 fd 设置 O_NONBLOCK；关闭时只能用 TryRecv/TrySend
}

// DefaultConfig 返回默认配置：autopush 关闭，accept 出的 fd 为 cloexec + 非阻塞
func DefaultConfig() Config {
	return Config{
		Autopush:       false,
		AcceptCloexec:  true,
		AcceptNonblock: true,
	}
}

// Engine 持有配置与 autopush 状态，可被多个 goroutine 并发使用。
// fd 的生命周期由调用方负责，Engine 不会关闭或复制任何 fd。
type Engine struct {
	cfg       Config
	ap        *autopush.Controller
	noAccept4 atomic.Bool // accept4 返回过 ENOSYS
}

func New(cfg Config) *Engine {
	return newEngine(cfg, autopush.New())
}

func newEngine(cfg Config, ap *autopush.Controller) *Engine {
	ap.SetEnabled(cfg.Autopush)
	return &Engine{cfg: cfg, ap: ap}
}

// Config 返回构造时的配置（Autopush 字段为当前值）
func (e *Engine) Config() Config {
	c := e.cfg
	c.Autopush = e.ap.Enabled()
	return c
}

func (e *Engine) Autopush() bool { return e.ap.Enabled() }

// SetAutopush 修改 autopush 开关，只影响之后的 accept。
func (e *Engine) SetAutopush(on bool) { e.ap.SetEnabled(on) }

// Release 通知 Engine 调用方即将关闭 fd（连接或监听 fd）。
func (e *Engine) Release(fd int) { e.ap.Release(fd) }
