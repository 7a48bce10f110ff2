//go:build unix

// Package autopush 在 accept 出来的 TCP 连接上自动管理写合并（TCP_CORK / TCP_NOPUSH）。
//
// 策略：
//   - accept 时若开关打开，连接进入 corked 状态；同一监听 fd 若能把 cork 继承给
//     新连接（Linux 下监听 socket 已设置 TCP_CORK），只在第一次 accept 时探测一次，
//     之后的 accept 不再产生任何 sockopt 系统调用；否则每条新连接恰好 setsockopt 一次。
//   - 写成功后标记为 written，不做系统调用。
//   - 下一次读之前若处于 written，先 uncork 再立即 recork，把积压的小包推出去。
//   - 关闭开关只影响之后的 accept，已 corked 的连接保持原状。
//
// 设置 sockopt 失败一律吞掉，连接按未 corked 处理：写合并只是吞吐优化。
// 状态表以 fd 为键；调用方关闭 fd 前应调用 Release，否则表项可能过期，
// 过期表项只会让一次优化失效，不影响正确性。
package autopush

import (
	"sync/atomic"

	cmap "github.com/orcaman/concurrent-map/v2"
)

type state int32

const (
	stateIgnore  state = iota - 1 // 不管理
	stateWriter                   // 已 cork，自上次读以来没有写
	stateWritten                  // 已 cork，有待推送的数据

	// 以下只用于监听 fd
	stateInherit // 新连接继承 cork，无需系统调用
	stateApply   // 每条新连接需要 setsockopt
)

type sock struct {
	st atomic.Int32
}

func newSock(s state) *sock {
	k := &sock{}
	k.st.Store(int32(s))
	return k
}

func (k *sock) load() state { return state(k.st.Load()) }

func (k *sock) cas(from, to state) bool { return k.st.CompareAndSwap(int32(from), int32(to)) }

// Controller 持有进程级 autopush 开关与 fd 状态表，可并发使用。
type Controller struct {
	enabled atomic.Bool
	opt     Sockopt
	socks   cmap.ConcurrentMap[int, *sock]
}

type Option func(*Controller)

// WithSockopt 替换底层 sockopt 实现（测试中用于计数）。
func WithSockopt(o Sockopt) Option {
	return func(c *Controller) { c.opt = o }
}

func New(opts ...Option) *Controller {
	c := &Controller{
		opt:   System,
		socks: cmap.NewWithCustomShardingFunction[int, *sock](shard),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func shard(fd int) uint32 { return uint32(fd) }

func (c *Controller) Enabled() bool { return c.enabled.Load() }

func (c *Controller) SetEnabled(on bool) { c.enabled.Store(on) }

// Accept 在 lfd 上成功 accept 出 fd 后调用。
func (c *Controller) Accept(lfd, fd int) {
	if !c.enabled.Load() {
		// fd 是内核新分配的，旧表项必然过期
		c.socks.Remove(fd)
		return
	}
	acc, ok := c.socks.Get(lfd)
	if !ok {
		acc = newSock(c.probe(fd))
		c.socks.Set(lfd, acc)
	}
	switch acc.load() {
	case stateInherit:
		c.socks.Set(fd, newSock(stateWriter))
	case stateApply:
		if err := c.opt.SetCork(fd, true); err != nil {
			c.socks.Remove(fd)
			return
		}
		c.socks.Set(fd, newSock(stateWriter))
	default:
		c.socks.Remove(fd)
	}
}

// probe 用第一条新连接判断监听 fd 的 cork 是否会被继承。
func (c *Controller) probe(fd int) state {
	corked, err := c.opt.Corked(fd)
	switch {
	case err != nil:
		return stateIgnore
	case corked:
		return stateInherit
	default:
		return stateApply
	}
}

// Sent 在 fd 写成功（至少 1 字节）后调用。
func (c *Controller) Sent(fd int) {
	if k, ok := c.socks.Get(fd); ok {
		k.cas(stateWriter, stateWritten)
	}
}

// Recv 在 fd 读之前调用，推送上次读之后写入的数据。
func (c *Controller) Recv(fd int) {
	k, ok := c.socks.Get(fd)
	if !ok || !k.cas(stateWritten, stateWriter) {
		return
	}
	if c.enabled.Load() {
		c.flush(fd)
	}
}

func (c *Controller) flush(fd int) {
	if err := c.opt.SetCork(fd, false); err != nil {
		return
	}
	_ = c.opt.SetCork(fd, true)
}

// Corked 报告 fd 当前是否处于 corked 状态。
func (c *Controller) Corked(fd int) bool {
	k, ok := c.socks.Get(fd)
	if !ok {
		return false
	}
	s := k.load()
	return s == stateWriter || s == stateWritten
}

// Release 删除 fd（连接或监听）的表项，应在调用方关闭 fd 之前调用。
func (c *Controller) Release(fd int) { c.socks.Remove(fd) }

// Len 返回状态表中的表项数。
func (c *Controller) Len() int { return c.socks.Count() }
