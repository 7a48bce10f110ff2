// Package ring 提供定长的字节环形缓冲，用于在非阻塞读之间累积未完成的请求行。
package ring

import (
	"bytes"
	"errors"
)

var ErrTooLarge = errors.New("ring: write too large")

// Buffer 不做并发保护，由单个 poll 循环独占使用。
type Buffer struct {
	buf  []byte
	mask int
	r, w int
}

// New 返回容量为 2 的幂次的缓冲，capacity 向上取整。
func New(capacity int) *Buffer {
	n := 1
	for n < capacity {
		n <<= 1
	}
	return &Buffer{buf: make([]byte, n), mask: n - 1}
}

func (b *Buffer) Cap() int  { return len(b.buf) }
func (b *Buffer) Len() int  { return b.w - b.r }
func (b *Buffer) Free() int { return b.Cap() - b.Len() }

// Write 要么整体写入，要么返回 ErrTooLarge 且不改变内容。
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) > b.Free() {
		return 0, ErrTooLarge
	}
	start := b.w & b.mask
	n := copy(b.buf[start:], p)
	copy(b.buf, p[n:])
	b.w += len(p)
	return len(p), nil
}

// Fill 写入 p 中不超过 Free() 的前缀，返回写入的字节数。
func (b *Buffer) Fill(p []byte) int {
	n := min(len(p), b.Free())
	_, _ = b.Write(p[:n])
	return n
}

// IndexByte 返回 c 相对读位置的偏移，不存在时返回 -1。
func (b *Buffer) IndexByte(c byte) int {
	head, tail := b.segments()
	if i := bytes.IndexByte(head, c); i >= 0 {
		return i
	}
	if i := bytes.IndexByte(tail, c); i >= 0 {
		return len(head) + i
	}
	return -1
}

// Peek 返回最多 n 字节而不前进读位置。跨越尾部时返回拷贝。
func (b *Buffer) Peek(n int) []byte {
	if n <= 0 {
		return nil
	}
	n = min(n, b.Len())
	head, tail := b.segments()
	if n <= len(head) {
		return head[:n]
	}
	out := make([]byte, n)
	copy(out, head)
	copy(out[len(head):], tail)
	return out
}

// Discard 前进读位置，返回实际丢弃的字节数。
func (b *Buffer) Discard(n int) int {
	n = min(n, b.Len())
	b.r += n
	if b.r == b.w {
		b.r, b.w = 0, 0
	}
	return n
}

func (b *Buffer) Reset() { b.r, b.w = 0, 0 }

// segments 返回可读数据的两段连续视图。
func (b *Buffer) segments() (head, tail []byte) {
	ln := b.Len()
	start := b.r & b.mask
	if start+ln <= len(b.buf) {
		return b.buf[start : start+ln], nil
	}
	return b.buf[start:], b.buf[:start+ln-len(b.buf)]
}
