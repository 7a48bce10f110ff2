//go:build unix

package poller

import (
	"errors"
	"math"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// Event 为 poll(2) 事件位，取值与平台原生一致。
type Event int16

const (
	In   Event = unix.POLLIN
	Pri  Event = unix.POLLPRI
	Out  Event = unix.POLLOUT
	Err  Event = unix.POLLERR
	Hup  Event = unix.POLLHUP
	Nval Event = unix.POLLNVAL
)

// 方向别名，便于与 tryio.Status 对照
const (
	Readable = In
	Writable = Out
)

// NoTimeout 表示无限等待。
const NoTimeout time.Duration = -1

// Set 是 fd -> 关注事件 的请求集合。Poll 原地改写为就绪集合。
type Set map[int]Event

// Poll 阻塞直到 set 中至少一个 fd 就绪、超时或被信号打断。
//
// 成功时原地改写并返回同一个 set：只保留就绪的 fd，值替换为实际 revents
// （即使未请求，Hup/Err/Nval 也会报告）。超时返回 (nil, nil)。
// EINTR 不重试，返回的 error 满足 errors.Is(err, unix.EINTR)。
//
// timeout 为 0 时立即返回，为负（NoTimeout）时无限等待。
// poll(2) 经由 Syscall 进入内核，等待期间当前 goroutine 处于系统调用状态，
// 调度器会把 P 交给其他 goroutine，不会饿死其他任务。
func Poll(set Set, timeout time.Duration) (Set, error) {
	fds := make([]unix.PollFd, 0, len(set))
	for fd, ev := range set {
		fds = append(fds, unix.PollFd{Fd: int32(fd), Events: int16(ev)})
	}
	n, err := unix.Poll(fds, millis(timeout))
	if err != nil {
		return nil, os.NewSyscallError("poll", err)
	}
	if n == 0 {
		return nil, nil
	}
	for i := range fds {
		fd := int(fds[i].Fd)
		if fds[i].Revents == 0 {
			delete(set, fd)
			continue
		}
		set[fd] = Event(fds[i].Revents)
	}
	return set, nil
}

// Wait 等待单个 fd，超时返回 0。
func Wait(fd int, ev Event, timeout time.Duration) (Event, error) {
	fds := [1]unix.PollFd{{Fd: int32(fd), Events: int16(ev)}}
	n, err := unix.Poll(fds[:], millis(timeout))
	if err != nil {
		return 0, os.NewSyscallError("poll", err)
	}
	if n == 0 {
		return 0, nil
	}
	return Event(fds[0].Revents), nil
}

// IsInterrupted 报告 err 是否为信号打断（EINTR）。
func IsInterrupted(err error) bool { return errors.Is(err, unix.EINTR) }

// millis 将 timeout 转为 poll(2) 的毫秒参数，不足 1ms 的正值向上取整。
func millis(d time.Duration) int {
	if d < 0 {
		return -1
	}
	ms := (d + time.Millisecond - 1) / time.Millisecond
	if ms > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(ms)
}
