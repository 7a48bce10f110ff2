//go:build unix

package tryio

import "golang.org/x/sys/unix"

// TryRead 对 fd 做一次 read(2)，最多读 maxLen 字节。
//
// buf 为可复用缓冲：容量足够时原地使用，否则重新分配，返回的切片与 buf 共享底层数组，
// 调用方应以返回值作为下一次的 buf。buf 为 nil 时返回的切片容量等于实际读到的字节数。
// 结果为 Completed（数据在返回切片中）、WaitReadable 或 PeerEOF，
// 非 Completed 时返回长度为 0 的切片。fd 须为非阻塞。
func (e *Engine) TryRead(fd, maxLen int, buf []byte) ([]byte, Status, error) {
	if maxLen < 0 {
		return buf[:0], Completed, ErrInvalidArgument
	}
	fresh := buf == nil
	buf = sized(buf, maxLen)
	if maxLen == 0 {
		return buf, Completed, nil
	}
	e.ap.Recv(fd)
	n, err := unix.Read(fd, buf)
	return readResult("read", fd, buf, n, err, fresh)
}

// TryReadInto 读入调用方提供的固定大小缓冲 p，不做任何分配。
func (e *Engine) TryReadInto(fd int, p []byte) (int, Status, error) {
	if len(p) == 0 {
		return 0, Completed, nil
	}
	e.ap.Recv(fd)
	n, err := unix.Read(fd, p)
	st, err := Classify(OpRead, n, err)
	if err != nil {
		return 0, st, &OpError{Op: "read", FD: fd, Err: err}
	}
	if st != Completed {
		return 0, st, nil
	}
	return n, Completed, nil
}

// TryRecv 与 TryRead 相同，但使用 MSG_DONTWAIT，fd 不必为非阻塞（仅 socket）。
func (e *Engine) TryRecv(fd, maxLen int, buf []byte) ([]byte, Status, error) {
	return e.recv("recv", fd, maxLen, buf, unix.MSG_DONTWAIT)
}

// TryPeek 与 TryRecv 相同，但数据仍留在内核接收队列中。
func (e *Engine) TryPeek(fd, maxLen int, buf []byte) ([]byte, Status, error) {
	return e.recv("peek", fd, maxLen, buf, unix.MSG_DONTWAIT|unix.MSG_PEEK)
}

func (e *Engine) recv(op string, fd, maxLen int, buf []byte, flags int) ([]byte, Status, error) {
	if maxLen < 0 {
		return buf[:0], Completed, ErrInvalidArgument
	}
	fresh := buf == nil
	buf = sized(buf, maxLen)
	if maxLen == 0 {
		return buf, Completed, nil
	}
	e.ap.Recv(fd)
	n, _, err := unix.Recvfrom(fd, buf, flags)
	return readResult(op, fd, buf, n, err, fresh)
}

// TryWrite 对 fd 做一次 write(2)，不循环。
// 部分写返回 Completed 与实际字节数；内核一个字节都没接收时返回 WaitWritable。
// EPIPE 作为 error 返回。
func (e *Engine) TryWrite(fd int, p []byte) (int, Status, error) {
	if len(p) == 0 {
		return 0, Completed, nil
	}
	n, err := unix.Write(fd, p)
	return e.writeResult("write", fd, n, err)
}

// TrySend 与 TryWrite 相同，但使用 MSG_DONTWAIT（仅 socket）。
func (e *Engine) TrySend(fd int, p []byte) (int, Status, error) {
	if len(p) == 0 {
		return 0, Completed, nil
	}
	n, err := unix.SendmsgN(fd, p, nil, nil, unix.MSG_DONTWAIT)
	return e.writeResult("send", fd, n, err)
}

func (e *Engine) writeResult(op string, fd, n int, err error) (int, Status, error) {
	st, err := Classify(OpWrite, n, err)
	if err != nil {
		return 0, st, &OpError{Op: op, FD: fd, Err: err}
	}
	if st != Completed {
		return 0, st, nil
	}
	if n > 0 {
		e.ap.Sent(fd)
	}
	return n, Completed, nil
}

// fresh 表示 buf 由本次调用分配，短读时拷贝到恰好大小的切片，不让大缓冲随结果存活
func readResult(op string, fd int, buf []byte, n int, err error, fresh bool) ([]byte, Status, error) {
	st, err := Classify(OpRead, n, err)
	if err != nil {
		return buf[:0], st, &OpError{Op: op, FD: fd, Err: err}
	}
	if st != Completed {
		return buf[:0], st, nil
	}
	if fresh && n < len(buf) {
		return append([]byte(nil), buf[:n]...), Completed, nil
	}
	return buf[:n], Completed, nil
}

// sized 返回长度为 n 的缓冲，容量不足时才重新分配
func sized(buf []byte, n int) []byte {
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}
