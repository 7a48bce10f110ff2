//go:build unix

package tryio

import "golang.org/x/sys/unix"

// Op 为被分类的系统调用类别
type Op uint8

const (
	OpRead Op = iota // read/recv/peek
	OpWrite
	OpAccept
	OpOpen
)

// Classify 将一次系统调用的结果（n 为字节数或新 fd，err 为 errno）映射为 Status；
// 无法归为常见结果的 errno 原样作为 error 返回。
//
//   - EAGAIN：读/accept 为 WaitReadable，写为 WaitWritable
//   - 读到 0 字节或读时 ECONNRESET：PeerEOF
//   - 打开时 ENOENT/EACCES：NotFound/PermissionDenied
//   - EINTR、写时 EPIPE 等其余 errno：error
//
// 调用方需自行排除长度为 0 的读请求，否则会被当作 PeerEOF。
func Classify(op Op, n int, err error) (Status, error) {
	if err == nil {
		if op == OpRead && n == 0 {
			return PeerEOF, nil
		}
		return Completed, nil
	}
	errno, ok := err.(unix.Errno)
	if !ok {
		return Completed, err
	}
	switch op {
	case OpRead:
		switch errno {
		case unix.EAGAIN: // 所支持平台上 EWOULDBLOCK == EAGAIN
			return WaitReadable, nil
		case unix.ECONNRESET:
			return PeerEOF, nil
		}
	case OpWrite:
		if errno == unix.EAGAIN {
			return WaitWritable, nil
		}
	case OpAccept:
		if errno == unix.EAGAIN {
			return WaitReadable, nil
		}
	case OpOpen:
		switch errno {
		case unix.ENOENT:
			return NotFound, nil
		case unix.EACCES:
			return PermissionDenied, nil
		}
	}
	return Completed, err
}
