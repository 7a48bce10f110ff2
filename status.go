package tryio

import "github.com/legamerdc/tryio/poller"

// Status 为一次调用的非异常结果，每次调用恰好给出一种。
type Status uint8

const (
	Completed        Status = iota // 成功（可能是部分写）
	WaitReadable                   // 会阻塞，等待可读后重试
	WaitWritable                   // 会阻塞，等待可写后重试
	PeerEOF                        // 对端关闭（含 ECONNRESET）
	NotFound                       // 打开文件：ENOENT
	PermissionDenied               // 打开文件：EACCES
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case WaitReadable:
		return "wait_readable"
	case WaitWritable:
		return "wait_writable"
	case PeerEOF:
		return "eof"
	case NotFound:
		return "ENOENT"
	case PermissionDenied:
		return "EACCES"
	}
	return "unknown"
}

func (s Status) WouldBlock() bool { return s == WaitReadable || s == WaitWritable }

// OpenFailed 报告 s 是否为打开文件的两种常见失败之一。
func (s Status) OpenFailed() bool { return s == NotFound || s == PermissionDenied }

// Event 返回等待 s 时应关注的 poll 事件；非阻塞状态返回 0。
func (s Status) Event() poller.Event {
	switch s {
	case WaitReadable:
		return poller.Readable
	case WaitWritable:
		return poller.Writable
	}
	return 0
}
