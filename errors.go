package tryio

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	// ErrInvalidArgument 参数非法
	ErrInvalidArgument = errors.New("tryio: invalid argument")
)

// OpError 为致命错误或信号打断，Err 为原始 errno。
type OpError struct {
	Op  string
	FD  int
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("tryio: %s fd=%d: %v", e.Op, e.FD, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// IsInterrupted 报告 err 是否为 EINTR，调用方自行决定是否重试。
func IsInterrupted(err error) bool { return errors.Is(err, syscall.EINTR) }
