//go:build unix

package tryio

import (
	"os"

	"golang.org/x/sys/unix"
)

// TryOpen 以只读方式打开 path。
func TryOpen(path string) (*os.File, Status, error) {
	return TryOpenFile(path, os.O_RDONLY, 0)
}

// TryOpenFile 打开 path，ENOENT/EACCES 以 NotFound/PermissionDenied 返回而不是 error。
// 其余失败（EMFILE、EIO、EINTR 等）返回 *os.PathError。总是附加 O_CLOEXEC。
func TryOpenFile(path string, flag int, perm os.FileMode) (*os.File, Status, error) {
	fd, err := unix.Open(path, flag|unix.O_CLOEXEC, openMode(perm))
	st, err := Classify(OpOpen, fd, err)
	if err != nil {
		return nil, st, &os.PathError{Op: "open", Path: path, Err: err}
	}
	if st != Completed {
		return nil, st, nil
	}
	return os.NewFile(uintptr(fd), path), Completed, nil
}

// openMode 与 os.OpenFile 相同：权限位加上 setuid/setgid/sticky。
func openMode(perm os.FileMode) uint32 {
	m := uint32(perm.Perm())
	if perm&os.ModeSetuid != 0 {
		m |= unix.S_ISUID
	}
	if perm&os.ModeSetgid != 0 {
		m |= unix.S_ISGID
	}
	if perm&os.ModeSticky != 0 {
		m |= unix.S_ISVTX
	}
	return m
}
