// Package tryio 提供面向 socket 与文件的非阻塞、低开销系统调用封装。
//
// 系统调用中最常见的结果（会阻塞、对端关闭、文件不存在、无权限）以 Status
// 返回值表达，不走 error 路径；error 只用于真正的失败和信号打断（EINTR）。
// 所有操作都只做一次系统调用，不在内部重试，重试策略留给调用方。
//
//	e := tryio.New(tryio.DefaultConfig())
//	buf, st, err := e.TryRead(fd, 4096, buf)
//	switch {
//	case err != nil:
//		// 失败，或 tryio.IsInterrupted(err)
//	case st.WouldBlock():
//		_, err = poller.Wait(fd, st.Event(), poller.NoTimeout)
//	case st == tryio.PeerEOF:
//		// 对端关闭
//	}
//
// 仅支持类 Unix 平台。
package tryio
