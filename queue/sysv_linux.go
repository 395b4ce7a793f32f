//go:build linux

package queue

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/wookey-project/libu2f2/ipcerr"
	"github.com/wookey-project/libu2f2/msg"
)

// SysVQueue is a Queue backed by a Linux SysV IPC message queue, the
// real kernel primitive the EwoK/wookey microkernel message-queue API
// this module descends from is modeled on. It talks to the kernel
// through the raw SYS_MSG* syscall numbers, the same
// syscall.Syscall(unix.SYS_*, ...) idiom the retrieval pack uses for
// io_uring setup (ehrlich-b-go-ublk/internal/uring/minimal.go), since
// golang.org/x/sys/unix does not generate typed wrappers for the SysV
// message queue calls.
type SysVQueue struct {
	id int
}

// rawMsg mirrors struct msgbuf { long mtype; char mtext[]; } on a
// 64-bit kernel: an 8-byte type tag followed by the payload.
type rawMsg struct {
	mtype int64
	mtext [msg.MaxPayload]byte
}

var _ Queue = (*SysVQueue)(nil)

// OpenSysVQueue creates (or attaches to) the message queue identified by
// key, creating it with permission bits perm if it does not already
// exist.
func OpenSysVQueue(key int, perm uint32) (*SysVQueue, error) {
	id, _, errno := syscall.Syscall(unix.SYS_MSGGET, uintptr(key), uintptr(unix.IPC_CREAT)|uintptr(perm), 0)
	if errno != 0 {
		return nil, ipcerr.New(ipcerr.Transport, "queue.OpenSysVQueue", fmt.Errorf("msgget: %w", errno))
	}
	return &SysVQueue{id: int(id)}, nil
}

func (q *SysVQueue) Send(tag msg.Tag, payload []byte) error {
	if err := validateLen("queue.SysVQueue.Send", len(payload)); err != nil {
		return err
	}

	var raw rawMsg
	raw.mtype = int64(tag)
	copy(raw.mtext[:], payload)

	_, _, errno := syscall.Syscall6(unix.SYS_MSGSND, uintptr(q.id), uintptr(unsafe.Pointer(&raw)), uintptr(len(payload)), 0, 0, 0)
	if errno != 0 {
		return ipcerr.New(ipcerr.Transport, "queue.SysVQueue.Send", fmt.Errorf("msgsnd: %w", errno))
	}
	return nil
}

func (q *SysVQueue) Recv(tagFilter msg.Tag, maxLen int) (msg.Tag, []byte, error) {
	if err := validateLen("queue.SysVQueue.Recv", maxLen); err != nil {
		return 0, nil, err
	}

	var raw rawMsg
	// tagFilter == msg.AnyTag (0) maps directly onto msgrcv's "any type"
	// msgtyp == 0 convention; no translation needed.
	n, _, errno := syscall.Syscall6(unix.SYS_MSGRCV, uintptr(q.id), uintptr(unsafe.Pointer(&raw)), uintptr(maxLen), uintptr(int64(tagFilter)), 0, 0)
	if errno != 0 {
		return 0, nil, ipcerr.New(ipcerr.Transport, "queue.SysVQueue.Recv", fmt.Errorf("msgrcv: %w", errno))
	}

	out := make([]byte, int(n))
	copy(out, raw.mtext[:int(n)])
	return msg.Tag(raw.mtype), out, nil
}

// Close removes the underlying kernel message queue. Only the task that
// owns the queue (typically whichever side created it) should call this.
func (q *SysVQueue) Close() error {
	_, _, errno := syscall.Syscall(unix.SYS_MSGCTL, uintptr(q.id), uintptr(unix.IPC_RMID), 0)
	if errno != 0 {
		return fmt.Errorf("msgctl: %w", errno)
	}
	return nil
}
