// Package queue wraps the host kernel's tagged-datagram primitive with a
// minimal, typed interface: Send one tagged payload, Recv the next
// payload matching a tag filter. It is the transport adapter (C1) and,
// implicitly, the message frame (C2) this module's higher-level
// patterns build on.
//
// https://github.com/wookey-project/libu2f2
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package queue

import (
	"errors"
	"fmt"

	"github.com/wookey-project/libu2f2/ipcerr"
	"github.com/wookey-project/libu2f2/msg"
)

// Queue is a bounded FIFO that delivers datagrams in send order per
// (sender, tag) pair, and supports receive-by-tag: a pending datagram
// whose tag does not match the filter is left queued.
type Queue interface {
	// Send enqueues one datagram. It fails with ipcerr.InvalidParam if
	// len(payload) > msg.MaxPayload, ipcerr.Transport on a kernel error.
	Send(tag msg.Tag, payload []byte) error

	// Recv blocks until a datagram whose tag equals tagFilter (or any
	// datagram, if tagFilter is msg.AnyTag) is available, then returns
	// it truncated to maxLen bytes. It fails with ipcerr.InvalidParam if
	// maxLen > msg.MaxPayload, ipcerr.Transport on a kernel error.
	Recv(tagFilter msg.Tag, maxLen int) (msg.Tag, []byte, error)
}

// ErrClosed is the underlying cause wrapped in ipcerr.Transport when a
// Queue is used after Close.
var ErrClosed = errors.New("queue: closed")

func validateLen(op string, n int) error {
	if n < 0 || n > msg.MaxPayload {
		return ipcerr.New(ipcerr.InvalidParam, op, fmt.Errorf("length %d exceeds %d byte maximum", n, msg.MaxPayload))
	}
	return nil
}
