package queue

import (
	"sync"

	"github.com/wookey-project/libu2f2/ipcerr"
	"github.com/wookey-project/libu2f2/msg"
)

// MemQueue is an in-process Queue double: a mutex-and-condition-variable
// FIFO that reproduces the ordering guarantees spec.md §5 requires of
// the real kernel primitive (same-tag messages delivered in send order,
// non-matching tags left queued) without any kernel involvement. Every
// task sharing a process, and every test in this module, uses one of
// these to stand in for the real message queue.
type MemQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []msg.Msg
	closed  bool
}

// NewMemQueue returns an empty, open MemQueue.
func NewMemQueue() *MemQueue {
	q := &MemQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *MemQueue) Send(tag msg.Tag, payload []byte) error {
	if err := validateLen("queue.MemQueue.Send", len(payload)); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ipcerr.New(ipcerr.Transport, "queue.MemQueue.Send", ErrClosed)
	}

	var m msg.Msg
	m.Tag = tag
	m.Len = m.Payload.SetBytes(payload)
	q.pending = append(q.pending, m)
	q.cond.Broadcast()
	return nil
}

func (q *MemQueue) Recv(tagFilter msg.Tag, maxLen int) (msg.Tag, []byte, error) {
	if err := validateLen("queue.MemQueue.Recv", maxLen); err != nil {
		return 0, nil, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		for i, m := range q.pending {
			if tagFilter != msg.AnyTag && m.Tag != tagFilter {
				continue
			}

			q.pending = append(q.pending[:i:i], q.pending[i+1:]...)

			n := m.Len
			if n > maxLen {
				n = maxLen
			}
			out := make([]byte, n)
			copy(out, m.Payload[:n])
			return m.Tag, out, nil
		}

		if q.closed {
			return 0, nil, ipcerr.New(ipcerr.Transport, "queue.MemQueue.Recv", ErrClosed)
		}

		q.cond.Wait()
	}
}

// Close marks the queue closed, unblocking any pending or future Recv
// with ipcerr.Transport rather than hanging forever.
func (q *MemQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}
