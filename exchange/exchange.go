// Package exchange implements the five primitive, synchronous message
// patterns every task in the U2F2 firmware uses to talk to its peers:
// ExchangeData, SendSignalWithAck, RelayWithAck, RelayWithHooks, and
// HandleSignal. None of them owns a thread of control — the calling
// task blocks inside the underlying queue.Queue calls.
//
// https://github.com/wookey-project/libu2f2
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package exchange

import (
	"github.com/wookey-project/libu2f2/hook"
	"github.com/wookey-project/libu2f2/internal/logging"
	"github.com/wookey-project/libu2f2/msg"
	"github.com/wookey-project/libu2f2/queue"
)

// ExchangeData sends one message (sig, out) on q, then receives one
// message tagged resp into a buffer of len(in) bytes, returning the
// number of bytes actually delivered (n <= len(in)).
//
// Go's slice type makes the original API's "out == NULL but
// out_len != 0" precondition unreachable (a nil slice always has len 0);
// the length-bound checks that remain are enforced by queue.Queue
// itself.
func ExchangeData(q queue.Queue, sig, resp msg.Tag, out, in []byte) (n int, err error) {
	if err := q.Send(sig, out); err != nil {
		return 0, err
	}

	_, payload, err := q.Recv(resp, len(in))
	if err != nil {
		return 0, err
	}

	return copy(in, payload), nil
}

// SendSignalWithAck sends an empty sig message and blocks for an empty
// resp message, acting as a barrier/handshake between two tasks (e.g.
// IS_BACKEND_READY / BACKEND_IS_READY).
func SendSignalWithAck(q queue.Queue, sig, resp msg.Tag) error {
	if err := q.Send(sig, nil); err != nil {
		return err
	}
	_, _, err := q.Recv(resp, 0)
	return err
}

// RelayWithAck receives sig from src, forwards it verbatim to dst,
// receives resp from dst, and forwards it verbatim back to src. Payload
// bytes pass through untouched.
func RelayWithAck(src, dst queue.Queue, sig, resp msg.Tag) error {
	_, payload, err := src.Recv(sig, msg.MaxPayload)
	if err != nil {
		return err
	}
	if err := dst.Send(sig, payload); err != nil {
		return err
	}

	_, payload, err = dst.Recv(resp, msg.MaxPayload)
	if err != nil {
		return err
	}
	return src.Send(resp, payload)
}

// RelayWithHooks is RelayWithAck with two validated hooks spliced in:
// pre runs after receiving from src and before sending to dst; post
// runs after receiving from dst and before sending to src. Both hooks
// are validated (and may panic via hook.Validator) before being called.
//
// Per spec.md §9's resolution of the two differing call sites in the
// original source, a hook's return value here is advisory: an error
// from pre or post is logged, but the relay proceeds regardless. For an
// authoritative hook — one whose failure should abort the exchange —
// use HandleSignal instead.
func RelayWithHooks(src, dst queue.Queue, sig, resp msg.Tag, pre, post hook.Fn, v *hook.Validator) error {
	_, payload, err := src.Recv(sig, msg.MaxPayload)
	if err != nil {
		return err
	}

	v.Validate(pre)
	if pre != nil {
		if herr := pre(); herr != nil {
			logging.Default().Warnf("exchange.RelayWithHooks: pre-hook returned %v (advisory, relay proceeds)", herr)
		}
	}

	if err := dst.Send(sig, payload); err != nil {
		return err
	}

	_, payload, err = dst.Recv(resp, msg.MaxPayload)
	if err != nil {
		return err
	}

	v.Validate(post)
	if post != nil {
		if herr := post(); herr != nil {
			logging.Default().Warnf("exchange.RelayWithHooks: post-hook returned %v (advisory, relay proceeds)", herr)
		}
	}

	return src.Send(resp, payload)
}

// HandleSignal receives sig from src, runs hook, and sends resp to src
// if and only if hook returns nil. Unlike RelayWithHooks, the hook's
// return value here is authoritative: a non-nil error aborts without
// sending resp, and is returned to the caller.
func HandleSignal(src queue.Queue, sig, resp msg.Tag, h hook.Fn, v *hook.Validator) error {
	_, _, err := src.Recv(sig, 0)
	if err != nil {
		return err
	}

	v.Validate(h)
	if h != nil {
		if err := h(); err != nil {
			return err
		}
	}

	return src.Send(resp, nil)
}
