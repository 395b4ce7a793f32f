package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/wookey-project/libu2f2/ipcerr"
	"github.com/wookey-project/libu2f2/msg"
)

func TestMemQueueSendRecvRoundTrip(t *testing.T) {
	q := NewMemQueue()

	if err := q.Send(msg.AppidMetadataCtr, []byte{0x2a, 0, 0, 0}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	tag, payload, err := q.Recv(msg.AppidMetadataCtr, 4)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if tag != msg.AppidMetadataCtr {
		t.Fatalf("tag = %#x, want %#x", tag, msg.AppidMetadataCtr)
	}
	if len(payload) != 4 || payload[0] != 0x2a {
		t.Fatalf("payload = %v, want [42 0 0 0]", payload)
	}
}

func TestMemQueueLeavesNonMatchingTagsQueued(t *testing.T) {
	q := NewMemQueue()

	if err := q.Send(msg.AppidMetadataCtr, []byte{1, 0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	if err := q.Send(msg.AppidMetadataFlags, []byte{2, 0, 0, 0}); err != nil {
		t.Fatal(err)
	}

	// Receive the second tag first: the first must remain queued.
	tag, payload, err := q.Recv(msg.AppidMetadataFlags, 4)
	if err != nil {
		t.Fatal(err)
	}
	if tag != msg.AppidMetadataFlags || payload[0] != 2 {
		t.Fatalf("got tag=%#x payload=%v", tag, payload)
	}

	tag, payload, err = q.Recv(msg.AppidMetadataCtr, 4)
	if err != nil {
		t.Fatal(err)
	}
	if tag != msg.AppidMetadataCtr || payload[0] != 1 {
		t.Fatalf("got tag=%#x payload=%v", tag, payload)
	}
}

func TestMemQueueRecvBlocksUntilSend(t *testing.T) {
	q := NewMemQueue()

	var wg sync.WaitGroup
	wg.Add(1)

	var gotTag msg.Tag
	go func() {
		defer wg.Done()
		tag, _, err := q.Recv(msg.Acknowledge, 0)
		if err != nil {
			t.Error(err)
			return
		}
		gotTag = tag
	}()

	time.Sleep(20 * time.Millisecond)
	if err := q.Send(msg.Acknowledge, nil); err != nil {
		t.Fatal(err)
	}

	wg.Wait()
	if gotTag != msg.Acknowledge {
		t.Fatalf("gotTag = %#x, want %#x", gotTag, msg.Acknowledge)
	}
}

func TestMemQueueSendRejectsOversizePayload(t *testing.T) {
	q := NewMemQueue()
	err := q.Send(msg.AppidMetadataName, make([]byte, msg.MaxPayload+1))
	if !ipcerr.Is(err, ipcerr.InvalidParam) {
		t.Fatalf("err = %v, want InvalidParam", err)
	}
}

func TestMemQueueRecvAfterCloseFails(t *testing.T) {
	q := NewMemQueue()
	q.Close()

	_, _, err := q.Recv(msg.Acknowledge, 0)
	if !ipcerr.Is(err, ipcerr.Transport) {
		t.Fatalf("err = %v, want Transport", err)
	}
}

func TestMemQueueAnyTagMatchesFirstPending(t *testing.T) {
	q := NewMemQueue()
	if err := q.Send(msg.AppidMetadataName, []byte("acme")); err != nil {
		t.Fatal(err)
	}

	tag, payload, err := q.Recv(msg.AnyTag, 64)
	if err != nil {
		t.Fatal(err)
	}
	if tag != msg.AppidMetadataName || string(payload) != "acme" {
		t.Fatalf("got tag=%#x payload=%q", tag, payload)
	}
}
