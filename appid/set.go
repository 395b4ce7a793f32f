package appid

import (
	"encoding/binary"
	"fmt"

	"github.com/wookey-project/libu2f2/internal/logging"
	"github.com/wookey-project/libu2f2/ipcerr"
	"github.com/wookey-project/libu2f2/msg"
	"github.com/wookey-project/libu2f2/queue"
)

// ReceiveAndCommit is the responder side of a SET exchange: it reads a
// one-byte mode fragment followed by an IDENTIFIERS fragment (the two
// do not fit in a single msg.MaxPayload frame together with the rest of
// the fixed opening, so they travel as two fragments rather than one),
// seeds a working record accordingly, applies whatever field fragments
// follow in the body loop until AppidMetadataEnd, and commits the
// result to store.
//
// maxIconLen bounds how large a caller-declared icon payload this
// backend is willing to reserve storage for; a larger ICON_START is
// rejected with ipcerr.NoStorage before any icon bytes are read.
//
// Per spec.md §9's resolution of the commit-branch ambiguity in the
// original source: NewFromScratch and NewFromTemplate both commit to a
// freshly allocated slot, even though NewFromTemplate's lookup found an
// existing one to copy fields from; only UpdateExisting commits back
// into the slot its lookup found.
func ReceiveAndCommit(q queue.Queue, store Storage, maxIconLen int) (slotID uint32, err error) {
	modeByte, err := recvExact(q, msg.AppidMetadataStatus, statusFieldLen)
	if err != nil {
		return 0, err
	}
	mode := Mode(modeByte[0])

	ident, err := recvExact(q, msg.AppidMetadataIdentifiers, AppIDLen+KHLen)
	if err != nil {
		return 0, err
	}
	var appid, kh [AppIDLen]byte
	copy(appid[:], ident[:AppIDLen])
	copy(kh[:], ident[AppIDLen:AppIDLen+KHLen])

	working := AppIdMetadata{AppID: appid, KH: kh, Status: 0x01}
	var lookupSlot uint32

	switch mode {
	case NewFromScratch:
		// nothing to seed; working stays zero-valued beyond AppID/KH.

	case NewFromTemplate:
		slot, ok, lerr := store.FindByAppID(appid)
		if lerr != nil {
			return 0, lerr
		}
		if !ok {
			return 0, ipcerr.New(ipcerr.NoStorage, "appid.ReceiveAndCommit", fmt.Errorf("no template record for given appid"))
		}
		template, gerr := store.GetMetadata(slot)
		if gerr != nil {
			return 0, gerr
		}
		working = template
		working.AppID = appid
		working.KH = kh

	case UpdateExisting:
		slot, ok, lerr := store.FindByAppIDAndKH(appid, kh)
		if lerr != nil {
			return 0, lerr
		}
		if !ok {
			return 0, ipcerr.New(ipcerr.NoStorage, "appid.ReceiveAndCommit", fmt.Errorf("no existing record for given appid/kh"))
		}
		existing, gerr := store.GetMetadata(slot)
		if gerr != nil {
			return 0, gerr
		}
		working = existing
		lookupSlot = slot

	default:
		return 0, ipcerr.New(ipcerr.Protocol, "appid.ReceiveAndCommit", fmt.Errorf("unknown mode byte %#x", modeByte[0]))
	}

	iconReceived := 0

loop:
	for {
		tag, payload, rerr := q.Recv(msg.AnyTag, msg.MaxPayload)
		if rerr != nil {
			return 0, rerr
		}

		switch tag {
		case msg.AppidMetadataName:
			working.SetName(payload)

		case msg.AppidMetadataCtr:
			if len(payload) != ctrFieldLen {
				logging.Default().Warnf("appid.ReceiveAndCommit: dropping malformed CTR fragment (%d bytes)", len(payload))
				continue
			}
			working.Ctr = binary.LittleEndian.Uint32(payload)

		case msg.AppidMetadataFlags:
			if len(payload) != flagsFieldLen {
				logging.Default().Warnf("appid.ReceiveAndCommit: dropping malformed FLAGS fragment (%d bytes)", len(payload))
				continue
			}
			working.Flags = binary.LittleEndian.Uint32(payload)

		case msg.AppidMetadataIconType:
			if len(payload) != iconTypeLen {
				logging.Default().Warnf("appid.ReceiveAndCommit: dropping malformed ICON_TYPE fragment (%d bytes)", len(payload))
				continue
			}
			working.IconType = IconType(binary.LittleEndian.Uint16(payload))

		case msg.AppidMetadataColor:
			if working.IconType != IconColor {
				logging.Default().Warnf("appid.ReceiveAndCommit: ignoring COLOR fragment, icon_type is %v not color", working.IconType)
				continue
			}
			if len(payload) != colorLen {
				logging.Default().Warnf("appid.ReceiveAndCommit: dropping malformed COLOR fragment (%d bytes)", len(payload))
				continue
			}
			copy(working.Color[:], payload)

		case msg.AppidMetadataIconStart:
			if working.IconType != IconImage {
				logging.Default().Warnf("appid.ReceiveAndCommit: ignoring ICON_START fragment, icon_type is %v not image", working.IconType)
				continue
			}
			if len(payload) != iconStartLen {
				logging.Default().Warnf("appid.ReceiveAndCommit: dropping malformed ICON_START fragment (%d bytes)", len(payload))
				continue
			}
			declared := binary.LittleEndian.Uint16(payload)
			if int(declared) > maxIconLen {
				return 0, ipcerr.New(ipcerr.NoStorage, "appid.ReceiveAndCommit", fmt.Errorf("declared icon length %d exceeds backend limit %d", declared, maxIconLen))
			}
			working.IconLen = declared
			working.IconData = make([]byte, declared)
			iconReceived = 0

		case msg.AppidMetadataIcon:
			if working.IconType != IconImage {
				logging.Default().Warnf("appid.ReceiveAndCommit: ignoring ICON fragment, icon_type is %v not image", working.IconType)
				continue
			}
			// Unlike the GET requester, an overrun here is dropped, not
			// fatal: the sender is this task's own caller, and a short
			// write just leaves the tail of the icon buffer zeroed.
			room := int(working.IconLen) - iconReceived
			if room <= 0 {
				logging.Default().Warnf("appid.ReceiveAndCommit: dropping icon fragment beyond declared length %d", working.IconLen)
				continue
			}
			n := len(payload)
			if n > room {
				n = room
			}
			copy(working.IconData[iconReceived:iconReceived+n], payload[:n])
			iconReceived += n

		case msg.AppidMetadataEnd:
			break loop

		default:
			return 0, ipcerr.New(ipcerr.Protocol, "appid.ReceiveAndCommit", fmt.Errorf("unexpected fragment tag %#x in SET body", tag))
		}
	}

	var commitSlot uint32
	switch mode {
	case UpdateExisting:
		commitSlot = lookupSlot
	default:
		free, ok, ferr := store.FindFreeSlot()
		if ferr != nil {
			return 0, ferr
		}
		if !ok {
			return 0, ipcerr.New(ipcerr.NoStorage, "appid.ReceiveAndCommit", fmt.Errorf("no free slot available"))
		}
		commitSlot = free
	}

	if err := store.WriteSlot(commitSlot, working); err != nil {
		return 0, err
	}
	return commitSlot, nil
}
