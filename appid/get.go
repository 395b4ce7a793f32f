package appid

import (
	"encoding/binary"
	"fmt"

	"github.com/wookey-project/libu2f2/alloc"
	"github.com/wookey-project/libu2f2/ipcerr"
	"github.com/wookey-project/libu2f2/msg"
	"github.com/wookey-project/libu2f2/queue"
)

// recvExact receives one fragment tagged want and requires it be exactly
// n bytes long, surfacing any other length as ipcerr.Transport: a
// fixed-size field whose observed length doesn't match its declared
// length is a transport-level delivery fault, not a protocol grammar
// violation.
func recvExact(q queue.Queue, want msg.Tag, n int) ([]byte, error) {
	tag, payload, err := q.Recv(want, n)
	if err != nil {
		return nil, err
	}
	if tag != want || len(payload) != n {
		return nil, ipcerr.New(ipcerr.Transport, "appid", fmt.Errorf("fragment %#x: got %d bytes, want %d", want, len(payload), n))
	}
	return payload, nil
}

// SendMetadata is the responder side of a GET exchange: it receives one
// IDENTIFIERS fragment from q, looks the record up in store, and streams
// it back fragment by fragment. A lookup miss is not an error: STATUS=0
// followed immediately by END is a valid, complete response.
func SendMetadata(q queue.Queue, store Storage) error {
	ident, err := recvExact(q, msg.AppidMetadataIdentifiers, AppIDLen+KHLen)
	if err != nil {
		return err
	}

	var appid [AppIDLen]byte
	copy(appid[:], ident[:AppIDLen])

	slot, ok, err := store.FindByAppID(appid)
	if err != nil {
		return err
	}
	if !ok {
		if err := q.Send(msg.AppidMetadataStatus, []byte{0x00}); err != nil {
			return err
		}
		return q.Send(msg.AppidMetadataEnd, nil)
	}

	meta, err := store.GetMetadata(slot)
	if err != nil {
		return err
	}

	if err := q.Send(msg.AppidMetadataStatus, []byte{0x01}); err != nil {
		return err
	}
	if err := q.Send(msg.AppidMetadataName, meta.Name[:]); err != nil {
		return err
	}

	var ctr [ctrFieldLen]byte
	binary.LittleEndian.PutUint32(ctr[:], meta.Ctr)
	if err := q.Send(msg.AppidMetadataCtr, ctr[:]); err != nil {
		return err
	}

	var flags [flagsFieldLen]byte
	binary.LittleEndian.PutUint32(flags[:], meta.Flags)
	if err := q.Send(msg.AppidMetadataFlags, flags[:]); err != nil {
		return err
	}

	var iconType [iconTypeLen]byte
	binary.LittleEndian.PutUint16(iconType[:], uint16(meta.IconType))
	if err := q.Send(msg.AppidMetadataIconType, iconType[:]); err != nil {
		return err
	}

	switch meta.IconType {
	case IconNone:
		// no COLOR, ICON_START, or ICON fragment of any kind.

	case IconColor:
		if err := q.Send(msg.AppidMetadataColor, meta.Color[:]); err != nil {
			return err
		}

	case IconImage:
		var iconStart [iconStartLen]byte
		binary.LittleEndian.PutUint16(iconStart[:], meta.IconLen)
		if err := q.Send(msg.AppidMetadataIconStart, iconStart[:]); err != nil {
			return err
		}

		for sent := 0; sent < int(meta.IconLen); {
			n := int(meta.IconLen) - sent
			if n > msg.MaxPayload {
				n = msg.MaxPayload
			}
			if err := q.Send(msg.AppidMetadataIcon, meta.IconData[sent:sent+n]); err != nil {
				return err
			}
			sent += n
		}
	}

	return q.Send(msg.AppidMetadataEnd, nil)
}

// RequestMetadata is the requester side of a GET exchange: it sends
// IDENTIFIERS for (appid, kh) and assembles the responder's reply into
// an AppIdMetadata. A lookup miss is reported as ipcerr.NoStorage, not a
// transport failure; END is still consumed in that case so the queue is
// left synchronized for the next exchange.
//
// If alloc fails to reserve room for the icon payload, IconData is left
// nil rather than the call failing: per spec.md, a starved icon buffer
// degrades the caller's display, it does not abort metadata retrieval.
// The icon fragments are still drained off the queue so the protocol
// stays in lock-step regardless of allocation outcome.
func RequestMetadata(q queue.Queue, a alloc.Allocator, appid, kh [AppIDLen]byte) (AppIdMetadata, error) {
	var out AppIdMetadata
	out.AppID = appid
	out.KH = kh

	ident := make([]byte, 0, AppIDLen+KHLen)
	ident = append(ident, appid[:]...)
	ident = append(ident, kh[:]...)
	if err := q.Send(msg.AppidMetadataIdentifiers, ident); err != nil {
		return AppIdMetadata{}, err
	}

	status, err := recvExact(q, msg.AppidMetadataStatus, statusFieldLen)
	if err != nil {
		return AppIdMetadata{}, err
	}

	if status[0] == 0x00 {
		if _, err := recvExact(q, msg.AppidMetadataEnd, 0); err != nil {
			return AppIdMetadata{}, err
		}
		return AppIdMetadata{}, ipcerr.New(ipcerr.NoStorage, "appid.RequestMetadata", nil)
	}
	out.Status = status[0]

	name, err := recvExact(q, msg.AppidMetadataName, NameLen)
	if err != nil {
		return AppIdMetadata{}, err
	}
	copy(out.Name[:], name)

	ctr, err := recvExact(q, msg.AppidMetadataCtr, ctrFieldLen)
	if err != nil {
		return AppIdMetadata{}, err
	}
	out.Ctr = binary.LittleEndian.Uint32(ctr)

	flags, err := recvExact(q, msg.AppidMetadataFlags, flagsFieldLen)
	if err != nil {
		return AppIdMetadata{}, err
	}
	out.Flags = binary.LittleEndian.Uint32(flags)

	iconType, err := recvExact(q, msg.AppidMetadataIconType, iconTypeLen)
	if err != nil {
		return AppIdMetadata{}, err
	}
	out.IconType = IconType(binary.LittleEndian.Uint16(iconType))

	switch out.IconType {
	case IconNone:
		// no COLOR, ICON_START, or ICON fragment was sent.

	case IconColor:
		color, err := recvExact(q, msg.AppidMetadataColor, colorLen)
		if err != nil {
			return AppIdMetadata{}, err
		}
		copy(out.Color[:], color)

	case IconImage:
		iconStart, err := recvExact(q, msg.AppidMetadataIconStart, iconStartLen)
		if err != nil {
			return AppIdMetadata{}, err
		}
		out.IconLen = binary.LittleEndian.Uint16(iconStart)

		if out.IconLen > 0 {
			buf, allocErr := a.Alloc(int(out.IconLen))
			received := 0
			for received < int(out.IconLen) {
				want := int(out.IconLen) - received
				if want > msg.MaxPayload {
					want = msg.MaxPayload
				}
				tag, frag, err := q.Recv(msg.AppidMetadataIcon, want)
				if err != nil {
					return AppIdMetadata{}, err
				}
				if tag != msg.AppidMetadataIcon {
					return AppIdMetadata{}, ipcerr.New(ipcerr.Protocol, "appid.RequestMetadata", fmt.Errorf("expected icon fragment, got tag %#x", tag))
				}
				if len(frag) > want {
					return AppIdMetadata{}, ipcerr.New(ipcerr.InvalidParam, "appid.RequestMetadata", fmt.Errorf("icon fragment overruns declared length %d", out.IconLen))
				}
				if allocErr == nil {
					copy(buf[received:], frag)
				}
				received += len(frag)
			}
			if allocErr == nil {
				out.IconData = buf
			}
		}
	}

	if _, err := recvExact(q, msg.AppidMetadataEnd, 0); err != nil {
		return AppIdMetadata{}, err
	}

	return out, nil
}
