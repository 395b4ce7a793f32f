// Package appid implements the fragmented appid-metadata GET/SET
// sub-protocol (C5, C6): a backend task walks a sequence of tagged,
// fixed- or bounded-size fragments over a queue.Queue to fetch or
// replace one application's metadata record.
//
// https://github.com/wookey-project/libu2f2
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package appid

// Field sizes, in bytes, of the fixed-size fragments of the wire
// protocol. These match the MAGIC_APPID_METADATA_* fragment bodies of
// the original source exactly.
const (
	AppIDLen = 32
	KHLen    = 32
	NameLen  = 60

	maxNameFragment = NameLen - 1 // a trailing NUL is always reserved

	statusFieldLen = 1
	ctrFieldLen    = 4
	flagsFieldLen  = 4
	iconTypeLen    = 2
	colorLen       = 3
	iconStartLen   = 2
)

// IconType is the icon-format discriminator carried by the ICON_TYPE
// fragment.
type IconType uint16

const (
	IconNone  IconType = 0
	IconColor IconType = 1
	IconImage IconType = 2
)

func (t IconType) String() string {
	switch t {
	case IconNone:
		return "none"
	case IconColor:
		return "color"
	case IconImage:
		return "image"
	default:
		return "unknown"
	}
}

// Mode selects how ReceiveAndCommit seeds the record it is about to
// populate, carried in the single mode byte that opens a SET exchange.
type Mode byte

const (
	NewFromScratch   Mode = 0
	NewFromTemplate  Mode = 1
	UpdateExisting   Mode = 2
)

// AppIdMetadata is one application's full metadata record: the
// identifiers that address it, plus the display/icon fields a client
// can GET or SET through this package.
type AppIdMetadata struct {
	AppID [AppIDLen]byte
	KH    [KHLen]byte

	Status byte
	Name   [NameLen]byte
	Ctr    uint32
	Flags  uint32

	IconType  IconType
	Color     [colorLen]byte
	IconLen   uint16
	IconData  []byte
}

// SetName copies s into Name, truncating to NameLen-1 bytes and always
// leaving the record NUL-terminated.
func (m *AppIdMetadata) SetName(s []byte) {
	n := len(s)
	if n > maxNameFragment {
		n = maxNameFragment
	}
	for i := range m.Name {
		m.Name[i] = 0
	}
	copy(m.Name[:n], s[:n])
}

// NameString returns Name up to its first NUL byte.
func (m *AppIdMetadata) NameString() string {
	for i, b := range m.Name {
		if b == 0 {
			return string(m.Name[:i])
		}
	}
	return string(m.Name[:])
}
