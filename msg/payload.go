package msg

import "encoding/binary"

// MaxPayload is the largest payload a single datagram may carry. Every
// operation in this module enforces it; nothing above the transport
// adapter ever sees a longer buffer.
const MaxPayload = 64

// Payload is the fixed-capacity byte buffer backing a Msg. Typed
// accessors make the little-endian wire encoding explicit, in place of
// the C union of u8/u16/u32/char views the original API re-interpreted
// the same bytes as.
type Payload [MaxPayload]byte

// Bytes returns the first n bytes of the payload. Callers are expected
// to already know n from the datagram's delivered length.
func (p *Payload) Bytes(n int) []byte {
	if n < 0 {
		n = 0
	}
	if n > MaxPayload {
		n = MaxPayload
	}
	return p[:n]
}

// SetBytes copies b into the payload, zeroing the remainder, and
// returns the number of bytes copied.
func (p *Payload) SetBytes(b []byte) int {
	*p = Payload{}
	return copy(p[:], b)
}

// U16LE decodes the first two bytes as a little-endian uint16.
func (p *Payload) U16LE() uint16 {
	return binary.LittleEndian.Uint16(p[:2])
}

// PutU16LE encodes v into the first two bytes, little-endian.
func (p *Payload) PutU16LE(v uint16) {
	binary.LittleEndian.PutUint16(p[:2], v)
}

// U32LE decodes the first four bytes as a little-endian uint32.
func (p *Payload) U32LE() uint32 {
	return binary.LittleEndian.Uint32(p[:4])
}

// PutU32LE encodes v into the first four bytes, little-endian.
func (p *Payload) PutU32LE(v uint32) {
	binary.LittleEndian.PutUint32(p[:4], v)
}
