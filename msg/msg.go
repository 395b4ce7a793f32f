package msg

// Msg is one tagged datagram. It lives only for the duration of a single
// send or receive call and carries no ownership of heap memory beyond
// its own fixed-size Payload.
type Msg struct {
	Tag     Tag
	Payload Payload
	// Len is the declared length, in bytes, of the meaningful prefix of
	// Payload. The remainder is undefined.
	Len int
}

// Bytes returns the meaningful prefix of the message payload.
func (m *Msg) Bytes() []byte {
	return m.Payload.Bytes(m.Len)
}
