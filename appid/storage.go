package appid

// Storage is the persistence collaborator this package's GET/SET
// implementations drive. It abstracts the flash-backed record store the
// original firmware's storage task owns; this module never touches
// storage media directly.
type Storage interface {
	// FindByAppID looks up the slot holding the record for appid. ok is
	// false, err nil, when no such record exists.
	FindByAppID(appid [AppIDLen]byte) (slot uint32, ok bool, err error)

	// FindByAppIDAndKH looks up the slot holding the record matching
	// both appid and kh, the lookup SET's UPDATE_EXISTING and
	// NEW_FROM_TEMPLATE modes use to find the record to copy or
	// overwrite.
	FindByAppIDAndKH(appid, kh [AppIDLen]byte) (slot uint32, ok bool, err error)

	// GetMetadata returns the record stored at slot.
	GetMetadata(slot uint32) (AppIdMetadata, error)

	// FindFreeSlot returns an unused slot. ok is false, err nil, when
	// storage is full.
	FindFreeSlot() (slot uint32, ok bool, err error)

	// WriteSlot persists m at slot, creating or overwriting it.
	WriteSlot(slot uint32, m AppIdMetadata) error
}
