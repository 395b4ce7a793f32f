package appid

import "github.com/wookey-project/libu2f2/ipcerr"

// fakeStorage is a minimal in-memory Storage double for tests: slot
// indices are assigned densely starting at 0, and a slot is "free" if
// its index is not present in records.
type fakeStorage struct {
	records  map[uint32]AppIdMetadata
	capacity uint32
}

func newFakeStorage(capacity uint32) *fakeStorage {
	return &fakeStorage{records: make(map[uint32]AppIdMetadata), capacity: capacity}
}

func (s *fakeStorage) FindByAppID(appid [AppIDLen]byte) (uint32, bool, error) {
	for slot, m := range s.records {
		if m.AppID == appid {
			return slot, true, nil
		}
	}
	return 0, false, nil
}

func (s *fakeStorage) FindByAppIDAndKH(appid, kh [AppIDLen]byte) (uint32, bool, error) {
	for slot, m := range s.records {
		if m.AppID == appid && m.KH == kh {
			return slot, true, nil
		}
	}
	return 0, false, nil
}

func (s *fakeStorage) GetMetadata(slot uint32) (AppIdMetadata, error) {
	m, ok := s.records[slot]
	if !ok {
		return AppIdMetadata{}, ipcerr.New(ipcerr.NoStorage, "fakeStorage.GetMetadata", nil)
	}
	return m, nil
}

func (s *fakeStorage) FindFreeSlot() (uint32, bool, error) {
	for i := uint32(0); i < s.capacity; i++ {
		if _, used := s.records[i]; !used {
			return i, true, nil
		}
	}
	return 0, false, nil
}

func (s *fakeStorage) WriteSlot(slot uint32, m AppIdMetadata) error {
	s.records[slot] = m
	return nil
}
