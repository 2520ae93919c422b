package compiler

// StorageItem is one interned literal: its text and the byte address it
// will occupy in the final image once Program.Build lays out the
// storage section.
type StorageItem struct {
	Text    string
	Address uint32
}

// StorageInterner registers literal text and hands back stable byte
// addresses within the final image. It performs no deduplication — two
// Register calls with identical text get two distinct entries, exactly
// as spec §4.B describes; a content-hash-keyed dedup table is left to a
// future pass, which is why the on-disk format already reserves the
// hash slot per entry (see image.go).
type StorageInterner struct {
	items []StorageItem
	next  uint32
}

// Register interns text and returns the address it will have in the
// final image. The first call seeds the running index to 1+4, reserved
// for the leading Jump opcode and its 4-byte target; each entry after
// that consumes 8 (hash) + 2 (length) + len(text) bytes.
func (s *StorageInterner) Register(text string) uint32 {
	if s.next == 0 {
		s.next = 1 + 4
	}
	addr := s.next
	s.items = append(s.items, StorageItem{Text: text, Address: addr})
	s.next += 8 + 2 + uint32(len(text))
	return addr
}

// Entries returns the interned items in insertion order.
func (s *StorageInterner) Entries() []StorageItem {
	return s.items
}
