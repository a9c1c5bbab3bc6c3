package types

const (
	DirNameSize  Byte = 14
	DirEntrySize Byte = 16

	// DirEntriesPerBlock is the number of fixed-size entries in one
	// directory data block.
	DirEntriesPerBlock Index = Index(BlockSize / DirEntrySize)

	NameDot    = "."
	NameDotDot = ".."
)

type DirEntry struct {
	Ino  Ino
	Name [DirNameSize]byte
}

// NameString returns the entry name up to the first NUL byte.
func (entry *DirEntry) NameString() string {
	for i, c := range entry.Name {
		if c == 0 {
			return string(entry.Name[:i])
		}
	}
	return string(entry.Name[:])
}

// NameEqual compares the entry name with `name` the way xv6 does: at most
// `DirNameSize` bytes, stopping at the first NUL.
func (entry *DirEntry) NameEqual(name string) bool {
	for i := Byte(0); i < DirNameSize; i++ {
		var c byte
		if i < Byte(len(name)) {
			c = name[i]
		}
		if entry.Name[i] != c {
			return false
		}
		if c == 0 {
			return true
		}
	}
	return true
}

// IsDot reports whether the entry is one of the structural `.` or `..`
// links rather than a reference to a child.
func (entry *DirEntry) IsDot() bool {
	return entry.NameEqual(NameDot) || entry.NameEqual(NameDotDot)
}

func (entry *DirEntry) SetName(name string) {
	entry.Name = [DirNameSize]byte{}
	copy(entry.Name[:], name)
}
