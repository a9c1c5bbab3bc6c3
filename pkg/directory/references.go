package directory

import (
	"fmt"

	"github.com/weberc2/xcheck/pkg/layout"
	. "github.com/weberc2/xcheck/pkg/types"
)

// References indexes every directory edge in the image: for each target
// inode, the directories holding an entry for it. The structural `.` and
// `..` entries are not edges.
type References struct {
	parents map[Ino][]Ino
}

// IndexReferences scans every directory inode once, including blocks named
// by indirect blocks.
func IndexReferences(decoder *layout.Decoder) (*References, error) {
	refs := References{parents: make(map[Ino][]Ino)}
	for ino := InoRoot; ino < decoder.Inodes(); ino++ {
		inode, err := decoder.Inode(ino)
		if err != nil {
			return nil, fmt.Errorf("indexing directory references: %w", err)
		}
		if inode.FileType != FileTypeDir {
			continue
		}
		if err := Scan(
			decoder,
			inode,
			ScopeAll,
			func(_ Block, _ Index, entry *DirEntry) error {
				if !entry.IsDot() {
					refs.parents[entry.Ino] = append(
						refs.parents[entry.Ino],
						ino,
					)
				}
				return nil
			},
		); err != nil {
			return nil, fmt.Errorf("indexing directory references: %w", err)
		}
	}
	return &refs, nil
}

// Parents returns the directories holding an entry for `ino`, once per
// entry, in inode order.
func (refs *References) Parents(ino Ino) []Ino { return refs.parents[ino] }

// Count returns the number of entries referring to `ino`.
func (refs *References) Count(ino Ino) int { return len(refs.parents[ino]) }

// ReferencedFromOther reports whether some directory other than `ino`
// itself holds an entry for `ino`.
func (refs *References) ReferencedFromOther(ino Ino) bool {
	for _, parent := range refs.parents[ino] {
		if parent != ino {
			return true
		}
	}
	return false
}
