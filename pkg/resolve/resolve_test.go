package resolve

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/weberc2/xcheck/pkg/types"
)

type indirectReaderFake struct {
	blocks map[Block][IndirectBlocksCount]Block
	reads  int
}

func (fake *indirectReaderFake) IndirectBlock(
	block Block,
	out *[IndirectBlocksCount]Block,
) error {
	fake.reads++
	words, found := fake.blocks[block]
	if !found {
		return ShortReadErr
	}
	*out = words
	return nil
}

func TestCollect(t *testing.T) {
	var words [IndirectBlocksCount]Block
	words[0], words[5], words[127] = 300, 301, 302
	reader := indirectReaderFake{
		blocks: map[Block][IndirectBlocksCount]Block{200: words},
	}
	inode := Inode{Ino: 7, IndirectBlock: 200}
	inode.DirectBlocks[0] = 100
	inode.DirectBlocks[3] = 101
	inode.DirectBlocks[11] = 102

	found, err := Collect(Resolve(&reader, &inode))
	if err != nil {
		t.Fatalf("Collect(): unexpected err: %v", err)
	}

	wanted := []Address{
		{Block: 100, Tier: TierDirect, Slot: 0},
		{Block: 101, Tier: TierDirect, Slot: 3},
		{Block: 102, Tier: TierDirect, Slot: 11},
		{Block: 200, Tier: TierIndirectPointer},
		{Block: 300, Tier: TierIndirect, Slot: 0},
		{Block: 301, Tier: TierIndirect, Slot: 5},
		{Block: 302, Tier: TierIndirect, Slot: 127},
	}
	if diff := cmp.Diff(wanted, found); diff != "" {
		t.Fatalf("Collect(): mismatch (-wanted +found):\n%s", diff)
	}
	if reader.reads != 1 {
		t.Fatalf("Collect(): wanted `1` indirect read; found `%d`", reader.reads)
	}
}

func TestNoIndirect(t *testing.T) {
	reader := indirectReaderFake{}
	inode := Inode{Ino: 3}
	inode.DirectBlocks[1] = 60

	found, err := Collect(Resolve(&reader, &inode))
	if err != nil {
		t.Fatalf("Collect(): unexpected err: %v", err)
	}
	wanted := []Address{{Block: 60, Tier: TierDirect, Slot: 1}}
	if diff := cmp.Diff(wanted, found); diff != "" {
		t.Fatalf("Collect(): mismatch (-wanted +found):\n%s", diff)
	}
	if reader.reads != 0 {
		t.Fatalf("Collect(): wanted no indirect reads; found `%d`", reader.reads)
	}
}

func TestIndirectReadIsLazy(t *testing.T) {
	reader := indirectReaderFake{}
	inode := Inode{Ino: 3, IndirectBlock: 5000}

	addrs := Resolve(&reader, &inode)
	addr, err, ok := addrs.Next()
	if !ok || err != nil {
		t.Fatalf("Next(): wanted pointer; found ok=`%t` err=`%v`", ok, err)
	}
	if addr.Tier != TierIndirectPointer || addr.Block != 5000 {
		t.Fatalf("Next(): wanted indirect pointer `5000`; found `%+v`", addr)
	}
	if reader.reads != 0 {
		t.Fatalf("Next(): wanted no indirect reads; found `%d`", reader.reads)
	}

	_, err, ok = addrs.Next()
	if !ok || !errors.Is(err, ShortReadErr) {
		t.Fatalf("Next(): wanted `%v`; found `%v`", ShortReadErr, err)
	}
	if _, _, ok := addrs.Next(); ok {
		t.Fatal("Next(): wanted iteration to end after an error")
	}
}

func TestEmpty(t *testing.T) {
	found, err := Collect(Resolve(&indirectReaderFake{}, &Inode{}))
	if err != nil {
		t.Fatalf("Collect(): unexpected err: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("Collect(): wanted no addresses; found `%v`", found)
	}
}
