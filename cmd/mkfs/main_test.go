package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/weberc2/xcheck/pkg/mkfs"
	. "github.com/weberc2/xcheck/pkg/types"
)

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(input, []byte("remember the milk"), 0644); err != nil {
		t.Fatalf("writing input: %v", err)
	}
	output := filepath.Join(dir, "fs.img")

	if err := Build(mkfs.DefaultParams, output, []string{input}); err != nil {
		t.Fatalf("Build(): unexpected err: %v", err)
	}

	info, err := os.Stat(output)
	if err != nil {
		t.Fatalf("Stat(): unexpected err: %v", err)
	}
	if wanted := int64(mkfs.DefaultParams.Size) * int64(BlockSize); info.Size() != wanted {
		t.Fatalf("Build(): wanted `%d` bytes; found `%d`", wanted, info.Size())
	}
}

func TestBuildNameTooLong(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a-very-long-file-name.txt")
	if err := os.WriteFile(input, nil, 0644); err != nil {
		t.Fatalf("writing input: %v", err)
	}
	if err := Build(
		mkfs.DefaultParams,
		filepath.Join(dir, "fs.img"),
		[]string{input},
	); err == nil {
		t.Fatal("Build(): wanted err; found `nil`")
	}
}
