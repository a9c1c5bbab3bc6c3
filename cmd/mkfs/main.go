package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"github.com/weberc2/xcheck/pkg/mkfs"
	"github.com/weberc2/xcheck/pkg/types"
)

func main() {
	app := cli.App{
		Name:      "mkfs",
		Usage:     "build a consistent xv6 file system image",
		ArgsUsage: "<output> [files...]",
		Description: "Writes a fresh image to OUTPUT holding each FILE in the " +
			"root directory under its base name.",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  "size",
				Usage: "total image size in blocks",
				Value: uint(mkfs.DefaultParams.Size),
			},
			&cli.UintFlag{
				Name:  "inodes",
				Usage: "number of inodes",
				Value: uint(mkfs.DefaultParams.Inodes),
			},
			&cli.UintFlag{
				Name:  "log",
				Usage: "number of log blocks",
				Value: uint(mkfs.DefaultParams.Log),
			},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() < 1 {
				return cli.Exit("Usage: mkfs <output> [files...]", 1)
			}
			return Build(
				mkfs.Params{
					Size:   types.Block(ctx.Uint("size")),
					Inodes: types.Ino(ctx.Uint("inodes")),
					Log:    types.Block(ctx.Uint("log")),
				},
				ctx.Args().First(),
				ctx.Args().Tail(),
			)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// Build writes an image to `output` containing `files` in its root
// directory.
func Build(params mkfs.Params, output string, files []string) error {
	b, err := mkfs.New(params)
	if err != nil {
		return err
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading `%s`: %w", file, err)
		}
		name := filepath.Base(file)
		if types.Byte(len(name)) > types.DirNameSize {
			return fmt.Errorf(
				"adding `%s`: name longer than `%d` bytes",
				file,
				types.DirNameSize,
			)
		}
		if _, err := b.WriteFile(types.InoRoot, name, data); err != nil {
			return fmt.Errorf("adding `%s`: %w", file, err)
		}
	}

	if err := b.Finish(); err != nil {
		return err
	}
	if err := os.WriteFile(output, b.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing image: %w", err)
	}
	return nil
}
