package io

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/weberc2/xcheck/pkg/objectstore"
	. "github.com/weberc2/xcheck/pkg/types"
)

const (
	schemeS3     = "s3"
	gzipSuffix   = ".gz"
	NoRemoteErr  ConstError = "no object store configured for remote image"
	BadSourceErr ConstError = "bad image source"
)

type OpenOptions struct {
	// Mmap maps local, uncompressed images instead of issuing a read per
	// access.
	Mmap bool

	// Remote serves `s3://bucket/key` sources.
	Remote objectstore.ObjectStore
}

// Open resolves `source` to an image. Local paths are read in place;
// gzip-compressed paths (`*.gz`) and `s3://` objects are loaded into memory.
// The caller must `Close` the returned image.
func Open(ctx context.Context, source string, opts OpenOptions) (*Image, error) {
	if strings.HasPrefix(source, schemeS3+"://") {
		return openRemote(ctx, source, opts.Remote)
	}

	if strings.HasSuffix(source, gzipSuffix) {
		store := &objectstore.GzipObjectStore{
			ObjectStore: objectstore.FileObjectStore{},
		}
		return openObject(ctx, source, store, "", source)
	}

	file, err := os.Open(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = ImageNotFoundErr
		}
		return nil, fmt.Errorf("opening image `%s`: %w", source, err)
	}

	if !opts.Mmap {
		return NewImage(source, NewFileVolume(file)), nil
	}

	volume, err := NewMmapVolume(file)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		if volume != nil {
			volume.Close()
		}
		return nil, fmt.Errorf("opening image `%s`: %w", source, err)
	}
	return NewImage(source, volume), nil
}

func openRemote(
	ctx context.Context,
	source string,
	store objectstore.ObjectStore,
) (*Image, error) {
	if store == nil {
		return nil, fmt.Errorf("opening image `%s`: %w", source, NoRemoteErr)
	}
	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("opening image `%s`: %w", source, err)
	}
	bucket, key := u.Host, strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf(
			"opening image `%s`: wanted `s3://BUCKET/KEY`: %w",
			source,
			BadSourceErr,
		)
	}
	if strings.HasSuffix(key, gzipSuffix) {
		store = &objectstore.GzipObjectStore{ObjectStore: store}
	}
	return openObject(ctx, source, store, bucket, key)
}

func openObject(
	ctx context.Context,
	source string,
	store objectstore.ObjectStore,
	bucket string,
	key string,
) (image *Image, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("opening image `%s`: %w", source, err)
		}
	}()

	body, err := store.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, body.Close()) }()

	var buf bytes.Buffer
	if _, err = io.Copy(&buf, body); err != nil {
		return nil, fmt.Errorf("loading image into memory: %w", err)
	}
	return NewImage(source, NewBuffer(buf.Bytes())), nil
}
