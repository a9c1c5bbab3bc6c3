package objectstore

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
)

// GzipObjectStore decompresses objects fetched from the wrapped store.
type GzipObjectStore struct {
	ObjectStore
}

type GzipReadCloser struct {
	io.ReadCloser
	r *gzip.Reader
}

func (grc *GzipReadCloser) Read(data []byte) (int, error) {
	return grc.r.Read(data)
}

func (grc *GzipReadCloser) Close() error {
	if err := grc.r.Close(); err != nil {
		grc.ReadCloser.Close()
		return err
	}
	return grc.ReadCloser.Close()
}

func (os *GzipObjectStore) GetObject(
	ctx context.Context,
	bucket string,
	key string,
) (io.ReadCloser, error) {
	body, err := os.ObjectStore.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("getting object from storage: %w", err)
	}
	r, err := gzip.NewReader(body)
	if err != nil {
		body.Close()
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	return &GzipReadCloser{ReadCloser: body, r: r}, nil
}
