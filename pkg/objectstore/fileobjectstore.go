package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/weberc2/xcheck/pkg/types"
)

// FileObjectStore serves objects from the local file system; the bucket is
// a directory and the key a path relative to it.
type FileObjectStore struct{}

func (FileObjectStore) GetObject(
	_ context.Context,
	bucket string,
	key string,
) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(bucket, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &types.ObjectNotFoundErr{Bucket: bucket, Key: key}
		}
		return nil, fmt.Errorf("opening object `%s`: %w", key, err)
	}
	return file, nil
}
