package testsupport

import (
	"bytes"
	"context"
	"io"

	"github.com/weberc2/xcheck/pkg/types"
)

type ObjectStoreFake map[[2]string][]byte

func (osf ObjectStoreFake) GetObject(
	_ context.Context,
	bucket string,
	key string,
) (io.ReadCloser, error) {
	data, found := osf[[2]string{bucket, key}]
	if !found {
		return nil, &types.ObjectNotFoundErr{Bucket: bucket, Key: key}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
