package objectstore

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/weberc2/xcheck/pkg/testsupport"
	"github.com/weberc2/xcheck/pkg/types"
)

func TestGzipObjectStore(t *testing.T) {
	var compressed bytes.Buffer
	w := gzip.NewWriter(&compressed)
	if _, err := w.Write([]byte("my-data")); err != nil {
		t.Fatalf("Unexpected err: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Unexpected err: %v", err)
	}

	objectStore := GzipObjectStore{testsupport.ObjectStoreFake{
		{"my-bucket", "my-key"}: compressed.Bytes(),
	}}

	body, err := objectStore.GetObject(
		context.Background(),
		"my-bucket",
		"my-key",
	)
	if err != nil {
		t.Fatalf("Unexpected err: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("Unexpected err: %v", err)
	}
	if string(data) != "my-data" {
		t.Fatalf("wanted 'my-data'; found '%s'", data)
	}
}

func TestGzipObjectStoreNotFound(t *testing.T) {
	objectStore := GzipObjectStore{testsupport.ObjectStoreFake{}}
	_, err := objectStore.GetObject(context.Background(), "b", "missing.gz")
	if !errors.Is(err, types.ImageNotFoundErr) {
		t.Fatalf("wanted `%v`; found `%v`", types.ImageNotFoundErr, err)
	}
}
