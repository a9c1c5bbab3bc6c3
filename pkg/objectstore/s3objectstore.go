package objectstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/weberc2/xcheck/pkg/types"
)

// ObjectStore fetches image objects by bucket and key.
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

type S3ObjectStore struct {
	Client s3iface.S3API
}

// NewS3ObjectStore creates a store backed by the default AWS credential
// chain. An empty `region` defers to the environment.
func NewS3ObjectStore(region string) (*S3ObjectStore, error) {
	config := aws.NewConfig()
	if region != "" {
		config = config.WithRegion(region)
	}
	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("creating AWS session: %w", err)
	}
	return &S3ObjectStore{Client: s3.New(sess)}, nil
}

func (os *S3ObjectStore) GetObject(
	ctx context.Context,
	bucket string,
	key string,
) (io.ReadCloser, error) {
	rsp, err := os.Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		if err, ok := err.(awserr.Error); ok {
			if err.Code() == s3.ErrCodeNoSuchKey {
				return nil, &types.ObjectNotFoundErr{Bucket: bucket, Key: key}
			}
		}
		return nil, fmt.Errorf(
			"getting object from bucket `%s` at key `%s`: %w",
			bucket,
			key,
			err,
		)
	}
	return rsp.Body, nil
}
