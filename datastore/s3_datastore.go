package datastore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/xitongsys/parquet-go/source"

	"github.com/danthegoodman1/icefooter/s3_helper"
)

type (
	S3DataStore struct {
		client *s3.S3
		bucket string
	}
)

func NewS3DataStore(bucket string) (*S3DataStore, error) {
	sess, err := s3_helper.NewSession()
	if err != nil {
		return nil, fmt.Errorf("error in s3_helper.NewSession: %w", err)
	}
	logger.Debug().Str("bucket", bucket).Msg("created s3 data store")
	return &S3DataStore{
		client: s3.New(sess),
		bucket: bucket,
	}, nil
}

func (sds *S3DataStore) Name() string {
	return "s3"
}

func (sds *S3DataStore) Open(ctx context.Context, key string) (source.ParquetFile, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	return s3_helper.OpenParquetFile(ctx, sds.client, sds.bucket, key)
}

func (sds *S3DataStore) Shutdown(_ context.Context) error {
	return nil
}
