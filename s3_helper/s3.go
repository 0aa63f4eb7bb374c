package s3_helper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UltimateTournament/backoff/v4"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog"
	s3_pq "github.com/xitongsys/parquet-go-source/s3"
	"github.com/xitongsys/parquet-go/source"

	"github.com/danthegoodman1/icefooter/utils"
)

var ErrObjectNotFound = utils.PermError("object not found")

// NewSession builds an aws session from the environment, honoring S3_ENDPOINT
// for S3 compatible stores.
func NewSession() (*session.Session, error) {
	s3Config := &aws.Config{
		Region:      aws.String(utils.AWS_DEFAULT_REGION),
		Credentials: credentials.NewEnvCredentials(),
	}
	if utils.S3_ENDPOINT != "" {
		s3Config.Endpoint = aws.String(utils.S3_ENDPOINT)
		s3Config.S3ForcePathStyle = aws.Bool(true)
	}

	s3Session, err := session.NewSession(s3Config)
	if err != nil {
		return nil, fmt.Errorf("error making new session: %w", err)
	}
	return s3Session, nil
}

// OpenParquetFile opens a seekable reader over an object. Opening issues a
// HEAD request, which is retried with backoff unless the object is missing.
func OpenParquetFile(ctx context.Context, client *s3.S3, bucket, key string) (source.ParquetFile, error) {
	logger := zerolog.Ctx(ctx)

	var pf source.ParquetFile
	s := time.Now()
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = time.Second * 30
	err := backoff.RetryNotify(func() (err error) {
		pf, err = s3_pq.NewS3FileReaderWithParams(ctx, s3_pq.S3FileReaderParams{
			Bucket:   bucket,
			Key:      key,
			S3Client: client,
		})
		if isNotFound(err) {
			return backoff.Permanent(fmt.Errorf("%w: s3://%s/%s", ErrObjectNotFound, bucket, key))
		}
		return err
	}, backoff.WithContext(b, ctx), func(err error, d time.Duration) {
		logger.Warn().Err(err).Str("key", key).Str("retryIn", d.String()).Msg("retrying s3 open")
	})
	if err != nil {
		return nil, fmt.Errorf("error opening s3 object: %w", err)
	}

	d := time.Since(s)
	logger.Debug().Str("key", key).Int64("durationNS", d.Nanoseconds()).Str("durationHuman", d.String()).Msg("opened s3 object")
	return pf, nil
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
		return true
	}
	return false
}
