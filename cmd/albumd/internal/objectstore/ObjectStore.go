package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/createbucketoptions"
	"github.com/adampresley/adamgokit/s3/geturloptions"
	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

/*
ObjectStorer is the slice of S3 the backend needs: presigned URLs for
the client to move bytes directly, a size check to confirm uploads,
and plain get/put for thumbnails.
*/
type ObjectStorer interface {
	EnsureBucket() error
	Get(key string) (io.ReadCloser, error)
	ObjectSize(ctx context.Context, key string) (int64, bool, error)
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	Put(key string, body []byte) error
}

/*
ObjectStoreConfig wires the store to an adamgokit S3 client. AwsConfig
must be the loaded config the client was built from; it is only used
to sign upload URLs, which the S3 client has no helper for.
*/
type ObjectStoreConfig struct {
	AwsConfig awsconfig.Configer
	Bucket    string
	Region    string
	S3Client  s3.S3Client
}

type ObjectStore struct {
	bucket        string
	region        string
	s3Client      s3.S3Client
	presignClient *awss3.PresignClient
}

func NewObjectStore(config ObjectStoreConfig) ObjectStore {
	result := ObjectStore{
		bucket:   config.Bucket,
		region:   config.Region,
		s3Client: config.S3Client,
	}

	if config.AwsConfig != nil {
		if cfg, ok := config.AwsConfig.GetConfigValues().(aws.Config); ok {
			result.presignClient = awss3.NewPresignClient(awss3.NewFromConfig(cfg))
		}
	}

	return result
}

func (s ObjectStore) EnsureBucket() error {
	var (
		err    error
		exists bool
	)

	exists, err = s.s3Client.BucketExists(s.bucket)

	if err != nil {
		return fmt.Errorf("error ensuring bucket '%s' exists: %w", s.bucket, err)
	}

	if exists {
		return nil
	}

	slog.Info("creating bucket", "bucketName", s.bucket)

	err = s.s3Client.CreateBucket(
		s.bucket,
		createbucketoptions.WithRegion(s.region),
	)

	if err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", s.bucket, err)
	}

	return nil
}

func (s ObjectStore) Get(key string) (io.ReadCloser, error) {
	var (
		err    error
		object s3.GetObjectResponse
	)

	if object, err = s.s3Client.Get(s.bucket, key); err != nil {
		return nil, fmt.Errorf("error retrieving object %s: %w", key, err)
	}

	return object.Body, nil
}

func (s ObjectStore) Put(key string, body []byte) error {
	if _, err := s.s3Client.Put(s.bucket, key, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("error uploading object %s: %w", key, err)
	}

	return nil
}

/*
ObjectSize reports the stored size of key. The boolean is false when
the object does not exist.
*/
func (s ObjectStore) ObjectSize(ctx context.Context, key string) (int64, bool, error) {
	var (
		err      error
		metadata *s3.ObjectMetadata
	)

	if err = ctx.Err(); err != nil {
		return 0, false, err
	}

	if metadata, err = s.s3Client.StatObject(s.bucket, key); err != nil {
		return 0, false, fmt.Errorf("error reading metadata for %s: %w", key, err)
	}

	if metadata == nil {
		return 0, false, nil
	}

	return metadata.Size, true, nil
}

func (s ObjectStore) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigned, err := s.s3Client.GetUrl(
		s.bucket,
		key,
		geturloptions.WithContext(ctx),
		geturloptions.WithExpiration(expires),
	)

	if err != nil {
		return "", fmt.Errorf("error presigning download of %s: %w", key, err)
	}

	return presigned, nil
}

func (s ObjectStore) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	if s.presignClient == nil {
		return "", errors.New("object store has no AWS config to sign uploads with")
	}

	request, err := s.presignClient.PresignPutObject(
		ctx,
		&awss3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			ContentType: aws.String(contentType),
		},
		awss3.WithPresignExpires(expires),
	)

	if err != nil {
		return "", fmt.Errorf("error presigning upload of %s: %w", key, err)
	}

	return request.URL, nil
}
