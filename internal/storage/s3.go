package storage

import (
	"bytes"
	"context"

	"client-registry/internal/metrics"
	"client-registry/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
)

// s3API is the part of *s3.Client the store needs.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Store struct {
	cli    s3API
	bucket string
}

func NewS3Store(cli s3API, bucket string) *S3Store {
	return &S3Store{cli: cli, bucket: bucket}
}

func (s *S3Store) Put(ctx context.Context, namespace string, file service.Upload) (string, error) {
	mt := mimetype.Detect(file.Data)
	key := objectKey(namespace, mt)

	_, err := s.cli.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file.Data),
		ContentLength: aws.Int64(int64(len(file.Data))),
		ContentType:   aws.String(mt.String()),
	})
	metrics.ObserveBlob("s3", "put", err)
	if err != nil {
		return "", err
	}
	return key, nil
}

// Delete removes the object at key. Deleting a missing key is not an error.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.cli.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	metrics.ObserveBlob("s3", "delete", err)
	return err
}
