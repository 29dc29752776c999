package storage

import (
	"context"
	"fmt"
	"path"

	"client-registry/internal/config"
	"client-registry/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// FromConfig constructs the blob store selected by cfg.BlobBackend.
func FromConfig(ctx context.Context, cfg *config.Config) (service.BlobStore, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendDisk:
		log.Infof("storing blobs on disk under %s", cfg.BlobDir)
		return NewDiskStore(cfg.BlobDir), nil

	case config.BlobBackendS3:
		cli, err := s3ClientFromConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Infof("storing blobs in S3 bucket %s", cfg.S3Bucket)
		return NewS3Store(cli, cfg.S3Bucket), nil

	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}

// s3ClientFromConfig creates an S3 client. A custom endpoint switches to
// path-style addressing and static credentials, for MinIO or localstack.
func s3ClientFromConfig(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	cli := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
			o.Credentials = credentials.NewStaticCredentialsProvider(
				cfg.AWSAccessKeyID,
				cfg.AWSSecretAccessKey,
				"",
			)
		}
	})
	return cli, nil
}

// objectKey names a new blob under namespace. The name is random; the
// extension follows the detected content type.
func objectKey(namespace string, mt *mimetype.MIME) string {
	return path.Join(namespace, uuid.NewString()+mt.Extension())
}
