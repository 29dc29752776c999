package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"client-registry/internal/config"
	"client-registry/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngLogo = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR fake image body")

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	deletes []*s3.DeleteObjectInput
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, in)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StorePut(t *testing.T) {
	api := &fakeS3{}
	store := NewS3Store(api, "logos-bucket")

	key, err := store.Put(context.Background(), service.LogoNamespace, service.Upload{Data: pngLogo})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "client-logos/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	require.Len(t, api.puts, 1)
	in := api.puts[0]
	assert.Equal(t, "logos-bucket", aws.ToString(in.Bucket))
	assert.Equal(t, key, aws.ToString(in.Key))
	assert.Equal(t, "image/png", aws.ToString(in.ContentType))
	assert.Equal(t, int64(len(pngLogo)), aws.ToInt64(in.ContentLength))
}

func TestS3StoreKeysAreUnique(t *testing.T) {
	store := NewS3Store(&fakeS3{}, "b")
	upload := service.Upload{Data: pngLogo}

	a, err := store.Put(context.Background(), service.LogoNamespace, upload)
	require.NoError(t, err)
	b, err := store.Put(context.Background(), service.LogoNamespace, upload)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestS3StoreDelete(t *testing.T) {
	api := &fakeS3{}
	store := NewS3Store(api, "logos-bucket")

	require.NoError(t, store.Delete(context.Background(), "client-logos/a.png"))
	require.Len(t, api.deletes, 1)
	assert.Equal(t, "client-logos/a.png", aws.ToString(api.deletes[0].Key))
	assert.Equal(t, "logos-bucket", aws.ToString(api.deletes[0].Bucket))
}

func TestS3StorePropagatesErrors(t *testing.T) {
	boom := errors.New("access denied")
	store := NewS3Store(&fakeS3{err: boom}, "b")

	_, err := store.Put(context.Background(), service.LogoNamespace, service.Upload{Data: pngLogo})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, store.Delete(context.Background(), "client-logos/a.png"), boom)
}

func TestDiskStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewDiskStore(root)

	key, err := store.Put(ctx, service.LogoNamespace, service.Upload{Data: pngLogo})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "client-logos/"), key)

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, pngLogo, data)

	require.NoError(t, store.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	// already gone
	require.NoError(t, store.Delete(ctx, key))
}

func TestDiskStoreRejectsEscapingPaths(t *testing.T) {
	store := NewDiskStore(t.TempDir())
	assert.Error(t, store.Delete(context.Background(), "../outside.png"))
	assert.Error(t, store.Delete(context.Background(), "/etc/passwd"))
}

func TestFromConfigDisk(t *testing.T) {
	store, err := FromConfig(context.Background(), &config.Config{
		BlobBackend: config.BlobBackendDisk,
		BlobDir:     t.TempDir(),
	})
	require.NoError(t, err)
	assert.IsType(t, &DiskStore{}, store)
}

func TestFromConfigS3(t *testing.T) {
	store, err := FromConfig(context.Background(), &config.Config{
		BlobBackend:        config.BlobBackendS3,
		S3Bucket:           "logos",
		S3Endpoint:         "http://localhost:4566",
		AWSRegion:          "us-east-1",
		AWSAccessKeyID:     "x",
		AWSSecretAccessKey: "x",
	})
	require.NoError(t, err)
	assert.IsType(t, &S3Store{}, store)
}

func TestFromConfigUnknown(t *testing.T) {
	_, err := FromConfig(context.Background(), &config.Config{BlobBackend: "ftp"})
	assert.Error(t, err)
}
