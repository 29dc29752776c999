package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"client-registry/internal/metrics"
	"client-registry/internal/service"

	"github.com/gabriel-vasile/mimetype"
)

// DiskStore keeps blobs as files under a root directory. Paths it returns are
// relative to the root and use forward slashes, like S3 keys.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

func (d *DiskStore) Put(_ context.Context, namespace string, file service.Upload) (string, error) {
	key := objectKey(namespace, mimetype.Detect(file.Data))
	err := d.write(key, file.Data)
	metrics.ObserveBlob("disk", "put", err)
	if err != nil {
		return "", err
	}
	return key, nil
}

// Delete removes the file at key. Deleting a missing file is not an error.
func (d *DiskStore) Delete(_ context.Context, key string) error {
	full, err := d.resolve(key)
	if err == nil {
		err = os.Remove(full)
		if errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
	}
	metrics.ObserveBlob("disk", "delete", err)
	return err
}

func (d *DiskStore) write(key string, data []byte) error {
	full, err := d.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create blob directory: %w", err)
	}
	return os.WriteFile(full, data, 0o644)
}

// resolve maps key onto the filesystem, refusing keys that escape the root.
func (d *DiskStore) resolve(key string) (string, error) {
	rel := filepath.FromSlash(key)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("invalid blob path %q", key)
	}
	return filepath.Join(d.root, rel), nil
}
