package service

import (
	"context"
	"fmt"

	"client-registry/internal/models"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

const cacheKeyPrefix = "client:"

// RecordStore persists clients. Lookups only ever see rows that are not soft-deleted.
type RecordStore interface {
	List(ctx context.Context) ([]models.Client, error)
	// FindBySlug MUST return ErrNotFound when no active client has the slug.
	FindBySlug(ctx context.Context, slug string) (*models.Client, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, client *models.Client) error
	Save(ctx context.Context, client *models.Client) error
	SoftDelete(ctx context.Context, client *models.Client) error
}

// BlobStore keeps uploaded files. Put returns the path the file can later be deleted by.
type BlobStore interface {
	Put(ctx context.Context, namespace string, file Upload) (string, error)
	Delete(ctx context.Context, path string) error
}

// Cache is a key-value store for serialized client snapshots.
// Get returns (nil, false, nil) when the key is absent.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Auditor records mutations. Failures are logged and do not fail the operation.
type Auditor interface {
	Record(ctx context.Context, entry models.AuditLog) error
}

// CacheKey returns the cache key holding the snapshot of the client with slug.
func CacheKey(slug string) string {
	return cacheKeyPrefix + slug
}

// ClientService implements client CRUD over a record store, keeping the cache
// and logo blobs in step with every write.
//
// Nothing here is transactional: two concurrent updates of one slug may leave
// the cache holding the older snapshot, and a failed create may leave its logo
// blob behind.
type ClientService struct {
	store RecordStore
	blobs BlobStore
	cache Cache
	audit Auditor
}

// NewClientService wires the service. audit may be nil.
func NewClientService(store RecordStore, blobs BlobStore, cache Cache, audit Auditor) *ClientService {
	return &ClientService{
		store: store,
		blobs: blobs,
		cache: cache,
		audit: audit,
	}
}

// List returns every active client. Listings are never cached.
func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	return s.store.List(ctx)
}

func (s *ClientService) Create(ctx context.Context, in CreateInput) (*models.Client, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.store.SlugTaken(ctx, in.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, Err(ErrUniqueness, nil, "slug %q is already in use", in.Slug)
	}

	client := &models.Client{
		Name:         in.Name,
		Slug:         in.Slug,
		IsProject:    valueOr(in.IsProject, false),
		SelfCapture:  valueOr(in.SelfCapture, true),
		ClientPrefix: in.ClientPrefix,
		Address:      in.Address,
		PhoneNumber:  in.PhoneNumber,
		City:         in.City,
	}

	if in.Logo != nil {
		path, err := s.blobs.Put(ctx, LogoNamespace, *in.Logo)
		if err != nil {
			return nil, fmt.Errorf("store logo: %w", err)
		}
		client.SetLogo(path)
	}

	if err := s.store.Create(ctx, client); err != nil {
		if client.HasLogo() {
			log.WithFields(log.Fields{"slug": in.Slug, "path": client.Logo()}).
				Warn("client insert failed, uploaded logo left in blob store")
		}
		return nil, err
	}

	if err := s.remember(ctx, client); err != nil {
		return nil, err
	}

	s.record(ctx, client, "create", "created client "+client.Name)
	return client, nil
}

// Show serves the cached snapshot when there is one, without consulting the
// record store. A snapshot written before a concurrent delete can therefore
// still be returned until the delete removes it.
func (s *ClientService) Show(ctx context.Context, slug string) (*models.Client, error) {
	data, ok, err := s.cache.Get(ctx, CacheKey(slug))
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}
	if ok {
		var cached models.Client
		err := json.Unmarshal(data, &cached)
		if err == nil {
			return &cached, nil
		}
		log.WithError(err).WithField("slug", slug).Warn("discarding undecodable cache entry")
	}

	client, err := s.store.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.remember(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Update applies the supplied fields to the active client with slug. When a new
// logo is supplied it is uploaded and saved first; the previous blob, if any,
// is deleted only after the record no longer references it. A client deleted
// while the update runs stays deleted and ErrNotFound is returned.
func (s *ClientService) Update(ctx context.Context, slug string, in UpdateInput) (*models.Client, error) {
	client, err := s.store.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	assign(&client.Name, in.Name)
	assign(&client.ClientPrefix, in.ClientPrefix)
	assign(&client.IsProject, in.IsProject)
	assign(&client.SelfCapture, in.SelfCapture)
	assignPtr(&client.Address, in.Address)
	assignPtr(&client.PhoneNumber, in.PhoneNumber)
	assignPtr(&client.City, in.City)

	var replaced string
	if in.Logo != nil {
		if client.HasLogo() {
			replaced = *client.LogoPath
		}
		path, err := s.blobs.Put(ctx, LogoNamespace, *in.Logo)
		if err != nil {
			return nil, fmt.Errorf("store logo: %w", err)
		}
		client.SetLogo(path)
	}

	if err := s.store.Save(ctx, client); err != nil {
		if in.Logo != nil {
			log.WithFields(log.Fields{"slug": slug, "path": client.Logo()}).
				Warn("client update failed, uploaded logo left in blob store")
		}
		return nil, err
	}

	if err := s.cache.Delete(ctx, CacheKey(slug)); err != nil {
		return nil, fmt.Errorf("invalidate cache: %w", err)
	}
	if err := s.remember(ctx, client); err != nil {
		return nil, err
	}

	// the update is committed; a replaced blob that cannot be removed is only logged
	if replaced != "" {
		if err := s.blobs.Delete(ctx, replaced); err != nil {
			log.WithError(err).WithFields(log.Fields{"slug": slug, "path": replaced}).
				Warn("failed to delete replaced logo, blob left in store")
		}
	}

	s.record(ctx, client, "update", "updated client "+client.Name)
	return client, nil
}

// Delete soft-deletes the active client with slug and drops its cache entry.
// The logo blob is kept.
func (s *ClientService) Delete(ctx context.Context, slug string) error {
	client, err := s.store.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.store.SoftDelete(ctx, client); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, CacheKey(slug)); err != nil {
		return fmt.Errorf("invalidate cache: %w", err)
	}

	s.record(ctx, client, "delete", "deleted client "+client.Name)
	return nil
}

// remember writes the snapshot of client under its slug.
func (s *ClientService) remember(ctx context.Context, client *models.Client) error {
	data, err := json.Marshal(client)
	if err != nil {
		return fmt.Errorf("encode client %s: %w", client.Slug, err)
	}
	if err := s.cache.Set(ctx, CacheKey(client.Slug), data); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

func (s *ClientService) record(ctx context.Context, client *models.Client, action, details string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, models.AuditLog{
		Entity:    "client",
		EntityID:  client.ID,
		EntityKey: client.Slug,
		Action:    action,
		Details:   details,
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"slug": client.Slug, "action": action}).
			Warn("failed to write audit log")
	}
}

func valueOr[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

func assign[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func assignPtr[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}
