package database

import (
	"context"
	"errors"

	"client-registry/internal/models"
	"client-registry/internal/service"

	"gorm.io/gorm"
)

// ClientStore persists clients with gorm. Soft-deleted rows are hidden by
// gorm's default scope on every query.
type ClientStore struct {
	db *gorm.DB
}

func NewClientStore(db *gorm.DB) *ClientStore {
	return &ClientStore{db: db}
}

func (s *ClientStore) List(ctx context.Context) ([]models.Client, error) {
	clients := []models.Client{}
	if err := s.db.WithContext(ctx).Order("id asc").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *ClientStore) FindBySlug(ctx context.Context, slug string) (*models.Client, error) {
	var client models.Client
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.Err(service.ErrNotFound, nil, "no client with slug %q", slug)
		}
		return nil, err
	}
	return &client, nil
}

func (s *ClientStore) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Client{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (s *ClientStore) Create(ctx context.Context, client *models.Client) error {
	err := s.db.WithContext(ctx).Create(client).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return service.Err(service.ErrUniqueness, err, "slug %q is already in use", client.Slug)
	}
	return err
}

// Save writes every column of an active client. A client soft-deleted since it
// was loaded is left deleted and reported as not found.
func (s *ClientStore) Save(ctx context.Context, client *models.Client) error {
	res := s.db.WithContext(ctx).Model(client).Select("*").Omit("id", "created_at").Updates(client)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return service.Err(service.ErrNotFound, nil, "no client with slug %q", client.Slug)
	}
	return nil
}

// SoftDelete stamps deleted_at; the row stays in the table.
func (s *ClientStore) SoftDelete(ctx context.Context, client *models.Client) error {
	return s.db.WithContext(ctx).Delete(client).Error
}
