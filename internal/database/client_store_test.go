package database

import (
	"context"
	"testing"

	"client-registry/internal/models"
	"client-registry/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), Options())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection would otherwise get its own empty in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func TestClientStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewClientStore(newTestDB(t))

	client := &models.Client{Name: "Acme", Slug: "acme", ClientPrefix: "ACM", SelfCapture: true}
	require.NoError(t, store.Create(ctx, client))
	assert.NotZero(t, client.ID)
	assert.False(t, client.CreatedAt.IsZero())

	found, err := store.FindBySlug(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, client.ID, found.ID)
	assert.Nil(t, found.LogoPath)

	found.Name = "Acme Corp"
	found.SetLogo("client-logos/a.png")
	require.NoError(t, store.Save(ctx, found))

	again, err := store.FindBySlug(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", again.Name)
	assert.Equal(t, "client-logos/a.png", again.Logo())

	taken, err := store.SlugTaken(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, taken)

	require.NoError(t, store.SoftDelete(ctx, again))

	_, err = store.FindBySlug(ctx, "acme")
	assert.ErrorIs(t, err, service.ErrNotFound)

	taken, err = store.SlugTaken(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestClientStoreListSkipsDeleted(t *testing.T) {
	ctx := context.Background()
	store := NewClientStore(newTestDB(t))

	for _, slug := range []string{"a", "b", "c"} {
		require.NoError(t, store.Create(ctx, &models.Client{Name: slug, Slug: slug, ClientPrefix: "X"}))
	}
	b, err := store.FindBySlug(ctx, "b")
	require.NoError(t, err)
	require.NoError(t, store.SoftDelete(ctx, b))

	clients, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "a", clients[0].Slug)
	assert.Equal(t, "c", clients[1].Slug)
}

func TestClientStoreListEmpty(t *testing.T) {
	clients, err := NewClientStore(newTestDB(t)).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, clients)
	assert.Empty(t, clients)
}

func TestClientStoreRejectsDuplicateActiveSlug(t *testing.T) {
	ctx := context.Background()
	store := NewClientStore(newTestDB(t))

	require.NoError(t, store.Create(ctx, &models.Client{Name: "A", Slug: "acme", ClientPrefix: "A"}))
	assert.Error(t, store.Create(ctx, &models.Client{Name: "B", Slug: "acme", ClientPrefix: "B"}))
}

func TestClientStoreCreateKeepsFalseFlags(t *testing.T) {
	ctx := context.Background()
	store := NewClientStore(newTestDB(t))

	client := &models.Client{Name: "A", Slug: "acme", ClientPrefix: "A", SelfCapture: false}
	require.NoError(t, store.Create(ctx, client))

	found, err := store.FindBySlug(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, found.SelfCapture)
}

func TestAuditStore(t *testing.T) {
	ctx := context.Background()
	audit := NewAuditStore(newTestDB(t))

	for _, action := range []string{"create", "update", "delete"} {
		require.NoError(t, audit.Record(ctx, models.AuditLog{
			Entity:    "client",
			EntityID:  1,
			EntityKey: "acme",
			Action:    action,
		}))
	}

	logs, err := audit.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "delete", logs[0].Action)
	assert.Equal(t, "update", logs[1].Action)
}

func TestClientStoreSaveDoesNotRestoreDeletedClient(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	store := NewClientStore(db)

	require.NoError(t, store.Create(ctx, &models.Client{Name: "Acme", Slug: "acme", ClientPrefix: "ACM"}))

	loaded, err := store.FindBySlug(ctx, "acme")
	require.NoError(t, err)
	concurrent, err := store.FindBySlug(ctx, "acme")
	require.NoError(t, err)
	require.NoError(t, store.SoftDelete(ctx, concurrent))

	loaded.Name = "Acme Corp"
	err = store.Save(ctx, loaded)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = store.FindBySlug(ctx, "acme")
	assert.ErrorIs(t, err, service.ErrNotFound)

	var row models.Client
	require.NoError(t, db.Unscoped().First(&row, loaded.ID).Error)
	assert.True(t, row.DeletedAt.Valid)
	assert.Equal(t, "Acme", row.Name)

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Client{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestClientStoreSaveClearsOptionalFields(t *testing.T) {
	ctx := context.Background()
	store := NewClientStore(newTestDB(t))

	city := "Oslo"
	require.NoError(t, store.Create(ctx, &models.Client{Name: "Acme", Slug: "acme", ClientPrefix: "ACM", City: &city, IsProject: true}))

	found, err := store.FindBySlug(ctx, "acme")
	require.NoError(t, err)
	found.City = nil
	found.IsProject = false
	require.NoError(t, store.Save(ctx, found))

	again, err := store.FindBySlug(ctx, "acme")
	require.NoError(t, err)
	assert.Nil(t, again.City)
	assert.False(t, again.IsProject)
	assert.Equal(t, found.CreatedAt.Unix(), again.CreatedAt.Unix())
}
