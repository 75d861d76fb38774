package storage_test

import (
	"context"
	"os"
	"testing"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ferreirogomes/landledger/models"
	"github.com/ferreirogomes/landledger/storage"
)

// As verificações abaixo precisam de um PostgreSQL real (ex.: docker compose).
func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	dsn := os.Getenv("LANDLEDGER_TEST_DSN")
	if dsn == "" {
		t.Skip("LANDLEDGER_TEST_DSN não definido")
	}
	db, err := storage.NewDB(context.Background(), dsn, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = storage.Migrate(db.DB.DB, migrate.Down, zap.NewNop())
		db.Close()
	})
	return db
}

func TestOpen_DoesNotMigrate(t *testing.T) {
	dsn := os.Getenv("LANDLEDGER_TEST_DSN")
	if dsn == "" {
		t.Skip("LANDLEDGER_TEST_DSN não definido")
	}
	ctx := context.Background()
	db, err := storage.Open(ctx, dsn, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	_, _ = storage.Migrate(db.DB.DB, migrate.Down, zap.NewNop())
	var exists bool
	require.NoError(t, db.GetContext(ctx, &exists, `SELECT to_regclass('user_wishlist_items') IS NOT NULL`))
	assert.False(t, exists)

	n, err := storage.Migrate(db.DB.DB, migrate.Down, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, n)

	reopened, err := storage.Open(ctx, dsn, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.GetContext(ctx, &exists, `SELECT to_regclass('user_wishlist_items') IS NOT NULL`))
	assert.False(t, exists)
}

func TestDBWishlist(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveWishlist(ctx, "u1", []string{"prop3", "prop1", "prop3"}))
	items, err := db.LoadWishlist(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"prop3", "prop1"}, items)

	require.NoError(t, db.SaveWishlist(ctx, "u1", nil))
	items, err = db.LoadWishlist(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDBDocuments(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	doc := models.KYCDocument{
		ID:         "d1",
		UserID:     "u1",
		Type:       models.DocUtilityBill,
		FileName:   "conta.pdf",
		UploadedAt: time.Now().UTC().Truncate(time.Second),
		Status:     models.DocumentPending,
	}
	require.NoError(t, db.SaveDocument(ctx, doc))

	docs, err := db.ListDocuments(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "conta.pdf", docs[0].FileName)

	deleted, err := db.DeleteDocument(ctx, "u1", "d1")
	require.NoError(t, err)
	assert.True(t, deleted)
}
