package storage_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ferreirogomes/landledger/models"
	"github.com/ferreirogomes/landledger/storage"
)

func TestGuestKey(t *testing.T) {
	assert.Equal(t, "landledger_guest_wishlist", storage.GuestKey(""))
	assert.Equal(t, "landledger_guest_wishlist:abc", storage.GuestKey("abc"))
}

// exerciseLocalStorage roda o mesmo contrato para qualquer backend.
func exerciseLocalStorage(t *testing.T, s storage.LocalStorage) {
	t.Helper()
	ctx := context.Background()
	key := storage.GuestKey("guest-1")

	_, found, err := s.GetItem(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SetItem(ctx, key, `["prop1"]`))
	require.NoError(t, s.SetItem(ctx, key, `["prop1","prop2"]`))

	v, found, err := s.GetItem(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["prop1","prop2"]`, v)

	require.NoError(t, s.RemoveItem(ctx, key))
	_, found, err = s.GetItem(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	// remover uma chave ausente não é erro
	require.NoError(t, s.RemoveItem(ctx, key))
}

func TestMemoryLocalStorage(t *testing.T) {
	exerciseLocalStorage(t, storage.NewMemoryLocalStorage())
}

func TestFileLocalStorage(t *testing.T) {
	s, err := storage.NewFileLocalStorage(t.TempDir())
	require.NoError(t, err)
	exerciseLocalStorage(t, s)
}

func TestRedisLocalStorage(t *testing.T) {
	addr := os.Getenv("LANDLEDGER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LANDLEDGER_TEST_REDIS_ADDR não definido")
	}
	s, err := storage.NewRedisLocalStorage(context.Background(), addr, "", 0, time.Minute, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()
	exerciseLocalStorage(t, s)
}

func TestMemoryStoreWishlist(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemoryStore()

	items, err := m.LoadWishlist(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)

	m.SeedWishlist("u1", []string{"prop1", "prop3"})
	items, err = m.LoadWishlist(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"prop1", "prop3"}, items)

	// a cópia devolvida não altera o estado interno
	items[0] = "mutated"
	again, _ := m.LoadWishlist(ctx, "u1")
	assert.Equal(t, "prop1", again[0])

	require.NoError(t, m.SaveWishlist(ctx, "u1", []string{"prop9"}))
	items, _ = m.LoadWishlist(ctx, "u1")
	assert.Equal(t, []string{"prop9"}, items)
}

func TestMemoryStoreDocuments(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemoryStore()

	doc := models.KYCDocument{ID: "d1", UserID: "u1", Type: models.DocPassport, Status: models.DocumentPending}
	require.NoError(t, m.SaveDocument(ctx, doc))
	doc.Status = models.DocumentApproved
	require.NoError(t, m.SaveDocument(ctx, doc))

	docs, err := m.ListDocuments(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, models.DocumentApproved, docs[0].Status)

	deleted, err := m.DeleteDocument(ctx, "u1", "d1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = m.DeleteDocument(ctx, "u1", "d1")
	require.NoError(t, err)
	assert.False(t, deleted)
}
