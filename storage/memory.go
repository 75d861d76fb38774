package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/ferreirogomes/landledger/models"
)

// MemoryStore é o backend "remoto" simulado: wishlists e documentos KYC em
// memória, protegidos por mutex.
type MemoryStore struct {
	mu        sync.RWMutex
	wishlists map[string][]string
	documents map[string][]models.KYCDocument
}

var (
	_ WishlistRepository = (*MemoryStore)(nil)
	_ KYCRepository      = (*MemoryStore)(nil)
)

// NewMemoryStore cria um store vazio.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		wishlists: make(map[string][]string),
		documents: make(map[string][]models.KYCDocument),
	}
}

// SeedWishlist define a wishlist inicial de um usuário.
func (m *MemoryStore) SeedWishlist(userID string, items []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wishlists[userID] = slices.Clone(items)
}

func (m *MemoryStore) LoadWishlist(_ context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := m.wishlists[userID]
	if items == nil {
		return []string{}, nil
	}
	return slices.Clone(items), nil
}

func (m *MemoryStore) SaveWishlist(_ context.Context, userID string, items []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wishlists[userID] = slices.Clone(items)
	return nil
}

func (m *MemoryStore) ListDocuments(_ context.Context, userID string) ([]models.KYCDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := m.documents[userID]
	if docs == nil {
		return []models.KYCDocument{}, nil
	}
	return slices.Clone(docs), nil
}

func (m *MemoryStore) SaveDocument(_ context.Context, doc models.KYCDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.documents[doc.UserID]
	for i := range docs {
		if docs[i].ID == doc.ID {
			docs[i] = doc
			return nil
		}
	}
	m.documents[doc.UserID] = append(docs, doc)
	return nil
}

func (m *MemoryStore) DeleteDocument(_ context.Context, userID, docID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.documents[userID]
	i := slices.IndexFunc(docs, func(d models.KYCDocument) bool { return d.ID == docID })
	if i < 0 {
		return false, nil
	}
	m.documents[userID] = slices.Delete(docs, i, i+1)
	return true, nil
}

// MemoryLocalStorage é um LocalStorage em memória, útil para testes e para
// execução local sem Redis.
type MemoryLocalStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

var _ LocalStorage = (*MemoryLocalStorage)(nil)

func NewMemoryLocalStorage() *MemoryLocalStorage {
	return &MemoryLocalStorage{items: make(map[string]string)}
}

func (s *MemoryLocalStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *MemoryLocalStorage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *MemoryLocalStorage) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
