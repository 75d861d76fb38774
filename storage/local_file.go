package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// FileLocalStorage guarda cada chave em um arquivo dentro de Dir.
type FileLocalStorage struct {
	mu  sync.Mutex
	dir string
}

var _ LocalStorage = (*FileLocalStorage)(nil)

// NewFileLocalStorage cria o diretório se necessário.
func NewFileLocalStorage(dir string) (*FileLocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("falha ao criar diretório de armazenamento local: %w", err)
	}
	return &FileLocalStorage{dir: dir}, nil
}

func (s *FileLocalStorage) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}

func (s *FileLocalStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("falha ao ler %s: %w", key, err)
	}
	return string(b), true, nil
}

// SetItem grava em um arquivo temporário e renomeia, para que leitores nunca
// vejam um valor parcial.
func (s *FileLocalStorage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("falha ao criar arquivo temporário: %w", err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("falha ao gravar %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("falha ao fechar %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("falha ao substituir %s: %w", key, err)
	}
	return nil
}

func (s *FileLocalStorage) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("falha ao remover %s: %w", key, err)
	}
	return nil
}
