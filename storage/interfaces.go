package storage

import (
	"context"

	"github.com/ferreirogomes/landledger/models"
)

// GuestWishlistKey é a chave do "local storage" onde a wishlist de visitantes
// é guardada como um array JSON de IDs de imóveis.
const GuestWishlistKey = "landledger_guest_wishlist"

// GuestKey devolve a chave da wishlist de um visitante. Sem guestID a chave é
// a mesma usada pelo navegador.
func GuestKey(guestID string) string {
	if guestID == "" {
		return GuestWishlistKey
	}
	return GuestWishlistKey + ":" + guestID
}

// LocalStorage imita a API de chave/valor do navegador.
type LocalStorage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// WishlistRepository guarda a wishlist de usuários autenticados.
type WishlistRepository interface {
	LoadWishlist(ctx context.Context, userID string) ([]string, error)
	SaveWishlist(ctx context.Context, userID string, items []string) error
}

// KYCRepository guarda os registros de documentos enviados.
type KYCRepository interface {
	ListDocuments(ctx context.Context, userID string) ([]models.KYCDocument, error)
	SaveDocument(ctx context.Context, doc models.KYCDocument) error
	DeleteDocument(ctx context.Context, userID, docID string) (bool, error)
}
