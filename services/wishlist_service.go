package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ferreirogomes/landledger/storage"
)

// WishlistState é o estado da lista de favoritos de um dono.
// Items mantém a ordem de inserção e nunca tem IDs repetidos.
type WishlistState struct {
	Items     []string `json:"items"`
	IsLoading bool     `json:"is_loading"`
	Error     string   `json:"error,omitempty"`
}

// WishlistAction é uma das ações aceitas por ReduceWishlist.
type WishlistAction interface {
	wishlistAction()
}

type (
	AddItem       struct{ PropertyID string }
	RemoveItem    struct{ PropertyID string }
	SetWishlist   struct{ Items []string }
	ClearWishlist struct{}
	SetLoading    struct{ Loading bool }
	SetError      struct{ Message string }
)

func (AddItem) wishlistAction()       {}
func (RemoveItem) wishlistAction()    {}
func (SetWishlist) wishlistAction()   {}
func (ClearWishlist) wishlistAction() {}
func (SetLoading) wishlistAction()    {}
func (SetError) wishlistAction()      {}

// ReduceWishlist aplica action sobre state e devolve o novo estado, sem
// alterar o slice recebido.
func ReduceWishlist(state WishlistState, action WishlistAction) WishlistState {
	switch a := action.(type) {
	case AddItem:
		state.Error = ""
		if slices.Contains(state.Items, a.PropertyID) {
			return state
		}
		state.Items = append(slices.Clone(state.Items), a.PropertyID)
	case RemoveItem:
		state.Items = slices.DeleteFunc(slices.Clone(state.Items), func(id string) bool { return id == a.PropertyID })
		state.Error = ""
	case SetWishlist:
		state.Items = dedup(a.Items)
		state.Error = ""
	case ClearWishlist:
		state.Items = []string{}
		state.Error = ""
	case SetLoading:
		state.IsLoading = a.Loading
	case SetError:
		state.Error = a.Message
		state.IsLoading = false
	}
	return state
}

func dedup(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, id := range items {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Owner identifica de quem é a wishlist. Com UserID vazio o dono é um
// visitante e precisa de GuestID.
type Owner struct {
	UserID  string
	GuestID string
}

func (o Owner) Authenticated() bool { return o.UserID != "" }

func (o Owner) validate() error {
	if !o.Authenticated() && o.GuestID == "" {
		return ErrGuestIDRequired
	}
	return nil
}

func (o Owner) key() string {
	if o.Authenticated() {
		return "user:" + o.UserID
	}
	return "guest:" + o.GuestID
}

// WishlistService persiste wishlists de visitantes no LocalStorage e de
// usuários autenticados no WishlistRepository.
type WishlistService struct {
	guest       storage.LocalStorage
	remote      storage.WishlistRepository
	loadLatency time.Duration
	saveLatency time.Duration
	logger      *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewWishlistService cria o serviço. As latências valem apenas para o
// armazenamento remoto.
func NewWishlistService(guest storage.LocalStorage, remote storage.WishlistRepository, loadLatency, saveLatency time.Duration, logger *zap.Logger) *WishlistService {
	return &WishlistService{
		guest:       guest,
		remote:      remote,
		loadLatency: loadLatency,
		saveLatency: saveLatency,
		logger:      logger,
		locks:       make(map[string]*sync.Mutex),
	}
}

// lock serializa as operações de leitura e escrita de um mesmo dono.
func (s *WishlistService) lock(o Owner) func() {
	s.mu.Lock()
	l, ok := s.locks[o.key()]
	if !ok {
		l = &sync.Mutex{}
		s.locks[o.key()] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Load devolve a wishlist atual do dono.
func (s *WishlistService) Load(ctx context.Context, o Owner) (WishlistState, error) {
	if err := o.validate(); err != nil {
		return WishlistState{}, err
	}
	defer s.lock(o)()
	items, err := s.read(ctx, o)
	if err != nil {
		return ReduceWishlist(WishlistState{}, SetError{Message: err.Error()}), err
	}
	return ReduceWishlist(WishlistState{}, SetWishlist{Items: items}), nil
}

// Add inclui propertyID. Adicionar um ID já presente não muda a lista.
func (s *WishlistService) Add(ctx context.Context, o Owner, propertyID string) (WishlistState, error) {
	if propertyID == "" {
		return WishlistState{}, ErrInvalidPropertyID
	}
	return s.mutate(ctx, o, AddItem{PropertyID: propertyID})
}

// Remove retira propertyID. Remover um ID ausente não é erro.
func (s *WishlistService) Remove(ctx context.Context, o Owner, propertyID string) (WishlistState, error) {
	if propertyID == "" {
		return WishlistState{}, ErrInvalidPropertyID
	}
	return s.mutate(ctx, o, RemoveItem{PropertyID: propertyID})
}

// Clear esvazia a wishlist.
func (s *WishlistService) Clear(ctx context.Context, o Owner) (WishlistState, error) {
	return s.mutate(ctx, o, ClearWishlist{})
}

// Contains informa se propertyID está na wishlist do dono.
func (s *WishlistService) Contains(ctx context.Context, o Owner, propertyID string) (bool, error) {
	st, err := s.Load(ctx, o)
	if err != nil {
		return false, err
	}
	return slices.Contains(st.Items, propertyID), nil
}

// SyncGuest mescla a wishlist do visitante guestID na do usuário userID,
// preservando a ordem (primeiro os itens do usuário) e apagando a cópia do
// visitante. Sem usuário nada acontece. Sem guestID ou sem wishlist de
// visitante devolve a lista do usuário sem alterá-la.
func (s *WishlistService) SyncGuest(ctx context.Context, userID, guestID string) (WishlistState, error) {
	user := Owner{UserID: userID}
	if !user.Authenticated() {
		return WishlistState{}, nil
	}
	if guestID == "" {
		defer s.lock(user)()
		current, err := s.read(ctx, user)
		if err != nil {
			return WishlistState{}, err
		}
		return ReduceWishlist(WishlistState{}, SetWishlist{Items: current}), nil
	}
	guest := Owner{GuestID: guestID}

	unlockGuest := s.lock(guest)
	defer unlockGuest()
	unlockUser := s.lock(user)
	defer unlockUser()

	raw, found, err := s.guest.GetItem(ctx, storage.GuestKey(guestID))
	if err != nil {
		return WishlistState{}, fmt.Errorf("falha ao ler wishlist do visitante: %w", err)
	}

	current, err := s.read(ctx, user)
	if err != nil {
		return WishlistState{}, err
	}
	state := ReduceWishlist(WishlistState{}, SetWishlist{Items: current})
	if !found {
		return state, nil
	}

	for _, id := range s.decodeGuest(raw) {
		state = ReduceWishlist(state, AddItem{PropertyID: id})
	}
	if err := s.write(ctx, user, state.Items); err != nil {
		return state, err
	}
	if err := s.guest.RemoveItem(ctx, storage.GuestKey(guestID)); err != nil {
		return state, fmt.Errorf("falha ao apagar wishlist do visitante: %w", err)
	}

	s.logger.Info("wishlist de visitante sincronizada",
		zap.String("user_id", userID),
		zap.String("guest_id", guestID),
		zap.Int("items", len(state.Items)),
	)
	return state, nil
}

func (s *WishlistService) mutate(ctx context.Context, o Owner, action WishlistAction) (WishlistState, error) {
	if err := o.validate(); err != nil {
		return WishlistState{}, err
	}
	defer s.lock(o)()
	items, err := s.read(ctx, o)
	if err != nil {
		return ReduceWishlist(WishlistState{}, SetError{Message: err.Error()}), err
	}
	before := ReduceWishlist(WishlistState{}, SetWishlist{Items: items})
	after := ReduceWishlist(before, action)
	if slices.Equal(before.Items, after.Items) {
		return after, nil
	}
	if err := s.write(ctx, o, after.Items); err != nil {
		return ReduceWishlist(before, SetError{Message: err.Error()}), err
	}
	return after, nil
}

func (s *WishlistService) read(ctx context.Context, o Owner) ([]string, error) {
	if o.Authenticated() {
		if err := simulateLatency(ctx, s.loadLatency); err != nil {
			return nil, err
		}
		items, err := s.remote.LoadWishlist(ctx, o.UserID)
		if err != nil {
			return nil, fmt.Errorf("falha ao carregar wishlist: %w", err)
		}
		return items, nil
	}

	raw, found, err := s.guest.GetItem(ctx, storage.GuestKey(o.GuestID))
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar wishlist: %w", err)
	}
	if !found {
		return []string{}, nil
	}
	return s.decodeGuest(raw), nil
}

func (s *WishlistService) write(ctx context.Context, o Owner, items []string) error {
	if o.Authenticated() {
		if err := simulateLatency(ctx, s.saveLatency); err != nil {
			return err
		}
		if err := s.remote.SaveWishlist(ctx, o.UserID, items); err != nil {
			return fmt.Errorf("falha ao salvar wishlist: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("falha ao codificar wishlist: %w", err)
	}
	if err := s.guest.SetItem(ctx, storage.GuestKey(o.GuestID), string(raw)); err != nil {
		return fmt.Errorf("falha ao salvar wishlist: %w", err)
	}
	return nil
}

// decodeGuest interpreta o JSON salvo pelo visitante. Conteúdo corrompido é
// registrado no log e tratado como lista vazia.
func (s *WishlistService) decodeGuest(raw string) []string {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("wishlist de visitante corrompida, ignorando", zap.Error(err))
		return []string{}
	}
	return dedup(items)
}
