package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ferreirogomes/landledger/models"
	"github.com/ferreirogomes/landledger/seed"
)

// AuthState é o estado de autenticação de uma sessão.
type AuthState struct {
	User            *models.User       `json:"user"`
	Wallet          *models.WalletInfo `json:"wallet"`
	IsAuthenticated bool               `json:"is_authenticated"`
	IsLoading       bool               `json:"is_loading"`
	Error           string             `json:"error,omitempty"`
}

// AuthAction é uma das transições aceitas por ReduceAuth.
type AuthAction interface {
	authAction()
}

type (
	LoginStart   struct{}
	LoginSuccess struct {
		User   models.User
		Wallet *models.WalletInfo
	}
	LoginFailure       struct{ Message string }
	Logout             struct{}
	WalletConnected    struct{ Wallet models.WalletInfo }
	WalletDisconnected struct{}
	UpdateUser         struct{ Patch models.UserPatch }
)

func (LoginStart) authAction()         {}
func (LoginSuccess) authAction()       {}
func (LoginFailure) authAction()       {}
func (Logout) authAction()             {}
func (WalletConnected) authAction()    {}
func (WalletDisconnected) authAction() {}
func (UpdateUser) authAction()         {}

// ReduceAuth aplica action sobre state.
func ReduceAuth(state AuthState, action AuthAction) AuthState {
	switch a := action.(type) {
	case LoginStart:
		state.IsLoading = true
		state.Error = ""
	case LoginSuccess:
		u := a.User
		state.User = &u
		if a.Wallet != nil {
			w := *a.Wallet
			state.Wallet = &w
		}
		state.IsAuthenticated = true
		state.IsLoading = false
		state.Error = ""
	case LoginFailure:
		state.IsLoading = false
		state.Error = a.Message
		state.IsAuthenticated = false
		state.User = nil
	case Logout:
		return AuthState{}
	case WalletConnected:
		w := a.Wallet
		state.Wallet = &w
	case WalletDisconnected:
		state.Wallet = nil
	case UpdateUser:
		if state.User != nil {
			u := a.Patch.Apply(*state.User)
			state.User = &u
		}
	}
	return state
}

// Session é devolvida a cada login bem-sucedido.
type Session struct {
	ID        string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	State     AuthState `json:"state"`
}

type session struct {
	state     AuthState
	expiresAt time.Time
}

// AuthService mantém o estado de autenticação por sessão em memória.
type AuthService struct {
	mockUser   models.User
	mockWallet seed.MockWallet
	verifier   WalletVerifier
	balances   BalanceProvider
	tokens     *TokenIssuer
	latency    time.Duration
	logger     *zap.Logger
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// AuthOptions agrupa as dependências do AuthService.
type AuthOptions struct {
	MockUser   models.User
	MockWallet seed.MockWallet
	Verifier   WalletVerifier
	Balances   BalanceProvider
	Tokens     *TokenIssuer
	Latency    time.Duration
}

func NewAuthService(opts AuthOptions, logger *zap.Logger) *AuthService {
	return &AuthService{
		mockUser:   opts.MockUser,
		mockWallet: opts.MockWallet,
		verifier:   opts.Verifier,
		balances:   opts.Balances,
		tokens:     opts.Tokens,
		latency:    opts.Latency,
		logger:     logger,
		now:        time.Now,
		sessions:   make(map[string]*session),
	}
}

// Login autentica por e-mail e senha. O usuário devolvido é o mock com o
// e-mail informado. Em caso de falha, a Session devolvida carrega o estado
// com a mensagem de erro.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	state := ReduceAuth(AuthState{}, LoginStart{})
	if err := simulateLatency(ctx, s.latency); err != nil {
		return Session{State: ReduceAuth(state, LoginFailure{Message: ErrLoginFailed.Error()})}, err
	}
	if !strings.Contains(email, "@") || password == "" {
		s.logger.Info("login recusado", zap.String("email", email))
		return Session{State: ReduceAuth(state, LoginFailure{Message: ErrLoginFailed.Error()})}, ErrLoginFailed
	}

	now := s.now()
	user := s.mockUser
	user.Email = email
	user.CreatedAt, user.UpdatedAt = now, now

	return s.startSession(ReduceAuth(state, LoginSuccess{User: user}))
}

// LoginWithWallet autentica pela assinatura de LoginChallenge(address).
func (s *AuthService) LoginWithWallet(ctx context.Context, address, signature string) (Session, error) {
	state := ReduceAuth(AuthState{}, LoginStart{})
	fail := func(err error) (Session, error) {
		s.logger.Info("login por carteira recusado", zap.String("address", address), zap.Error(err))
		return Session{State: ReduceAuth(state, LoginFailure{Message: ErrWalletAuthFailed.Error()})}, fmt.Errorf("%w: %w", ErrWalletAuthFailed, err)
	}

	if err := simulateLatency(ctx, s.latency); err != nil {
		return fail(err)
	}
	if err := s.verifier.VerifySignature(address, signature, LoginChallenge(address)); err != nil {
		return fail(err)
	}
	balance, err := s.balances.Balance(ctx, address)
	if err != nil {
		return fail(err)
	}

	now := s.now()
	user := models.User{
		ID:            s.mockUser.ID,
		WalletAddress: address,
		KYCStatus:     s.mockUser.KYCStatus,
		Role:          s.mockUser.Role,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	wallet := models.WalletInfo{
		Address:   address,
		Balance:   balance,
		Network:   s.balances.Network(),
		Provider:  models.ProviderMetaMask,
		Connected: true,
	}
	return s.startSession(ReduceAuth(state, LoginSuccess{User: user, Wallet: &wallet}))
}

func (s *AuthService) startSession(state AuthState) (Session, error) {
	sid := uuid.NewString()
	token, exp, err := s.tokens.Issue(sid, state.User.ID)
	if err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	s.purgeExpiredLocked()
	s.sessions[sid] = &session{state: state, expiresAt: exp}
	s.mu.Unlock()

	s.logger.Info("sessão iniciada", zap.String("session_id", sid), zap.String("user_id", state.User.ID))
	return Session{ID: sid, Token: token, ExpiresAt: exp, State: state}, nil
}

func (s *AuthService) purgeExpiredLocked() {
	now := s.now()
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

// Authenticate valida o token e devolve o ID da sessão e seu estado.
func (s *AuthService) Authenticate(token string) (string, AuthState, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return "", AuthState{}, err
	}
	state, ok := s.State(claims.ID)
	if !ok {
		return "", AuthState{}, ErrSessionNotFound
	}
	return claims.ID, state, nil
}

// State devolve o estado atual da sessão sid.
func (s *AuthService) State(sid string) (AuthState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sid]
	if !ok || s.now().After(sess.expiresAt) {
		return AuthState{}, false
	}
	return sess.state, true
}

// Logout encerra a sessão. Encerrar uma sessão inexistente não é erro.
func (s *AuthService) Logout(ctx context.Context, sid string) (AuthState, error) {
	if err := simulateLatency(ctx, s.latency); err != nil {
		return AuthState{}, err
	}
	s.mu.Lock()
	delete(s.sessions, sid)
	s.mu.Unlock()
	s.logger.Info("sessão encerrada", zap.String("session_id", sid))
	return ReduceAuth(AuthState{}, Logout{}), nil
}

// ConnectWallet conecta a carteira do provedor informado à sessão. Sem
// endereço é usada a carteira simulada.
func (s *AuthService) ConnectWallet(ctx context.Context, sid string, provider models.WalletProvider, address string) (AuthState, error) {
	if !provider.Valid() {
		return AuthState{}, fmt.Errorf("%w: %q", ErrInvalidProvider, provider)
	}
	if err := simulateLatency(ctx, s.latency); err != nil {
		return AuthState{}, err
	}
	if address == "" {
		address = s.mockWallet.Address
	}
	balance, err := s.balances.Balance(ctx, address)
	if err != nil {
		return AuthState{}, fmt.Errorf("falha ao conectar carteira: %w", err)
	}

	wallet := models.WalletInfo{
		Address:   address,
		Balance:   balance,
		Network:   s.balances.Network(),
		Provider:  provider,
		Connected: true,
	}
	state, err := s.dispatch(sid, WalletConnected{Wallet: wallet})
	if err == nil {
		s.logger.Info("carteira conectada", zap.String("session_id", sid), zap.String("provider", string(provider)))
	}
	return state, err
}

// DisconnectWallet remove a carteira da sessão.
func (s *AuthService) DisconnectWallet(ctx context.Context, sid string) (AuthState, error) {
	if err := simulateLatency(ctx, s.latency); err != nil {
		return AuthState{}, err
	}
	return s.dispatch(sid, WalletDisconnected{})
}

// UpdateProfile aplica patch sobre o usuário da sessão.
func (s *AuthService) UpdateProfile(ctx context.Context, sid string, patch models.UserPatch) (AuthState, error) {
	if err := simulateLatency(ctx, s.latency); err != nil {
		return AuthState{}, err
	}
	now := s.now()
	return s.update(sid, func(st AuthState) AuthState {
		st = ReduceAuth(st, UpdateUser{Patch: patch})
		if st.User != nil {
			st.User.UpdatedAt = now
		}
		return st
	})
}

// SetKYCStatus atualiza o status de KYC do usuário em todas as sessões
// abertas dele.
func (s *AuthService) SetKYCStatus(userID string, status models.KYCStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.state.User == nil || sess.state.User.ID != userID {
			continue
		}
		u := *sess.state.User
		u.KYCStatus = status
		sess.state.User = &u
	}
}

func (s *AuthService) dispatch(sid string, action AuthAction) (AuthState, error) {
	return s.update(sid, func(st AuthState) AuthState { return ReduceAuth(st, action) })
}

func (s *AuthService) update(sid string, fn func(AuthState) AuthState) (AuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sid]
	if !ok || s.now().After(sess.expiresAt) {
		return AuthState{}, ErrSessionNotFound
	}
	sess.state = fn(sess.state)
	return sess.state, nil
}
