package handlers

import (
	"net/http"

	"github.com/ferreirogomes/landledger/metrics"
	"github.com/ferreirogomes/landledger/models"
	"github.com/ferreirogomes/landledger/services"
)

// AuthHandler lida com login, sessão, perfil e carteira.
type AuthHandler struct {
	Service *services.AuthService
	Metrics *metrics.Metrics
}

func NewAuthHandler(s *services.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{Service: s, Metrics: m}
}

// loginFailure é devolvido junto com o estado quando o login falha.
type loginFailure struct {
	ErrorResponse
	State services.AuthState `json:"state"`
}

func (h *AuthHandler) finishLogin(w http.ResponseWriter, method string, sess services.Session, err error) {
	h.Metrics.RecordLogin(method, err)
	if err != nil {
		status, code := classify(err)
		writeJSON(w, status, loginFailure{
			ErrorResponse: ErrorResponse{Code: code, Message: sess.State.Error},
			State:         sess.State,
		})
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Login autentica por e-mail e senha.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	sess, err := h.Service.Login(r.Context(), body.Email, body.Password)
	h.finishLogin(w, "email", sess, err)
}

// Challenge devolve a mensagem que a carteira deve assinar.
// GET /auth/challenge?address=
func (h *AuthHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "address é obrigatório")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"address": address,
		"message": string(services.LoginChallenge(address)),
	})
}

// WalletLogin autentica pela assinatura da carteira.
// POST /auth/wallet-login
func (h *AuthHandler) WalletLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Address   string `json:"address"`
		Signature string `json:"signature"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	sess, err := h.Service.LoginWithWallet(r.Context(), body.Address, body.Signature)
	h.finishLogin(w, "wallet", sess, err)
}

// Logout encerra a sessão atual.
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	st, err := h.Service.Logout(r.Context(), p.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Me devolve o estado da sessão.
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	writeJSON(w, http.StatusOK, p.State)
}

// UpdateProfile aplica uma atualização parcial ao usuário.
// PATCH /auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch models.UserPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	p, _ := PrincipalFrom(r.Context())
	st, err := h.Service.UpdateProfile(r.Context(), p.SessionID, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ConnectWallet conecta uma carteira à sessão.
// POST /auth/wallet
func (h *AuthHandler) ConnectWallet(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Provider models.WalletProvider `json:"provider"`
		Address  string                `json:"address"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	p, _ := PrincipalFrom(r.Context())
	st, err := h.Service.ConnectWallet(r.Context(), p.SessionID, body.Provider, body.Address)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// DisconnectWallet desconecta a carteira.
// DELETE /auth/wallet
func (h *AuthHandler) DisconnectWallet(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	st, err := h.Service.DisconnectWallet(r.Context(), p.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
