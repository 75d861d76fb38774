package handlers

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ferreirogomes/landledger/metrics"
	"github.com/ferreirogomes/landledger/models"
	"github.com/ferreirogomes/landledger/services"
)

type contextKey string

const principalKey contextKey = "principal"

// GuestIDHeader identifica um visitante sem login.
const GuestIDHeader = "X-Guest-ID"

// Principal é a sessão autenticada da requisição.
type Principal struct {
	SessionID string
	State     services.AuthState
}

// User devolve o usuário da sessão.
func (p Principal) User() models.User {
	if p.State.User == nil {
		return models.User{}
	}
	return *p.State.User
}

// PrincipalFrom devolve a sessão colocada no contexto por Authenticator.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok && p.State.IsAuthenticated
}

// Logging registra cada requisição com zap.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("requisição HTTP",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// Recovery devolve 500 em JSON quando um handler entra em pânico.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("pânico recuperado",
						zap.Any("error", rec),
						zap.String("path", r.URL.Path),
						zap.String("request_id", middleware.GetReqID(r.Context())),
					)
					writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "erro interno do servidor")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Metrics registra contagem e duração por rota. Um handler que entra em
// pânico é contado com status 500.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.IncInFlight()
			defer m.DecInFlight()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			completed := false
			defer func() {
				route := "unmatched"
				if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
					route = rc.RoutePattern()
				}
				status := ww.Status()
				switch {
				case !completed:
					status = http.StatusInternalServerError
				case status == 0:
					status = http.StatusOK
				}
				m.RecordHTTPRequest(r.Method, route, status, time.Since(start))
			}()
			next.ServeHTTP(ww, r)
			completed = true
		})
	}
}

// RateLimit limita a taxa global de requisições das rotas envolvidas.
func RateLimit(perSecond float64, burst int, logger *zap.Logger) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				logger.Warn("limite de requisições excedido",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "muitas requisições, tente novamente")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authenticator resolve o token Bearer em uma sessão e aplica as regras de
// acesso das rotas protegidas.
type Authenticator struct {
	Auth *services.AuthService
	KYC  *services.KYCService
}

// Identify coloca a sessão no contexto quando há um token válido. Sem
// token a requisição segue como visitante; token inválido é 401.
func (a *Authenticator) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "cabeçalho Authorization malformado")
			return
		}
		sid, state, err := a.Auth.Authenticate(token)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), principalKey, Principal{SessionID: sid, State: state})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth recusa requisições sem sessão.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFrom(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", services.ErrNotAuthenticated.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireKYC exige sessão e KYC aprovado.
func (a *Authenticator) RequireKYC(next http.Handler) http.Handler {
	return a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFrom(r.Context())
		status, err := a.KYC.Status(r.Context(), p.User())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if status != models.KYCApproved {
			writeError(w, http.StatusForbidden, "KYC_REQUIRED", "verificação KYC aprovada é obrigatória")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// RequireRole exige sessão com um dos papéis informados.
func (a *Authenticator) RequireRole(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := PrincipalFrom(r.Context())
			if !slices.Contains(roles, p.User().Role) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "permissão insuficiente")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
