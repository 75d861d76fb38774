package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ferreirogomes/landledger/metrics"
	"github.com/ferreirogomes/landledger/models"
	"github.com/ferreirogomes/landledger/services"
)

// RouterDeps reúne os serviços montados em main.
type RouterDeps struct {
	Marketplace *services.MarketplaceService
	Wishlist    *services.WishlistService
	Auth        *services.AuthService
	KYC         *services.KYCService
	Portfolio   *services.PortfolioService
	Suggestions *services.SuggestionService
	Metrics     *metrics.Metrics
	MetricsPath string
	Logger      *zap.Logger

	// LoginRate e LoginBurst limitam as rotas de login. Zero desativa.
	LoginRate  float64
	LoginBurst int
}

// NewRouter monta todas as rotas da API.
func NewRouter(d RouterDeps) http.Handler {
	authn := &Authenticator{Auth: d.Auth, KYC: d.KYC}
	marketplace := NewMarketplaceHandler(d.Marketplace, d.Metrics)
	wishlist := NewWishlistHandler(d.Wishlist, d.Metrics)
	auth := NewAuthHandler(d.Auth, d.Metrics)
	kyc := NewKYCHandler(d.KYC, d.Metrics)
	portfolio := NewPortfolioHandler(d.Portfolio)
	suggestions := NewSuggestionHandler(d.Suggestions)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging(d.Logger))
	r.Use(Metrics(d.Metrics))
	r.Use(Recovery(d.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.MetricsPath != "" {
		r.Method(http.MethodGet, d.MetricsPath, d.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(authn.Identify)

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", marketplace.Search)
			r.Get("/cities", marketplace.Cities)
			r.Get("/{id}", marketplace.GetProperty)
			r.With(authn.RequireAuth).Post("/{id}/quote", marketplace.Quote)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlist.List)
			r.Delete("/", wishlist.Clear)
			r.With(authn.RequireAuth).Post("/sync", wishlist.Sync)
			r.Get("/{propertyID}", wishlist.Contains)
			r.Post("/{propertyID}", wishlist.Add)
			r.Delete("/{propertyID}", wishlist.Remove)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if d.LoginRate > 0 {
					r.Use(RateLimit(d.LoginRate, d.LoginBurst, d.Logger))
				}
				r.Post("/login", auth.Login)
				r.Post("/wallet-login", auth.WalletLogin)
			})
			r.Get("/challenge", auth.Challenge)

			r.Group(func(r chi.Router) {
				r.Use(authn.RequireAuth)
				r.Post("/logout", auth.Logout)
				r.Get("/me", auth.Me)
				r.Patch("/profile", auth.UpdateProfile)
				r.Post("/wallet", auth.ConnectWallet)
				r.Delete("/wallet", auth.DisconnectWallet)
			})
		})

		r.Route("/kyc", func(r chi.Router) {
			r.Use(authn.RequireAuth)
			r.Get("/", kyc.State)
			r.Post("/documents", kyc.Upload)
			r.Delete("/documents/{id}", kyc.Delete)
			r.Post("/submit", kyc.Submit)
			r.With(authn.RequireRole(models.RoleAdmin, models.RoleModerator)).Post("/reviews/{userID}", kyc.Review)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Use(authn.RequireAuth)
			r.Get("/", portfolio.Get)
			r.Post("/refresh", portfolio.Refresh)
			r.Get("/holdings", portfolio.Holdings)
			r.With(authn.RequireKYC).Get("/export", portfolio.Export)
		})

		r.Route("/suggestions", func(r chi.Router) {
			r.Use(authn.RequireAuth)
			r.Get("/", suggestions.List)
			r.Get("/smart-picks", suggestions.SmartPicks)
			r.Post("/smart-picks", suggestions.SmartPicks)
			r.Post("/refresh", suggestions.Refresh)
			r.Delete("/{id}", suggestions.Dismiss)
		})
	})

	return r
}
