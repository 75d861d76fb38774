package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ferreirogomes/landledger/config"
	"github.com/ferreirogomes/landledger/handlers"
	"github.com/ferreirogomes/landledger/metrics"
	"github.com/ferreirogomes/landledger/seed"
	"github.com/ferreirogomes/landledger/services"
	"github.com/ferreirogomes/landledger/storage"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:          "landledger",
		Short:        "Backend do marketplace de imóveis tokenizados LandLedger",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "caminho do arquivo de configuração")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Inicia o servidor HTTP",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				return serve(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:       "migrate [up|down]",
			Short:     "Aplica ou reverte as migrações do Postgres",
			Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
			ValidArgs: []string{"up", "down"},
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				dir := migrate.Up
				if len(args) == 1 && args[0] == "down" {
					dir = migrate.Down
				}
				return runMigrations(cmd.Context(), cfg, dir)
			},
		},
	)
	return root
}

// initLogger monta o logger zap a partir da configuração.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}

func runMigrations(ctx context.Context, cfg *config.Config, dir migrate.MigrationDirection) error {
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("migrações exigem database.driver=postgres, configurado: %s", cfg.Database.Driver)
	}
	db, err := storage.Open(ctx, cfg.Database.DSN, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := storage.Migrate(db.DB.DB, dir, logger)
	if err != nil {
		return err
	}
	logger.Info("migrações concluídas", zap.Int("count", n), zap.Bool("down", dir == migrate.Down))
	return nil
}

func serve(parent context.Context, cfg *config.Config) error {
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	data, err := seed.Load()
	if err != nil {
		return fmt.Errorf("falha ao carregar dados iniciais: %w", err)
	}
	logger.Info("dados iniciais carregados",
		zap.Int("properties", len(data.Properties)),
		zap.Int("holdings", len(data.Holdings)),
	)

	var (
		wishlists storage.WishlistRepository
		documents storage.KYCRepository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err := storage.NewDB(ctx, cfg.Database.DSN, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		wishlists, documents = db, db
	default:
		mem := storage.NewMemoryStore()
		mem.SeedWishlist(data.MockUser.ID, data.UserWishlist)
		wishlists, documents = mem, mem
	}

	var guest storage.LocalStorage
	switch cfg.Guest.Backend {
	case "file":
		fs, err := storage.NewFileLocalStorage(cfg.Guest.Dir)
		if err != nil {
			return err
		}
		guest = fs
	case "redis":
		rs, err := storage.NewRedisLocalStorage(ctx, cfg.Guest.RedisAddr, cfg.Guest.RedisPassword, cfg.Guest.RedisDB, cfg.Guest.TTL, logger)
		if err != nil {
			return err
		}
		defer rs.Close()
		guest = rs
	default:
		guest = storage.NewMemoryLocalStorage()
	}

	mockWallet := services.NewMockWalletService(data.Wallet.Balance, data.Wallet.Network)
	var (
		verifier services.WalletVerifier  = mockWallet
		balances services.BalanceProvider = mockWallet
	)
	if cfg.Wallet.Verifier == "solana" || cfg.Wallet.Balance == "solana" {
		sol := services.NewSolanaWalletService(cfg.Wallet.RPCURL)
		if cfg.Wallet.Verifier == "solana" {
			verifier = sol
		}
		if cfg.Wallet.Balance == "solana" {
			balances = sol
		}
		logger.Info("integração Solana ativa", zap.String("rpc_url", cfg.Wallet.RPCURL))
	}

	auth := services.NewAuthService(services.AuthOptions{
		MockUser:   data.MockUser,
		MockWallet: data.Wallet,
		Verifier:   verifier,
		Balances:   balances,
		Tokens:     services.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL),
		Latency:    cfg.Mock.Latency,
	}, logger)
	kyc := services.NewKYCService(documents, data.KYCDocuments, cfg.Mock.Latency, logger)
	kyc.OnStatusChange(auth.SetKYCStatus)

	m := metrics.NewMetrics()
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		Marketplace: services.NewMarketplaceService(data.Properties, logger),
		Wishlist:    services.NewWishlistService(guest, wishlists, cfg.Mock.LoadLatency, cfg.Mock.SaveLatency, logger),
		Auth:        auth,
		KYC:         kyc,
		Portfolio:   services.NewPortfolioService(services.NewSeedHoldingSource(data.Holdings, data.RentPayments), cfg.Mock.LoadLatency, logger),
		Suggestions: services.NewSuggestionService(data.Insights, data.SmartPicks, cfg.Mock.Latency, logger),
		Metrics:     m,
		MetricsPath: metricsPath,
		Logger:      logger,
		LoginRate:   cfg.Server.LoginRate,
		LoginBurst:  cfg.Server.LoginBurst,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("servidor HTTP iniciado", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("falha no servidor HTTP: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("encerrando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("falha ao encerrar servidor: %w", err)
	}
	logger.Info("servidor encerrado")
	return nil
}
