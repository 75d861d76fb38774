// Package config lê a configuração do backend a partir de arquivo YAML e
// variáveis de ambiente.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa toda a configuração do serviço.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Guest    GuestConfig    `mapstructure:"guest"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Mock     MockConfig     `mapstructure:"mock"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	LoginRate       float64       `mapstructure:"login_rate"` // requisições/s nas rotas de login; 0 desativa
	LoginBurst      int           `mapstructure:"login_burst"`
}

// DatabaseConfig seleciona o armazenamento remoto de wishlists e documentos
// KYC. Com Driver "memory" nada é persistido entre reinícios.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // memory ou postgres
	DSN    string `mapstructure:"dsn"`
}

// GuestConfig seleciona onde fica o "local storage" dos visitantes.
type GuestConfig struct {
	Backend       string        `mapstructure:"backend"` // memory, file ou redis
	Dir           string        `mapstructure:"dir"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// WalletConfig controla a verificação de assinatura e a consulta de saldo.
type WalletConfig struct {
	Verifier string `mapstructure:"verifier"` // mock ou solana
	Balance  string `mapstructure:"balance"`  // mock ou solana
	RPCURL   string `mapstructure:"rpc_url"`
}

// MockConfig define a latência artificial aplicada às operações simuladas.
type MockConfig struct {
	Latency     time.Duration `mapstructure:"latency"`
	SaveLatency time.Duration `mapstructure:"save_latency"`
	LoadLatency time.Duration `mapstructure:"load_latency"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json ou console
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load lê a configuração de configPath (opcional) e do ambiente com prefixo
// LANDLEDGER_.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/landledger/")
	}

	v.SetEnvPrefix("LANDLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("falha ao ler arquivo de configuração: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("falha ao decodificar configuração: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuração inválida: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.login_rate", 5)
	v.SetDefault("server.login_burst", 10)

	v.SetDefault("database.driver", "memory")

	v.SetDefault("guest.backend", "memory")
	v.SetDefault("guest.dir", "./data/guest")
	v.SetDefault("guest.redis_addr", "localhost:6379")
	v.SetDefault("guest.ttl", "720h")

	v.SetDefault("auth.jwt_secret", "dev-secret-change-me")
	v.SetDefault("auth.session_ttl", "24h")

	v.SetDefault("wallet.verifier", "mock")
	v.SetDefault("wallet.balance", "mock")
	v.SetDefault("wallet.rpc_url", "https://api.devnet.solana.com")

	v.SetDefault("mock.latency", "0s")
	v.SetDefault("mock.load_latency", "500ms")
	v.SetDefault("mock.save_latency", "200ms")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Validate verifica combinações inválidas de configuração.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("porta inválida: %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case "memory":
	case "postgres":
		if c.Database.DSN == "" {
			return errors.New("database.dsn é obrigatório para o driver postgres")
		}
	default:
		return fmt.Errorf("driver de banco desconhecido: %q", c.Database.Driver)
	}
	switch c.Guest.Backend {
	case "memory", "redis":
	case "file":
		if c.Guest.Dir == "" {
			return errors.New("guest.dir é obrigatório para o backend file")
		}
	default:
		return fmt.Errorf("backend de visitante desconhecido: %q", c.Guest.Backend)
	}
	if c.Server.LoginRate < 0 || c.Server.LoginBurst < 0 {
		return errors.New("limites de login não podem ser negativos")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret é obrigatório")
	}
	for _, name := range []string{c.Wallet.Verifier, c.Wallet.Balance} {
		if name != "mock" && name != "solana" {
			return fmt.Errorf("integração de carteira desconhecida: %q", name)
		}
	}
	if c.Mock.Latency < 0 || c.Mock.LoadLatency < 0 || c.Mock.SaveLatency < 0 {
		return errors.New("latências simuladas não podem ser negativas")
	}
	return nil
}
