package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Pawnbook"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"pawnbook"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		Secret   string        `envconfig:"JWT_SECRET" required:"true"`
		TokenTTL time.Duration `envconfig:"JWT_TTL" default:"12h"`
	}

	CORS struct {
		Origins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:4200"`
	}

	Loan struct {
		// SettlementMode is "installment" (settlement equals one installment) or
		// "outstanding" (settlement equals the unpaid remainder).
		SettlementMode string `envconfig:"SETTLEMENT_MODE" default:"installment"`
	}

	// Bootstrap creates the first admin on startup when no admin exists yet. Empty
	// Password disables it.
	Bootstrap struct {
		Username string `envconfig:"BOOTSTRAP_ADMIN_USERNAME" default:"admin"`
		Password string `envconfig:"BOOTSTRAP_ADMIN_PASSWORD"`
	}

	Lookup struct {
		Timeout time.Duration `envconfig:"LOOKUP_TIMEOUT" default:"5s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// AllowedOrigins splits the comma separated CORS origin list.
func (c *Config) AllowedOrigins() []string {
	var origins []string

	for _, o := range strings.Split(c.CORS.Origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return origins
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if len(cfg.Auth.Secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	switch cfg.Loan.SettlementMode {
	case "installment", "outstanding":
	default:
		return nil, fmt.Errorf("unknown SETTLEMENT_MODE %q", cfg.Loan.SettlementMode)
	}

	return &cfg, nil
}
