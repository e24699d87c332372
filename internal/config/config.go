package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	DBDSN   string `env:"DB_DSN" envDefault:"pflegebox.db"` // sqlite file in project root
	LogFile string `env:"LOG_FILE"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"`

	// Admin gate. ADMIN_PASSWORD_HASH (bcrypt) wins over the plain secret.
	AdminPassword     string        `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	SessionSecret     string        `env:"ADMIN_JWT_SECRET"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// Configurator drafts untouched for DRAFT_TTL are purged.
	DraftTTL time.Duration `env:"DRAFT_TTL" envDefault:"720h"`

	BudgetMax       float64 `env:"BUDGET_MAX" envDefault:"42"`
	TemplatesReload bool    `env:"TEMPLATES_RELOAD" envDefault:"false"`
}

// Production reports whether cookies must be marked Secure.
func (c Config) Production() bool { return c.AppEnv == "production" }

func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Printf("[config] parse env: %v (falling back to defaults)", err)
		cfg = Defaults()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	if cfg.BudgetMax <= 0 {
		cfg.BudgetMax = 42
	}
	if cfg.DraftTTL <= 0 {
		cfg.DraftTTL = 30 * 24 * time.Hour
	}
	log.Printf("[config] PORT=%s DB_DSN=%s APP_ENV=%s LOG_FILE=%s BUDGET_MAX=%.2f admin_secret_set=%t",
		cfg.Port, cfg.DBDSN, cfg.AppEnv, cfg.LogFile, cfg.BudgetMax,
		cfg.AdminPassword != "" || cfg.AdminPasswordHash != "")
	return cfg
}

// Defaults returns the configuration used when the environment is empty.
func Defaults() Config {
	return Config{
		Port:       "8080",
		DBDSN:      "pflegebox.db",
		AppEnv:     "development",
		SessionTTL: 7 * 24 * time.Hour,
		DraftTTL:   30 * 24 * time.Hour,
		BudgetMax:  42,
	}
}
