package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "INVENTORY"

	EnvAppEnv         = "INVENTORY_APP_ENV"
	EnvLogLevel       = "INVENTORY_LOG_LEVEL"
	EnvLogFormat      = "INVENTORY_LOG_FORMAT"
	EnvLogWarnStack   = "INVENTORY_LOG_WARN_STACK"
	EnvSeed           = "INVENTORY_SEED"
	EnvServerPort     = "INVENTORY_SERVER_PORT"
	EnvAllowedOrigins = "INVENTORY_ALLOWED_ORIGINS"
	EnvExportDir      = "INVENTORY_EXPORT_DIR"
	EnvExportPDF      = "INVENTORY_EXPORT_PDF"
	EnvDatabaseURL    = "INVENTORY_DATABASE_URL"
	EnvTopN           = "INVENTORY_TOP_N"
	EnvCurrencySymbol = "INVENTORY_CURRENCY_SYMBOL"
	EnvTxIDWidth      = "INVENTORY_TX_ID_WIDTH"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	maxTxIDWidth = 12
)

type Config struct {
	App    AppConfig
	Ledger LedgerConfig
	Server ServerConfig
	Export ExportConfig
}

// Load reads an optional .env file and then the INVENTORY_* environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return LoadFromEnv()
}

// LoadFromEnv reads configuration from the process environment only.
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"INVENTORY_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"INVENTORY_LOG_LEVEL" default:"info"`
	// LogFormat is "json" or "console". Unset picks by Env, see LogFormatOrDefault.
	LogFormat    string `envconfig:"INVENTORY_LOG_FORMAT"`
	LogWarnStack bool   `envconfig:"INVENTORY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// LogFormatOrDefault returns LogFormat when set, console in dev and json otherwise.
func (a AppConfig) LogFormatOrDefault() string {
	if f := strings.ToLower(strings.TrimSpace(a.LogFormat)); f != "" {
		return f
	}
	if a.IsDev() {
		return "console"
	}
	return "json"
}

type LedgerConfig struct {
	Seed           bool   `envconfig:"INVENTORY_SEED" default:"true"`
	TopN           int    `envconfig:"INVENTORY_TOP_N" default:"10"`
	CurrencySymbol string `envconfig:"INVENTORY_CURRENCY_SYMBOL" default:"₹"`
	TxIDWidth      int    `envconfig:"INVENTORY_TX_ID_WIDTH" default:"3"`
}

type ServerConfig struct {
	Port           string   `envconfig:"INVENTORY_SERVER_PORT" default:"8080"`
	AllowedOrigins []string `envconfig:"INVENTORY_ALLOWED_ORIGINS"`
}

type ExportConfig struct {
	Dir         string `envconfig:"INVENTORY_EXPORT_DIR" default:"exports"`
	PDF         bool   `envconfig:"INVENTORY_EXPORT_PDF" default:"true"`
	DatabaseURL string `envconfig:"INVENTORY_DATABASE_URL"`
}

// PostgresEnabled reports whether exports may also target a database.
func (e ExportConfig) PostgresEnabled() bool {
	return strings.TrimSpace(e.DatabaseURL) != ""
}

func (c *Config) validate() error {
	if !c.App.IsDev() && !c.App.IsProd() {
		return fmt.Errorf("%s must be %q or %q, got %q", EnvAppEnv, AppEnvDev, AppEnvProd, c.App.Env)
	}
	switch c.App.LogFormatOrDefault() {
	case "json", "console":
	default:
		return fmt.Errorf("%s must be json or console, got %q", EnvLogFormat, c.App.LogFormat)
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		return fmt.Errorf("%s must not be empty", EnvServerPort)
	}
	if c.Ledger.TopN <= 0 {
		return fmt.Errorf("%s must be positive, got %d", EnvTopN, c.Ledger.TopN)
	}
	if c.Ledger.TxIDWidth < 1 || c.Ledger.TxIDWidth > maxTxIDWidth {
		return fmt.Errorf("%s must be between 1 and %d, got %d", EnvTxIDWidth, maxTxIDWidth, c.Ledger.TxIDWidth)
	}
	return nil
}
