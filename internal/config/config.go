package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Billing  BillingConfig  `mapstructure:"billing"`
	Render   RenderConfig   `mapstructure:"render"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// AuthConfig holds JWT authentication configuration
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// BillingConfig holds invoicing configuration
type BillingConfig struct {
	// VATRate is the fixed VAT percentage applied to invoice subtotals,
	// kept as a string so it parses losslessly into a decimal (e.g. "22").
	VATRate       string `mapstructure:"vat_rate"`
	DueDays       int    `mapstructure:"due_days"`
	InvoicePrefix string `mapstructure:"invoice_prefix"`
	CompanyName   string `mapstructure:"company_name"`
	CompanyVATID  string `mapstructure:"company_vat_id"`
	CompanyAddr   string `mapstructure:"company_address"`
}

// RenderConfig holds invoice PDF rendering configuration
type RenderConfig struct {
	PageSize    string `mapstructure:"page_size"`   // A4 or Letter
	Orientation string `mapstructure:"orientation"` // P or L
	FontFamily  string `mapstructure:"font_family"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/workshop.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	// Auth defaults
	viper.SetDefault("auth.token_ttl", 24*time.Hour)

	// Billing defaults (Italian VAT)
	viper.SetDefault("billing.vat_rate", "22")
	viper.SetDefault("billing.due_days", 30)
	viper.SetDefault("billing.invoice_prefix", "INV")

	// Render defaults
	viper.SetDefault("render.page_size", "A4")
	viper.SetDefault("render.orientation", "P")
	viper.SetDefault("render.font_family", "Helvetica")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("auth.jwt_secret", "JWT_SECRET")
	viper.BindEnv("billing.company_name", "COMPANY_NAME")
	viper.BindEnv("billing.company_vat_id", "COMPANY_VAT_ID")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if c.Billing.VATRate == "" {
		return fmt.Errorf("billing.vat_rate is required")
	}
	if c.Billing.DueDays <= 0 {
		return fmt.Errorf("billing.due_days must be positive")
	}
	if c.Billing.CompanyName == "" {
		return fmt.Errorf("billing.company_name is required")
	}

	switch c.Render.PageSize {
	case "A4", "Letter":
	default:
		return fmt.Errorf("render.page_size must be A4 or Letter: %s", c.Render.PageSize)
	}
	switch c.Render.Orientation {
	case "P", "L":
	default:
		return fmt.Errorf("render.orientation must be P or L: %s", c.Render.Orientation)
	}

	return nil
}
