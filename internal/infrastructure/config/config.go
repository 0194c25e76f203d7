package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is built once at
// process start and passed by reference; nothing mutates it afterwards.
type Config struct {
	App        AppConfig
	Log        LogConfig
	HTTP       HTTPConfig
	Storage    StorageConfig
	Stripe     StripeConfig
	AdobeSign  AdobeSignConfig
	GoogleDocs GoogleDocsConfig
	Rendering  RenderingConfig
	Cleanup    CleanupConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
}

// StorageConfig holds flat-file collection paths
type StorageConfig struct {
	ContractsFile string
	AccountsFile  string
	ArtifactDir   string // temp PDFs and export output
}

// StripeConfig holds payment-processor settings
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	IsTestMode    bool
	// PlatformFeePercent is the application fee taken on payment
	// intents, in percent (2.9 means 2.9%).
	PlatformFeePercent   float64
	OnboardingRefreshURL string
	OnboardingReturnURL  string
}

// AdobeSignConfig holds signature-provider settings
type AdobeSignConfig struct {
	IntegrationKey string
	// BaseURL is the bootstrap access point used to resolve the
	// account's api access point; the resolved value stays call-scoped.
	BaseURL      string
	WebhookURL   string
	SignerEmail  string
	CounterEmail string
	Timeout      time.Duration
}

// GoogleDocsConfig holds document-provider settings
type GoogleDocsConfig struct {
	CredentialsFile string
	FolderID        string
	ShareDomain     string
	// AnchorText is the ready-for-review phrase stripped before export.
	AnchorText string
	Timeout    time.Duration
}

// RenderingConfig holds headless-renderer settings
type RenderingConfig struct {
	Timeout      time.Duration
	CookieDomain string
	NoSandbox    bool
}

// CleanupConfig paces bulk account deletions against the provider
type CleanupConfig struct {
	RatePerSecond float64
	PageSize      int
}

// Load loads configuration from a TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with FOHR_ prefix (e.g. FOHR_STRIPE_SECRET_KEY)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("FOHR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
		},
		Storage: StorageConfig{
			ContractsFile: v.GetString("storage.contracts_file"),
			AccountsFile:  v.GetString("storage.accounts_file"),
			ArtifactDir:   v.GetString("storage.artifact_dir"),
		},
		Stripe: StripeConfig{
			SecretKey:            v.GetString("stripe.secret_key"),
			WebhookSecret:        v.GetString("stripe.webhook_secret"),
			IsTestMode:           v.GetBool("stripe.is_test_mode"),
			PlatformFeePercent:   v.GetFloat64("stripe.platform_fee_percent"),
			OnboardingRefreshURL: v.GetString("stripe.onboarding_refresh_url"),
			OnboardingReturnURL:  v.GetString("stripe.onboarding_return_url"),
		},
		AdobeSign: AdobeSignConfig{
			IntegrationKey: v.GetString("adobe_sign.integration_key"),
			BaseURL:        v.GetString("adobe_sign.base_url"),
			WebhookURL:     v.GetString("adobe_sign.webhook_url"),
			SignerEmail:    v.GetString("adobe_sign.signer_email"),
			CounterEmail:   v.GetString("adobe_sign.counter_email"),
			Timeout:        v.GetDuration("adobe_sign.timeout"),
		},
		GoogleDocs: GoogleDocsConfig{
			CredentialsFile: v.GetString("google_docs.credentials_file"),
			FolderID:        v.GetString("google_docs.folder_id"),
			ShareDomain:     v.GetString("google_docs.share_domain"),
			AnchorText:      v.GetString("google_docs.anchor_text"),
			Timeout:         v.GetDuration("google_docs.timeout"),
		},
		Rendering: RenderingConfig{
			Timeout:      v.GetDuration("rendering.timeout"),
			CookieDomain: v.GetString("rendering.cookie_domain"),
			NoSandbox:    v.GetBool("rendering.no_sandbox"),
		},
		Cleanup: CleanupConfig{
			RatePerSecond: v.GetFloat64("cleanup.rate_per_second"),
			PageSize:      v.GetInt("cleanup.page_size"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "contracts-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "3000"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "Origin", "Accept"}
	}
	if cfg.Storage.ContractsFile == "" {
		cfg.Storage.ContractsFile = "data/contracts.json"
	}
	if cfg.Storage.AccountsFile == "" {
		cfg.Storage.AccountsFile = "data/accounts.json"
	}
	if cfg.Storage.ArtifactDir == "" {
		cfg.Storage.ArtifactDir = "data/artifacts"
	}
	if cfg.Stripe.PlatformFeePercent == 0 {
		cfg.Stripe.PlatformFeePercent = 2.9
	}
	if cfg.AdobeSign.BaseURL == "" {
		cfg.AdobeSign.BaseURL = "https://api.adobesign.com"
	}
	if cfg.AdobeSign.Timeout == 0 {
		cfg.AdobeSign.Timeout = 30 * time.Second
	}
	if cfg.GoogleDocs.CredentialsFile == "" {
		cfg.GoogleDocs.CredentialsFile = "service-account-key.json"
	}
	if cfg.GoogleDocs.AnchorText == "" {
		cfg.GoogleDocs.AnchorText = "Accept changes and mark as ready for review by Fohr"
	}
	if cfg.GoogleDocs.Timeout == 0 {
		cfg.GoogleDocs.Timeout = 60 * time.Second
	}
	if cfg.Rendering.Timeout == 0 {
		cfg.Rendering.Timeout = 2 * time.Minute
	}
	if cfg.Rendering.CookieDomain == "" {
		cfg.Rendering.CookieDomain = "localhost"
	}
	if cfg.Cleanup.RatePerSecond == 0 {
		cfg.Cleanup.RatePerSecond = 2
	}
	if cfg.Cleanup.PageSize == 0 {
		cfg.Cleanup.PageSize = 100
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Stripe.PlatformFeePercent < 0 || c.Stripe.PlatformFeePercent > 100 {
		return fmt.Errorf("stripe.platform_fee_percent must be between 0 and 100")
	}
	if c.Cleanup.RatePerSecond <= 0 {
		return fmt.Errorf("cleanup.rate_per_second must be positive")
	}

	if c.App.Env == "production" {
		if c.Stripe.SecretKey == "" {
			return fmt.Errorf("stripe.secret_key is required in production")
		}
		if c.Stripe.WebhookSecret == "" {
			return fmt.Errorf("stripe.webhook_secret is required in production")
		}
		if c.AdobeSign.IntegrationKey == "" {
			return fmt.Errorf("adobe_sign.integration_key is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}
