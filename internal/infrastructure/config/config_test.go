package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "contracts-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "data/contracts.json", cfg.Storage.ContractsFile)
	assert.Equal(t, "data/accounts.json", cfg.Storage.AccountsFile)
	assert.Equal(t, 2.9, cfg.Stripe.PlatformFeePercent)
	assert.Equal(t, "https://api.adobesign.com", cfg.AdobeSign.BaseURL)
	assert.Equal(t, 2*time.Minute, cfg.Rendering.Timeout)
	assert.Equal(t, 2.0, cfg.Cleanup.RatePerSecond)
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.App.Port = "8080"
	cfg.Stripe.PlatformFeePercent = 1.5
	cfg.Cleanup.RatePerSecond = 10

	applyDefaults(cfg)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 1.5, cfg.Stripe.PlatformFeePercent)
	assert.Equal(t, 10.0, cfg.Cleanup.RatePerSecond)
}

func TestValidateDevelopmentAllowsEmptySecrets(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	require.NoError(t, cfg.validate())
}

func TestValidateProductionRequiresSecrets(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.App.Env = "production"

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stripe.secret_key")

	cfg.Stripe.SecretKey = "sk_live_x"
	err = cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stripe.webhook_secret")

	cfg.Stripe.WebhookSecret = "whsec_x"
	err = cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adobe_sign.integration_key")

	cfg.AdobeSign.IntegrationKey = "key"
	require.NoError(t, cfg.validate())
}

func TestValidateProductionRejectsWildcardCORS(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.App.Env = "production"
	cfg.Stripe.SecretKey = "sk_live_x"
	cfg.Stripe.WebhookSecret = "whsec_x"
	cfg.AdobeSign.IntegrationKey = "key"
	cfg.HTTP.CORSAllowOrigins = []string{"*"}

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cors_allow_origins")
}

func TestValidateRejectsBadFeePercent(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Stripe.PlatformFeePercent = 101

	require.Error(t, cfg.validate())
}
