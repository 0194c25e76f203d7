package payments

import (
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v81"
)

// StripeConfig holds configuration for Stripe Connect integration
type StripeConfig struct {
	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx)
	SecretKey string `json:"secret_key" mapstructure:"secret_key"`

	// WebhookSecret is the secret for verifying webhook signatures
	WebhookSecret string `json:"webhook_secret" mapstructure:"webhook_secret"`

	// IsTestMode indicates if using Stripe test mode
	IsTestMode bool `json:"is_test_mode" mapstructure:"is_test_mode"`

	// PlatformFeePercent is the application fee taken on payment intents
	PlatformFeePercent float64 `json:"platform_fee_percent" mapstructure:"platform_fee_percent"`

	// OnboardingRefreshURL is where Stripe sends users when an onboarding link expires
	OnboardingRefreshURL string `json:"onboarding_refresh_url" mapstructure:"onboarding_refresh_url"`

	// OnboardingReturnURL is where Stripe sends users after onboarding completes
	OnboardingReturnURL string `json:"onboarding_return_url" mapstructure:"onboarding_return_url"`
}

// DefaultStripeConfig returns a default configuration for development/testing
func DefaultStripeConfig() *StripeConfig {
	return &StripeConfig{
		IsTestMode:           true,
		PlatformFeePercent:   2.9,
		OnboardingRefreshURL: "http://localhost:5173/settings/payments",
		OnboardingReturnURL:  "http://localhost:5173/settings/payments",
	}
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}

	// Validate key format
	if c.IsTestMode {
		if len(c.SecretKey) > 7 && c.SecretKey[:7] != "sk_test" {
			return fmt.Errorf("stripe: test mode enabled but secret key is not a test key")
		}
	} else {
		if len(c.SecretKey) > 7 && c.SecretKey[:7] != "sk_live" {
			return fmt.Errorf("stripe: live mode enabled but secret key is not a live key")
		}
	}

	if c.PlatformFeePercent < 0 || c.PlatformFeePercent > 100 {
		return fmt.Errorf("stripe: platform fee percent must be between 0 and 100")
	}

	return nil
}

// FeeAmount returns the platform application fee in cents for a given amount
func (c *StripeConfig) FeeAmount(amount int64) int64 {
	return int64(math.Round(float64(amount) * c.PlatformFeePercent / 100))
}

// InitStripeClient initializes the Stripe client with the configured API key
func (c *StripeConfig) InitStripeClient() {
	stripe.Key = c.SecretKey
}
