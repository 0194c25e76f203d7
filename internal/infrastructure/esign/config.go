package esign

import (
	"fmt"
	"time"
)

// Config holds configuration for the Adobe Sign REST integration
type Config struct {
	// IntegrationKey is the long-lived integration key used as a bearer token
	IntegrationKey string `json:"integration_key" mapstructure:"integration_key"`

	// BaseURL is the bootstrap access point used to look up the
	// account's api access point. The resolved access point is never
	// stored on the client; it is looked up per call because Adobe
	// can migrate accounts between shards.
	BaseURL string `json:"base_url" mapstructure:"base_url"`

	// WebhookURL receives agreement lifecycle events
	WebhookURL string `json:"webhook_url" mapstructure:"webhook_url"`

	// SignerEmail is the first (ordered) signer on every agreement
	SignerEmail string `json:"signer_email" mapstructure:"signer_email"`

	// CounterSignerEmail counter-signs after the first signer
	CounterSignerEmail string `json:"counter_signer_email" mapstructure:"counter_signer_email"`

	// Timeout bounds each REST call
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// Validate validates the Adobe Sign configuration
func (c *Config) Validate() error {
	if c.IntegrationKey == "" {
		return fmt.Errorf("adobesign: integration key is required")
	}
	if c.SignerEmail == "" {
		return fmt.Errorf("adobesign: signer email is required")
	}
	if c.CounterSignerEmail == "" {
		return fmt.Errorf("adobesign: counter signer email is required")
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://api.adobesign.com"
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
