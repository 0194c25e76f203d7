package gdocs

import (
	"fmt"
	"time"
)

// Config holds configuration for the Google Drive and Docs integration
type Config struct {
	// CredentialsFile is a service account key file with Drive scope
	CredentialsFile string `json:"credentials_file" mapstructure:"credentials_file"`

	// FolderID is the Drive folder that receives generated contracts
	FolderID string `json:"folder_id" mapstructure:"folder_id"`

	// ShareDomain gets domain-wide writer access to generated documents
	ShareDomain string `json:"share_domain" mapstructure:"share_domain"`

	// AnchorText is the ready-for-review phrase stripped from the top
	// of a document before it is exported to PDF
	AnchorText string `json:"anchor_text" mapstructure:"anchor_text"`

	// Timeout bounds document generation and export calls
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// Validate validates the Google Docs configuration
func (c *Config) Validate() error {
	if c.CredentialsFile == "" {
		return fmt.Errorf("gdocs: credentials file is required")
	}
	if c.FolderID == "" {
		return fmt.Errorf("gdocs: folder id is required")
	}
	if c.AnchorText == "" {
		c.AnchorText = "Accept changes and mark as ready for review by Fohr"
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
	return nil
}
