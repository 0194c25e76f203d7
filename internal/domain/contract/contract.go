package contract

// Contract represents one participant's document-signature workflow.
// At most one contract exists per participant; the store replaces on
// collision rather than appending.
type Contract struct {
	ParticipantID int64  `json:"participantId"`
	DocID         string `json:"docId,omitempty"`
	DocURL        string `json:"docUrl,omitempty"`
	AgreementID   string `json:"agreementId,omitempty"`
	Status        Status `json:"status"`
	CampaignID    string `json:"campaignId,omitempty"`
}

// Patch carries a partial update to a contract. Nil fields are left
// untouched.
type Patch struct {
	Status      *Status
	AgreementID *string
	DocID       *string
	DocURL      *string
	CampaignID  *string
}

// Apply merges the patch onto the contract.
func (p Patch) Apply(c *Contract) {
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.AgreementID != nil {
		c.AgreementID = *p.AgreementID
	}
	if p.DocID != nil {
		c.DocID = *p.DocID
	}
	if p.DocURL != nil {
		c.DocURL = *p.DocURL
	}
	if p.CampaignID != nil {
		c.CampaignID = *p.CampaignID
	}
}

// Repository provides durable access to the contract collection.
type Repository interface {
	// FindByParticipant returns the contract for a participant, or
	// shared.ErrNotFound.
	FindByParticipant(participantID int64) (*Contract, error)
	// Upsert replaces any contract sharing the participant id, inserts
	// otherwise, and persists the collection.
	Upsert(c Contract) error
	// Patch merges the partial fields onto the stored contract and
	// persists. Returns shared.ErrNotFound when no contract matches.
	Patch(participantID int64, p Patch) error
}
