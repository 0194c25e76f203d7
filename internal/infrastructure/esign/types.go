package esign

// Webhook is a registered event subscription
type Webhook struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Scope  string `json:"scope"`
	Status string `json:"status"`
}

// baseURIsResponse is the account shard lookup result
type baseURIsResponse struct {
	APIAccessPoint string `json:"apiAccessPoint"`
	WebAccessPoint string `json:"webAccessPoint"`
}

// transientDocumentResponse is the upload result
type transientDocumentResponse struct {
	TransientDocumentID string `json:"transientDocumentId"`
}

// agreementCreateResponse is the agreement creation result
type agreementCreateResponse struct {
	ID string `json:"id"`
}

type agreementFileInfo struct {
	TransientDocumentID string `json:"transientDocumentId"`
}

type agreementMemberInfo struct {
	Email string `json:"email"`
}

type agreementParticipantSet struct {
	MemberInfos []agreementMemberInfo `json:"memberInfos"`
	Order       int                   `json:"order"`
	Role        string                `json:"role"`
	Name        string                `json:"name"`
}

type agreementRequest struct {
	FileInfos           []agreementFileInfo       `json:"fileInfos"`
	Name                string                    `json:"name"`
	ParticipantSetsInfo []agreementParticipantSet `json:"participantSetsInfo"`
	SignatureType       string                    `json:"signatureType"`
	State               string                    `json:"state"`
}

type combinedDocumentURLResponse struct {
	URL string `json:"url"`
}

type webhookListResponse struct {
	UserWebhookList []Webhook `json:"userWebhookList"`
}

type webhookRequest struct {
	Name                      string              `json:"name"`
	Scope                     string              `json:"scope"`
	State                     string              `json:"state"`
	ResourceType              string              `json:"resourceType"`
	ResourceID                string              `json:"resourceId,omitempty"`
	WebhookURLInfo            webhookURLInfo      `json:"webhookUrlInfo"`
	WebhookSubscriptionEvents []string            `json:"webhookSubscriptionEvents"`
	WebhookConditionalParams  *webhookConditional `json:"webhookConditionalParams,omitempty"`
}

type webhookURLInfo struct {
	URL string `json:"url"`
}

type webhookConditional struct {
	WebhookInfoInResponse webhookInfoInResponse `json:"webhookInfoInResponse"`
}

type webhookInfoInResponse struct {
	Agreement   bool `json:"agreement"`
	Participant bool `json:"participant"`
}

// apiError is the provider's error envelope
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
