package esign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/fohr/contracts-backend/internal/domain/contract"
	"github.com/fohr/contracts-backend/internal/domain/shared"
)

const (
	apiPath           = "api/rest/v6"
	transientFilename = "document.pdf"
)

// Client implements the Adobe Sign v6 REST operations used by the
// contract lifecycle: transient uploads, agreement creation and
// retrieval, and webhook management.
type Client struct {
	config *Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a new Adobe Sign client
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		logger: logger,
	}, nil
}

// resolveAccessPoint looks up the account's api access point. Adobe
// serves each account from a shard (na1, eu2, ...) and the shard can
// change, so the access point is resolved per call.
func (c *Client) resolveAccessPoint(ctx context.Context) (string, error) {
	var out baseURIsResponse
	url := strings.TrimRight(c.config.BaseURL, "/") + "/" + apiPath + "/baseUris"
	if err := c.getJSON(ctx, url, &out); err != nil {
		return "", fmt.Errorf("resolve access point: %w", err)
	}
	if out.APIAccessPoint == "" {
		return "", shared.NewUpstreamError("adobesign", fmt.Errorf("resolve access point: empty apiAccessPoint"))
	}
	return out.APIAccessPoint, nil
}

// uploadTransientDocument uploads a local PDF and returns its transient ID.
// Transient documents expire after a few days; they exist only to seed
// an agreement.
func (c *Client) uploadTransientDocument(ctx context.Context, accessPoint, pdfPath string) (string, error) {
	file, err := os.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("adobesign: open document %s: %w", filepath.Base(pdfPath), err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="File"; filename="%s"`, transientFilename)}
	header["Content-Type"] = []string{"application/pdf"}
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("adobesign: build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("adobesign: read document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("adobesign: finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, accessPoint+apiPath+"/transientDocuments", &body)
	if err != nil {
		return "", fmt.Errorf("adobesign: build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.IntegrationKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out transientDocumentResponse
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("upload transient document: %w", err)
	}

	c.logger.Debug("Uploaded transient document",
		zap.String("transient_document_id", out.TransientDocumentID))

	return out.TransientDocumentID, nil
}

// SendForSignature uploads a PDF and routes it through the two-signer
// flow: the external signer first, then the counter signer.
func (c *Client) SendForSignature(ctx context.Context, input contract.SignatureRequest) (*contract.SignatureReceipt, error) {
	accessPoint, err := c.resolveAccessPoint(ctx)
	if err != nil {
		return nil, err
	}

	transientID, err := c.uploadTransientDocument(ctx, accessPoint, input.DocumentPath)
	if err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = "Agreement to be signed"
	}

	payload := agreementRequest{
		FileInfos: []agreementFileInfo{{TransientDocumentID: transientID}},
		Name:      name,
		ParticipantSetsInfo: []agreementParticipantSet{
			{
				MemberInfos: []agreementMemberInfo{{Email: c.config.SignerEmail}},
				Order:       1,
				Role:        "SIGNER",
				Name:        "signer_one",
			},
			{
				MemberInfos: []agreementMemberInfo{{Email: c.config.CounterSignerEmail}},
				Order:       2,
				Role:        "SIGNER",
				Name:        "signer_two",
			},
		},
		SignatureType: "ESIGN",
		State:         "IN_PROCESS",
	}

	var created agreementCreateResponse
	if err := c.postJSON(ctx, accessPoint+apiPath+"/agreements", payload, &created); err != nil {
		return nil, fmt.Errorf("send for signature: %w", err)
	}

	c.logger.Info("Agreement sent for signature",
		zap.String("agreement_id", created.ID),
		zap.String("name", name))

	receipt := &contract.SignatureReceipt{AgreementID: created.ID}

	// The freshly created agreement is fetched so callers get its
	// initial status and signing URLs in one round trip.
	agreement, err := c.GetAgreement(ctx, created.ID)
	if err != nil {
		c.logger.Warn("Agreement created but initial fetch failed",
			zap.String("agreement_id", created.ID),
			zap.Error(err))
	} else {
		receipt.Agreement = agreement
	}

	return receipt, nil
}

// GetAgreement fetches an agreement and enriches it by status: signing
// URLs while out for signature, the combined signed document URL once
// signed or completed.
func (c *Client) GetAgreement(ctx context.Context, agreementID string) (*contract.Agreement, error) {
	accessPoint, err := c.resolveAccessPoint(ctx)
	if err != nil {
		return nil, err
	}

	base := accessPoint + apiPath + "/agreements/" + agreementID

	var agreement contract.Agreement
	if err := c.getJSON(ctx, base, &agreement); err != nil {
		return nil, fmt.Errorf("get agreement: %w", err)
	}

	switch agreement.Status {
	case contract.AgreementOutForSignature:
		var urls contract.SigningURLs
		if err := c.getJSON(ctx, base+"/signingUrls", &urls); err != nil {
			return nil, fmt.Errorf("get signing urls: %w", err)
		}
		agreement.SigningURLs = &urls
	case contract.AgreementSigned, contract.AgreementCompleted:
		var doc combinedDocumentURLResponse
		if err := c.getJSON(ctx, base+"/combinedDocument/url", &doc); err != nil {
			return nil, fmt.Errorf("get signed document url: %w", err)
		}
		agreement.SignedDocumentURL = doc.URL
	}

	return &agreement, nil
}

// RegisterWebhook subscribes the configured webhook URL to agreement
// lifecycle events. Existing webhooks are cleared first so the account
// never accumulates stale subscriptions.
func (c *Client) RegisterWebhook(ctx context.Context, agreementID string) error {
	if c.config.WebhookURL == "" {
		return fmt.Errorf("adobesign: webhook url is not configured")
	}

	if err := c.DeleteAllWebhooks(ctx); err != nil {
		return err
	}

	accessPoint, err := c.resolveAccessPoint(ctx)
	if err != nil {
		return err
	}

	payload := webhookRequest{
		Name:         "Agreement Webhook",
		Scope:        "RESOURCE",
		State:        "ACTIVE",
		ResourceType: "AGREEMENT",
		ResourceID:   agreementID,
		WebhookURLInfo: webhookURLInfo{
			URL: c.config.WebhookURL,
		},
		WebhookSubscriptionEvents: []string{
			"AGREEMENT_CREATED",
			"AGREEMENT_ACTION_COMPLETED",
			"AGREEMENT_EMAIL_VIEWED",
			"AGREEMENT_WORKFLOW_COMPLETED",
		},
		WebhookConditionalParams: &webhookConditional{
			WebhookInfoInResponse: webhookInfoInResponse{Agreement: true, Participant: true},
		},
	}

	var out Webhook
	if err := c.postJSON(ctx, accessPoint+apiPath+"/webhooks", payload, &out); err != nil {
		// A duplicate registration means the subscription already exists
		if strings.Contains(err.Error(), "DUPLICATE_WEBHOOK_CONFIGURATION") {
			return nil
		}
		return fmt.Errorf("register webhook: %w", err)
	}

	c.logger.Info("Registered agreement webhook",
		zap.String("webhook_id", out.ID),
		zap.String("agreement_id", agreementID))

	return nil
}

// ListWebhooks returns all webhooks registered for the account,
// including inactive ones.
func (c *Client) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	accessPoint, err := c.resolveAccessPoint(ctx)
	if err != nil {
		return nil, err
	}

	var out webhookListResponse
	if err := c.getJSON(ctx, accessPoint+apiPath+"/webhooks?showInActive=true", &out); err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}

	return out.UserWebhookList, nil
}

// DeleteWebhook removes a single webhook by ID
func (c *Client) DeleteWebhook(ctx context.Context, webhookID string) error {
	accessPoint, err := c.resolveAccessPoint(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, accessPoint+apiPath+"/webhooks/"+webhookID, nil)
	if err != nil {
		return fmt.Errorf("adobesign: build delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.IntegrationKey)

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("delete webhook %s: %w", webhookID, err)
	}

	c.logger.Debug("Deleted webhook", zap.String("webhook_id", webhookID))
	return nil
}

// DeleteAllWebhooks removes every webhook registered for the account
func (c *Client) DeleteAllWebhooks(ctx context.Context) error {
	webhooks, err := c.ListWebhooks(ctx)
	if err != nil {
		return err
	}

	for _, wh := range webhooks {
		if err := c.DeleteWebhook(ctx, wh.ID); err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("adobesign: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.IntegrationKey)
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("adobesign: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("adobesign: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.IntegrationKey)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return shared.NewUpstreamTimeout("adobesign", err)
		}
		return shared.NewUpstreamError("adobesign", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return shared.NewUpstreamError("adobesign", fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Code != "" {
			return shared.NewUpstreamError("adobesign",
				fmt.Errorf("%s %s: status %d: %s: %s", req.Method, req.URL.Path, resp.StatusCode, apiErr.Code, apiErr.Message))
		}
		return shared.NewUpstreamError("adobesign",
			fmt.Errorf("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode))
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return shared.NewUpstreamError("adobesign", fmt.Errorf("decode response: %w", err))
	}
	return nil
}
