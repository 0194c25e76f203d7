package contract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/fohr/contracts-backend/internal/domain/contract"
	"github.com/fohr/contracts-backend/internal/domain/shared"
)

// DocumentProvider generates, edits and exports contract documents
type DocumentProvider interface {
	CreateDocument(ctx context.Context, docxURL, participantName string) (docID string, docURL string, err error)
	ExportPDF(ctx context.Context, docID, outputPath string) error
	RemoveAnchorText(ctx context.Context, docID string) error
}

// SignatureProvider routes documents for signature and reports agreement state
type SignatureProvider interface {
	SendForSignature(ctx context.Context, input contract.SignatureRequest) (*contract.SignatureReceipt, error)
	GetAgreement(ctx context.Context, agreementID string) (*contract.Agreement, error)
	RegisterWebhook(ctx context.Context, agreementID string) error
}

// CreateDocumentInput describes a new contract document request
type CreateDocumentInput struct {
	DocumentURL     string
	ParticipantName string
	ParticipantID   int64
	CampaignID      string
}

// ContractView is a contract enriched with live agreement state. The
// agreement portion is never persisted.
type ContractView struct {
	contract.Contract
	Agreement *contract.Agreement `json:"agreement,omitempty"`
}

// SendResult is returned after a contract goes out for signature
type SendResult struct {
	Status      contract.Status     `json:"status"`
	AgreementID string              `json:"agreementId"`
	Agreement   *contract.Agreement `json:"agreement,omitempty"`
}

// Service orchestrates the document, signature and status pipeline for
// contract records.
type Service struct {
	contracts   contract.Repository
	documents   DocumentProvider
	signatures  SignatureProvider
	artifactDir string
	docTimeout  time.Duration
	signTimeout time.Duration
	logger      *zap.Logger
}

// ServiceConfig holds collaborator deadlines and artifact placement
type ServiceConfig struct {
	ArtifactDir      string
	DocumentTimeout  time.Duration
	SignatureTimeout time.Duration
}

// NewService creates a new contract lifecycle service
func NewService(
	contracts contract.Repository,
	documents DocumentProvider,
	signatures SignatureProvider,
	cfg ServiceConfig,
	logger *zap.Logger,
) *Service {
	if cfg.DocumentTimeout == 0 {
		cfg.DocumentTimeout = 60 * time.Second
	}
	if cfg.SignatureTimeout == 0 {
		cfg.SignatureTimeout = 30 * time.Second
	}

	return &Service{
		contracts:   contracts,
		documents:   documents,
		signatures:  signatures,
		artifactDir: cfg.ArtifactDir,
		docTimeout:  cfg.DocumentTimeout,
		signTimeout: cfg.SignatureTimeout,
		logger:      logger,
	}
}

// CreateDocument asks the document provider for an editable contract
// document and records the contract at pending_changes. The record is
// only written once the provider has produced a document.
func (s *Service) CreateDocument(ctx context.Context, input CreateDocumentInput) (*contract.Contract, error) {
	ctx, cancel := context.WithTimeout(ctx, s.docTimeout)
	defer cancel()

	docID, docURL, err := s.documents.CreateDocument(ctx, input.DocumentURL, input.ParticipantName)
	if err != nil {
		s.logger.Error("Document generation failed",
			zap.Int64("participant_id", input.ParticipantID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", shared.ErrDocumentGeneration, err)
	}

	record := contract.Contract{
		ParticipantID: input.ParticipantID,
		DocID:         docID,
		DocURL:        docURL,
		CampaignID:    input.CampaignID,
		Status:        contract.StatusPendingChanges,
	}

	if err := s.contracts.Upsert(record); err != nil {
		return nil, err
	}

	s.logger.Info("Contract document created",
		zap.Int64("participant_id", input.ParticipantID),
		zap.String("doc_id", docID))

	return &record, nil
}

// UpdateStatus moves a contract to a new lifecycle status. The
// transition table is enforced; out-of-order transitions are rejected.
func (s *Service) UpdateStatus(ctx context.Context, participantID int64, rawStatus string) (*contract.Contract, error) {
	current, err := s.contracts.FindByParticipant(participantID)
	if err != nil {
		return nil, err
	}

	target, err := contract.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	if err := current.Status.ValidateTransition(target); err != nil {
		return nil, err
	}

	patch := contract.Patch{Status: &target}
	if err := s.contracts.Patch(participantID, patch); err != nil {
		return nil, err
	}

	s.logger.Info("Contract status updated",
		zap.Int64("participant_id", participantID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(target)))

	updated := *current
	patch.Apply(&updated)
	return &updated, nil
}

// SendForSignature exports the contract document to PDF, hands it to
// the signature provider, and only then records the agreement. The
// exported artifact is removed exactly once, success or failure.
func (s *Service) SendForSignature(ctx context.Context, participantID int64) (*SendResult, error) {
	current, err := s.contracts.FindByParticipant(participantID)
	if err != nil {
		return nil, err
	}

	if err := current.Status.ValidateTransition(contract.StatusOutForSignature); err != nil {
		return nil, err
	}

	artifactPath := filepath.Join(s.artifactDir, fmt.Sprintf("contract-%d.pdf", participantID))

	exportCtx, cancelExport := context.WithTimeout(ctx, s.docTimeout)
	defer cancelExport()
	if err := s.documents.ExportPDF(exportCtx, current.DocID, artifactPath); err != nil {
		return nil, err
	}
	defer func() {
		if err := os.Remove(artifactPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("Failed to remove exported artifact",
				zap.String("path", artifactPath),
				zap.Error(err))
		}
	}()

	signCtx, cancelSign := context.WithTimeout(ctx, s.signTimeout)
	defer cancelSign()
	sent, err := s.signatures.SendForSignature(signCtx, contract.SignatureRequest{
		DocumentPath: artifactPath,
		Name:         fmt.Sprintf("Contract - participant %d", participantID),
	})
	if err != nil {
		return nil, err
	}

	status := contract.StatusOutForSignature
	if err := s.contracts.Patch(participantID, contract.Patch{
		Status:      &status,
		AgreementID: &sent.AgreementID,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("Contract sent for signature",
		zap.Int64("participant_id", participantID),
		zap.String("agreement_id", sent.AgreementID))

	return &SendResult{
		Status:      status,
		AgreementID: sent.AgreementID,
		Agreement:   sent.Agreement,
	}, nil
}

// GetWithAgreement returns the participant's contract enriched with
// live agreement state, or nil when no contract exists. The enrichment
// is read-through only and never persisted.
func (s *Service) GetWithAgreement(ctx context.Context, participantID int64) (*ContractView, error) {
	current, err := s.contracts.FindByParticipant(participantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	view := &ContractView{Contract: *current}

	if current.AgreementID == "" {
		return view, nil
	}

	signCtx, cancel := context.WithTimeout(ctx, s.signTimeout)
	defer cancel()
	agreement, err := s.signatures.GetAgreement(signCtx, current.AgreementID)
	if err != nil {
		// The stored record is still useful when the provider is down
		s.logger.Warn("Failed to fetch agreement",
			zap.String("agreement_id", current.AgreementID),
			zap.Error(err))
		return view, nil
	}

	view.Agreement = agreement
	return view, nil
}

// RemoveAnchorText strips the ready-for-review phrase from a document
func (s *Service) RemoveAnchorText(ctx context.Context, docID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.docTimeout)
	defer cancel()
	return s.documents.RemoveAnchorText(ctx, docID)
}

// RegisterWebhook (re)registers the signature provider webhook for an agreement
func (s *Service) RegisterWebhook(ctx context.Context, agreementID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.signTimeout)
	defer cancel()
	return s.signatures.RegisterWebhook(ctx, agreementID)
}
