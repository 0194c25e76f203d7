package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fohr/contracts-backend/internal/domain/account"
	"github.com/fohr/contracts-backend/internal/domain/shared"
	"github.com/fohr/contracts-backend/internal/infrastructure/payments"
)

// Confirmation tokens required by the bulk cleanup operations. A request
// without the exact token is rejected before any provider call.
const (
	ConfirmDeleteAll      = "DELETE_ALL_ACCOUNTS"
	ConfirmDeleteByDomain = "DELETE_BY_DOMAIN"
)

// PaymentProvider is the payment-platform surface the service depends on.
type PaymentProvider interface {
	CreateConnectAccount(ctx context.Context, input payments.CreateAccountInput) (*payments.CreateAccountOutput, error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (*payments.AccountLinkOutput, error)
	CreateLoginLink(ctx context.Context, accountID string) (*payments.AccountLinkOutput, error)
	GetAccount(ctx context.Context, accountID string) (*payments.AccountOutput, error)
	GetBalance(ctx context.Context, accountID string) (*payments.BalanceOutput, error)
	CreateFundingPaymentIntent(ctx context.Context, input payments.PaymentIntentInput) (*payments.PaymentIntentOutput, error)
	CreateInfluencerPaymentIntent(ctx context.Context, input payments.PaymentIntentInput) (*payments.PaymentIntentOutput, error)
	CreatePayout(ctx context.Context, input payments.PayoutInput) (*payments.PayoutOutput, error)
	ListTransfers(ctx context.Context, input payments.ListTransfersInput) ([]payments.TransferOutput, error)
	ListConnectedAccounts(ctx context.Context, input payments.ListAccountsInput) (*payments.ListAccountsOutput, error)
	ListAllConnectedAccounts(ctx context.Context, pageSize int64) ([]payments.ConnectedAccount, error)
	DeleteConnectedAccount(ctx context.Context, accountID string) error
}

// CreateAccountInput carries the onboarding request. An empty email means
// the brand itself is onboarding and its stored identity is used.
type CreateAccountInput struct {
	Email   string
	Name    string
	Country string
	Type    string
}

// CreateAccountResult pairs the new account id with its onboarding link.
type CreateAccountResult struct {
	AccountID     string `json:"accountId"`
	OnboardingURL string `json:"url"`
}

// AccountDetails is the resolved account state. When the entity has no
// live linkage only the audit pair is populated.
type AccountDetails struct {
	DisconnectedBy string
	DisconnectedOn string
	Live           *payments.AccountOutput
}

// DeletedAccount records one successful provider deletion.
type DeletedAccount struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
}

// FailedDeletion records one deletion the provider rejected.
type FailedDeletion struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	Reason    string `json:"reason"`
}

// CleanupOutcome accumulates the per-record results of a bulk deletion.
// Partial failure never aborts the run.
type CleanupOutcome struct {
	Total   int              `json:"total"`
	Deleted []DeletedAccount `json:"deleted"`
	Failed  []FailedDeletion `json:"failed"`
}

// CleanupSummary lists the platform's connected accounts without touching
// them, for review before a destructive cleanup.
type CleanupSummary struct {
	Total    int                         `json:"total"`
	Accounts []payments.ConnectedAccount `json:"accounts"`
	HasMore  bool                        `json:"hasMore"`
}

// ServiceConfig tunes cleanup pacing.
type ServiceConfig struct {
	// RatePerSecond caps provider deletions during bulk cleanup.
	RatePerSecond float64
	// PageSize is the provider listing page size.
	PageSize int
}

// Service manages brand and creator payment accounts over the local
// registry and the payment provider.
type Service struct {
	accounts account.Registry
	provider PaymentProvider
	limiter  *rate.Limiter
	pageSize int64
	logger   *zap.Logger
}

// NewService creates the account service.
func NewService(accounts account.Registry, provider PaymentProvider, cfg ServiceConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 2
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	return &Service{
		accounts: accounts,
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		pageSize: int64(cfg.PageSize),
		logger:   logger,
	}
}

// CreateAccount onboards a brand or creator. No email means the brand is
// onboarding and the stored brand identity is used. The new account id is
// linked locally before the onboarding URL is returned.
func (s *Service) CreateAccount(ctx context.Context, input CreateAccountInput) (*CreateAccountResult, error) {
	isBrand := input.Email == ""

	params := payments.CreateAccountInput{
		Email:   input.Email,
		Name:    input.Name,
		Country: input.Country,
		Type:    input.Type,
	}
	if isBrand {
		brand, err := s.accounts.Brand()
		if err != nil {
			return nil, err
		}
		params.Email = brand.Email
		params.Name = brand.Name
	}

	created, err := s.provider.CreateConnectAccount(ctx, params)
	if err != nil {
		return nil, err
	}

	link := account.Link(created.AccountID)
	if isBrand {
		err = s.accounts.UpdateBrand(link)
	} else {
		err = s.accounts.UpsertCreator(input.Email, link)
	}
	if err != nil {
		return nil, err
	}

	// Refresh and return URLs come from config defaults inside the adapter.
	onboarding, err := s.provider.CreateAccountLink(ctx, created.AccountID, "", "")
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment account created",
		zap.String("account_id", created.AccountID),
		zap.Bool("brand", isBrand))
	return &CreateAccountResult{AccountID: created.AccountID, OnboardingURL: onboarding.URL}, nil
}

// GetAccount resolves a creator by email, or the brand singleton when the
// email is empty. Disconnected entities yield their audit pair without a
// provider call.
func (s *Service) GetAccount(ctx context.Context, email string) (*AccountDetails, error) {
	var (
		entity *account.Account
		err    error
	)
	if email != "" {
		entity, err = s.accounts.CreatorByEmail(email)
	} else {
		entity, err = s.accounts.Brand()
	}
	if err != nil {
		return nil, err
	}

	if !entity.Connected() {
		return &AccountDetails{
			DisconnectedBy: entity.DisconnectedBy,
			DisconnectedOn: entity.DisconnectedOn,
		}, nil
	}

	live, err := s.provider.GetAccount(ctx, entity.AccountID)
	if err != nil {
		return nil, err
	}
	return &AccountDetails{Live: live}, nil
}

// CreateAccountLink returns a fresh hosted onboarding link.
func (s *Service) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (*payments.AccountLinkOutput, error) {
	if accountID == "" {
		return nil, fmt.Errorf("accountId required: %w", shared.ErrInvalidInput)
	}
	return s.provider.CreateAccountLink(ctx, accountID, refreshURL, returnURL)
}

// CreateLoginLink returns a dashboard login link for a connected account.
func (s *Service) CreateLoginLink(ctx context.Context, accountID string) (*payments.AccountLinkOutput, error) {
	if accountID == "" {
		return nil, fmt.Errorf("accountId required: %w", shared.ErrInvalidInput)
	}
	return s.provider.CreateLoginLink(ctx, accountID)
}

// GetBalance returns the live balance of a connected account.
func (s *Service) GetBalance(ctx context.Context, accountID string) (*payments.BalanceOutput, error) {
	return s.provider.GetBalance(ctx, accountID)
}

// CreateFundingPayment charges the brand's customer and routes the funds
// to the brand's connected account minus the platform fee.
func (s *Service) CreateFundingPayment(ctx context.Context, input payments.PaymentIntentInput) (*payments.PaymentIntentOutput, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", shared.ErrInvalidInput)
	}
	return s.provider.CreateFundingPaymentIntent(ctx, input)
}

// CreateInfluencerPayment routes a payment from the brand to a creator's
// connected account minus the platform fee.
func (s *Service) CreateInfluencerPayment(ctx context.Context, input payments.PaymentIntentInput) (*payments.PaymentIntentOutput, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", shared.ErrInvalidInput)
	}
	return s.provider.CreateInfluencerPaymentIntent(ctx, input)
}

// CreatePayout pays out from a connected account's balance to its bank.
func (s *Service) CreatePayout(ctx context.Context, input payments.PayoutInput) (*payments.PayoutOutput, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", shared.ErrInvalidInput)
	}
	return s.provider.CreatePayout(ctx, input)
}

// ListTransfers pages through transfers sent to a connected account.
func (s *Service) ListTransfers(ctx context.Context, input payments.ListTransfersInput) ([]payments.TransferOutput, error) {
	return s.provider.ListTransfers(ctx, input)
}

// ListAccounts returns one page of the platform's connected accounts.
func (s *Service) ListAccounts(ctx context.Context, input payments.ListAccountsInput) (*payments.ListAccountsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = s.pageSize
	}
	return s.provider.ListConnectedAccounts(ctx, input)
}

// Summary lists connected accounts without deleting anything.
func (s *Service) Summary(ctx context.Context, input payments.ListAccountsInput) (*CleanupSummary, error) {
	if input.Limit <= 0 {
		input.Limit = s.pageSize
	}
	page, err := s.provider.ListConnectedAccounts(ctx, input)
	if err != nil {
		return nil, err
	}
	return &CleanupSummary{
		Total:    len(page.Accounts),
		Accounts: page.Accounts,
		HasMore:  page.HasMore,
	}, nil
}

// DeleteAccount removes one connected account at the provider and unlinks
// the matching local record. A provider account no local record tracks is
// still deleted; the missing linkage is logged.
func (s *Service) DeleteAccount(ctx context.Context, accountID string) error {
	if accountID == "" {
		return fmt.Errorf("accountId required: %w", shared.ErrInvalidInput)
	}

	brand, err := s.accounts.Brand()
	if err != nil {
		return err
	}
	isBrand := brand.AccountID == accountID

	if err := s.provider.DeleteConnectedAccount(ctx, accountID); err != nil {
		return err
	}
	s.unlinkLocal(accountID, isBrand)
	return nil
}

// DeleteAll deletes every connected account on the platform. The exact
// confirmation token is required; deletions are rate paced and failures
// are accumulated rather than aborting the run.
func (s *Service) DeleteAll(ctx context.Context, confirm string) (*CleanupOutcome, error) {
	if confirm != ConfirmDeleteAll {
		return nil, fmt.Errorf("send confirm=%s to delete all accounts: %w",
			ConfirmDeleteAll, shared.ErrConfirmationRequired)
	}

	accounts, err := s.provider.ListAllConnectedAccounts(ctx, s.pageSize)
	if err != nil {
		return nil, err
	}
	return s.deleteAccounts(ctx, accounts)
}

// DeleteByDomain deletes the connected accounts whose email ends with the
// given domain suffix, under the same confirmation and pacing rules as
// DeleteAll.
func (s *Service) DeleteByDomain(ctx context.Context, domain, confirm string) (*CleanupOutcome, error) {
	if domain == "" {
		return nil, fmt.Errorf("domain required, e.g. @test.com: %w", shared.ErrInvalidInput)
	}
	if confirm != ConfirmDeleteByDomain {
		return nil, fmt.Errorf("send confirm=%s to delete accounts by domain: %w",
			ConfirmDeleteByDomain, shared.ErrConfirmationRequired)
	}

	accounts, err := s.provider.ListAllConnectedAccounts(ctx, s.pageSize)
	if err != nil {
		return nil, err
	}
	matched := make([]payments.ConnectedAccount, 0, len(accounts))
	for _, a := range accounts {
		if strings.HasSuffix(a.Email, domain) {
			matched = append(matched, a)
		}
	}
	return s.deleteAccounts(ctx, matched)
}

func (s *Service) deleteAccounts(ctx context.Context, accounts []payments.ConnectedAccount) (*CleanupOutcome, error) {
	brand, err := s.accounts.Brand()
	if err != nil {
		return nil, err
	}

	outcome := &CleanupOutcome{
		Total:   len(accounts),
		Deleted: []DeletedAccount{},
		Failed:  []FailedDeletion{},
	}
	for _, a := range accounts {
		if err := s.limiter.Wait(ctx); err != nil {
			return outcome, fmt.Errorf("cleanup interrupted: %w", err)
		}
		if err := s.provider.DeleteConnectedAccount(ctx, a.AccountID); err != nil {
			s.logger.Warn("account deletion failed",
				zap.String("account_id", a.AccountID),
				zap.Error(err))
			outcome.Failed = append(outcome.Failed, FailedDeletion{
				AccountID: a.AccountID,
				Email:     a.Email,
				Reason:    err.Error(),
			})
			continue
		}
		s.unlinkLocal(a.AccountID, brand.AccountID == a.AccountID)
		outcome.Deleted = append(outcome.Deleted, DeletedAccount{
			AccountID: a.AccountID,
			Email:     a.Email,
		})
	}

	s.logger.Info("account cleanup completed",
		zap.Int("total", outcome.Total),
		zap.Int("deleted", len(outcome.Deleted)),
		zap.Int("failed", len(outcome.Failed)))
	return outcome, nil
}

// unlinkLocal stamps the audit pair onto whichever local record held the
// account id. Provider accounts with no local record are left alone.
func (s *Service) unlinkLocal(accountID string, isBrand bool) {
	unlink := account.Unlink("system", time.Now().UTC().Format(time.RFC3339))

	if isBrand {
		if err := s.accounts.UpdateBrand(unlink); err != nil {
			s.logger.Warn("brand unlink failed", zap.Error(err))
		}
		return
	}

	creator, err := s.accounts.CreatorByAccountID(accountID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("creator lookup failed during unlink",
				zap.String("account_id", accountID), zap.Error(err))
		}
		return
	}
	if err := s.accounts.UpsertCreator(creator.Email, unlink); err != nil {
		s.logger.Warn("creator unlink failed",
			zap.String("email", creator.Email), zap.Error(err))
	}
}
