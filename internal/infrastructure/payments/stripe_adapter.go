package payments

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/account"
	"github.com/stripe/stripe-go/v81/accountlink"
	"github.com/stripe/stripe-go/v81/balance"
	"github.com/stripe/stripe-go/v81/loginlink"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/payout"
	"github.com/stripe/stripe-go/v81/transfer"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"github.com/fohr/contracts-backend/internal/domain/shared"
)

// ErrWebhookSignature indicates an event payload failed signature verification
var ErrWebhookSignature = errors.New("stripe: webhook signature verification failed")

// StripeAdapter implements Stripe Connect operations for brand and
// creator accounts: onboarding, destination charges, transfers and payouts.
type StripeAdapter struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(config *StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	return &StripeAdapter{
		config: config,
		logger: logger,
	}, nil
}

// CreateConnectAccount creates an Express Connect account with card payment
// and transfer capabilities and a daily payout schedule.
func (a *StripeAdapter) CreateConnectAccount(ctx context.Context, input CreateAccountInput) (*CreateAccountOutput, error) {
	a.logger.Debug("Creating Stripe Connect account",
		zap.String("email", input.Email),
		zap.String("country", input.Country))

	accountType := input.Type
	if accountType == "" {
		accountType = string(stripe.AccountTypeExpress)
	}
	country := input.Country
	if country == "" {
		country = "US"
	}

	params := &stripe.AccountParams{
		Type:         stripe.String(accountType),
		Country:      stripe.String(country),
		Email:        stripe.String(input.Email),
		BusinessType: stripe.String("company"),
		Company: &stripe.AccountCompanyParams{
			Name: stripe.String(input.Name),
		},
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{
				Requested: stripe.Bool(true),
			},
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
		Settings: &stripe.AccountSettingsParams{
			Payouts: &stripe.AccountSettingsPayoutsParams{
				Schedule: &stripe.AccountSettingsPayoutsScheduleParams{
					Interval: stripe.String("daily"),
				},
			},
		},
	}
	params.Context = ctx

	acct, err := account.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe Connect account",
			zap.String("email", input.Email),
			zap.Error(err))
		return nil, shared.NewUpstreamError("stripe", fmt.Errorf("create connect account: %w", err))
	}

	a.logger.Info("Created Stripe Connect account",
		zap.String("account_id", acct.ID),
		zap.String("email", acct.Email))

	return &CreateAccountOutput{
		AccountID: acct.ID,
		Email:     acct.Email,
		CreatedAt: time.Unix(acct.Created, 0),
	}, nil
}

// CreateAccountLink creates a hosted onboarding link for a Connect account
func (a *StripeAdapter) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (*AccountLinkOutput, error) {
	if refreshURL == "" {
		refreshURL = a.config.OnboardingRefreshURL
	}
	if returnURL == "" {
		returnURL = a.config.OnboardingReturnURL
	}

	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx

	link, err := accountlink.New(params)
	if err != nil {
		a.logger.Error("Failed to create account link",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, shared.NewUpstreamError("stripe", fmt.Errorf("create account link: %w", err))
	}

	return &AccountLinkOutput{
		URL:       link.URL,
		ExpiresAt: time.Unix(link.ExpiresAt, 0),
	}, nil
}

// CreateLoginLink creates an Express dashboard login link for an onboarded account
func (a *StripeAdapter) CreateLoginLink(ctx context.Context, accountID string) (*AccountLinkOutput, error) {
	params := &stripe.LoginLinkParams{
		Account: stripe.String(accountID),
	}
	params.Context = ctx

	link, err := loginlink.New(params)
	if err != nil {
		a.logger.Error("Failed to create login link",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, shared.NewUpstreamError("stripe", fmt.Errorf("create login link: %w", err))
	}

	return &AccountLinkOutput{URL: link.URL}, nil
}

// GetAccount retrieves a Connect account's state
func (a *StripeAdapter) GetAccount(ctx context.Context, accountID string) (*AccountOutput, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := account.GetByID(accountID, params)
	if err != nil {
		a.logger.Error("Failed to get Stripe account",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, shared.NewUpstreamError("stripe", fmt.Errorf("get account: %w", err))
	}

	return &AccountOutput{
		AccountID:        acct.ID,
		Email:            acct.Email,
		Country:          acct.Country,
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
		DetailsSubmitted: acct.DetailsSubmitted,
		CreatedAt:        time.Unix(acct.Created, 0),
	}, nil
}

// GetBalance retrieves a connected account's available and pending balance
func (a *StripeAdapter) GetBalance(ctx context.Context, accountID string) (*BalanceOutput, error) {
	params := &stripe.BalanceParams{}
	params.Context = ctx
	params.SetStripeAccount(accountID)

	bal, err := balance.Get(params)
	if err != nil {
		a.logger.Error("Failed to get account balance",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, shared.NewUpstreamError("stripe", fmt.Errorf("get balance: %w", err))
	}

	output := &BalanceOutput{}
	for _, amt := range bal.Available {
		output.Available = append(output.Available, BalanceAmount{
			Amount:   amt.Amount,
			Currency: string(amt.Currency),
		})
	}
	for _, amt := range bal.Pending {
		output.Pending = append(output.Pending, BalanceAmount{
			Amount:   amt.Amount,
			Currency: string(amt.Currency),
		})
	}

	return output, nil
}

// CreateFundingPaymentIntent creates a destination charge that funds a
// brand's account, keeping the platform fee on the platform balance.
func (a *StripeAdapter) CreateFundingPaymentIntent(ctx context.Context, input PaymentIntentInput) (*PaymentIntentOutput, error) {
	fee := a.config.FeeAmount(input.Amount)

	a.logger.Debug("Creating funding payment intent",
		zap.Int64("amount", input.Amount),
		zap.Int64("fee", fee),
		zap.String("destination", input.DestinationAccountID))

	params := &stripe.PaymentIntentParams{
		Amount:               stripe.Int64(input.Amount),
		Currency:             stripe.String(input.Currency),
		ApplicationFeeAmount: stripe.Int64(fee),
		TransferData: &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(input.DestinationAccountID),
		},
	}
	params.Context = ctx
	params.Metadata = map[string]string{
		"type": "account_funding",
	}
	maps.Copy(params.Metadata, input.Metadata)

	pi, err := paymentintent.New(params)
	if err != nil {
		a.logger.Error("Failed to create funding payment intent",
			zap.String("destination", input.DestinationAccountID),
			zap.Error(err))
		return nil, shared.NewUpstreamError("stripe", fmt.Errorf("create funding payment intent: %w", err))
	}

	a.logger.Info("Created funding payment intent",
		zap.String("payment_intent_id", pi.ID),
		zap.Int64("amount", pi.Amount))

	return &PaymentIntentOutput{
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
		Amount:          pi.Amount,
		FeeAmount:       fee,
	}, nil
}

// CreateInfluencerPaymentIntent creates a destination charge that pays a
// creator on behalf of a brand.
func (a *StripeAdapter) CreateInfluencerPaymentIntent(ctx context.Context, input PaymentIntentInput) (*PaymentIntentOutput, error) {
	fee := a.config.FeeAmount(input.Amount)

	params := &stripe.PaymentIntentParams{
		Amount:               stripe.Int64(input.Amount),
		Currency:             stripe.String(input.Currency),
		ApplicationFeeAmount: stripe.Int64(fee),
		TransferData: &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(input.DestinationAccountID),
		},
	}
	params.Context = ctx
	params.Metadata = map[string]string{
		"type":               "influencer_payment",
		"brand_account":      input.BrandAccountID,
		"influencer_account": input.DestinationAccountID,
	}
	maps.Copy(params.Metadata, input.Metadata)

	pi, err := paymentintent.New(params)
	if err != nil {
		a.logger.Error("Failed to create influencer payment intent",
			zap.String("destination", input.DestinationAccountID),
			zap.Error(err))
		return nil, shared.NewUpstreamError("stripe", fmt.Errorf("create influencer payment intent: %w", err))
	}

	a.logger.Info("Created influencer payment intent",
		zap.String("payment_intent_id", pi.ID),
		zap.Int64("amount", pi.Amount))

	return &PaymentIntentOutput{
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
		Amount:          pi.Amount,
		FeeAmount:       fee,
	}, nil
}

// CreateTransfer moves funds from the platform balance to a connected account
func (a *StripeAdapter) CreateTransfer(ctx context.Context, input TransferInput) (*TransferOutput, error) {
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(input.Amount),
		Currency:    stripe.String(input.Currency),
		Destination: stripe.String(input.DestinationAccountID),
	}
	params.Context = ctx
	params.Metadata = map[string]string{
		"type":          "influencer_payment",
		"brand_account": input.BrandAccountID,
	}
	maps.Copy(params.Metadata, input.Metadata)

	tr, err := transfer.New(params)
	if err != nil {
		a.logger.Error("Failed to create transfer",
			zap.String("destination", input.DestinationAccountID),
			zap.Error(err))
		return nil, shared.NewUpstreamError("stripe", fmt.Errorf("create transfer: %w", err))
	}

	a.logger.Info("Created transfer",
		zap.String("transfer_id", tr.ID),
		zap.Int64("amount", tr.Amount))

	output := &TransferOutput{
		TransferID: tr.ID,
		Amount:     tr.Amount,
		Currency:   string(tr.Currency),
		CreatedAt:  time.Unix(tr.Created, 0),
	}
	if tr.Destination != nil {
		output.Destination = tr.Destination.ID
	}

	return output, nil
}

// CreatePayout pays out from a connected account's balance to its bank
func (a *StripeAdapter) CreatePayout(ctx context.Context, input PayoutInput) (*PayoutOutput, error) {
	params := &stripe.PayoutParams{
		Amount:   stripe.Int64(input.Amount),
		Currency: stripe.String(input.Currency),
	}
	params.Context = ctx
	params.SetStripeAccount(input.AccountID)
	if len(input.Metadata) > 0 {
		params.Metadata = input.Metadata
	}

	po, err := payout.New(params)
	if err != nil {
		a.logger.Error("Failed to create payout",
			zap.String("account_id", input.AccountID),
			zap.Error(err))
		return nil, shared.NewUpstreamError("stripe", fmt.Errorf("create payout: %w", err))
	}

	a.logger.Info("Created payout",
		zap.String("payout_id", po.ID),
		zap.Int64("amount", po.Amount))

	return &PayoutOutput{
		PayoutID:    po.ID,
		Amount:      po.Amount,
		Currency:    string(po.Currency),
		Status:      string(po.Status),
		ArrivalDate: time.Unix(po.ArrivalDate, 0),
	}, nil
}

// ListTransfers lists transfers sent to a connected account
func (a *StripeAdapter) ListTransfers(ctx context.Context, input ListTransfersInput) ([]TransferOutput, error) {
	params := &stripe.TransferListParams{
		Destination: stripe.String(input.AccountID),
	}
	params.Context = ctx
	if input.Limit > 0 {
		params.Limit = stripe.Int64(input.Limit)
	}
	if input.StartingAfter != "" {
		params.StartingAfter = stripe.String(input.StartingAfter)
	}

	var transfers []TransferOutput
	iter := transfer.List(params)
	for iter.Next() {
		tr := iter.Transfer()
		output := TransferOutput{
			TransferID: tr.ID,
			Amount:     tr.Amount,
			Currency:   string(tr.Currency),
			CreatedAt:  time.Unix(tr.Created, 0),
		}
		if tr.Destination != nil {
			output.Destination = tr.Destination.ID
		}
		transfers = append(transfers, output)
	}

	if err := iter.Err(); err != nil {
		a.logger.Error("Failed to list transfers",
			zap.String("account_id", input.AccountID),
			zap.Error(err))
		return nil, shared.NewUpstreamError("stripe", fmt.Errorf("list transfers: %w", err))
	}

	return transfers, nil
}

// VerifyWebhook verifies an event payload against the endpoint secret
func (a *StripeAdapter) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, a.config.WebhookSecret)
	if err != nil {
		a.logger.Warn("Webhook signature verification failed", zap.Error(err))
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrWebhookSignature, err)
	}
	return event, nil
}
