package payments

import "time"

// CreateAccountInput describes a new Connect account request
type CreateAccountInput struct {
	Email   string
	Name    string
	Country string
	Type    string // express or standard, defaults to express
}

// CreateAccountOutput is the result of creating a Connect account
type CreateAccountOutput struct {
	AccountID string
	Email     string
	CreatedAt time.Time
}

// AccountLinkOutput is a hosted onboarding or dashboard link
type AccountLinkOutput struct {
	URL       string
	ExpiresAt time.Time
}

// AccountOutput is a snapshot of a Connect account's state
type AccountOutput struct {
	AccountID        string
	Email            string
	Country          string
	ChargesEnabled   bool
	PayoutsEnabled   bool
	DetailsSubmitted bool
	CreatedAt        time.Time
}

// PaymentIntentInput describes a destination charge request
type PaymentIntentInput struct {
	Amount               int64
	Currency             string
	DestinationAccountID string
	BrandAccountID       string
	Metadata             map[string]string
}

// PaymentIntentOutput is the result of creating a payment intent
type PaymentIntentOutput struct {
	PaymentIntentID string
	ClientSecret    string
	Amount          int64
	FeeAmount       int64
}

// TransferInput describes a direct transfer to a connected account
type TransferInput struct {
	Amount               int64
	Currency             string
	DestinationAccountID string
	BrandAccountID       string
	Metadata             map[string]string
}

// TransferOutput is the result of creating a transfer
type TransferOutput struct {
	TransferID  string
	Amount      int64
	Currency    string
	Destination string
	CreatedAt   time.Time
}

// PayoutInput describes a payout from a connected account's balance
type PayoutInput struct {
	Amount    int64
	Currency  string
	AccountID string
	Metadata  map[string]string
}

// PayoutOutput is the result of creating a payout
type PayoutOutput struct {
	PayoutID    string
	Amount      int64
	Currency    string
	Status      string
	ArrivalDate time.Time
}

// BalanceAmount is a single currency bucket in a balance
type BalanceAmount struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// BalanceOutput is a connected account's balance
type BalanceOutput struct {
	Available []BalanceAmount `json:"available"`
	Pending   []BalanceAmount `json:"pending"`
}

// ListTransfersInput pages through transfers sent to an account
type ListTransfersInput struct {
	AccountID     string
	Limit         int64
	StartingAfter string
}

// ConnectedAccount is a summary row used by cleanup operations
type ConnectedAccount struct {
	AccountID      string    `json:"accountId"`
	Email          string    `json:"email"`
	ChargesEnabled bool      `json:"chargesEnabled"`
	PayoutsEnabled bool      `json:"payoutsEnabled"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ListAccountsInput pages through the platform's connected accounts
type ListAccountsInput struct {
	Limit         int64
	StartingAfter string
}

// ListAccountsOutput is one page of connected accounts
type ListAccountsOutput struct {
	Accounts []ConnectedAccount `json:"accounts"`
	HasMore  bool               `json:"hasMore"`
}
