package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/account"
	"go.uber.org/zap"

	"github.com/fohr/contracts-backend/internal/domain/shared"
)

// ListConnectedAccounts returns one page of the platform's connected accounts
func (a *StripeAdapter) ListConnectedAccounts(ctx context.Context, input ListAccountsInput) (*ListAccountsOutput, error) {
	params := &stripe.AccountListParams{}
	params.Context = ctx
	// One page per call; pagination is driven by the caller via StartingAfter.
	params.Single = true
	if input.Limit > 0 {
		params.Limit = stripe.Int64(input.Limit)
	}
	if input.StartingAfter != "" {
		params.StartingAfter = stripe.String(input.StartingAfter)
	}

	output := &ListAccountsOutput{Accounts: []ConnectedAccount{}}
	iter := account.List(params)
	for iter.Next() {
		acct := iter.Account()
		output.Accounts = append(output.Accounts, ConnectedAccount{
			AccountID:      acct.ID,
			Email:          acct.Email,
			ChargesEnabled: acct.ChargesEnabled,
			PayoutsEnabled: acct.PayoutsEnabled,
			CreatedAt:      time.Unix(acct.Created, 0),
		})
	}

	if err := iter.Err(); err != nil {
		a.logger.Error("Failed to list connected accounts", zap.Error(err))
		return nil, shared.NewUpstreamError("stripe", fmt.Errorf("list connected accounts: %w", err))
	}

	meta := iter.List()
	if meta != nil {
		output.HasMore = meta.GetListMeta().HasMore
	}

	return output, nil
}

// ListAllConnectedAccounts pages through every connected account on the platform
func (a *StripeAdapter) ListAllConnectedAccounts(ctx context.Context, pageSize int64) ([]ConnectedAccount, error) {
	var all []ConnectedAccount
	startingAfter := ""

	for {
		page, err := a.ListConnectedAccounts(ctx, ListAccountsInput{
			Limit:         pageSize,
			StartingAfter: startingAfter,
		})
		if err != nil {
			return nil, err
		}

		all = append(all, page.Accounts...)

		if !page.HasMore || len(page.Accounts) == 0 {
			break
		}
		startingAfter = page.Accounts[len(page.Accounts)-1].AccountID
	}

	return all, nil
}

// DeleteConnectedAccount permanently removes a connected account
func (a *StripeAdapter) DeleteConnectedAccount(ctx context.Context, accountID string) error {
	params := &stripe.AccountParams{}
	params.Context = ctx

	_, err := account.Del(accountID, params)
	if err != nil {
		a.logger.Error("Failed to delete connected account",
			zap.String("account_id", accountID),
			zap.Error(err))
		return shared.NewUpstreamError("stripe", fmt.Errorf("delete connected account: %w", err))
	}

	a.logger.Info("Deleted connected account", zap.String("account_id", accountID))
	return nil
}
