package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"

	accountapp "github.com/fohr/contracts-backend/internal/application/account"
	"github.com/fohr/contracts-backend/internal/domain/account"
	"github.com/fohr/contracts-backend/internal/infrastructure/payments"
	"github.com/fohr/contracts-backend/internal/infrastructure/storage"
)

type fakeProvider struct {
	accounts    []payments.ConnectedAccount
	deleteCalls []string
}

func (p *fakeProvider) CreateConnectAccount(ctx context.Context, input payments.CreateAccountInput) (*payments.CreateAccountOutput, error) {
	return &payments.CreateAccountOutput{AccountID: "acct_new", Email: input.Email}, nil
}

func (p *fakeProvider) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (*payments.AccountLinkOutput, error) {
	return &payments.AccountLinkOutput{URL: "https://connect.stripe.com/setup/" + accountID}, nil
}

func (p *fakeProvider) CreateLoginLink(ctx context.Context, accountID string) (*payments.AccountLinkOutput, error) {
	return &payments.AccountLinkOutput{URL: "https://connect.stripe.com/login/" + accountID}, nil
}

func (p *fakeProvider) GetAccount(ctx context.Context, accountID string) (*payments.AccountOutput, error) {
	return &payments.AccountOutput{AccountID: accountID, ChargesEnabled: true}, nil
}

func (p *fakeProvider) GetBalance(ctx context.Context, accountID string) (*payments.BalanceOutput, error) {
	return &payments.BalanceOutput{
		Available: []payments.BalanceAmount{{Amount: 5000, Currency: "usd"}},
	}, nil
}

func (p *fakeProvider) CreateFundingPaymentIntent(ctx context.Context, input payments.PaymentIntentInput) (*payments.PaymentIntentOutput, error) {
	return &payments.PaymentIntentOutput{PaymentIntentID: "pi_fund", ClientSecret: "pi_fund_secret"}, nil
}

func (p *fakeProvider) CreateInfluencerPaymentIntent(ctx context.Context, input payments.PaymentIntentInput) (*payments.PaymentIntentOutput, error) {
	return &payments.PaymentIntentOutput{PaymentIntentID: "pi_inf", ClientSecret: "pi_inf_secret"}, nil
}

func (p *fakeProvider) CreatePayout(ctx context.Context, input payments.PayoutInput) (*payments.PayoutOutput, error) {
	return &payments.PayoutOutput{PayoutID: "po_1", Amount: input.Amount}, nil
}

func (p *fakeProvider) ListTransfers(ctx context.Context, input payments.ListTransfersInput) ([]payments.TransferOutput, error) {
	return []payments.TransferOutput{{TransferID: "tr_1", Amount: 1000}}, nil
}

func (p *fakeProvider) ListConnectedAccounts(ctx context.Context, input payments.ListAccountsInput) (*payments.ListAccountsOutput, error) {
	return &payments.ListAccountsOutput{Accounts: p.accounts}, nil
}

func (p *fakeProvider) ListAllConnectedAccounts(ctx context.Context, pageSize int64) ([]payments.ConnectedAccount, error) {
	return p.accounts, nil
}

func (p *fakeProvider) DeleteConnectedAccount(ctx context.Context, accountID string) error {
	p.deleteCalls = append(p.deleteCalls, accountID)
	return nil
}

type fakeVerifier struct {
	event stripe.Event
	err   error
}

func (v *fakeVerifier) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	if v.err != nil {
		return stripe.Event{}, v.err
	}
	return v.event, nil
}

func newStripeRouter(t *testing.T, provider *fakeProvider, verifier *fakeVerifier) (*gin.Engine, *storage.AccountStore) {
	t.Helper()

	store := storage.NewAccountStore(filepath.Join(t.TempDir(), "accounts.json"), zap.NewNop())
	require.NoError(t, store.Ensure())

	svc := accountapp.NewService(store, provider,
		accountapp.ServiceConfig{RatePerSecond: 1000, PageSize: 100}, zap.NewNop())

	r := gin.New()
	NewStripeHandler(svc, verifier, zap.NewNop()).RegisterRoutes(r)
	return r, store
}

func TestCreateAccount(t *testing.T) {
	r, store := newStripeRouter(t, &fakeProvider{}, &fakeVerifier{})

	w := doJSON(r, http.MethodPost, "/stripe/create-account",
		`{"email":"jane@example.com","name":"Jane"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "acct_new", resp["accountId"])
	assert.Equal(t, "https://connect.stripe.com/setup/acct_new", resp["url"])

	creator, err := store.CreatorByEmail("jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "acct_new", creator.AccountID)
}

func TestGetAccount_DisconnectedAuditPair(t *testing.T) {
	r, store := newStripeRouter(t, &fakeProvider{}, &fakeVerifier{})
	require.NoError(t, store.UpsertCreator("jane@example.com",
		account.Unlink("system", "2026-01-15T10:00:00Z")))

	w := doJSON(r, http.MethodGet, "/stripe/account?email=jane@example.com", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"disconnectedBy":"system"`)
	assert.NotContains(t, w.Body.String(), "ChargesEnabled")
}

func TestGetAccount_UnknownCreator(t *testing.T) {
	r, _ := newStripeRouter(t, &fakeProvider{}, &fakeVerifier{})

	w := doJSON(r, http.MethodGet, "/stripe/account?email=nobody@example.com", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBalance(t *testing.T) {
	r, _ := newStripeRouter(t, &fakeProvider{}, &fakeVerifier{})

	w := doJSON(r, http.MethodGet, "/stripe/account/acct_1/balance", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"amount":5000`)
}

func TestCreateFundingPayment(t *testing.T) {
	r, _ := newStripeRouter(t, &fakeProvider{}, &fakeVerifier{})

	w := doJSON(r, http.MethodPost, "/stripe/create-funding-payment",
		`{"amount":10000,"currency":"usd","brandAccountId":"acct_brand"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pi_fund_secret")
}

func TestCreateInfluencerPayment_MissingFields(t *testing.T) {
	r, _ := newStripeRouter(t, &fakeProvider{}, &fakeVerifier{})

	w := doJSON(r, http.MethodPost, "/stripe/create-influencer-payment",
		`{"amount":10000}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAll_RequiresConfirmation(t *testing.T) {
	provider := &fakeProvider{accounts: []payments.ConnectedAccount{{AccountID: "acct_1"}}}
	r, _ := newStripeRouter(t, provider, &fakeVerifier{})

	w := doJSON(r, http.MethodDelete, "/stripe/cleanup/all", `{"confirm":"nope"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_CONFIRMATION_REQUIRED")
	assert.Empty(t, provider.deleteCalls)
}

func TestDeleteAll(t *testing.T) {
	provider := &fakeProvider{accounts: []payments.ConnectedAccount{
		{AccountID: "acct_1", Email: "a@test.com"},
		{AccountID: "acct_2", Email: "b@test.com"},
	}}
	r, _ := newStripeRouter(t, provider, &fakeVerifier{})

	w := doJSON(r, http.MethodDelete, "/stripe/cleanup/all",
		`{"confirm":"DELETE_ALL_ACCOUNTS"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Account cleanup completed")
	assert.Len(t, provider.deleteCalls, 2)
}

func TestCleanupSummary(t *testing.T) {
	provider := &fakeProvider{accounts: []payments.ConnectedAccount{
		{AccountID: "acct_1", Email: "a@test.com"},
	}}
	r, _ := newStripeRouter(t, provider, &fakeVerifier{})

	w := doJSON(r, http.MethodGet, "/stripe/cleanup/summary", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
	assert.Empty(t, provider.deleteCalls)
}

func TestWebhook_BadSignature(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("signature mismatch")}
	r, _ := newStripeRouter(t, &fakeProvider{}, verifier)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/stripe/webhook", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=bad")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_WEBHOOK_SIGNATURE")
	assert.NotContains(t, w.Body.String(), "whsec", "secret material never echoed")
}

func TestWebhook_Dispatch(t *testing.T) {
	verifier := &fakeVerifier{event: stripe.Event{
		ID:   "evt_1",
		Type: "account.updated",
	}}
	r, _ := newStripeRouter(t, &fakeProvider{}, verifier)

	w := doJSON(r, http.MethodPost, "/stripe/webhook", `{"id":"evt_1"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
}
