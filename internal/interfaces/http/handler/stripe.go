package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"

	accountapp "github.com/fohr/contracts-backend/internal/application/account"
	"github.com/fohr/contracts-backend/internal/infrastructure/payments"
	"github.com/fohr/contracts-backend/internal/interfaces/http/dto"
)

// WebhookVerifier checks an event payload against the endpoint secret.
type WebhookVerifier interface {
	VerifyWebhook(payload []byte, signature string) (stripe.Event, error)
}

// StripeHandler serves the payment-account routes under /stripe.
type StripeHandler struct {
	BaseHandler
	accounts *accountapp.Service
	verifier WebhookVerifier
	logger   *zap.Logger
}

// NewStripeHandler creates the payment-account handler.
func NewStripeHandler(accounts *accountapp.Service, verifier WebhookVerifier, logger *zap.Logger) *StripeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StripeHandler{accounts: accounts, verifier: verifier, logger: logger}
}

// RegisterRoutes mounts the payment routes under /stripe.
func (h *StripeHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/stripe")
	g.POST("/create-account", h.CreateAccount)
	g.POST("/create-account-link", h.CreateAccountLink)
	g.POST("/create-login-link", h.CreateLoginLink)
	g.GET("/account", h.GetAccount)
	g.GET("/account/:accountId/balance", h.GetBalance)
	g.GET("/account/:accountId/transfers", h.ListTransfers)
	g.POST("/create-funding-payment", h.CreateFundingPayment)
	g.POST("/create-influencer-payment", h.CreateInfluencerPayment)
	g.POST("/create-payout", h.CreatePayout)
	g.GET("/accounts", h.ListAccounts)
	g.GET("/cleanup/summary", h.CleanupSummary)
	g.DELETE("/account/:accountId", h.DeleteAccount)
	g.DELETE("/cleanup/all", h.DeleteAll)
	g.DELETE("/cleanup/by-domain", h.DeleteByDomain)
	g.POST("/webhook", h.Webhook)
}

type createAccountRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Type    string `json:"type"`
}

// CreateAccount onboards a brand (no email) or creator onto the payment
// platform and returns the hosted onboarding link.
func (h *StripeHandler) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.accounts.CreateAccount(c.Request.Context(), accountapp.CreateAccountInput{
		Email:   req.Email,
		Name:    req.Name,
		Country: req.Country,
		Type:    req.Type,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accountId": result.AccountID, "url": result.OnboardingURL})
}

type accountLinkRequest struct {
	AccountID  string `json:"accountId" binding:"required"`
	RefreshURL string `json:"refreshUrl"`
	ReturnURL  string `json:"returnUrl"`
}

// CreateAccountLink returns a fresh onboarding link.
func (h *StripeHandler) CreateAccountLink(c *gin.Context) {
	var req accountLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "accountId is required")
		return
	}

	link, err := h.accounts.CreateAccountLink(c.Request.Context(), req.AccountID, req.RefreshURL, req.ReturnURL)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link.URL})
}

type loginLinkRequest struct {
	AccountID string `json:"accountId" binding:"required"`
}

// CreateLoginLink returns a dashboard login link.
func (h *StripeHandler) CreateLoginLink(c *gin.Context) {
	var req loginLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "accountId is required")
		return
	}

	link, err := h.accounts.CreateLoginLink(c.Request.Context(), req.AccountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link.URL})
}

// GetAccount resolves the brand (no email query) or a creator by email.
// Disconnected entities yield only their audit fields.
func (h *StripeHandler) GetAccount(c *gin.Context) {
	details, err := h.accounts.GetAccount(c.Request.Context(), c.Query("email"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if details.Live == nil {
		c.JSON(http.StatusOK, gin.H{"account": gin.H{
			"disconnectedBy": details.DisconnectedBy,
			"disconnectedOn": details.DisconnectedOn,
		}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": details.Live})
}

// GetBalance returns the live balance of a connected account.
func (h *StripeHandler) GetBalance(c *gin.Context) {
	balance, err := h.accounts.GetBalance(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// ListTransfers pages through transfers sent to a connected account.
func (h *StripeHandler) ListTransfers(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)

	transfers, err := h.accounts.ListTransfers(c.Request.Context(), payments.ListTransfersInput{
		AccountID:     c.Param("accountId"),
		Limit:         limit,
		StartingAfter: c.Query("starting_after"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transfers": transfers})
}

type fundingPaymentRequest struct {
	Amount         int64             `json:"amount" binding:"required"`
	Currency       string            `json:"currency"`
	BrandAccountID string            `json:"brandAccountId" binding:"required"`
	Metadata       map[string]string `json:"metadata"`
}

// CreateFundingPayment creates a destination charge that funds the
// brand's connected account.
func (h *StripeHandler) CreateFundingPayment(c *gin.Context) {
	var req fundingPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "amount and brandAccountId are required")
		return
	}

	intent, err := h.accounts.CreateFundingPayment(c.Request.Context(), payments.PaymentIntentInput{
		Amount:               req.Amount,
		Currency:             req.Currency,
		DestinationAccountID: req.BrandAccountID,
		Metadata:             req.Metadata,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"clientSecret":    intent.ClientSecret,
		"paymentIntentId": intent.PaymentIntentID,
	})
}

type influencerPaymentRequest struct {
	Amount              int64             `json:"amount" binding:"required"`
	Currency            string            `json:"currency"`
	InfluencerAccountID string            `json:"influencerAccountId" binding:"required"`
	BrandAccountID      string            `json:"brandAccountId" binding:"required"`
	Metadata            map[string]string `json:"metadata"`
}

// CreateInfluencerPayment routes a payment from the brand to a creator.
func (h *StripeHandler) CreateInfluencerPayment(c *gin.Context) {
	var req influencerPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "amount, influencerAccountId and brandAccountId are required")
		return
	}

	intent, err := h.accounts.CreateInfluencerPayment(c.Request.Context(), payments.PaymentIntentInput{
		Amount:               req.Amount,
		Currency:             req.Currency,
		DestinationAccountID: req.InfluencerAccountID,
		BrandAccountID:       req.BrandAccountID,
		Metadata:             req.Metadata,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"clientSecret":    intent.ClientSecret,
		"paymentIntentId": intent.PaymentIntentID,
	})
}

type payoutRequest struct {
	Amount    int64             `json:"amount" binding:"required"`
	Currency  string            `json:"currency"`
	AccountID string            `json:"accountId" binding:"required"`
	Metadata  map[string]string `json:"metadata"`
}

// CreatePayout pays out from a connected account's balance.
func (h *StripeHandler) CreatePayout(c *gin.Context) {
	var req payoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "amount and accountId are required")
		return
	}

	payout, err := h.accounts.CreatePayout(c.Request.Context(), payments.PayoutInput{
		Amount:    req.Amount,
		Currency:  req.Currency,
		AccountID: req.AccountID,
		Metadata:  req.Metadata,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payout": payout})
}

// ListAccounts returns one page of the platform's connected accounts.
func (h *StripeHandler) ListAccounts(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)

	page, err := h.accounts.ListAccounts(c.Request.Context(), payments.ListAccountsInput{
		Limit:         limit,
		StartingAfter: c.Query("starting_after"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": page.Accounts, "has_more": page.HasMore})
}

// CleanupSummary lists connected accounts without deleting anything.
func (h *StripeHandler) CleanupSummary(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)

	summary, err := h.accounts.Summary(c.Request.Context(), payments.ListAccountsInput{
		Limit:         limit,
		StartingAfter: c.Query("starting_after"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// DeleteAccount removes one connected account and unlinks the local
// record.
func (h *StripeHandler) DeleteAccount(c *gin.Context) {
	accountID := c.Param("accountId")

	if err := h.accounts.DeleteAccount(c.Request.Context(), accountID); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully", "accountId": accountID})
}

type cleanupRequest struct {
	Confirm string `json:"confirm"`
	Domain  string `json:"domain"`
}

// DeleteAll deletes every connected account. Requires the exact
// confirmation token in the body.
func (h *StripeHandler) DeleteAll(c *gin.Context) {
	var req cleanupRequest
	_ = c.ShouldBindJSON(&req)

	outcome, err := h.accounts.DeleteAll(c.Request.Context(), req.Confirm)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account cleanup completed", "results": outcome})
}

// DeleteByDomain deletes the connected accounts whose email matches the
// domain suffix. Requires the exact confirmation token in the body.
func (h *StripeHandler) DeleteByDomain(c *gin.Context) {
	var req cleanupRequest
	_ = c.ShouldBindJSON(&req)

	outcome, err := h.accounts.DeleteByDomain(c.Request.Context(), req.Domain, req.Confirm)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Account cleanup completed for domain: " + req.Domain,
		"results": outcome,
	})
}

// Webhook verifies the event signature and dispatches the event types the
// platform reacts to. An invalid signature is rejected without echoing
// anything about the shared secret.
func (h *StripeHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "could not read request body")
		return
	}

	event, err := h.verifier.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.Unauthorized(c, dto.ErrCodeWebhookSignature, "webhook signature verification failed")
		return
	}

	switch event.Type {
	case "account.updated":
		h.logger.Info("connected account updated",
			zap.String("event_id", event.ID))
	case "payment_intent.succeeded":
		h.logger.Info("payment intent succeeded",
			zap.String("event_id", event.ID))
	case "transfer.created":
		h.logger.Info("transfer created",
			zap.String("event_id", event.ID))
	default:
		h.logger.Debug("unhandled event type",
			zap.String("event_type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
