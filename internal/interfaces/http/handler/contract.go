package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	contractapp "github.com/fohr/contracts-backend/internal/application/contract"
)

// ContractHandler serves the contract lifecycle routes.
type ContractHandler struct {
	BaseHandler
	contracts *contractapp.Service
	logger    *zap.Logger
}

// NewContractHandler creates the contract handler.
func NewContractHandler(contracts *contractapp.Service, logger *zap.Logger) *ContractHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractHandler{contracts: contracts, logger: logger}
}

// RegisterRoutes mounts the contract routes at the router root.
func (h *ContractHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/contracts", h.GetContract)
	r.POST("/upload-contract", h.UploadContract)
	r.POST("/update-contract", h.UpdateContract)
	r.POST("/upload-contract-for-signature", h.UploadContractForSignature)
	r.POST("/remove-anchor-tag", h.RemoveAnchorTag)
	r.GET("/adobe-webhook", h.AdobeWebhookEcho)
	r.POST("/adobe-webhook", h.AdobeWebhookEcho)
	r.POST("/adobe-webhook/register", h.RegisterAdobeWebhook)
}

// GetContract returns the participant's contract merged with live
// agreement state, or a JSON null body when no contract exists.
func (h *ContractHandler) GetContract(c *gin.Context) {
	participantID, err := strconv.ParseInt(c.Query("participantId"), 10, 64)
	if err != nil {
		h.BadRequest(c, "participantId must be an integer")
		return
	}

	view, err := h.contracts.GetWithAgreement(c.Request.Context(), participantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if view == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

type uploadContractRequest struct {
	DocumentURL     string `json:"documentUrl" binding:"required"`
	ParticipantName string `json:"participantName"`
	ParticipantID   int64  `json:"participantId" binding:"required"`
	CampaignID      string `json:"campaignId"`
}

// UploadContract turns a hosted docx into an editable Google Doc and
// records the contract as pending changes.
func (h *ContractHandler) UploadContract(c *gin.Context) {
	var req uploadContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "documentUrl and participantId are required")
		return
	}

	created, err := h.contracts.CreateDocument(c.Request.Context(), contractapp.CreateDocumentInput{
		DocumentURL:     req.DocumentURL,
		ParticipantName: req.ParticipantName,
		ParticipantID:   req.ParticipantID,
		CampaignID:      req.CampaignID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Google Doc created successfully",
		"docUrl":  created.DocURL,
	})
}

type updateContractRequest struct {
	ParticipantID int64  `json:"participantId" binding:"required"`
	Status        string `json:"status" binding:"required"`
}

// UpdateContract applies a status transition to the contract.
func (h *ContractHandler) UpdateContract(c *gin.Context) {
	var req updateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "participantId and status are required")
		return
	}

	updated, err := h.contracts.UpdateStatus(c.Request.Context(), req.ParticipantID, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": updated.Status})
}

type sendForSignatureRequest struct {
	ParticipantID int64 `json:"participantId" binding:"required"`
}

// UploadContractForSignature exports the contract document as a PDF and
// hands it to the e-signature provider.
func (h *ContractHandler) UploadContractForSignature(c *gin.Context) {
	var req sendForSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "participantId is required")
		return
	}

	result, err := h.contracts.SendForSignature(c.Request.Context(), req.ParticipantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type removeAnchorTagRequest struct {
	DocID string `json:"docId" binding:"required"`
}

// RemoveAnchorTag strips the signature anchor text from a document.
func (h *ContractHandler) RemoveAnchorTag(c *gin.Context) {
	var req removeAnchorTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "docId is required")
		return
	}

	if err := h.contracts.RemoveAnchorText(c.Request.Context(), req.DocID); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Anchor text removed", "docId": req.DocID})
}

type registerWebhookRequest struct {
	AgreementID string `json:"agreementId" binding:"required"`
}

// RegisterAdobeWebhook (re)registers the status webhook for an agreement.
func (h *ContractHandler) RegisterAdobeWebhook(c *gin.Context) {
	var req registerWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "agreementId is required")
		return
	}

	if err := h.contracts.RegisterWebhook(c.Request.Context(), req.AgreementID); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Webhook registered", "agreementId": req.AgreementID})
}

// AdobeWebhookEcho answers the provider's verification challenge by
// echoing the client id header back. Status notifications land here too;
// the record is updated by the dashboard via update-contract, so the body
// is only logged.
func (h *ContractHandler) AdobeWebhookEcho(c *gin.Context) {
	clientID := c.GetHeader("X-AdobeSign-ClientId")

	if c.Request.Method == http.MethodPost {
		h.logger.Info("agreement webhook received",
			zap.String("client_id", clientID))
	}

	c.Header("X-AdobeSign-ClientId", clientID)
	c.Status(http.StatusOK)
}
