package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	exportapp "github.com/fohr/contracts-backend/internal/application/export"
)

// ExportHandler serves the background PDF export route.
type ExportHandler struct {
	BaseHandler
	exports *exportapp.Service
	logger  *zap.Logger
}

// NewExportHandler creates the export handler.
func NewExportHandler(exports *exportapp.Service, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{exports: exports, logger: logger}
}

// RegisterRoutes mounts the export route at the router root.
func (h *ExportHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/export-to-pdf", h.ExportToPDF)
}

type exportRequest struct {
	URL   string `json:"url" binding:"required"`
	Token string `json:"token" binding:"required"`
}

// ExportToPDF kicks off a background render of an authenticated page.
// The response acknowledges the job; its outcome is observable in logs.
func (h *ExportHandler) ExportToPDF(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "url and token are required")
		return
	}

	if err := h.exports.Enqueue(req.URL, req.Token); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Export started"})
}
