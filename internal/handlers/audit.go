package handlers

import (
	"context"
	"net/http"

	"client-registry/internal/models"

	"github.com/gin-gonic/gin"
)

const auditPageSize = 200

type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

type AuditHandler struct {
	logs AuditReader
}

func NewAuditHandler(logs AuditReader) *AuditHandler {
	return &AuditHandler{logs: logs}
}

// ListAuditLogs handles GET /audit
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	logs, err := h.logs.Recent(c.Request.Context(), auditPageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
