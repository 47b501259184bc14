package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/service"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/response"
)

// AuditHandler read access to the audit log
type AuditHandler struct {
	auditSvc service.AuditService
}

// NewAuditHandler creates an AuditHandler
func NewAuditHandler(auditSvc service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// ListAuditLogs newest first, filtered by actor, action, entity and time
// GET /api/v1/audit-logs
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.AuditQueryRequest
	if !bindQuery(c, &req) {
		return
	}

	entries, err := h.auditSvc.Query(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": entries})
}
