package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"breadroute/internal/core/apperror"
	"breadroute/internal/infrastructure/http/v1/dto"
	"breadroute/internal/infrastructure/storage/postgres"
)

// AuditHandler serves the audit log read side.
type AuditHandler struct {
	log *postgres.AuditLog
}

// NewAuditHandler creates the audit handler.
func NewAuditHandler(log *postgres.AuditLog) *AuditHandler {
	return &AuditHandler{log: log}
}

// List returns recent audit entries with their payloads decoded.
func (h *AuditHandler) List(c *gin.Context) {
	var query dto.AuditListQuery
	if !BindQuery(c, &query) {
		return
	}

	entries, err := h.log.List(c.Request.Context(), query.EntityType, query.EntityID, query.Limit)
	if err != nil {
		HandleError(c, apperror.NewDatabase(err))
		return
	}

	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for i := range entries {
		payload, err := h.log.Decode(&entries[i])
		if err != nil {
			HandleError(c, apperror.NewInternal(err))
			return
		}
		items = append(items, dto.AuditEntryResponse{
			ID:         entries[i].ID.String(),
			EntityType: entries[i].EntityType,
			EntityID:   entries[i].EntityID,
			Action:     entries[i].Action,
			Payload:    json.RawMessage(payload),
			CreatedAt:  entries[i].CreatedAt,
		})
	}
	OK(c, gin.H{"items": items})
}
