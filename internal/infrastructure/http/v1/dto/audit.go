package dto

import (
	"encoding/json"
	"time"
)

// AuditEntryResponse is one decoded audit log row.
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Action     string          `json:"action"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// AuditListQuery filters the audit log.
type AuditListQuery struct {
	EntityType string `form:"entityType"`
	EntityID   string `form:"entityId"`
	Limit      int    `form:"limit,default=100"`
}
