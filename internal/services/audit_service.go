package services

import (
	"context"
	"encoding/json"

	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/store"
)

// auditService handles audit log recording.
type auditService struct {
	store store.Store[models.AuditLog]
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(s store.Store[models.AuditLog]) AuditServicer {
	return &auditService{store: s}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(action, resourceType string, resourceID uint, ipAddress string, changes map[string]any) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.store.CreateOne(context.Background(), entry); err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}
