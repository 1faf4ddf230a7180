package service

import (
	"encoding/json"

	"dha-governance/internal/models"
	"dha-governance/internal/repository"
)

// AuditService handles audit logging
type AuditService struct {
	auditRepo *repository.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo *repository.AuditRepository) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
	}
}

// Log creates an audit log entry, ignoring errors
// This is the recommended way to log audit events as it won't fail the main operation
func (s *AuditService) Log(actorOID, action, entityType, entityID string, before, after interface{}) {
	_ = s.auditRepo.Create(&models.AuditLog{
		ActorOID:    &actorOID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		BeforeState: marshalState(before),
		AfterState:  marshalState(after),
	})
}

// List retrieves audit log entries filtered by entity
func (s *AuditService) List(entityType, entityID string, limit int) ([]models.AuditLog, error) {
	return s.auditRepo.List(entityType, entityID, limit)
}

func marshalState(state interface{}) *string {
	if state == nil {
		return nil
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil
	}
	str := string(data)
	return &str
}
