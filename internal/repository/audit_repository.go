package repository

import (
	"database/sql"
	"strings"

	"dha-governance/internal/models"
)

// AuditRepository handles audit log persistence
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts an audit log entry
func (r *AuditRepository) Create(log *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (actor_oid, action, entity_type, entity_id, before_state, after_state, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	return r.db.QueryRow(
		query,
		log.ActorOID,
		log.Action,
		log.EntityType,
		log.EntityID,
		log.BeforeState,
		log.AfterState,
		log.IPAddress,
		log.UserAgent,
	).Scan(&log.ID, &log.CreatedAt)
}

// List retrieves audit logs, newest first, optionally filtered by entity
func (r *AuditRepository) List(entityType, entityID string, limit int) ([]models.AuditLog, error) {
	query := `
		SELECT id, actor_oid, action, entity_type, entity_id, before_state, after_state,
			ip_address, user_agent, created_at
		FROM audit_logs
	`
	conditions := []string{}
	args := []interface{}{}

	if entityType != "" {
		args = append(args, entityType)
		conditions = append(conditions, "entity_type = $1")
	}
	if entityID != "" {
		args = append(args, entityID)
		if len(args) == 1 {
			conditions = append(conditions, "entity_id = $1")
		} else {
			conditions = append(conditions, "entity_id = $2")
		}
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	if len(args) == 1 {
		query += " ORDER BY created_at DESC LIMIT $1"
	} else if len(args) == 2 {
		query += " ORDER BY created_at DESC LIMIT $2"
	} else {
		query += " ORDER BY created_at DESC LIMIT $3"
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.AuditLog{}
	for rows.Next() {
		var log models.AuditLog
		err := rows.Scan(
			&log.ID,
			&log.ActorOID,
			&log.Action,
			&log.EntityType,
			&log.EntityID,
			&log.BeforeState,
			&log.AfterState,
			&log.IPAddress,
			&log.UserAgent,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}
