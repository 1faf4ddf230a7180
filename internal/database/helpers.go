package database

import (
	"context"
	"database/sql"
	"sync"
	"time"
)

// getContext creates a context with timeout
func getContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// GovernanceProbe reports whether the governance schema has been provisioned.
// The governance tables ship in their own migration so that the rest of the
// system keeps working when that migration has not been applied yet; endpoints
// behind the probe answer 503 instead.
type GovernanceProbe struct {
	db *sql.DB

	mu          sync.Mutex
	provisioned bool
}

// NewGovernanceProbe creates a probe for the governance schema
func NewGovernanceProbe(db *sql.DB) *GovernanceProbe {
	return &GovernanceProbe{db: db}
}

// Provisioned checks for the governance_settings table. A positive result is
// cached; tables are never dropped at runtime, so the check only repeats while
// the schema is still absent.
func (p *GovernanceProbe) Provisioned() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.provisioned {
		return true
	}

	var regclass sql.NullString
	err := p.db.QueryRow(`SELECT to_regclass('public.governance_settings')::text`).Scan(&regclass)
	if err != nil || !regclass.Valid {
		return false
	}

	p.provisioned = true
	return true
}
