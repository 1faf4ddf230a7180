package models

import (
	"time"
)

// Governance status values for a submission
const (
	GovernanceStatusSkipped    = "skipped"
	GovernanceStatusNotStarted = "not-started"
	GovernanceStatusInReview   = "in-review"
	GovernanceStatusDecided    = "decided"
)

// Governance decision values
const (
	DecisionApprovedNow     = "approved-now"
	DecisionApprovedBacklog = "approved-backlog"
	DecisionNeedsInfo       = "needs-info"
	DecisionRejected        = "rejected"
)

// Criteria version status values
const (
	CriteriaStatusDraft     = "draft"
	CriteriaStatusPublished = "published"
	CriteriaStatusRetired   = "retired"
)

// Board member roles
const (
	MemberRoleMember = "member"
	MemberRoleChair  = "chair"
)

// Form governance modes
const (
	GovernanceModeOff      = "off"
	GovernanceModeOptional = "optional"
	GovernanceModeRequired = "required"
)

// Submission status values (intake lifecycle, distinct from governance status)
const (
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusApproved  = "approved"
	SubmissionStatusRejected  = "rejected"
)

// User mirrors a directory identity; the oid comes from the platform token
type User struct {
	ID          int64     `json:"id" db:"id"`
	OID         string    `json:"oid" db:"oid"`
	Email       string    `json:"email" db:"email"`
	DisplayName string    `json:"display_name" db:"display_name"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Role represents a role granted by the identity service
type Role struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Permission represents a capability key checked at endpoint entry
type Permission struct {
	ID          int64     `json:"id" db:"id"`
	Key         string    `json:"key" db:"key"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Board represents a governance body that owns criteria and reviews submissions
type Board struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedByOID string    `json:"created_by_oid" db:"created_by_oid"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// BoardWithStats extends Board with membership information
type BoardWithStats struct {
	Board
	ActiveMemberCount int `json:"active_member_count"`
}

// BoardMember represents a time-bounded membership on a board
type BoardMember struct {
	ID            int64      `json:"id" db:"id"`
	BoardID       int64      `json:"board_id" db:"board_id"`
	UserOID       string     `json:"user_oid" db:"user_oid"`
	Role          string     `json:"role" db:"role"` // member, chair
	IsActive      bool       `json:"is_active" db:"is_active"`
	EffectiveFrom time.Time  `json:"effective_from" db:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty" db:"effective_to"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`

	// Populated fields (not from DB)
	DisplayName string `json:"display_name,omitempty" db:"-"`
	Email       string `json:"email,omitempty" db:"-"`
}

// EligibleAt reports whether the membership grants voting rights at the given time
func (m *BoardMember) EligibleAt(at time.Time) bool {
	if !m.IsActive {
		return false
	}
	if at.Before(m.EffectiveFrom) {
		return false
	}
	if m.EffectiveTo != nil && !at.Before(*m.EffectiveTo) {
		return false
	}
	return true
}

// Criterion is one weighted scoring dimension inside a criteria version.
// Criteria are embedded in the version row as JSON, not standalone rows.
type Criterion struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Weight    float64 `json:"weight"` // 0..100
	Enabled   bool    `json:"enabled"`
	SortOrder int     `json:"sort_order"`
}

// CriteriaVersion is an immutable, versioned snapshot of a board's criteria set
type CriteriaVersion struct {
	ID             int64       `json:"id" db:"id"`
	BoardID        int64       `json:"board_id" db:"board_id"`
	VersionNo      int         `json:"version_no" db:"version_no"`
	Status         string      `json:"status" db:"status"` // draft, published, retired
	Criteria       []Criterion `json:"criteria" db:"-"`    // Stored as JSONB
	PublishedAt    *time.Time  `json:"published_at,omitempty" db:"published_at"`
	PublishedByOID *string     `json:"published_by_oid,omitempty" db:"published_by_oid"`
	CreatedByOID   string      `json:"created_by_oid" db:"created_by_oid"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// EnabledCriteria returns the enabled subset ordered as stored
func (v *CriteriaVersion) EnabledCriteria() []Criterion {
	enabled := []Criterion{}
	for _, c := range v.Criteria {
		if c.Enabled {
			enabled = append(enabled, c)
		}
	}
	return enabled
}

// GovernanceSettings is the global on/off switch, a single-row aggregate
type GovernanceSettings struct {
	ID                int64     `json:"id" db:"id"`
	GovernanceEnabled bool      `json:"governance_enabled" db:"governance_enabled"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
	UpdatedByOID      string    `json:"updated_by_oid" db:"updated_by_oid"`
}

// IntakeForm is the configurable request form submissions come in through
type IntakeForm struct {
	ID                int64     `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Description       *string   `json:"description,omitempty" db:"description"`
	IsActive          bool      `json:"is_active" db:"is_active"`
	GovernanceMode    string    `json:"governance_mode" db:"governance_mode"` // off, optional, required
	GovernanceBoardID *int64    `json:"governance_board_id,omitempty" db:"governance_board_id"`
	CreatedByOID      string    `json:"created_by_oid" db:"created_by_oid"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// Submission is an intake request with its governance state layered on
type Submission struct {
	ID                 int64     `json:"id" db:"id"`
	FormID             int64     `json:"form_id" db:"form_id"`
	Title              string    `json:"title" db:"title"`
	Summary            *string   `json:"summary,omitempty" db:"summary"`
	Status             string    `json:"status" db:"status"` // submitted, approved, rejected
	ConvertedProjectID *int64    `json:"converted_project_id,omitempty" db:"converted_project_id"`
	CreatedByOID       string    `json:"created_by_oid" db:"created_by_oid"`
	SubmittedAt        time.Time `json:"submitted_at" db:"submitted_at"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`

	GovernanceRequired bool       `json:"governance_required" db:"governance_required"`
	GovernanceStatus   string     `json:"governance_status" db:"governance_status"`
	GovernanceDecision *string    `json:"governance_decision,omitempty" db:"governance_decision"`
	GovernanceReason   *string    `json:"governance_reason,omitempty" db:"governance_reason"`
	EncryptedReasonID  *int64     `json:"-" db:"encrypted_reason_id"`
	GovernanceBoardID  *int64     `json:"governance_board_id,omitempty" db:"governance_board_id"`
	PriorityScore      *float64   `json:"priority_score,omitempty" db:"priority_score"`
	VoteDeadlineAt     *time.Time `json:"vote_deadline_at,omitempty" db:"vote_deadline_at"`
	ReviewStartedAt    *time.Time `json:"review_started_at,omitempty" db:"review_started_at"`
	DecidedAt          *time.Time `json:"decided_at,omitempty" db:"decided_at"`
	DecidedByOID       *string    `json:"decided_by_oid,omitempty" db:"decided_by_oid"`
}

// Closed reports whether the intake lifecycle has ended
func (s *Submission) Closed() bool {
	return s.Status == SubmissionStatusApproved || s.Status == SubmissionStatusRejected
}

// Vote is one board member's scores for a submission, at most one per voter
type Vote struct {
	ID                 int64          `json:"id" db:"id"`
	SubmissionID       int64          `json:"submission_id" db:"submission_id"`
	VoterOID           string         `json:"voter_oid" db:"voter_oid"`
	Scores             map[string]int `json:"scores" db:"-"` // criterion id -> 1..5, stored as JSONB
	Comment            *string        `json:"comment,omitempty" db:"comment"`
	EncryptedCommentID *int64         `json:"-" db:"encrypted_comment_id"`
	ConflictDeclared   bool           `json:"conflict_declared" db:"conflict_declared"`
	SubmittedAt        time.Time      `json:"submitted_at" db:"submitted_at"`
	UpdatedAt          time.Time      `json:"updated_at" db:"updated_at"`

	// Populated fields (not from DB)
	VoterName string `json:"voter_name,omitempty" db:"-"`
}

// ScoreSummary reports vote aggregation, participation, quorum, and deadline state
type ScoreSummary struct {
	PriorityScore      *float64 `json:"priority_score,omitempty"`
	VoteCount          int      `json:"vote_count"`
	EligibleVoterCount int      `json:"eligible_voter_count"`
	ParticipationPct   int      `json:"participation_pct"`
	RequiredVotes      int      `json:"required_votes"`
	QuorumMet          bool     `json:"quorum_met"`
	DeadlinePassed     bool     `json:"deadline_passed"`
}

// ReviewDetails is the full governance picture of one submission
type ReviewDetails struct {
	Submission      Submission       `json:"submission"`
	Form            *IntakeForm      `json:"form,omitempty"`
	Board           *Board           `json:"board,omitempty"`
	CriteriaVersion *CriteriaVersion `json:"criteria_version,omitempty"`
	Votes           []Vote           `json:"votes"`
	ScoreSummary    ScoreSummary     `json:"score_summary"`
	Eligibility     Eligibility      `json:"eligibility"`
}

// Eligibility describes what the requesting principal may do on a review
type Eligibility struct {
	CanVote   bool `json:"can_vote"`
	CanDecide bool `json:"can_decide"`
}

// QueueItem is one row of the governance queue projection
type QueueItem struct {
	SubmissionID       int64      `json:"submission_id"`
	Title              string     `json:"title"`
	FormName           string     `json:"form_name"`
	BoardName          *string    `json:"board_name,omitempty"`
	GovernanceStatus   string     `json:"governance_status"`
	GovernanceDecision *string    `json:"governance_decision,omitempty"`
	PriorityScore      *float64   `json:"priority_score,omitempty"`
	VoteDeadlineAt     *time.Time `json:"vote_deadline_at,omitempty"`
	SubmittedAt        time.Time  `json:"submitted_at"`
}

// Pagination describes a page of a listing
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// QueuePage is a page of the governance queue
type QueuePage struct {
	Items      []QueueItem `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// AuditLog represents an audit log entry
type AuditLog struct {
	ID          int64     `json:"id" db:"id"`
	ActorOID    *string   `json:"actor_oid,omitempty" db:"actor_oid"`
	Action      string    `json:"action" db:"action"`
	EntityType  string    `json:"entity_type" db:"entity_type"`
	EntityID    string    `json:"entity_id" db:"entity_id"`
	BeforeState *string   `json:"before_state,omitempty" db:"before_state"`
	AfterState  *string   `json:"after_state,omitempty" db:"after_state"`
	IPAddress   string    `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent   string    `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// EncryptedRecord holds a Vault transit ciphertext for a sensitive field
type EncryptedRecord struct {
	ID         int64     `json:"id" db:"id"`
	EntityType string    `json:"entity_type" db:"entity_type"`
	EntityRef  string    `json:"entity_ref" db:"entity_ref"`
	Ciphertext string    `json:"-" db:"ciphertext"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Project is the tracked project a converted submission becomes
type Project struct {
	ID                 int64     `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	Description        *string   `json:"description,omitempty" db:"description"`
	SourceSubmissionID *int64    `json:"source_submission_id,omitempty" db:"source_submission_id"`
	CreatedByOID       string    `json:"created_by_oid" db:"created_by_oid"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}
