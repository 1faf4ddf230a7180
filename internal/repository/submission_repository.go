package repository

import (
	"database/sql"
	"fmt"
	"time"

	"dha-governance/internal/models"
)

// SubmissionRepository handles database operations for intake submissions and
// their governance state
type SubmissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// BeginTx starts a transaction for multi-step governance updates
func (r *SubmissionRepository) BeginTx() (*sql.Tx, error) {
	return r.db.Begin()
}

// Create creates a new submission with its resolved governance defaults
func (r *SubmissionRepository) Create(submission *models.Submission) error {
	query := `
		INSERT INTO intake_submissions (form_id, title, summary, status, created_by_oid,
			governance_required, governance_status, governance_board_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, submitted_at, created_at, updated_at
	`

	return r.db.QueryRow(
		query,
		submission.FormID,
		submission.Title,
		submission.Summary,
		submission.Status,
		submission.CreatedByOID,
		submission.GovernanceRequired,
		submission.GovernanceStatus,
		submission.GovernanceBoardID,
	).Scan(&submission.ID, &submission.SubmittedAt, &submission.CreatedAt, &submission.UpdatedAt)
}

const submissionColumns = `id, form_id, title, summary, status, converted_project_id, created_by_oid,
	submitted_at, created_at, updated_at,
	governance_required, governance_status, governance_decision, governance_reason, encrypted_reason_id,
	governance_board_id, priority_score, vote_deadline_at, review_started_at, decided_at, decided_by_oid`

// GetByID retrieves a submission by ID
func (r *SubmissionRepository) GetByID(id int64) (*models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM intake_submissions WHERE id = $1`, submissionColumns)

	submission, err := scanSubmission(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return submission, nil
}

// GetByIDForUpdate locks and retrieves a submission inside a transaction
func (r *SubmissionRepository) GetByIDForUpdate(tx *sql.Tx, id int64) (*models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM intake_submissions WHERE id = $1 FOR UPDATE`, submissionColumns)

	submission, err := scanSubmission(tx.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return submission, nil
}

// ApplyGovernance moves a submission into the review pipeline. Guarded on the
// current governance status so concurrent transitions lose cleanly.
func (r *SubmissionRepository) ApplyGovernance(id int64, fromStatus, toStatus string, boardID *int64, required bool) (bool, error) {
	query := `
		UPDATE intake_submissions
		SET governance_status = $1, governance_required = $2, governance_board_id = $3, updated_at = NOW()
		WHERE id = $4 AND governance_status = $5
	`

	result, err := r.db.Exec(query, toStatus, required, boardID, id, fromStatus)
	if err != nil {
		return false, err
	}
	return rowsChanged(result)
}

// SkipGovernance marks a submission as exempt from review
func (r *SubmissionRepository) SkipGovernance(id int64, fromStatus string) (bool, error) {
	query := `
		UPDATE intake_submissions
		SET governance_status = $1, governance_required = FALSE, updated_at = NOW()
		WHERE id = $2 AND governance_status = $3
	`

	result, err := r.db.Exec(query, models.GovernanceStatusSkipped, id, fromStatus)
	if err != nil {
		return false, err
	}
	return rowsChanged(result)
}

// StartReview transitions not-started -> in-review, stamping the review start
// and the voting deadline
func (r *SubmissionRepository) StartReview(id int64, deadline *time.Time) (bool, error) {
	query := `
		UPDATE intake_submissions
		SET governance_status = $1, review_started_at = NOW(), vote_deadline_at = $2, updated_at = NOW()
		WHERE id = $3 AND governance_status = $4
	`

	result, err := r.db.Exec(query, models.GovernanceStatusInReview, deadline, id, models.GovernanceStatusNotStarted)
	if err != nil {
		return false, err
	}
	return rowsChanged(result)
}

// Decide transitions in-review -> decided, freezing the decision, reason, and
// priority score in one statement
func (r *SubmissionRepository) Decide(id int64, decision string, reason *string, encryptedReasonID *int64, priorityScore *float64, deciderOID string) (bool, error) {
	query := `
		UPDATE intake_submissions
		SET governance_status = $1, governance_decision = $2, governance_reason = $3,
			encrypted_reason_id = $4, priority_score = $5, decided_at = NOW(),
			decided_by_oid = $6, updated_at = NOW()
		WHERE id = $7 AND governance_status = $8
	`

	result, err := r.db.Exec(
		query,
		models.GovernanceStatusDecided,
		decision,
		reason,
		encryptedReasonID,
		priorityScore,
		deciderOID,
		id,
		models.GovernanceStatusInReview,
	)
	if err != nil {
		return false, err
	}
	return rowsChanged(result)
}

// UpdatePriorityScore refreshes the running aggregate while a review is open
func (r *SubmissionRepository) UpdatePriorityScore(id int64, score *float64) error {
	query := `
		UPDATE intake_submissions
		SET priority_score = $1, updated_at = NOW()
		WHERE id = $2 AND governance_status = $3
	`
	_, err := r.db.Exec(query, score, id, models.GovernanceStatusInReview)
	return err
}

// MarkConverted records the created project on the submission and closes the
// intake lifecycle. Runs in the caller's conversion transaction.
func (r *SubmissionRepository) MarkConverted(tx *sql.Tx, id, projectID int64) error {
	query := `
		UPDATE intake_submissions
		SET converted_project_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3
	`
	_, err := tx.Exec(query, projectID, models.SubmissionStatusApproved, id)
	return err
}

// QueueFilter narrows the governance queue projection
type QueueFilter struct {
	BoardID          *int64
	GovernanceStatus string
	Decision         string
	Page             int
	Limit            int
}

// ListGovernanceQueue lists submissions that entered governance, decided-first
// filterable, ordered by priority score then age
func (r *SubmissionRepository) ListGovernanceQueue(filter QueueFilter) (*models.QueuePage, error) {
	where := `WHERE s.governance_status <> 'skipped'`
	args := []interface{}{}

	if filter.BoardID != nil {
		args = append(args, *filter.BoardID)
		where += fmt.Sprintf(" AND s.governance_board_id = $%d", len(args))
	}
	if filter.GovernanceStatus != "" {
		args = append(args, filter.GovernanceStatus)
		where += fmt.Sprintf(" AND s.governance_status = $%d", len(args))
	}
	if filter.Decision != "" {
		args = append(args, filter.Decision)
		where += fmt.Sprintf(" AND s.governance_decision = $%d", len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM intake_submissions s ` + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT s.id, s.title, f.name, b.name, s.governance_status, s.governance_decision,
			s.priority_score, s.vote_deadline_at, s.submitted_at
		FROM intake_submissions s
		JOIN intake_forms f ON f.id = s.form_id
		LEFT JOIN boards b ON b.id = s.governance_board_id
		%s
		ORDER BY s.priority_score DESC NULLS LAST, s.submitted_at ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.QueueItem{}
	for rows.Next() {
		var item models.QueueItem
		err := rows.Scan(
			&item.SubmissionID,
			&item.Title,
			&item.FormName,
			&item.BoardName,
			&item.GovernanceStatus,
			&item.GovernanceDecision,
			&item.PriorityScore,
			&item.VoteDeadlineAt,
			&item.SubmittedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	return &models.QueuePage{
		Items: items,
		Pagination: models.Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// ListDeadlineWithin lists open reviews whose voting deadline falls inside the
// reminder window
func (r *SubmissionRepository) ListDeadlineWithin(window time.Duration) ([]models.Submission, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM intake_submissions
		WHERE governance_status = $1
			AND vote_deadline_at IS NOT NULL
			AND vote_deadline_at > NOW()
			AND vote_deadline_at <= NOW() + $2::interval
		ORDER BY vote_deadline_at
	`, submissionColumns)

	interval := fmt.Sprintf("%d seconds", int(window.Seconds()))
	rows, err := r.db.Query(query, models.GovernanceStatusInReview, interval)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := []models.Submission{}
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *submission)
	}

	return submissions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var s models.Submission
	err := row.Scan(
		&s.ID,
		&s.FormID,
		&s.Title,
		&s.Summary,
		&s.Status,
		&s.ConvertedProjectID,
		&s.CreatedByOID,
		&s.SubmittedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.GovernanceRequired,
		&s.GovernanceStatus,
		&s.GovernanceDecision,
		&s.GovernanceReason,
		&s.EncryptedReasonID,
		&s.GovernanceBoardID,
		&s.PriorityScore,
		&s.VoteDeadlineAt,
		&s.ReviewStartedAt,
		&s.DecidedAt,
		&s.DecidedByOID,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func rowsChanged(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
