package repository

import (
	"database/sql"
	"encoding/json"

	"dha-governance/internal/models"
)

// VoteRepository handles database operations for governance votes
type VoteRepository struct {
	db *sql.DB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *sql.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Upsert inserts a vote or replaces the voter's previous scores for the same
// submission. The (submission_id, voter_oid) unique constraint keeps it to
// one row per voter.
func (r *VoteRepository) Upsert(vote *models.Vote) error {
	scoresJSON, err := json.Marshal(vote.Scores)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO governance_votes (submission_id, voter_oid, scores, comment, encrypted_comment_id, conflict_declared)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (submission_id, voter_oid) DO UPDATE SET
			scores = EXCLUDED.scores,
			comment = EXCLUDED.comment,
			encrypted_comment_id = EXCLUDED.encrypted_comment_id,
			conflict_declared = EXCLUDED.conflict_declared,
			updated_at = NOW()
		RETURNING id, submitted_at, updated_at
	`

	return r.db.QueryRow(
		query,
		vote.SubmissionID,
		vote.VoterOID,
		scoresJSON,
		vote.Comment,
		vote.EncryptedCommentID,
		vote.ConflictDeclared,
	).Scan(&vote.ID, &vote.SubmittedAt, &vote.UpdatedAt)
}

// GetByVoter retrieves a voter's vote for a submission, or nil
func (r *VoteRepository) GetByVoter(submissionID int64, voterOID string) (*models.Vote, error) {
	query := `
		SELECT id, submission_id, voter_oid, scores, comment, encrypted_comment_id, conflict_declared,
			submitted_at, updated_at
		FROM governance_votes
		WHERE submission_id = $1 AND voter_oid = $2
	`

	vote, err := r.scanVote(r.db.QueryRow(query, submissionID, voterOID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return vote, nil
}

// ListBySubmission retrieves all votes for a submission with voter names
func (r *VoteRepository) ListBySubmission(submissionID int64) ([]models.Vote, error) {
	query := `
		SELECT v.id, v.submission_id, v.voter_oid, v.scores, v.comment, v.encrypted_comment_id,
			v.conflict_declared, v.submitted_at, v.updated_at,
			COALESCE(u.display_name, '')
		FROM governance_votes v
		LEFT JOIN users u ON u.oid = v.voter_oid
		WHERE v.submission_id = $1
		ORDER BY v.submitted_at
	`

	rows, err := r.db.Query(query, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Initialize with empty slice instead of nil to avoid JSON null
	votes := []models.Vote{}
	for rows.Next() {
		var vote models.Vote
		var scoresJSON []byte
		err := rows.Scan(
			&vote.ID,
			&vote.SubmissionID,
			&vote.VoterOID,
			&scoresJSON,
			&vote.Comment,
			&vote.EncryptedCommentID,
			&vote.ConflictDeclared,
			&vote.SubmittedAt,
			&vote.UpdatedAt,
			&vote.VoterName,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(scoresJSON, &vote.Scores); err != nil {
			return nil, err
		}
		votes = append(votes, vote)
	}

	return votes, rows.Err()
}

// CountBySubmission returns the number of votes cast for a submission
func (r *VoteRepository) CountBySubmission(submissionID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM governance_votes WHERE submission_id = $1`
	err := r.db.QueryRow(query, submissionID).Scan(&count)
	return count, err
}

func (r *VoteRepository) scanVote(row *sql.Row) (*models.Vote, error) {
	var vote models.Vote
	var scoresJSON []byte
	err := row.Scan(
		&vote.ID,
		&vote.SubmissionID,
		&vote.VoterOID,
		&scoresJSON,
		&vote.Comment,
		&vote.EncryptedCommentID,
		&vote.ConflictDeclared,
		&vote.SubmittedAt,
		&vote.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(scoresJSON, &vote.Scores); err != nil {
		return nil, err
	}
	return &vote, nil
}
