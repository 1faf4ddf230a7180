package testutil

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"dha-governance/internal/models"
)

// Fixtures holds a ready-to-review governance setup: a board with a chair and
// two members, a published criteria version, an intake form wired to the
// board, and governance enabled.
type Fixtures struct {
	DB *sql.DB

	Manager   *models.User
	Chair     *models.User
	MemberOne *models.User
	MemberTwo *models.User
	Requester *models.User

	Board            *models.Board
	PublishedVersion *models.CriteriaVersion
	Form             *models.IntakeForm
}

// Criterion IDs used by the fixture criteria set
const (
	CriterionStrategicFit = "strategic-fit"
	CriterionFeasibility  = "feasibility"
)

// SetupFixtures creates test data
func SetupFixtures(t *testing.T, db *sql.DB) *Fixtures {
	t.Helper()

	f := &Fixtures{DB: db}

	f.Manager = CreateUser(t, db, "oid-manager", "manager@test.com", "Governance Manager")
	f.Chair = CreateUser(t, db, "oid-chair", "chair@test.com", "Board Chair")
	f.MemberOne = CreateUser(t, db, "oid-member-1", "member1@test.com", "Member One")
	f.MemberTwo = CreateUser(t, db, "oid-member-2", "member2@test.com", "Member Two")
	f.Requester = CreateUser(t, db, "oid-requester", "requester@test.com", "Requester")

	EnableGovernance(t, db)

	f.Board = CreateBoard(t, db, "Digital Health Review Board", f.Manager.OID)
	CreateMembership(t, db, f.Board.ID, f.Chair.OID, models.MemberRoleChair)
	CreateMembership(t, db, f.Board.ID, f.MemberOne.OID, models.MemberRoleMember)
	CreateMembership(t, db, f.Board.ID, f.MemberTwo.OID, models.MemberRoleMember)

	f.PublishedVersion = CreatePublishedCriteria(t, db, f.Board.ID, []models.Criterion{
		{ID: CriterionStrategicFit, Name: "Strategic fit", Weight: 70, Enabled: true, SortOrder: 1},
		{ID: CriterionFeasibility, Name: "Feasibility", Weight: 30, Enabled: true, SortOrder: 2},
	})

	f.Form = CreateForm(t, db, "Project intake", models.GovernanceModeRequired, &f.Board.ID, f.Manager.OID)

	return f
}

// Cleanup removes all test data
func (f *Fixtures) Cleanup(t *testing.T) {
	t.Helper()

	// Data lives in the test container and dies with it
}

// CreateUser inserts an identity mirror row
func CreateUser(t *testing.T, db *sql.DB, oid, email, displayName string) *models.User {
	t.Helper()

	user := &models.User{OID: oid, Email: email, DisplayName: displayName, IsActive: true}
	err := db.QueryRow(
		`INSERT INTO users (oid, email, display_name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (oid) DO UPDATE SET email = EXCLUDED.email
		 RETURNING id, created_at, updated_at`,
		oid, email, displayName,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", oid, err)
	}
	return user
}

// EnableGovernance writes the settings singleton with governance switched on
func EnableGovernance(t *testing.T, db *sql.DB) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO governance_settings (governance_enabled, updated_by_oid) VALUES (TRUE, 'fixture')`,
	)
	if err != nil {
		t.Fatalf("Failed to enable governance: %v", err)
	}
}

// CreateBoard inserts an active board
func CreateBoard(t *testing.T, db *sql.DB, name, createdBy string) *models.Board {
	t.Helper()

	board := &models.Board{Name: name, IsActive: true, CreatedByOID: createdBy}
	err := db.QueryRow(
		`INSERT INTO boards (name, created_by_oid) VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		name, createdBy,
	).Scan(&board.ID, &board.CreatedAt, &board.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}
	return board
}

// CreateMembership inserts an active membership effective since yesterday
func CreateMembership(t *testing.T, db *sql.DB, boardID int64, userOID, role string) *models.BoardMember {
	t.Helper()

	member := &models.BoardMember{
		BoardID:       boardID,
		UserOID:       userOID,
		Role:          role,
		IsActive:      true,
		EffectiveFrom: time.Now().Add(-24 * time.Hour),
	}
	err := db.QueryRow(
		`INSERT INTO board_members (board_id, user_oid, role, effective_from)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		boardID, userOID, role, member.EffectiveFrom,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create membership for %s: %v", userOID, err)
	}
	return member
}

// CreatePublishedCriteria inserts a criteria version already in published state
func CreatePublishedCriteria(t *testing.T, db *sql.DB, boardID int64, criteria []models.Criterion) *models.CriteriaVersion {
	t.Helper()

	criteriaJSON, err := json.Marshal(criteria)
	if err != nil {
		t.Fatalf("Failed to marshal criteria: %v", err)
	}

	version := &models.CriteriaVersion{
		BoardID:  boardID,
		Status:   models.CriteriaStatusPublished,
		Criteria: criteria,
	}
	err = db.QueryRow(
		`INSERT INTO criteria_versions (board_id, version_no, status, criteria, published_at, published_by_oid)
		 VALUES ($1,
		         COALESCE((SELECT MAX(version_no) FROM criteria_versions WHERE board_id = $1), 0) + 1,
		         'published', $2, NOW(), 'fixture')
		 RETURNING id, version_no, created_at, updated_at`,
		boardID, criteriaJSON,
	).Scan(&version.ID, &version.VersionNo, &version.CreatedAt, &version.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create published criteria version: %v", err)
	}
	return version
}

// CreateForm inserts an intake form with the given governance mode
func CreateForm(t *testing.T, db *sql.DB, name, mode string, boardID *int64, createdBy string) *models.IntakeForm {
	t.Helper()

	form := &models.IntakeForm{
		Name:              name,
		IsActive:          true,
		GovernanceMode:    mode,
		GovernanceBoardID: boardID,
		CreatedByOID:      createdBy,
	}
	err := db.QueryRow(
		`INSERT INTO intake_forms (name, governance_mode, governance_board_id, created_by_oid)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		name, mode, boardID, createdBy,
	).Scan(&form.ID, &form.CreatedAt, &form.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}
	return form
}

// CreateSubmission inserts an intake submission in the given governance state
func CreateSubmission(t *testing.T, db *sql.DB, formID int64, title, createdBy string, required bool, governanceStatus string, boardID *int64) *models.Submission {
	t.Helper()

	submission := &models.Submission{
		FormID:             formID,
		Title:              title,
		Status:             models.SubmissionStatusSubmitted,
		CreatedByOID:       createdBy,
		GovernanceRequired: required,
		GovernanceStatus:   governanceStatus,
		GovernanceBoardID:  boardID,
	}
	err := db.QueryRow(
		`INSERT INTO intake_submissions (form_id, title, created_by_oid, governance_required, governance_status, governance_board_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, submitted_at, created_at, updated_at`,
		formID, title, createdBy, required, governanceStatus, boardID,
	).Scan(&submission.ID, &submission.SubmittedAt, &submission.CreatedAt, &submission.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create submission: %v", err)
	}
	return submission
}

// StartReview moves a fixture submission into in-review with a future deadline
func StartReview(t *testing.T, db *sql.DB, submissionID int64, deadline time.Time) {
	t.Helper()

	_, err := db.Exec(
		`UPDATE intake_submissions
		 SET governance_status = 'in-review', review_started_at = NOW(), vote_deadline_at = $2
		 WHERE id = $1`,
		submissionID, deadline,
	)
	if err != nil {
		t.Fatalf("Failed to move submission %d into review: %v", submissionID, err)
	}
}
