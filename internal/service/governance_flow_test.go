package service

import (
	"errors"
	"testing"
	"time"

	"dha-governance/internal/config"
	"dha-governance/internal/database"
	"dha-governance/internal/email"
	"dha-governance/internal/models"
	"dha-governance/internal/repository"
	"dha-governance/internal/securestore"
	"dha-governance/internal/testutil"
)

// testEnv wires the full service stack against a test database. Vault stays
// off, so sensitive fields land in plaintext columns.
type testEnv struct {
	fixtures *testutil.Fixtures

	submissionRepo *repository.SubmissionRepository
	voteRepo       *repository.VoteRepository
	criteriaRepo   *repository.CriteriaRepository

	settings   *SettingsService
	boards     *BoardService
	criteria   *CriteriaService
	intake     *IntakeService
	review     *ReviewService
	conversion *ConversionService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	tc := testutil.SetupPostgres(t)
	t.Cleanup(func() { tc.Cleanup(t) })

	fixtures := testutil.SetupFixtures(t, tc.DB)

	userRepo := repository.NewUserRepository(tc.DB)
	auditRepo := repository.NewAuditRepository(tc.DB)
	settingsRepo := repository.NewSettingsRepository(tc.DB)
	boardRepo := repository.NewBoardRepository(tc.DB)
	membershipRepo := repository.NewMembershipRepository(tc.DB)
	criteriaRepo := repository.NewCriteriaRepository(tc.DB)
	formRepo := repository.NewFormRepository(tc.DB)
	submissionRepo := repository.NewSubmissionRepository(tc.DB)
	voteRepo := repository.NewVoteRepository(tc.DB)
	projectRepo := repository.NewProjectRepository(tc.DB)
	recordRepo := repository.NewEncryptedRecordRepository(tc.DB)

	probe := database.NewGovernanceProbe(tc.DB)

	secureStore, err := securestore.New(nil, recordRepo)
	if err != nil {
		t.Fatalf("Failed to create secure store: %v", err)
	}
	emailService := email.NewService(&config.EmailConfig{Enabled: false})

	governanceCfg := config.GovernanceConfig{
		QuorumFraction:         0.5,
		DecisionRequiresQuorum: true,
		EnforceVoteDeadline:    true,
		ScorePrecision:         2,
	}

	auditService := NewAuditService(auditRepo)
	settingsService := NewSettingsService(settingsRepo, probe, auditService)
	boardService := NewBoardService(boardRepo, membershipRepo, userRepo, auditService)
	criteriaService := NewCriteriaService(criteriaRepo, boardRepo, auditService)
	intakeService := NewIntakeService(formRepo, submissionRepo, boardRepo, settingsService, auditService)
	reviewService := NewReviewService(submissionRepo, formRepo, boardRepo, membershipRepo, criteriaRepo, voteRepo, userRepo, secureStore, emailService, auditService, governanceCfg)
	conversionService := NewConversionService(submissionRepo, projectRepo, auditService)

	return &testEnv{
		fixtures:       fixtures,
		submissionRepo: submissionRepo,
		voteRepo:       voteRepo,
		criteriaRepo:   criteriaRepo,
		settings:       settingsService,
		boards:         boardService,
		criteria:       criteriaService,
		intake:         intakeService,
		review:         reviewService,
		conversion:     conversionService,
	}
}

func TestGovernanceLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupEnv(t)
	f := env.fixtures

	// Submitting on a required form stamps the governance defaults
	submission, err := env.intake.CreateSubmission(SubmissionInput{
		FormID: f.Form.ID,
		Title:  "Telemedicine rollout",
	}, f.Requester.OID)
	if err != nil {
		t.Fatalf("Failed to create submission: %v", err)
	}
	if !submission.GovernanceRequired {
		t.Error("Submission on a required form should require governance")
	}
	if submission.GovernanceStatus != models.GovernanceStatusNotStarted {
		t.Errorf("Expected status not-started, got %s", submission.GovernanceStatus)
	}
	if submission.GovernanceBoardID == nil || *submission.GovernanceBoardID != f.Board.ID {
		t.Error("Submission should carry the form's board")
	}

	// Conversion is gated until the board decides
	if _, err := env.conversion.Convert(submission.ID, f.Manager.OID); !errors.Is(err, ErrConflict) {
		t.Errorf("Conversion before a decision should conflict, got %v", err)
	}

	// Open voting
	deadline := time.Now().Add(72 * time.Hour)
	submission, err = env.review.StartReview(submission.ID, &deadline, f.Manager.OID)
	if err != nil {
		t.Fatalf("Failed to start review: %v", err)
	}
	if submission.GovernanceStatus != models.GovernanceStatusInReview {
		t.Errorf("Expected status in-review, got %s", submission.GovernanceStatus)
	}
	if submission.ReviewStartedAt == nil {
		t.Error("Review start should be stamped")
	}

	// A non-member cannot vote
	_, err = env.review.SubmitVote(submission.ID, f.Requester.OID, VoteInput{
		Scores: map[string]int{testutil.CriterionStrategicFit: 3, testutil.CriterionFeasibility: 3},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Non-member vote should be forbidden, got %v", err)
	}

	// First vote: 0.7*5 + 0.3*1 = 3.8
	_, err = env.review.SubmitVote(submission.ID, f.MemberOne.OID, VoteInput{
		Scores: map[string]int{testutil.CriterionStrategicFit: 5, testutil.CriterionFeasibility: 1},
	})
	if err != nil {
		t.Fatalf("Failed to submit first vote: %v", err)
	}

	// Only one of three eligible voters so far, quorum of two not met
	_, err = env.review.Decide(submission.ID, f.Chair.OID, DecisionInput{Decision: models.DecisionApprovedNow})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Decision without quorum should conflict, got %v", err)
	}

	// Second vote: 0.7*1 + 0.3*5 = 2.2, mean 3.00
	comment := "Strong strategic case, delivery risk is real"
	_, err = env.review.SubmitVote(submission.ID, f.MemberTwo.OID, VoteInput{
		Scores:  map[string]int{testutil.CriterionStrategicFit: 1, testutil.CriterionFeasibility: 5},
		Comment: &comment,
	})
	if err != nil {
		t.Fatalf("Failed to submit second vote: %v", err)
	}

	details, err := env.review.GetReviewDetails(submission.ID, f.Chair.OID)
	if err != nil {
		t.Fatalf("Failed to get review details: %v", err)
	}
	if details.ScoreSummary.PriorityScore == nil || *details.ScoreSummary.PriorityScore != 3.00 {
		t.Errorf("Expected priority score 3.00, got %v", details.ScoreSummary.PriorityScore)
	}
	if !details.ScoreSummary.QuorumMet {
		t.Error("Quorum should be met with 2 of 3 voters at fraction 0.5")
	}
	if !details.Eligibility.CanDecide {
		t.Error("Chair should be able to decide while in review")
	}
	if len(details.Votes) != 2 {
		t.Fatalf("Expected 2 votes, got %d", len(details.Votes))
	}

	// A regular member cannot decide
	_, err = env.review.Decide(submission.ID, f.MemberOne.OID, DecisionInput{Decision: models.DecisionApprovedNow})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Member decision should be forbidden, got %v", err)
	}

	// The chair decides, freezing the priority score
	reason := "Board endorses immediate start"
	submission, err = env.review.Decide(submission.ID, f.Chair.OID, DecisionInput{
		Decision: models.DecisionApprovedNow,
		Reason:   &reason,
	})
	if err != nil {
		t.Fatalf("Failed to record decision: %v", err)
	}
	if submission.GovernanceStatus != models.GovernanceStatusDecided {
		t.Errorf("Expected status decided, got %s", submission.GovernanceStatus)
	}
	if submission.GovernanceDecision == nil || *submission.GovernanceDecision != models.DecisionApprovedNow {
		t.Error("Decision should be recorded")
	}
	if submission.PriorityScore == nil || *submission.PriorityScore != 3.00 {
		t.Errorf("Priority score should be frozen at 3.00, got %v", submission.PriorityScore)
	}
	if submission.DecidedByOID == nil || *submission.DecidedByOID != f.Chair.OID {
		t.Error("Decider should be recorded")
	}

	// Decided is terminal
	_, err = env.review.Decide(submission.ID, f.Chair.OID, DecisionInput{Decision: models.DecisionRejected})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Re-deciding should conflict, got %v", err)
	}

	// Approved-now opens the conversion gate
	project, err := env.conversion.Convert(submission.ID, f.Manager.OID)
	if err != nil {
		t.Fatalf("Failed to convert submission: %v", err)
	}
	if project.Name != "Telemedicine rollout" {
		t.Errorf("Project should take the submission title, got %q", project.Name)
	}
	if project.SourceSubmissionID == nil || *project.SourceSubmissionID != submission.ID {
		t.Error("Project should reference its source submission")
	}

	// Converting twice conflicts
	if _, err := env.conversion.Convert(submission.ID, f.Manager.OID); !errors.Is(err, ErrConflict) {
		t.Errorf("Second conversion should conflict, got %v", err)
	}
}

func TestPublishSwapKeepsSinglePublishedVersion(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupEnv(t)
	f := env.fixtures

	draft, err := env.criteria.CreateDraft(f.Board.ID, []CriterionInput{
		{ID: "impact", Name: "Impact", Weight: 60},
		{ID: "cost", Name: "Cost", Weight: 40},
	}, f.Manager.OID)
	if err != nil {
		t.Fatalf("Failed to create draft: %v", err)
	}
	if draft.VersionNo <= f.PublishedVersion.VersionNo {
		t.Errorf("Draft should get the next version number, got %d", draft.VersionNo)
	}

	published, err := env.criteria.Publish(draft.ID, f.Manager.OID)
	if err != nil {
		t.Fatalf("Failed to publish draft: %v", err)
	}
	if published.Status != models.CriteriaStatusPublished {
		t.Errorf("Expected status published, got %s", published.Status)
	}

	// The previous published version is retired in the same swap
	old, err := env.criteria.GetVersion(f.PublishedVersion.ID)
	if err != nil {
		t.Fatalf("Failed to get old version: %v", err)
	}
	if old.Status != models.CriteriaStatusRetired {
		t.Errorf("Old version should be retired, got %s", old.Status)
	}

	current, err := env.criteriaRepo.GetPublished(f.Board.ID)
	if err != nil {
		t.Fatalf("Failed to get published version: %v", err)
	}
	if current == nil || current.ID != published.ID {
		t.Error("The new version should be the board's published version")
	}

	// Published versions are immutable
	_, err = env.criteria.UpdateDraft(published.ID, []CriterionInput{{Name: "X", Weight: 100}}, f.Manager.OID)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Editing a published version should conflict, got %v", err)
	}
	_, err = env.criteria.Publish(published.ID, f.Manager.OID)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Re-publishing should conflict, got %v", err)
	}
}

func TestPublishRejectsBadWeights(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupEnv(t)
	f := env.fixtures

	draft, err := env.criteria.CreateDraft(f.Board.ID, []CriterionInput{
		{Name: "Impact", Weight: 60},
		{Name: "Cost", Weight: 30},
	}, f.Manager.OID)
	if err != nil {
		t.Fatalf("Failed to create draft: %v", err)
	}

	_, err = env.criteria.Publish(draft.ID, f.Manager.OID)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Publishing weights totaling 90 should fail validation, got %v", err)
	}

	// The draft stays a draft and the board keeps its published version
	version, _ := env.criteria.GetVersion(draft.ID)
	if version.Status != models.CriteriaStatusDraft {
		t.Errorf("Failed publish should leave the draft untouched, got %s", version.Status)
	}
}

func TestVoteUpsertReplacesExistingVote(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupEnv(t)
	f := env.fixtures

	submission := testutil.CreateSubmission(t, f.DB, f.Form.ID, "Patient portal", f.Requester.OID, true, models.GovernanceStatusNotStarted, &f.Board.ID)
	deadline := time.Now().Add(48 * time.Hour)
	if _, err := env.review.StartReview(submission.ID, &deadline, f.Manager.OID); err != nil {
		t.Fatalf("Failed to start review: %v", err)
	}

	_, err := env.review.SubmitVote(submission.ID, f.MemberOne.OID, VoteInput{
		Scores: map[string]int{testutil.CriterionStrategicFit: 2, testutil.CriterionFeasibility: 2},
	})
	if err != nil {
		t.Fatalf("Failed to submit vote: %v", err)
	}

	// Re-voting replaces the previous vote instead of adding a second one
	_, err = env.review.SubmitVote(submission.ID, f.MemberOne.OID, VoteInput{
		Scores: map[string]int{testutil.CriterionStrategicFit: 5, testutil.CriterionFeasibility: 5},
	})
	if err != nil {
		t.Fatalf("Failed to re-submit vote: %v", err)
	}

	count, err := env.voteRepo.CountBySubmission(submission.ID)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 vote after upsert, got %d", count)
	}

	vote, err := env.voteRepo.GetByVoter(submission.ID, f.MemberOne.OID)
	if err != nil {
		t.Fatalf("Failed to get vote: %v", err)
	}
	if vote.Scores[testutil.CriterionStrategicFit] != 5 {
		t.Errorf("Vote scores should be replaced, got %v", vote.Scores)
	}

	// The running priority score follows the latest vote
	reloaded, err := env.submissionRepo.GetByID(submission.ID)
	if err != nil {
		t.Fatalf("Failed to reload submission: %v", err)
	}
	if reloaded.PriorityScore == nil || *reloaded.PriorityScore != 5.0 {
		t.Errorf("Expected refreshed priority score 5.0, got %v", reloaded.PriorityScore)
	}
}

func TestVoteDeadlineEnforced(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupEnv(t)
	f := env.fixtures

	submission := testutil.CreateSubmission(t, f.DB, f.Form.ID, "Lab integration", f.Requester.OID, true, models.GovernanceStatusNotStarted, &f.Board.ID)
	testutil.StartReview(t, f.DB, submission.ID, time.Now().Add(-time.Hour))

	_, err := env.review.SubmitVote(submission.ID, f.MemberOne.OID, VoteInput{
		Scores: map[string]int{testutil.CriterionStrategicFit: 3, testutil.CriterionFeasibility: 3},
	})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Voting after the deadline should conflict, got %v", err)
	}
}

func TestApplyAndSkipGovernance(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupEnv(t)
	f := env.fixtures

	// An optional-mode form leaves submissions outside the pipeline
	optionalForm := testutil.CreateForm(t, f.DB, "Optional intake", models.GovernanceModeOptional, &f.Board.ID, f.Manager.OID)
	submission, err := env.intake.CreateSubmission(SubmissionInput{FormID: optionalForm.ID, Title: "Pilot study"}, f.Requester.OID)
	if err != nil {
		t.Fatalf("Failed to create submission: %v", err)
	}
	if submission.GovernanceStatus != models.GovernanceStatusSkipped || submission.GovernanceRequired {
		t.Errorf("Optional form should start skipped and not required, got %s/%v", submission.GovernanceStatus, submission.GovernanceRequired)
	}

	// A manager can pull it into review later
	submission, err = env.review.ApplyGovernance(submission.ID, nil, f.Manager.OID)
	if err != nil {
		t.Fatalf("Failed to apply governance: %v", err)
	}
	if submission.GovernanceStatus != models.GovernanceStatusNotStarted || !submission.GovernanceRequired {
		t.Errorf("Applied submission should be not-started and required, got %s/%v", submission.GovernanceStatus, submission.GovernanceRequired)
	}

	// Applying again is a no-op on status
	submission, err = env.review.ApplyGovernance(submission.ID, nil, f.Manager.OID)
	if err != nil {
		t.Fatalf("Second apply should succeed, got %v", err)
	}
	if submission.GovernanceStatus != models.GovernanceStatusNotStarted || !submission.GovernanceRequired {
		t.Errorf("Second apply should leave status untouched, got %s/%v", submission.GovernanceStatus, submission.GovernanceRequired)
	}

	// And back out again before review starts
	submission, err = env.review.SkipGovernance(submission.ID, f.Manager.OID)
	if err != nil {
		t.Fatalf("Failed to skip governance: %v", err)
	}
	if submission.GovernanceStatus != models.GovernanceStatusSkipped {
		t.Errorf("Expected status skipped, got %s", submission.GovernanceStatus)
	}

	// A review under way can still be exempted mid-flight
	inReview := testutil.CreateSubmission(t, f.DB, f.Form.ID, "EHR migration", f.Requester.OID, true, models.GovernanceStatusNotStarted, &f.Board.ID)
	deadline := time.Now().Add(24 * time.Hour)
	if _, err := env.review.StartReview(inReview.ID, &deadline, f.Manager.OID); err != nil {
		t.Fatalf("Failed to start review: %v", err)
	}
	inReview, err = env.review.SkipGovernance(inReview.ID, f.Manager.OID)
	if err != nil {
		t.Fatalf("Failed to skip an in-review submission: %v", err)
	}
	if inReview.GovernanceStatus != models.GovernanceStatusSkipped || inReview.GovernanceRequired {
		t.Errorf("Skipped in-review submission should be skipped and not required, got %s/%v", inReview.GovernanceStatus, inReview.GovernanceRequired)
	}

	// Pulling it back in resumes from the start of the pipeline
	inReview, err = env.review.ApplyGovernance(inReview.ID, nil, f.Manager.OID)
	if err != nil {
		t.Fatalf("Failed to re-apply governance: %v", err)
	}
	if inReview.GovernanceStatus != models.GovernanceStatusNotStarted {
		t.Errorf("Re-applied submission should be not-started, got %s", inReview.GovernanceStatus)
	}

	// Decided submissions are off limits for both actions
	decided := testutil.CreateSubmission(t, f.DB, f.Form.ID, "Telehealth rollout", f.Requester.OID, true, models.GovernanceStatusDecided, &f.Board.ID)
	if _, err := env.review.SkipGovernance(decided.ID, f.Manager.OID); !errors.Is(err, ErrConflict) {
		t.Errorf("Skipping a decided submission should conflict, got %v", err)
	}
	if _, err := env.review.ApplyGovernance(decided.ID, nil, f.Manager.OID); !errors.Is(err, ErrConflict) {
		t.Errorf("Applying to a decided submission should conflict, got %v", err)
	}
}

func TestBoardPartialUpdate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupEnv(t)
	f := env.fixtures

	board, err := env.boards.CreateBoard("Regional Review Board", f.Manager.OID)
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}

	// Deactivate without touching the name
	inactive := false
	board, err = env.boards.UpdateBoard(board.ID, nil, &inactive, f.Manager.OID)
	if err != nil {
		t.Fatalf("Failed to deactivate board: %v", err)
	}
	if board.IsActive || board.Name != "Regional Review Board" {
		t.Errorf("Expected inactive board with unchanged name, got %v/%q", board.IsActive, board.Name)
	}

	// Renaming must not reactivate a deactivated board
	newName := "National Review Board"
	board, err = env.boards.UpdateBoard(board.ID, &newName, nil, f.Manager.OID)
	if err != nil {
		t.Fatalf("Failed to rename board: %v", err)
	}
	if board.IsActive {
		t.Error("Rename should not change the active flag")
	}
	if board.Name != "National Review Board" {
		t.Errorf("Expected renamed board, got %q", board.Name)
	}

	// A provided but blank name is rejected
	blank := "   "
	if _, err := env.boards.UpdateBoard(board.ID, &blank, nil, f.Manager.OID); !errors.Is(err, ErrValidation) {
		t.Errorf("Blank name should fail validation, got %v", err)
	}
}

func TestUpsertMembershipDefaultsRole(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupEnv(t)
	f := env.fixtures

	// Unknown roles fall back to member
	member, err := env.boards.UpsertMembership(f.Board.ID, MembershipInput{
		UserOID:  f.Requester.OID,
		Role:     "observer",
		IsActive: true,
	}, f.Manager.OID)
	if err != nil {
		t.Fatalf("Failed to upsert membership: %v", err)
	}
	if member.Role != models.MemberRoleMember {
		t.Errorf("Expected role %q, got %q", models.MemberRoleMember, member.Role)
	}

	member, err = env.boards.UpsertMembership(f.Board.ID, MembershipInput{
		UserOID:  f.Requester.OID,
		Role:     models.MemberRoleChair,
		IsActive: true,
	}, f.Manager.OID)
	if err != nil {
		t.Fatalf("Failed to upsert membership: %v", err)
	}
	if member.Role != models.MemberRoleChair {
		t.Errorf("Expected role %q, got %q", models.MemberRoleChair, member.Role)
	}
}

func TestSubmissionDefaultsDegradeWhenGovernanceDisabled(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupEnv(t)
	f := env.fixtures

	// Flip the global switch off; intake keeps accepting
	if _, err := env.settings.UpdateSettings(false, f.Manager.OID); err != nil {
		t.Fatalf("Failed to disable governance: %v", err)
	}

	submission, err := env.intake.CreateSubmission(SubmissionInput{FormID: f.Form.ID, Title: "Imaging archive"}, f.Requester.OID)
	if err != nil {
		t.Fatalf("Intake should not fail when governance is disabled: %v", err)
	}
	if submission.GovernanceStatus != models.GovernanceStatusSkipped || submission.GovernanceRequired {
		t.Errorf("Submission should start skipped when governance is disabled, got %s/%v", submission.GovernanceStatus, submission.GovernanceRequired)
	}
}

func TestQueueOrderedByPriorityScore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupEnv(t)
	f := env.fixtures

	deadline := time.Now().Add(72 * time.Hour)

	low := testutil.CreateSubmission(t, f.DB, f.Form.ID, "Low priority", f.Requester.OID, true, models.GovernanceStatusNotStarted, &f.Board.ID)
	high := testutil.CreateSubmission(t, f.DB, f.Form.ID, "High priority", f.Requester.OID, true, models.GovernanceStatusNotStarted, &f.Board.ID)
	unscored := testutil.CreateSubmission(t, f.DB, f.Form.ID, "Unscored", f.Requester.OID, true, models.GovernanceStatusNotStarted, &f.Board.ID)
	testutil.CreateSubmission(t, f.DB, f.Form.ID, "Skipped", f.Requester.OID, false, models.GovernanceStatusSkipped, nil)

	for _, s := range []*models.Submission{low, high, unscored} {
		if _, err := env.review.StartReview(s.ID, &deadline, f.Manager.OID); err != nil {
			t.Fatalf("Failed to start review for %q: %v", s.Title, err)
		}
	}

	if _, err := env.review.SubmitVote(low.ID, f.MemberOne.OID, VoteInput{
		Scores: map[string]int{testutil.CriterionStrategicFit: 1, testutil.CriterionFeasibility: 1},
	}); err != nil {
		t.Fatalf("Failed to vote on low: %v", err)
	}
	if _, err := env.review.SubmitVote(high.ID, f.MemberOne.OID, VoteInput{
		Scores: map[string]int{testutil.CriterionStrategicFit: 5, testutil.CriterionFeasibility: 5},
	}); err != nil {
		t.Fatalf("Failed to vote on high: %v", err)
	}

	page, err := env.review.ListQueue(repository.QueueFilter{BoardID: &f.Board.ID})
	if err != nil {
		t.Fatalf("Failed to list queue: %v", err)
	}
	if len(page.Items) != 3 {
		t.Fatalf("Expected 3 queue items, got %d", len(page.Items))
	}

	// Scored submissions first, highest score on top, unscored last
	if page.Items[0].Title != "High priority" {
		t.Errorf("Expected High priority first, got %q", page.Items[0].Title)
	}
	if page.Items[1].Title != "Low priority" {
		t.Errorf("Expected Low priority second, got %q", page.Items[1].Title)
	}
	if page.Items[2].Title != "Unscored" {
		t.Errorf("Expected Unscored last, got %q", page.Items[2].Title)
	}

	// Skipped submissions never show up
	for _, item := range page.Items {
		if item.Title == "Skipped" {
			t.Error("Skipped submissions should not appear in the queue")
		}
	}
}

func TestStartReviewRequiresPublishedCriteria(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupEnv(t)
	f := env.fixtures

	// A fresh board with no published criteria
	bareBoard := testutil.CreateBoard(t, f.DB, "Bare board", f.Manager.OID)
	testutil.CreateMembership(t, f.DB, bareBoard.ID, f.Chair.OID, models.MemberRoleChair)

	submission := testutil.CreateSubmission(t, f.DB, f.Form.ID, "No criteria yet", f.Requester.OID, true, models.GovernanceStatusNotStarted, &bareBoard.ID)

	deadline := time.Now().Add(24 * time.Hour)
	_, err := env.review.StartReview(submission.ID, &deadline, f.Manager.OID)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Starting review without published criteria should conflict, got %v", err)
	}

	// A past deadline is rejected outright
	past := time.Now().Add(-time.Hour)
	withBoard := testutil.CreateSubmission(t, f.DB, f.Form.ID, "Past deadline", f.Requester.OID, true, models.GovernanceStatusNotStarted, &f.Board.ID)
	_, err = env.review.StartReview(withBoard.ID, &past, f.Manager.OID)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("A past deadline should fail validation, got %v", err)
	}
}
