package service

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"dha-governance/internal/config"
	"dha-governance/internal/email"
	"dha-governance/internal/models"
	"dha-governance/internal/repository"
	"dha-governance/internal/securestore"
)

// ReviewService handles the governance review workflow: routing submissions
// into review, collecting votes, and recording decisions
type ReviewService struct {
	submissionRepo *repository.SubmissionRepository
	formRepo       *repository.FormRepository
	boardRepo      *repository.BoardRepository
	membershipRepo *repository.MembershipRepository
	criteriaRepo   *repository.CriteriaRepository
	voteRepo       *repository.VoteRepository
	userRepo       *repository.UserRepository
	secureStore    *securestore.SecureStore
	emailService   *email.Service
	auditService   *AuditService
	cfg            config.GovernanceConfig
}

// NewReviewService creates a new review service
func NewReviewService(
	submissionRepo *repository.SubmissionRepository,
	formRepo *repository.FormRepository,
	boardRepo *repository.BoardRepository,
	membershipRepo *repository.MembershipRepository,
	criteriaRepo *repository.CriteriaRepository,
	voteRepo *repository.VoteRepository,
	userRepo *repository.UserRepository,
	secureStore *securestore.SecureStore,
	emailService *email.Service,
	auditService *AuditService,
	cfg config.GovernanceConfig,
) *ReviewService {
	return &ReviewService{
		submissionRepo: submissionRepo,
		formRepo:       formRepo,
		boardRepo:      boardRepo,
		membershipRepo: membershipRepo,
		criteriaRepo:   criteriaRepo,
		voteRepo:       voteRepo,
		userRepo:       userRepo,
		secureStore:    secureStore,
		emailService:   emailService,
		auditService:   auditService,
		cfg:            cfg,
	}
}

// ApplyGovernance routes a submission into the review pipeline. Allowed while
// the review is not decided and the intake lifecycle is still open; a skipped
// submission moves to not-started, any other status is left as is.
func (s *ReviewService) ApplyGovernance(submissionID int64, boardID *int64, actorOID string) (*models.Submission, error) {
	submission, err := s.getSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if submission.Closed() {
		return nil, conflictf("submission %d is %s and can no longer enter review", submissionID, submission.Status)
	}
	if submission.GovernanceStatus == models.GovernanceStatusDecided {
		return nil, conflictf("submission %d is already decided", submissionID)
	}

	resolvedBoardID := boardID
	if resolvedBoardID == nil {
		resolvedBoardID = submission.GovernanceBoardID
	}
	if resolvedBoardID == nil {
		form, err := s.formRepo.GetByID(submission.FormID)
		if err != nil {
			return nil, fmt.Errorf("failed to get form: %w", err)
		}
		if form != nil {
			resolvedBoardID = form.GovernanceBoardID
		}
	}
	if resolvedBoardID == nil {
		return nil, validationf("no board assigned; provide board_id")
	}

	board, err := s.boardRepo.GetByID(*resolvedBoardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	if board == nil {
		return nil, notFoundf("board %d not found", *resolvedBoardID)
	}
	if !board.IsActive {
		return nil, validationf("board %d is not active", board.ID)
	}

	toStatus := submission.GovernanceStatus
	if toStatus == models.GovernanceStatusSkipped {
		toStatus = models.GovernanceStatusNotStarted
	}

	changed, err := s.submissionRepo.ApplyGovernance(submissionID, submission.GovernanceStatus, toStatus, resolvedBoardID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to apply governance: %w", err)
	}
	if !changed {
		return nil, conflictf("submission %d changed state concurrently", submissionID)
	}

	s.auditService.Log(actorOID, "apply_governance", "submission", fmt.Sprintf("%d", submissionID), submission.GovernanceStatus, toStatus)
	return s.getSubmission(submissionID)
}

// SkipGovernance exempts a submission from review. Allowed from any status
// except decided, including mid-review.
func (s *ReviewService) SkipGovernance(submissionID int64, actorOID string) (*models.Submission, error) {
	submission, err := s.getSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if submission.GovernanceStatus == models.GovernanceStatusDecided {
		return nil, conflictf("submission %d is already decided and cannot be skipped", submissionID)
	}

	changed, err := s.submissionRepo.SkipGovernance(submissionID, submission.GovernanceStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to skip governance: %w", err)
	}
	if !changed {
		return nil, conflictf("submission %d changed state concurrently", submissionID)
	}

	s.auditService.Log(actorOID, "skip_governance", "submission", fmt.Sprintf("%d", submissionID), submission.GovernanceStatus, models.GovernanceStatusSkipped)
	return s.getSubmission(submissionID)
}

// StartReview opens voting on a submission. Requires a published criteria
// version on the submission's board.
func (s *ReviewService) StartReview(submissionID int64, deadline *time.Time, actorOID string) (*models.Submission, error) {
	submission, err := s.getSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if submission.GovernanceStatus != models.GovernanceStatusNotStarted {
		return nil, conflictf("submission %d is %s, review can only start from not-started", submissionID, submission.GovernanceStatus)
	}
	if submission.GovernanceBoardID == nil {
		return nil, validationf("submission %d has no board assigned", submissionID)
	}
	if deadline != nil && !deadline.After(time.Now()) {
		return nil, validationf("vote deadline must be in the future")
	}

	published, err := s.criteriaRepo.GetPublished(*submission.GovernanceBoardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get published criteria: %w", err)
	}
	if published == nil {
		return nil, conflictf("board %d has no published criteria version", *submission.GovernanceBoardID)
	}

	changed, err := s.submissionRepo.StartReview(submissionID, deadline)
	if err != nil {
		return nil, fmt.Errorf("failed to start review: %w", err)
	}
	if !changed {
		return nil, conflictf("submission %d changed state concurrently", submissionID)
	}

	s.auditService.Log(actorOID, "start_review", "submission", fmt.Sprintf("%d", submissionID), models.GovernanceStatusNotStarted, models.GovernanceStatusInReview)
	s.notifyReviewStarted(submission, deadline)
	return s.getSubmission(submissionID)
}

// VoteInput is one voter's scores for a submission
type VoteInput struct {
	Scores           map[string]int `json:"scores"`
	Comment          *string        `json:"comment,omitempty"`
	ConflictDeclared bool           `json:"conflict_declared"`
}

// SubmitVote records or replaces a board member's vote and refreshes the
// running priority score
func (s *ReviewService) SubmitVote(submissionID int64, voterOID string, input VoteInput) (*models.Vote, error) {
	submission, err := s.getSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if submission.GovernanceStatus != models.GovernanceStatusInReview {
		return nil, conflictf("submission %d is not in review", submissionID)
	}
	if s.cfg.EnforceVoteDeadline && submission.VoteDeadlineAt != nil && time.Now().After(*submission.VoteDeadlineAt) {
		return nil, conflictf("voting deadline for submission %d has passed", submissionID)
	}

	member, err := s.membershipRepo.GetMembership(*submission.GovernanceBoardID, voterOID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if member == nil || !member.EligibleAt(time.Now()) {
		return nil, forbiddenf("user %s is not an eligible voter on board %d", voterOID, *submission.GovernanceBoardID)
	}

	published, err := s.criteriaRepo.GetPublished(*submission.GovernanceBoardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get published criteria: %w", err)
	}
	if published == nil {
		return nil, conflictf("board %d has no published criteria version", *submission.GovernanceBoardID)
	}

	if err := validateScores(input.Scores, published.EnabledCriteria()); err != nil {
		return nil, err
	}

	vote := &models.Vote{
		SubmissionID:     submissionID,
		VoterOID:         voterOID,
		Scores:           input.Scores,
		ConflictDeclared: input.ConflictDeclared,
	}

	if input.Comment != nil && *input.Comment != "" {
		if s.secureStore.Enabled() {
			recordID, err := s.secureStore.Seal("vote_comment", fmt.Sprintf("submission:%d:voter:%s", submissionID, voterOID), *input.Comment)
			if err != nil {
				return nil, fmt.Errorf("failed to encrypt comment: %w", err)
			}
			vote.EncryptedCommentID = &recordID
		} else {
			vote.Comment = input.Comment
		}
	}

	if err := s.voteRepo.Upsert(vote); err != nil {
		return nil, fmt.Errorf("failed to save vote: %w", err)
	}

	if err := s.refreshPriorityScore(submissionID, published); err != nil {
		slog.Warn("Failed to refresh priority score", "submission_id", submissionID, "error", err)
	}

	s.auditService.Log(voterOID, "vote", "submission", fmt.Sprintf("%d", submissionID), nil, vote.Scores)
	vote.Comment = input.Comment
	return vote, nil
}

// DecisionInput is a chair's decision on a reviewed submission
type DecisionInput struct {
	Decision string  `json:"decision"`
	Reason   *string `json:"reason,omitempty"`
}

// Decide records the board chair's decision, freezing the priority score. The
// decided state is terminal.
func (s *ReviewService) Decide(submissionID int64, deciderOID string, input DecisionInput) (*models.Submission, error) {
	switch input.Decision {
	case models.DecisionApprovedNow, models.DecisionApprovedBacklog, models.DecisionNeedsInfo, models.DecisionRejected:
	default:
		return nil, validationf("decision must be one of approved-now, approved-backlog, needs-info, rejected")
	}

	submission, err := s.getSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if submission.GovernanceStatus == models.GovernanceStatusDecided {
		return nil, conflictf("submission %d is already decided", submissionID)
	}
	if submission.GovernanceStatus != models.GovernanceStatusInReview {
		return nil, conflictf("submission %d is not in review", submissionID)
	}

	member, err := s.membershipRepo.GetMembership(*submission.GovernanceBoardID, deciderOID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if member == nil || !member.EligibleAt(time.Now()) || member.Role != models.MemberRoleChair {
		return nil, forbiddenf("only an active board chair can record a decision")
	}

	summary, err := s.ScoreSummary(submission)
	if err != nil {
		return nil, err
	}
	if s.cfg.DecisionRequiresQuorum && !summary.QuorumMet {
		return nil, conflictf("quorum not met: %d of %d required votes", summary.VoteCount, summary.RequiredVotes)
	}

	var reason *string
	var encryptedReasonID *int64
	if input.Reason != nil && *input.Reason != "" {
		if s.secureStore.Enabled() {
			recordID, err := s.secureStore.Seal("decision_reason", fmt.Sprintf("submission:%d", submissionID), *input.Reason)
			if err != nil {
				return nil, fmt.Errorf("failed to encrypt reason: %w", err)
			}
			encryptedReasonID = &recordID
		} else {
			reason = input.Reason
		}
	}

	changed, err := s.submissionRepo.Decide(submissionID, input.Decision, reason, encryptedReasonID, summary.PriorityScore, deciderOID)
	if err != nil {
		return nil, fmt.Errorf("failed to record decision: %w", err)
	}
	if !changed {
		return nil, conflictf("submission %d changed state concurrently", submissionID)
	}

	s.auditService.Log(deciderOID, "decide", "submission", fmt.Sprintf("%d", submissionID), models.GovernanceStatusInReview, input.Decision)
	s.notifyDecisionRecorded(submission, input.Decision)
	return s.getSubmission(submissionID)
}

// ScoreSummary aggregates votes into the participation and quorum picture
func (s *ReviewService) ScoreSummary(submission *models.Submission) (*models.ScoreSummary, error) {
	if submission.GovernanceBoardID == nil {
		return &models.ScoreSummary{}, nil
	}

	votes, err := s.voteRepo.ListBySubmission(submission.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	eligible, err := s.membershipRepo.CountEligibleVoters(*submission.GovernanceBoardID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to count eligible voters: %w", err)
	}

	summary := &models.ScoreSummary{
		VoteCount:          len(votes),
		EligibleVoterCount: eligible,
		RequiredVotes:      requiredVotes(s.cfg.QuorumFraction, eligible),
	}
	summary.QuorumMet = summary.VoteCount >= summary.RequiredVotes
	summary.ParticipationPct = participationPct(len(votes), eligible)
	if submission.VoteDeadlineAt != nil {
		summary.DeadlinePassed = time.Now().After(*submission.VoteDeadlineAt)
	}

	if submission.GovernanceStatus == models.GovernanceStatusDecided {
		summary.PriorityScore = submission.PriorityScore
		return summary, nil
	}

	if len(votes) > 0 {
		published, err := s.criteriaRepo.GetPublished(*submission.GovernanceBoardID)
		if err != nil {
			return nil, fmt.Errorf("failed to get published criteria: %w", err)
		}
		if published != nil {
			score := priorityScore(votes, published.EnabledCriteria(), s.cfg.ScorePrecision)
			summary.PriorityScore = &score
		}
	}

	return summary, nil
}

// GetReviewDetails assembles the full governance picture of a submission for
// the given viewer
func (s *ReviewService) GetReviewDetails(submissionID int64, viewerOID string) (*models.ReviewDetails, error) {
	submission, err := s.getSubmission(submissionID)
	if err != nil {
		return nil, err
	}

	details := &models.ReviewDetails{
		Submission: *submission,
		Votes:      []models.Vote{},
	}

	form, err := s.formRepo.GetByID(submission.FormID)
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	details.Form = form

	if submission.GovernanceStatus == models.GovernanceStatusSkipped {
		return details, nil
	}

	if submission.GovernanceBoardID != nil {
		board, err := s.boardRepo.GetByID(*submission.GovernanceBoardID)
		if err != nil {
			return nil, fmt.Errorf("failed to get board: %w", err)
		}
		details.Board = board

		published, err := s.criteriaRepo.GetPublished(*submission.GovernanceBoardID)
		if err != nil {
			return nil, fmt.Errorf("failed to get published criteria: %w", err)
		}
		details.CriteriaVersion = published

		member, err := s.membershipRepo.GetMembership(*submission.GovernanceBoardID, viewerOID)
		if err != nil {
			return nil, fmt.Errorf("failed to get membership: %w", err)
		}
		if member != nil && member.EligibleAt(time.Now()) {
			details.Eligibility.CanVote = submission.GovernanceStatus == models.GovernanceStatusInReview
			details.Eligibility.CanDecide = member.Role == models.MemberRoleChair && submission.GovernanceStatus == models.GovernanceStatusInReview
		}
	}

	votes, err := s.voteRepo.ListBySubmission(submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	for i := range votes {
		if votes[i].EncryptedCommentID != nil && s.secureStore.Enabled() {
			plaintext, err := s.secureStore.Unseal(*votes[i].EncryptedCommentID)
			if err != nil {
				slog.Warn("Failed to decrypt vote comment", "vote_id", votes[i].ID, "error", err)
				continue
			}
			votes[i].Comment = &plaintext
		}
	}
	details.Votes = votes

	if submission.EncryptedReasonID != nil && s.secureStore.Enabled() {
		plaintext, err := s.secureStore.Unseal(*submission.EncryptedReasonID)
		if err != nil {
			slog.Warn("Failed to decrypt decision reason", "submission_id", submissionID, "error", err)
		} else {
			details.Submission.GovernanceReason = &plaintext
		}
	}

	summary, err := s.ScoreSummary(submission)
	if err != nil {
		return nil, err
	}
	details.ScoreSummary = *summary

	return details, nil
}

// ListQueue returns the governance queue projection
func (s *ReviewService) ListQueue(filter repository.QueueFilter) (*models.QueuePage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.submissionRepo.ListGovernanceQueue(filter)
}

func (s *ReviewService) getSubmission(id int64) (*models.Submission, error) {
	submission, err := s.submissionRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, notFoundf("submission %d not found", id)
	}
	return submission, nil
}

func (s *ReviewService) refreshPriorityScore(submissionID int64, published *models.CriteriaVersion) error {
	votes, err := s.voteRepo.ListBySubmission(submissionID)
	if err != nil {
		return err
	}
	if len(votes) == 0 {
		return s.submissionRepo.UpdatePriorityScore(submissionID, nil)
	}
	score := priorityScore(votes, published.EnabledCriteria(), s.cfg.ScorePrecision)
	return s.submissionRepo.UpdatePriorityScore(submissionID, &score)
}

func (s *ReviewService) notifyReviewStarted(submission *models.Submission, deadline *time.Time) {
	if s.emailService == nil || submission.GovernanceBoardID == nil {
		return
	}
	voters, err := s.membershipRepo.ListEligibleVoters(*submission.GovernanceBoardID, time.Now())
	if err != nil {
		slog.Warn("Failed to list voters for notification", "error", err)
		return
	}
	for _, voter := range voters {
		if voter.Email == "" {
			continue
		}
		if err := s.emailService.SendReviewStarted(voter.Email, submission.Title, deadline); err != nil {
			slog.Warn("Failed to send review started email", "recipient", voter.Email, "error", err)
		}
	}
}

func (s *ReviewService) notifyDecisionRecorded(submission *models.Submission, decision string) {
	if s.emailService == nil {
		return
	}
	creator, err := s.userRepo.GetByOID(submission.CreatedByOID)
	if err != nil || creator == nil || creator.Email == "" {
		return
	}
	if err := s.emailService.SendDecisionRecorded(creator.Email, submission.Title, decision); err != nil {
		slog.Warn("Failed to send decision email", "submission_id", submission.ID, "error", err)
	}
}

// validateScores checks a vote against the enabled criteria: every enabled
// criterion scored, every score in 1..5, no unknown criteria
func validateScores(scores map[string]int, enabled []models.Criterion) error {
	if len(scores) == 0 {
		return validationf("scores are required")
	}

	known := map[string]bool{}
	for _, c := range enabled {
		known[c.ID] = true
		score, ok := scores[c.ID]
		if !ok {
			return validationf("missing score for criterion %q", c.Name)
		}
		if score < 1 || score > 5 {
			return validationf("score for criterion %q must be between 1 and 5", c.Name)
		}
	}
	for id := range scores {
		if !known[id] {
			return validationf("unknown criterion %q", id)
		}
	}
	return nil
}

// priorityScore is the mean over voters of the weighted score
// sum(weight/100 * score), rounded to the configured precision
func priorityScore(votes []models.Vote, enabled []models.Criterion, precision int) float64 {
	if len(votes) == 0 {
		return 0
	}

	var total float64
	for _, vote := range votes {
		var weighted float64
		for _, c := range enabled {
			weighted += c.Weight / 100 * float64(vote.Scores[c.ID])
		}
		total += weighted
	}

	mean := total / float64(len(votes))
	factor := math.Pow(10, float64(precision))
	return math.Round(mean*factor) / factor
}

// requiredVotes is the quorum threshold: at least one vote, otherwise the
// configured fraction of eligible voters rounded up
func requiredVotes(fraction float64, eligible int) int {
	required := int(math.Ceil(fraction * float64(eligible)))
	if required < 1 {
		required = 1
	}
	return required
}

func participationPct(voteCount, eligible int) int {
	if eligible <= 0 {
		return 0
	}
	return int(math.Round(float64(voteCount) * 100 / float64(eligible)))
}
