package service

import (
	"errors"
	"testing"

	"dha-governance/internal/models"
)

func twoCriteria() []models.Criterion {
	return []models.Criterion{
		{ID: "strategic-fit", Name: "Strategic fit", Weight: 70, Enabled: true, SortOrder: 1},
		{ID: "feasibility", Name: "Feasibility", Weight: 30, Enabled: true, SortOrder: 2},
	}
}

func TestPriorityScoreWeightedMean(t *testing.T) {
	criteria := twoCriteria()

	// First voter: 0.7*5 + 0.3*1 = 3.8, second voter: 0.7*1 + 0.3*5 = 2.2
	votes := []models.Vote{
		{Scores: map[string]int{"strategic-fit": 5, "feasibility": 1}},
		{Scores: map[string]int{"strategic-fit": 1, "feasibility": 5}},
	}

	score := priorityScore(votes, criteria, 2)
	if score != 3.00 {
		t.Errorf("Expected priority score 3.00, got %v", score)
	}
}

func TestPriorityScoreSingleVoter(t *testing.T) {
	criteria := twoCriteria()

	votes := []models.Vote{
		{Scores: map[string]int{"strategic-fit": 5, "feasibility": 1}},
	}

	score := priorityScore(votes, criteria, 2)
	if score != 3.8 {
		t.Errorf("Expected priority score 3.8, got %v", score)
	}
}

func TestPriorityScoreNoVotes(t *testing.T) {
	score := priorityScore(nil, twoCriteria(), 2)
	if score != 0 {
		t.Errorf("Expected 0 for no votes, got %v", score)
	}
}

func TestPriorityScoreRounding(t *testing.T) {
	criteria := []models.Criterion{
		{ID: "a", Name: "A", Weight: 100, Enabled: true},
	}

	// Mean of 3, 4, 3 is 3.333...
	votes := []models.Vote{
		{Scores: map[string]int{"a": 3}},
		{Scores: map[string]int{"a": 4}},
		{Scores: map[string]int{"a": 3}},
	}

	score := priorityScore(votes, criteria, 2)
	if score != 3.33 {
		t.Errorf("Expected 3.33 at precision 2, got %v", score)
	}

	score = priorityScore(votes, criteria, 1)
	if score != 3.3 {
		t.Errorf("Expected 3.3 at precision 1, got %v", score)
	}
}

func TestPriorityScoreIgnoresDisabledCriteria(t *testing.T) {
	// The caller passes only enabled criteria; scores for other ids do not count
	criteria := []models.Criterion{
		{ID: "a", Name: "A", Weight: 100, Enabled: true},
	}

	votes := []models.Vote{
		{Scores: map[string]int{"a": 4, "legacy": 1}},
	}

	score := priorityScore(votes, criteria, 2)
	if score != 4.0 {
		t.Errorf("Expected 4.0, got %v", score)
	}
}

func TestRequiredVotes(t *testing.T) {
	tests := []struct {
		fraction float64
		eligible int
		expected int
	}{
		{0.5, 4, 2},
		{0.5, 5, 3},
		{0.5, 1, 1},
		{0.5, 0, 1},
		{0.0, 10, 1},
		{1.0, 3, 3},
		{0.34, 3, 2},
	}

	for _, tt := range tests {
		got := requiredVotes(tt.fraction, tt.eligible)
		if got != tt.expected {
			t.Errorf("requiredVotes(%v, %d): expected %d, got %d", tt.fraction, tt.eligible, tt.expected, got)
		}
	}
}

func TestParticipationPct(t *testing.T) {
	tests := []struct {
		votes    int
		eligible int
		expected int
	}{
		{2, 3, 67},
		{1, 3, 33},
		{1, 6, 17},
		{3, 3, 100},
		{0, 4, 0},
		{0, 0, 0},
	}

	for _, tt := range tests {
		got := participationPct(tt.votes, tt.eligible)
		if got != tt.expected {
			t.Errorf("participationPct(%d, %d): expected %d, got %d", tt.votes, tt.eligible, tt.expected, got)
		}
	}
}

func TestValidateScores(t *testing.T) {
	criteria := twoCriteria()

	// Valid vote
	err := validateScores(map[string]int{"strategic-fit": 5, "feasibility": 1}, criteria)
	if err != nil {
		t.Errorf("Expected valid scores, got error: %v", err)
	}

	// Empty scores
	err = validateScores(nil, criteria)
	if err == nil {
		t.Error("Should reject empty scores")
	}

	// Missing criterion
	err = validateScores(map[string]int{"strategic-fit": 5}, criteria)
	if err == nil {
		t.Error("Should reject a vote missing an enabled criterion")
	}

	// Score out of range
	err = validateScores(map[string]int{"strategic-fit": 6, "feasibility": 1}, criteria)
	if err == nil {
		t.Error("Should reject a score above 5")
	}
	err = validateScores(map[string]int{"strategic-fit": 0, "feasibility": 1}, criteria)
	if err == nil {
		t.Error("Should reject a score below 1")
	}

	// Unknown criterion
	err = validateScores(map[string]int{"strategic-fit": 5, "feasibility": 1, "bogus": 3}, criteria)
	if err == nil {
		t.Error("Should reject a score for an unknown criterion")
	}
}

func TestValidateScoresErrorsAreValidation(t *testing.T) {
	err := validateScores(nil, twoCriteria())
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected a validation error, got %v", err)
	}
}
