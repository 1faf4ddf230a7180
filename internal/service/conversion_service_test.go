package service

import (
	"testing"

	"dha-governance/internal/models"
)

func TestCanConvert(t *testing.T) {
	approvedNow := models.DecisionApprovedNow
	backlog := models.DecisionApprovedBacklog
	rejected := models.DecisionRejected

	tests := []struct {
		name       string
		submission models.Submission
		expected   bool
	}{
		{
			name:       "governance never required",
			submission: models.Submission{GovernanceRequired: false, GovernanceStatus: models.GovernanceStatusSkipped},
			expected:   true,
		},
		{
			name:       "required but not started",
			submission: models.Submission{GovernanceRequired: true, GovernanceStatus: models.GovernanceStatusNotStarted},
			expected:   false,
		},
		{
			name:       "required and in review",
			submission: models.Submission{GovernanceRequired: true, GovernanceStatus: models.GovernanceStatusInReview},
			expected:   false,
		},
		{
			name:       "decided approved-now",
			submission: models.Submission{GovernanceRequired: true, GovernanceStatus: models.GovernanceStatusDecided, GovernanceDecision: &approvedNow},
			expected:   true,
		},
		{
			name:       "decided approved-backlog",
			submission: models.Submission{GovernanceRequired: true, GovernanceStatus: models.GovernanceStatusDecided, GovernanceDecision: &backlog},
			expected:   false,
		},
		{
			name:       "decided rejected",
			submission: models.Submission{GovernanceRequired: true, GovernanceStatus: models.GovernanceStatusDecided, GovernanceDecision: &rejected},
			expected:   false,
		},
		{
			name:       "decided without a recorded decision",
			submission: models.Submission{GovernanceRequired: true, GovernanceStatus: models.GovernanceStatusDecided},
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanConvert(&tt.submission); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
