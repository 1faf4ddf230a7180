package models

import (
	"testing"
	"time"
)

func TestBoardMemberEligibleAt(t *testing.T) {
	now := time.Now()
	from := now.Add(-48 * time.Hour)
	to := now.Add(48 * time.Hour)

	member := BoardMember{IsActive: true, EffectiveFrom: from, EffectiveTo: &to}

	if !member.EligibleAt(now) {
		t.Error("Member inside the effective window should be eligible")
	}
	if member.EligibleAt(from.Add(-time.Hour)) {
		t.Error("Member should not be eligible before effective_from")
	}
	if member.EligibleAt(to) {
		t.Error("Member should not be eligible at effective_to, the bound is exclusive")
	}
	if member.EligibleAt(to.Add(time.Hour)) {
		t.Error("Member should not be eligible after effective_to")
	}

	inactive := BoardMember{IsActive: false, EffectiveFrom: from}
	if inactive.EligibleAt(now) {
		t.Error("Inactive member should not be eligible")
	}

	openEnded := BoardMember{IsActive: true, EffectiveFrom: from}
	if !openEnded.EligibleAt(now.Add(8760 * time.Hour)) {
		t.Error("Membership without effective_to should stay eligible")
	}
}

func TestCriteriaVersionEnabledCriteria(t *testing.T) {
	version := CriteriaVersion{
		Criteria: []Criterion{
			{ID: "a", Enabled: true},
			{ID: "b", Enabled: false},
			{ID: "c", Enabled: true},
		},
	}

	enabled := version.EnabledCriteria()
	if len(enabled) != 2 {
		t.Fatalf("Expected 2 enabled criteria, got %d", len(enabled))
	}
	if enabled[0].ID != "a" || enabled[1].ID != "c" {
		t.Errorf("Enabled criteria should keep their order, got %v", enabled)
	}
}

func TestSubmissionClosed(t *testing.T) {
	if (&Submission{Status: SubmissionStatusSubmitted}).Closed() {
		t.Error("A submitted submission is still open")
	}
	if !(&Submission{Status: SubmissionStatusApproved}).Closed() {
		t.Error("An approved submission is closed")
	}
	if !(&Submission{Status: SubmissionStatusRejected}).Closed() {
		t.Error("A rejected submission is closed")
	}
}
