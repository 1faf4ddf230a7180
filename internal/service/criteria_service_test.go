package service

import (
	"errors"
	"testing"

	"dha-governance/internal/models"
)

func TestNormalizeCriteriaDefaults(t *testing.T) {
	inputs := []CriterionInput{
		{Name: "Strategic fit", Weight: 70},
		{Name: "Feasibility", Weight: 30},
	}

	criteria, err := normalizeCriteria(inputs)
	if err != nil {
		t.Fatalf("Failed to normalize criteria: %v", err)
	}

	if len(criteria) != 2 {
		t.Fatalf("Expected 2 criteria, got %d", len(criteria))
	}

	for i, c := range criteria {
		if c.ID == "" {
			t.Errorf("Criterion %d should get a generated id", i)
		}
		if !c.Enabled {
			t.Errorf("Criterion %d should default to enabled", i)
		}
		if c.SortOrder != i+1 {
			t.Errorf("Criterion %d: expected sort order %d, got %d", i, i+1, c.SortOrder)
		}
	}
}

func TestNormalizeCriteriaKeepsExplicitValues(t *testing.T) {
	disabled := false
	sortOrder := 7
	inputs := []CriterionInput{
		{ID: "custom-id", Name: "  Padded name  ", Weight: 50, Enabled: &disabled, SortOrder: &sortOrder},
	}

	criteria, err := normalizeCriteria(inputs)
	if err != nil {
		t.Fatalf("Failed to normalize criteria: %v", err)
	}

	c := criteria[0]
	if c.ID != "custom-id" {
		t.Errorf("Expected id custom-id, got %q", c.ID)
	}
	if c.Name != "Padded name" {
		t.Errorf("Expected trimmed name, got %q", c.Name)
	}
	if c.Enabled {
		t.Error("Explicit enabled=false should be kept")
	}
	if c.SortOrder != 7 {
		t.Errorf("Expected sort order 7, got %d", c.SortOrder)
	}
}

func TestNormalizeCriteriaRejectsInvalidInput(t *testing.T) {
	// Empty set
	if _, err := normalizeCriteria(nil); !errors.Is(err, ErrValidation) {
		t.Errorf("Should reject an empty criteria set, got %v", err)
	}

	// Missing name
	if _, err := normalizeCriteria([]CriterionInput{{Name: "  ", Weight: 50}}); err == nil {
		t.Error("Should reject a blank name")
	}

	// Weight out of range
	if _, err := normalizeCriteria([]CriterionInput{{Name: "A", Weight: 101}}); err == nil {
		t.Error("Should reject weight above 100")
	}
	if _, err := normalizeCriteria([]CriterionInput{{Name: "A", Weight: -1}}); err == nil {
		t.Error("Should reject negative weight")
	}

	// Duplicate ids
	_, err := normalizeCriteria([]CriterionInput{
		{ID: "dup", Name: "A", Weight: 50},
		{ID: "dup", Name: "B", Weight: 50},
	})
	if err == nil {
		t.Error("Should reject duplicate ids")
	}
}

func TestValidatePublishable(t *testing.T) {
	// Enabled weights sum to 100
	err := validatePublishable([]models.Criterion{
		{ID: "a", Name: "A", Weight: 70, Enabled: true},
		{ID: "b", Name: "B", Weight: 30, Enabled: true},
	})
	if err != nil {
		t.Errorf("Should publish with weights totaling 100, got %v", err)
	}

	// Disabled criteria do not count toward the total
	err = validatePublishable([]models.Criterion{
		{ID: "a", Name: "A", Weight: 100, Enabled: true},
		{ID: "b", Name: "B", Weight: 40, Enabled: false},
	})
	if err != nil {
		t.Errorf("Disabled criteria should not count, got %v", err)
	}

	// Wrong total
	err = validatePublishable([]models.Criterion{
		{ID: "a", Name: "A", Weight: 70, Enabled: true},
		{ID: "b", Name: "B", Weight: 20, Enabled: true},
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Should reject weights totaling 90, got %v", err)
	}

	// No enabled criteria
	err = validatePublishable([]models.Criterion{
		{ID: "a", Name: "A", Weight: 100, Enabled: false},
	})
	if err == nil {
		t.Error("Should reject a version with no enabled criteria")
	}

	// Fractional weights within tolerance
	err = validatePublishable([]models.Criterion{
		{ID: "a", Name: "A", Weight: 33.33, Enabled: true},
		{ID: "b", Name: "B", Weight: 33.33, Enabled: true},
		{ID: "c", Name: "C", Weight: 33.34, Enabled: true},
	})
	if err != nil {
		t.Errorf("Should accept 33.33+33.33+33.34, got %v", err)
	}
}
