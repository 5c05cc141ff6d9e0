package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyUrgencyThresholds(t *testing.T) {
	today := time.Date(2025, time.March, 1, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		next     *time.Time
		wantDays int
		wantTier UrgencyTier
	}{
		{"missing date fails safe", nil, MissingReviewDateDays, TierOverdue},
		{"yesterday", datePtr(today.AddDate(0, 0, -1)), -1, TierOverdue},
		{"long overdue", datePtr(today.AddDate(0, 0, -40)), -40, TierOverdue},
		{"due today", datePtr(today), 0, TierDueSoon},
		{"in fifteen days", datePtr(today.AddDate(0, 0, 15)), 15, TierDueSoon},
		{"boundary thirty", datePtr(today.AddDate(0, 0, 30)), 30, TierDueSoon},
		{"boundary thirty one", datePtr(today.AddDate(0, 0, 31)), 31, TierUpcoming},
		{"boundary ninety", datePtr(today.AddDate(0, 0, 90)), 90, TierUpcoming},
		{"beyond ninety", datePtr(today.AddDate(0, 0, 91)), 91, TierCurrent},
		{"next year", datePtr(today.AddDate(1, 0, 0)), 365, TierCurrent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyUrgency(tt.next, today)
			assert.Equal(t, tt.wantDays, got.DaysUntilDue)
			assert.Equal(t, tt.wantTier, got.Tier)
		})
	}
}

func TestClassifyUrgencyIgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2025, time.March, 1, 23, 59, 0, 0, time.UTC)
	next := time.Date(2025, time.March, 2, 0, 1, 0, 0, time.UTC)

	got := ClassifyUrgency(&next, today)
	assert.Equal(t, 1, got.DaysUntilDue)
}

func TestComputeNextReviewDate(t *testing.T) {
	last := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, last.AddDate(0, 0, 90), ComputeNextReviewDate(last, 90))
	assert.Equal(t, last.AddDate(0, 0, 365), ComputeNextReviewDate(last, 0))
	assert.Equal(t, last.AddDate(0, 0, 365), ComputeNextReviewDate(last, -10))
}

func TestSortDueItemsMostUrgentFirst(t *testing.T) {
	items := []DueItem{
		{EntityID: "c", DaysUntilDue: 12},
		{EntityID: "b", DaysUntilDue: -3},
		{EntityID: "a", DaysUntilDue: 12},
		{EntityID: "d", DaysUntilDue: MissingReviewDateDays},
	}

	SortDueItems(items)

	assert.Equal(t, "d", items[0].EntityID)
	assert.Equal(t, "b", items[1].EntityID)
	// Ties break by entity id for determinism.
	assert.Equal(t, "a", items[2].EntityID)
	assert.Equal(t, "c", items[3].EntityID)

	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, items[i-1].DaysUntilDue, items[i].DaysUntilDue)
	}
}

func datePtr(t time.Time) *time.Time {
	return &t
}
