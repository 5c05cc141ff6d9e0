package workflow

import (
	"sort"
	"time"
)

// UrgencyTier buckets an obligation by how close its next review is.
type UrgencyTier string

const (
	TierOverdue  UrgencyTier = "OVERDUE"
	TierDueSoon  UrgencyTier = "DUE_SOON"
	TierUpcoming UrgencyTier = "UPCOMING"
	TierCurrent  UrgencyTier = "CURRENT"
)

// DefaultReviewPeriodDays applies when an obligation has no period on file.
const DefaultReviewPeriodDays = 365

// MissingReviewDateDays is the sentinel days-until-due for an obligation
// with no next review date. No date on file is treated as most urgent;
// that is a deliberate fail-safe.
const MissingReviewDateDays = -999

// Urgency is the due-date classification of one obligation.
type Urgency struct {
	DaysUntilDue int
	Tier         UrgencyTier
}

// ClassifyUrgency computes days-until-due and the urgency tier at
// calendar-day granularity. Thresholds: overdue below 0, due soon through
// 30 days, upcoming through 90, current beyond.
func ClassifyUrgency(nextReviewDate *time.Time, today time.Time) Urgency {
	if nextReviewDate == nil {
		return Urgency{DaysUntilDue: MissingReviewDateDays, Tier: TierOverdue}
	}
	days := int(dateOnly(*nextReviewDate).Sub(dateOnly(today)).Hours() / 24)
	switch {
	case days < 0:
		return Urgency{DaysUntilDue: days, Tier: TierOverdue}
	case days <= 30:
		return Urgency{DaysUntilDue: days, Tier: TierDueSoon}
	case days <= 90:
		return Urgency{DaysUntilDue: days, Tier: TierUpcoming}
	default:
		return Urgency{DaysUntilDue: days, Tier: TierCurrent}
	}
}

// ComputeNextReviewDate returns lastReviewDate plus the review period,
// defaulting the period when unset. Pure calendar arithmetic.
func ComputeNextReviewDate(lastReviewDate time.Time, reviewPeriodDays int) time.Time {
	if reviewPeriodDays <= 0 {
		reviewPeriodDays = DefaultReviewPeriodDays
	}
	return lastReviewDate.AddDate(0, 0, reviewPeriodDays)
}

// DueItem pairs an entity with its days-until-due for urgency ordering.
type DueItem struct {
	EntityID     string
	DaysUntilDue int
}

// SortDueItems orders obligations most-urgent-first: ascending
// days-until-due, ties broken by entity id for determinism.
func SortDueItems(items []DueItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].DaysUntilDue != items[j].DaysUntilDue {
			return items[i].DaysUntilDue < items[j].DaysUntilDue
		}
		return items[i].EntityID < items[j].EntityID
	})
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
