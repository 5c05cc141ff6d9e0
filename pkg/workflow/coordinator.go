package workflow

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReasonCode explains why a transition request was not accepted. Every
// rejection is a normal outcome representable in the result, never an error.
type ReasonCode string

const (
	ReasonInvalidTransition ReasonCode = "INVALID_TRANSITION"
	ReasonCommentRequired   ReasonCode = "COMMENT_REQUIRED"
	ReasonNotAuthorized     ReasonCode = "NOT_AUTHORIZED"
)

// Snapshot is the caller-owned view of the entity under transition. The
// engine only reads it; persistence of the proposed new status, keyed on
// CurrentStatus for optimistic concurrency, belongs to the host.
type Snapshot struct {
	ID               uuid.UUID
	Kind             Kind
	CurrentStatus    string
	CreatedBy        uuid.UUID
	LastReviewDate   *time.Time
	NextReviewDate   *time.Time
	ReviewPeriodDays int
}

// Request describes a single action attempt against an entity.
type Request struct {
	ActorRole string
	Action    Action
	Comment   string

	// Outcome optionally reclassifies a cyclic workflow's status as part of
	// conducting a review. It must be a member of the definition's status
	// set; it is ignored for non-review actions.
	Outcome string

	// ArchivePriorYear opts in to archiving the previous year's evidence
	// when conducting a review.
	ArchivePriorYear bool
}

// SideEffectType tags a side-effect intent.
type SideEffectType string

const (
	EffectNotify             SideEffectType = "notify"
	EffectArchiveEvidence    SideEffectType = "archive_evidence"
	EffectScheduleNextReview SideEffectType = "schedule_next_review"
)

// Notification template keys emitted by the coordinator.
const (
	TemplateReviewRequested = "review_requested"
	TemplateApproved        = "approved"
	TemplateRejected        = "rejected"
)

// SideEffect is a data record describing an effect for an external
// collaborator to carry out. The engine proposes effects, it never
// performs them.
type SideEffect struct {
	Type SideEffectType

	// Notify fields. Recipient is a role name or a user id.
	Recipient   string
	TemplateKey string

	EntityID uuid.UUID

	// ArchiveEvidence field.
	ArchiveYear int

	// ScheduleNextReview field.
	NextDate time.Time
}

// AuditEntry is the append-only record of one accepted transition.
type AuditEntry struct {
	EntityID   uuid.UUID
	ActorRole  string
	FromStatus string
	ToStatus   string
	Action     Action
	Comment    string
	Timestamp  time.Time
}

// Result is the outcome of a transition attempt. When not accepted,
// NewStatus equals the snapshot's current status and ReasonCode is set.
type Result struct {
	Accepted    bool
	ReasonCode  ReasonCode
	NewStatus   string
	SideEffects []SideEffect
	AuditEntry  *AuditEntry
}

// ApplyTransition validates and applies a single state transition against a
// workflow definition. It is a pure function of its arguments: identical
// inputs, including now, always yield an identical result.
func ApplyTransition(def *Definition, snap Snapshot, req Request, now time.Time) Result {
	rejected := Result{Accepted: false, NewStatus: snap.CurrentStatus}

	tr, ok := def.CanTransition(snap.CurrentStatus, req.Action)
	if !ok {
		rejected.ReasonCode = ReasonInvalidTransition
		return rejected
	}

	// A rejection must always carry a reason. Silent rejections are
	// forbidden regardless of who asks.
	if req.Action == ActionReject && strings.TrimSpace(req.Comment) == "" {
		rejected.ReasonCode = ReasonCommentRequired
		return rejected
	}

	if !Authorize(tr.RequiredRole, req.ActorRole) {
		rejected.ReasonCode = ReasonNotAuthorized
		return rejected
	}

	newStatus := tr.To
	if req.Action == ActionConductReview && req.Outcome != "" {
		if !def.HasStatus(req.Outcome) {
			rejected.ReasonCode = ReasonInvalidTransition
			return rejected
		}
		newStatus = req.Outcome
	}

	var effects []SideEffect
	if def.IsTerminal(newStatus) {
		template := TemplateApproved
		if newStatus == StatusRejected {
			template = TemplateRejected
		}
		effects = append(effects, SideEffect{
			Type:        EffectNotify,
			Recipient:   snap.CreatedBy.String(),
			TemplateKey: template,
			EntityID:    snap.ID,
		})
	} else if role, ok := def.NextRequiredRole(newStatus); ok {
		effects = append(effects, SideEffect{
			Type:        EffectNotify,
			Recipient:   role,
			TemplateKey: TemplateReviewRequested,
			EntityID:    snap.ID,
		})
	}

	if def.Kind == KindObligationReview && req.Action == ActionConductReview {
		period := snap.ReviewPeriodDays
		if period <= 0 {
			period = DefaultReviewPeriodDays
		}
		effects = append(effects, SideEffect{
			Type:     EffectScheduleNextReview,
			EntityID: snap.ID,
			NextDate: now.AddDate(0, 0, period),
		})
		if req.ArchivePriorYear {
			effects = append(effects, SideEffect{
				Type:        EffectArchiveEvidence,
				EntityID:    snap.ID,
				ArchiveYear: now.Year() - 1,
			})
		}
	}

	return Result{
		Accepted:    true,
		NewStatus:   newStatus,
		SideEffects: effects,
		AuditEntry: &AuditEntry{
			EntityID:   snap.ID,
			ActorRole:  req.ActorRole,
			FromStatus: snap.CurrentStatus,
			ToStatus:   newStatus,
			Action:     req.Action,
			Comment:    req.Comment,
			Timestamp:  now,
		},
	}
}
