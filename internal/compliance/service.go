package compliance

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hsse-suite/hsse-portal/hsse-portal-backend/internal/archive"
	"hsse-suite/hsse-portal/hsse-portal-backend/internal/audit"
	"hsse-suite/hsse-portal/hsse-portal-backend/pkg/workflow"
)

// ErrStaleSnapshot is returned when the obligation changed between read and
// write; the caller re-fetches and retries.
var ErrStaleSnapshot = errors.New("obligation changed since it was read")

// Actor is the resolved identity performing an action.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// ReviewRequest is the input to conducting one compliance review.
type ReviewRequest struct {
	Actor           Actor
	Outcome         string // new compliance status, empty keeps the current one
	Comment         string
	ArchiveEvidence bool
}

// Dispatcher delivers notify intents produced by an accepted transition.
type Dispatcher interface {
	Dispatch(ctx context.Context, effects []workflow.SideEffect) error
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Obligation, error)
	Get(ctx context.Context, id uuid.UUID) (*Obligation, error)

	// Register returns the legal register sorted most-urgent-first.
	Register(ctx context.Context, category *string) ([]RegisterEntry, error)

	ConductReview(ctx context.Context, id uuid.UUID, req ReviewRequest) (*workflow.Result, error)
	History(ctx context.Context, id uuid.UUID) ([]audit.Entry, error)
}

type CreateRequest struct {
	Reference        string
	Title            string
	Category         string
	Status           string
	OwnerID          uuid.UUID
	NextReviewDate   *time.Time
	ReviewPeriodDays int
}

type complianceService struct {
	repo       Repository
	recorder   audit.Recorder
	dispatcher Dispatcher
	archiver   archive.Archiver
	logger     *zap.Logger
}

func NewService(repo Repository, recorder audit.Recorder, dispatcher Dispatcher, archiver archive.Archiver, logger *zap.Logger) Service {
	return &complianceService{
		repo:       repo,
		recorder:   recorder,
		dispatcher: dispatcher,
		archiver:   archiver,
		logger:     logger,
	}
}

func (s *complianceService) Create(ctx context.Context, req CreateRequest) (*Obligation, error) {
	def := workflow.MustDefinition(workflow.KindObligationReview)
	status := req.Status
	if status == "" {
		status = def.InitialStatus()
	}
	ob := &Obligation{
		ID:               uuid.New(),
		Reference:        req.Reference,
		Title:            req.Title,
		Category:         req.Category,
		Status:           status,
		OwnerID:          req.OwnerID,
		NextReviewDate:   req.NextReviewDate,
		ReviewPeriodDays: req.ReviewPeriodDays,
	}
	if err := s.repo.Create(ctx, ob); err != nil {
		return nil, err
	}
	return ob, nil
}

func (s *complianceService) Get(ctx context.Context, id uuid.UUID) (*Obligation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *complianceService) Register(ctx context.Context, category *string) ([]RegisterEntry, error) {
	obs, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	entries := make([]RegisterEntry, 0, len(obs))
	for _, ob := range obs {
		urgency := workflow.ClassifyUrgency(ob.NextReviewDate, today)
		entries = append(entries, RegisterEntry{
			Obligation:   ob,
			DaysUntilDue: urgency.DaysUntilDue,
			Urgency:      urgency.Tier,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].DaysUntilDue != entries[j].DaysUntilDue {
			return entries[i].DaysUntilDue < entries[j].DaysUntilDue
		}
		return entries[i].ID.String() < entries[j].ID.String()
	})
	return entries, nil
}

// ConductReview runs the cyclic review transition: the engine validates
// action and role, proposes the next review date and any archival, and the
// service persists the outcome and carries the intents to the collaborators.
func (s *complianceService) ConductReview(ctx context.Context, id uuid.UUID, req ReviewRequest) (*workflow.Result, error) {
	ob, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	snap := workflow.Snapshot{
		ID:               ob.ID,
		Kind:             workflow.KindObligationReview,
		CurrentStatus:    ob.Status,
		CreatedBy:        ob.OwnerID,
		LastReviewDate:   ob.LastReviewDate,
		NextReviewDate:   ob.NextReviewDate,
		ReviewPeriodDays: ob.ReviewPeriodDays,
	}
	result := workflow.ApplyTransition(workflow.MustDefinition(workflow.KindObligationReview), snap, workflow.Request{
		ActorRole:        req.Actor.Role,
		Action:           workflow.ActionConductReview,
		Comment:          req.Comment,
		Outcome:          req.Outcome,
		ArchivePriorYear: req.ArchiveEvidence,
	}, now)
	if !result.Accepted {
		return &result, nil
	}

	readStatus := ob.Status
	ob.Status = result.NewStatus
	ob.LastReviewDate = &now
	for _, eff := range result.SideEffects {
		if eff.Type == workflow.EffectScheduleNextReview {
			next := eff.NextDate
			ob.NextReviewDate = &next
		}
	}

	ok, err := s.repo.CompleteReviewIf(ctx, ob, readStatus)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStaleSnapshot
	}

	if err := s.recorder.Append(ctx, workflow.KindObligationReview, *result.AuditEntry); err != nil {
		return nil, err
	}
	if err := s.dispatcher.Dispatch(ctx, result.SideEffects); err != nil {
		return nil, err
	}
	for _, eff := range result.SideEffects {
		if eff.Type == workflow.EffectArchiveEvidence {
			if _, err := s.archiver.ArchiveEvidence(ctx, eff.EntityID, eff.ArchiveYear); err != nil {
				// The review itself stands; archival can be re-run.
				s.logger.Warn("evidence archival failed",
					zap.String("obligation_id", eff.EntityID.String()),
					zap.Int("year", eff.ArchiveYear),
					zap.Error(err))
			}
		}
	}
	return &result, nil
}

func (s *complianceService) History(ctx context.Context, id uuid.UUID) ([]audit.Entry, error) {
	return s.recorder.ListByEntity(ctx, id)
}
