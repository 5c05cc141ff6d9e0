package records

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"hsse-suite/hsse-portal/hsse-portal-backend/internal/audit"
	"hsse-suite/hsse-portal/hsse-portal-backend/pkg/workflow"
)

// ErrStaleSnapshot is returned when the record changed between read and
// write; the caller re-fetches and retries.
var ErrStaleSnapshot = errors.New("record changed since it was read")

// Actor is the resolved identity performing an action.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// Dispatcher delivers side-effect intents produced by an accepted transition.
type Dispatcher interface {
	Dispatch(ctx context.Context, effects []workflow.SideEffect) error
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Record, error)
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	List(ctx context.Context, status *string, recType *RecordType) ([]Record, error)

	Approve(ctx context.Context, id uuid.UUID, actor Actor) (*workflow.Result, error)
	Reject(ctx context.Context, id uuid.UUID, actor Actor, comment string) (*workflow.Result, error)

	History(ctx context.Context, id uuid.UUID) ([]audit.Entry, error)
}

type CreateRequest struct {
	Title       string
	RecordType  RecordType
	SubmittedBy uuid.UUID
	Details     datatypes.JSON
}

type recordService struct {
	repo       Repository
	recorder   audit.Recorder
	dispatcher Dispatcher
}

func NewService(repo Repository, recorder audit.Recorder, dispatcher Dispatcher) Service {
	return &recordService{repo: repo, recorder: recorder, dispatcher: dispatcher}
}

func (s *recordService) Create(ctx context.Context, req CreateRequest) (*Record, error) {
	rec := &Record{
		ID:          uuid.New(),
		Title:       req.Title,
		RecordType:  req.RecordType,
		Status:      workflow.MustDefinition(workflow.KindRecord).InitialStatus(),
		SubmittedBy: req.SubmittedBy,
		Details:     req.Details,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *recordService) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *recordService) List(ctx context.Context, status *string, recType *RecordType) ([]Record, error) {
	return s.repo.List(ctx, status, recType)
}

func (s *recordService) Approve(ctx context.Context, id uuid.UUID, actor Actor) (*workflow.Result, error) {
	return s.apply(ctx, id, actor, workflow.ActionApprove, "")
}

func (s *recordService) Reject(ctx context.Context, id uuid.UUID, actor Actor, comment string) (*workflow.Result, error) {
	return s.apply(ctx, id, actor, workflow.ActionReject, comment)
}

func (s *recordService) apply(ctx context.Context, id uuid.UUID, actor Actor, action workflow.Action, comment string) (*workflow.Result, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snap := workflow.Snapshot{
		ID:            rec.ID,
		Kind:          workflow.KindRecord,
		CurrentStatus: rec.Status,
		CreatedBy:     rec.SubmittedBy,
	}
	result := workflow.ApplyTransition(workflow.MustDefinition(workflow.KindRecord), snap, workflow.Request{
		ActorRole: actor.Role,
		Action:    action,
		Comment:   comment,
	}, time.Now())
	if !result.Accepted {
		return &result, nil
	}

	ok, err := s.repo.UpdateStatusIf(ctx, rec.ID, rec.Status, result.NewStatus)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStaleSnapshot
	}

	if err := s.recorder.Append(ctx, workflow.KindRecord, *result.AuditEntry); err != nil {
		return nil, err
	}
	if err := s.dispatcher.Dispatch(ctx, result.SideEffects); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *recordService) History(ctx context.Context, id uuid.UUID) ([]audit.Entry, error) {
	return s.recorder.ListByEntity(ctx, id)
}
