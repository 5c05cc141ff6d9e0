package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"hsse-suite/hsse-portal/hsse-portal-backend/internal/audit"
	"hsse-suite/hsse-portal/hsse-portal-backend/pkg/storage"
	"hsse-suite/hsse-portal/hsse-portal-backend/pkg/workflow"
)

// ErrStaleSnapshot is returned when the document's status changed between
// read and write. The caller must re-fetch and let the user retry; the
// engine is not re-invoked on a stale snapshot.
var ErrStaleSnapshot = errors.New("document changed since it was read")

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
	Create(ctx context.Context, req CreateRequest) (*Document, error)
	Get(ctx context.Context, id uuid.UUID) (*Document, error)
	List(ctx context.Context, status *string, docType *DocumentType) ([]Document, error)

	Submit(ctx context.Context, id uuid.UUID, actor Actor) (*workflow.Result, error)
	Approve(ctx context.Context, id uuid.UUID, actor Actor) (*workflow.Result, error)
	Reject(ctx context.Context, id uuid.UUID, actor Actor, comment string) (*workflow.Result, error)

	History(ctx context.Context, id uuid.UUID) ([]audit.Entry, error)
	AttachFile(ctx context.Context, id uuid.UUID, filename string, content io.Reader) (*Document, error)
	FileURL(ctx context.Context, id uuid.UUID) (string, error)
}

type CreateRequest struct {
	Title        string
	Description  string
	DocumentType DocumentType
	OwnerID      uuid.UUID
}

type documentService struct {
	repo       Repository
	recorder   audit.Recorder
	dispatcher Dispatcher
	store      storage.ObjectStore
	bucket     string
}

func NewService(repo Repository, recorder audit.Recorder, dispatcher Dispatcher, store storage.ObjectStore, bucket string) Service {
	return &documentService{
		repo:       repo,
		recorder:   recorder,
		dispatcher: dispatcher,
		store:      store,
		bucket:     bucket,
	}
}

func (s *documentService) Create(ctx context.Context, req CreateRequest) (*Document, error) {
	doc := &Document{
		ID:             uuid.New(),
		Title:          req.Title,
		Description:    req.Description,
		DocumentType:   req.DocumentType,
		Status:         workflow.MustDefinition(workflow.KindDocument).InitialStatus(),
		OwnerID:        req.OwnerID,
		S3Bucket:       s.bucket,
		CurrentVersion: 0,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *documentService) List(ctx context.Context, status *string, docType *DocumentType) ([]Document, error) {
	return s.repo.List(ctx, status, docType)
}

func (s *documentService) Submit(ctx context.Context, id uuid.UUID, actor Actor) (*workflow.Result, error) {
	return s.apply(ctx, id, actor, workflow.ActionSubmit, "")
}

func (s *documentService) Approve(ctx context.Context, id uuid.UUID, actor Actor) (*workflow.Result, error) {
	return s.apply(ctx, id, actor, workflow.ActionApprove, "")
}

func (s *documentService) Reject(ctx context.Context, id uuid.UUID, actor Actor, comment string) (*workflow.Result, error) {
	return s.apply(ctx, id, actor, workflow.ActionReject, comment)
}

// apply runs one transition through the engine and, when accepted, persists
// the new status with a conditional update keyed on the status that was
// read, then records the audit entry and dispatches side effects.
func (s *documentService) apply(ctx context.Context, id uuid.UUID, actor Actor, action workflow.Action, comment string) (*workflow.Result, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snap := workflow.Snapshot{
		ID:            doc.ID,
		Kind:          workflow.KindDocument,
		CurrentStatus: doc.Status,
		CreatedBy:     doc.OwnerID,
	}
	result := workflow.ApplyTransition(workflow.MustDefinition(workflow.KindDocument), snap, workflow.Request{
		ActorRole: actor.Role,
		Action:    action,
		Comment:   comment,
	}, time.Now())
	if !result.Accepted {
		return &result, nil
	}

	ok, err := s.repo.UpdateStatusIf(ctx, doc.ID, doc.Status, result.NewStatus)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStaleSnapshot
	}

	if err := s.recorder.Append(ctx, workflow.KindDocument, *result.AuditEntry); err != nil {
		return nil, err
	}
	if err := s.dispatcher.Dispatch(ctx, result.SideEffects); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *documentService) History(ctx context.Context, id uuid.UUID) ([]audit.Entry, error) {
	return s.recorder.ListByEntity(ctx, id)
}

// AttachFile stores a new revision of the document's file and bumps the
// version counter. Attaching content does not touch the review status.
func (s *documentService) AttachFile(ctx context.Context, id uuid.UUID, filename string, content io.Reader) (*Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	version := doc.CurrentVersion + 1
	key := fmt.Sprintf("documents/%s/v%d/%s", doc.ID, version, filename)
	if err := s.store.Upload(ctx, s.bucket, key, content); err != nil {
		return nil, err
	}

	doc.S3Key = key
	doc.S3Bucket = s.bucket
	doc.CurrentVersion = version
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) FileURL(ctx context.Context, id uuid.UUID) (string, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if doc.S3Key == "" {
		return "", fmt.Errorf("document %s has no file attached", id)
	}
	return s.store.GetPresignedURL(ctx, doc.S3Bucket, doc.S3Key, 15*time.Minute)
}
