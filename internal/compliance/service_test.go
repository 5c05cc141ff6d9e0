package compliance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hsse-suite/hsse-portal/hsse-portal-backend/internal/audit"
	"hsse-suite/hsse-portal/hsse-portal-backend/pkg/workflow"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, ob *Obligation) error {
	args := m.Called(ctx, ob)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Obligation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Obligation), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, category *string) ([]Obligation, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]Obligation), args.Error(1)
}

func (m *MockRepository) CompleteReviewIf(ctx context.Context, ob *Obligation, expectedStatus string) (bool, error) {
	args := m.Called(ctx, ob, expectedStatus)
	return args.Bool(0), args.Error(1)
}

// MockRecorder is a mock implementation of audit.Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Append(ctx context.Context, kind workflow.Kind, entry workflow.AuditEntry) error {
	args := m.Called(ctx, kind, entry)
	return args.Error(0)
}

func (m *MockRecorder) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]audit.Entry, error) {
	args := m.Called(ctx, entityID)
	return args.Get(0).([]audit.Entry), args.Error(1)
}

// MockDispatcher is a mock implementation of Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, effects []workflow.SideEffect) error {
	args := m.Called(ctx, effects)
	return args.Error(0)
}

// MockArchiver is a mock implementation of archive.Archiver
type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) ArchiveEvidence(ctx context.Context, entityID uuid.UUID, year int) (int, error) {
	args := m.Called(ctx, entityID, year)
	return args.Int(0), args.Error(1)
}

func newTestService(repo *MockRepository, recorder *MockRecorder, dispatcher *MockDispatcher, archiver *MockArchiver) Service {
	return NewService(repo, recorder, dispatcher, archiver, zap.NewNop())
}

func partialObligation() *Obligation {
	next := time.Now().AddDate(0, 0, -10)
	return &Obligation{
		ID:               uuid.New(),
		Reference:        "ENV-REG-014",
		Title:            "Effluent discharge consent",
		Category:         "environment",
		Status:           workflow.StatusPartial,
		OwnerID:          uuid.New(),
		NextReviewDate:   &next,
		ReviewPeriodDays: 365,
	}
}

func TestConductReviewUpdatesDatesAndStatus(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRecorder := new(MockRecorder)
	mockDispatcher := new(MockDispatcher)
	mockArchiver := new(MockArchiver)
	service := newTestService(mockRepo, mockRecorder, mockDispatcher, mockArchiver)

	ctx := context.Background()
	ob := partialObligation()

	mockRepo.On("GetByID", ctx, ob.ID).Return(ob, nil)
	mockRepo.On("CompleteReviewIf", ctx, mock.AnythingOfType("*compliance.Obligation"), workflow.StatusPartial).Return(true, nil)
	mockRecorder.On("Append", ctx, workflow.KindObligationReview, mock.AnythingOfType("workflow.AuditEntry")).Return(nil)
	mockDispatcher.On("Dispatch", ctx, mock.AnythingOfType("[]workflow.SideEffect")).Return(nil)
	mockArchiver.On("ArchiveEvidence", ctx, ob.ID, time.Now().Year()-1).Return(3, nil)

	result, err := service.ConductReview(ctx, ob.ID, ReviewRequest{
		Actor:           Actor{ID: ob.OwnerID, Role: workflow.RoleObligationOwner},
		Outcome:         workflow.StatusCompliant,
		Comment:         "consent renewed, lab results within limits",
		ArchiveEvidence: true,
	})

	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, workflow.StatusCompliant, result.NewStatus)
	assert.Equal(t, workflow.StatusCompliant, ob.Status)
	require.NotNil(t, ob.LastReviewDate)
	require.NotNil(t, ob.NextReviewDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 365), *ob.NextReviewDate, time.Minute)
	mockRepo.AssertExpectations(t)
	mockArchiver.AssertExpectations(t)
}

func TestConductReviewByWrongRoleRefused(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, new(MockRecorder), new(MockDispatcher), new(MockArchiver))

	ctx := context.Background()
	ob := partialObligation()
	mockRepo.On("GetByID", ctx, ob.ID).Return(ob, nil)

	result, err := service.ConductReview(ctx, ob.ID, ReviewRequest{
		Actor: Actor{ID: uuid.New(), Role: workflow.RoleReviewer},
	})

	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Equal(t, workflow.ReasonNotAuthorized, result.ReasonCode)
	mockRepo.AssertNotCalled(t, "CompleteReviewIf", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterSortsMostUrgentFirst(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, new(MockRecorder), new(MockDispatcher), new(MockArchiver))

	ctx := context.Background()
	now := time.Now()
	soon := now.AddDate(0, 0, 15)
	far := now.AddDate(0, 0, 120)
	overdue := now.AddDate(0, 0, -5)

	obs := []Obligation{
		{ID: uuid.New(), Reference: "A", NextReviewDate: &far},
		{ID: uuid.New(), Reference: "B", NextReviewDate: &overdue},
		{ID: uuid.New(), Reference: "C", NextReviewDate: nil},
		{ID: uuid.New(), Reference: "D", NextReviewDate: &soon},
	}
	mockRepo.On("List", ctx, (*string)(nil)).Return(obs, nil)

	entries, err := service.Register(ctx, nil)

	require.NoError(t, err)
	require.Len(t, entries, 4)
	// Missing date is the fail-safe most-urgent entry.
	assert.Equal(t, "C", entries[0].Reference)
	assert.Equal(t, workflow.MissingReviewDateDays, entries[0].DaysUntilDue)
	assert.Equal(t, workflow.TierOverdue, entries[0].Urgency)
	assert.Equal(t, "B", entries[1].Reference)
	assert.Equal(t, "D", entries[2].Reference)
	assert.Equal(t, workflow.TierDueSoon, entries[2].Urgency)
	assert.Equal(t, "A", entries[3].Reference)

	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, entries[i-1].DaysUntilDue, entries[i].DaysUntilDue)
	}
}
