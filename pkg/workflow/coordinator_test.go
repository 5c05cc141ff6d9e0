package workflow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

func documentSnapshot(status string) Snapshot {
	return Snapshot{
		ID:            uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Kind:          KindDocument,
		CurrentStatus: status,
		CreatedBy:     uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8"),
	}
}

func TestSubmitDraftNotifiesHSSEReviewer(t *testing.T) {
	def := MustDefinition(KindDocument)
	snap := documentSnapshot(StatusDraft)

	res := ApplyTransition(def, snap, Request{ActorRole: RoleDocumentOwner, Action: ActionSubmit}, testNow)

	assert.True(t, res.Accepted)
	assert.Equal(t, StatusHSSEReview, res.NewStatus)
	require.Len(t, res.SideEffects, 1)
	assert.Equal(t, EffectNotify, res.SideEffects[0].Type)
	assert.Equal(t, RoleHSSEReviewer, res.SideEffects[0].Recipient)
	assert.Equal(t, TemplateReviewRequested, res.SideEffects[0].TemplateKey)
	assert.Equal(t, snap.ID, res.SideEffects[0].EntityID)
}

func TestApprovalChainReachesTerminal(t *testing.T) {
	def := MustDefinition(KindDocument)
	snap := documentSnapshot(StatusDraft)

	steps := []struct {
		action Action
		role   string
		want   string
	}{
		{ActionSubmit, RoleDocumentOwner, StatusHSSEReview},
		{ActionApprove, RoleHSSEReviewer, StatusOpsReview},
		{ActionApprove, RoleOperationsReviewer, StatusMDApproval},
		{ActionApprove, RoleFinalApprover, StatusApproved},
	}
	for _, step := range steps {
		res := ApplyTransition(def, snap, Request{ActorRole: step.role, Action: step.action}, testNow)
		require.True(t, res.Accepted, "action %s by %s", step.action, step.role)
		assert.Equal(t, step.want, res.NewStatus)
		snap.CurrentStatus = res.NewStatus
	}

	// Final approval notifies the original submitter, not a role.
	res := ApplyTransition(def, documentSnapshot(StatusMDApproval), Request{ActorRole: RoleFinalApprover, Action: ActionApprove}, testNow)
	require.Len(t, res.SideEffects, 1)
	assert.Equal(t, documentSnapshot("").CreatedBy.String(), res.SideEffects[0].Recipient)
	assert.Equal(t, TemplateApproved, res.SideEffects[0].TemplateKey)
}

func TestWrongStageRoleIsNotAuthorized(t *testing.T) {
	def := MustDefinition(KindDocument)
	snap := documentSnapshot(StatusHSSEReview)

	res := ApplyTransition(def, snap, Request{ActorRole: RoleOperationsReviewer, Action: ActionApprove}, testNow)

	assert.False(t, res.Accepted)
	assert.Equal(t, ReasonNotAuthorized, res.ReasonCode)
	assert.Equal(t, StatusHSSEReview, res.NewStatus)
	assert.Nil(t, res.AuditEntry)
	assert.Empty(t, res.SideEffects)
}

func TestSuperuserPassesEveryGate(t *testing.T) {
	def := MustDefinition(KindDocument)
	for _, status := range []string{StatusHSSEReview, StatusOpsReview, StatusMDApproval} {
		res := ApplyTransition(def, documentSnapshot(status), Request{ActorRole: RoleSuperuser, Action: ActionApprove}, testNow)
		assert.True(t, res.Accepted, "status %s", status)
	}
}

func TestRejectWithoutCommentRefused(t *testing.T) {
	def := MustDefinition(KindDocument)

	for _, comment := range []string{"", "   ", "\t\n"} {
		res := ApplyTransition(def, documentSnapshot(StatusMDApproval), Request{
			ActorRole: RoleFinalApprover,
			Action:    ActionReject,
			Comment:   comment,
		}, testNow)
		assert.False(t, res.Accepted)
		assert.Equal(t, ReasonCommentRequired, res.ReasonCode)
	}
}

func TestRejectWithReasonCarriesCommentIntoAudit(t *testing.T) {
	def := MustDefinition(KindDocument)
	res := ApplyTransition(def, documentSnapshot(StatusHSSEReview), Request{
		ActorRole: RoleHSSEReviewer,
		Action:    ActionReject,
		Comment:   "missing risk assessment appendix",
	}, testNow)

	require.True(t, res.Accepted)
	assert.Equal(t, StatusRejected, res.NewStatus)
	require.NotNil(t, res.AuditEntry)
	assert.Equal(t, "missing risk assessment appendix", res.AuditEntry.Comment)
	assert.Equal(t, StatusHSSEReview, res.AuditEntry.FromStatus)
	assert.Equal(t, StatusRejected, res.AuditEntry.ToStatus)
	assert.Equal(t, testNow, res.AuditEntry.Timestamp)
}

func TestTerminalStatusesAcceptNothing(t *testing.T) {
	def := MustDefinition(KindDocument)
	actions := []Action{ActionSubmit, ActionApprove, ActionReject, ActionConductReview}

	for _, status := range []string{StatusApproved, StatusRejected} {
		for _, action := range actions {
			res := ApplyTransition(def, documentSnapshot(status), Request{
				ActorRole: RoleSuperuser,
				Action:    action,
				Comment:   "n/a",
			}, testNow)
			assert.False(t, res.Accepted, "%s from %s", action, status)
			assert.Equal(t, ReasonInvalidTransition, res.ReasonCode)
		}
	}
}

func TestRecordApproveAndReject(t *testing.T) {
	def := MustDefinition(KindRecord)
	snap := Snapshot{ID: uuid.New(), Kind: KindRecord, CurrentStatus: StatusPendingReview, CreatedBy: uuid.New()}

	approved := ApplyTransition(def, snap, Request{ActorRole: RoleReviewer, Action: ActionApprove}, testNow)
	assert.True(t, approved.Accepted)
	assert.Equal(t, StatusApproved, approved.NewStatus)

	rejected := ApplyTransition(def, snap, Request{ActorRole: RoleReviewer, Action: ActionReject, Comment: "duplicate entry"}, testNow)
	assert.True(t, rejected.Accepted)
	assert.Equal(t, StatusRejected, rejected.NewStatus)
	require.Len(t, rejected.SideEffects, 1)
	assert.Equal(t, snap.CreatedBy.String(), rejected.SideEffects[0].Recipient)
	assert.Equal(t, TemplateRejected, rejected.SideEffects[0].TemplateKey)
}

func TestConductReviewSchedulesNextReview(t *testing.T) {
	def := MustDefinition(KindObligationReview)
	snap := Snapshot{
		ID:               uuid.New(),
		Kind:             KindObligationReview,
		CurrentStatus:    StatusPartial,
		CreatedBy:        uuid.New(),
		ReviewPeriodDays: 365,
	}

	res := ApplyTransition(def, snap, Request{
		ActorRole:        RoleObligationOwner,
		Action:           ActionConductReview,
		Outcome:          StatusCompliant,
		ArchivePriorYear: true,
	}, testNow)

	require.True(t, res.Accepted)
	assert.Equal(t, StatusCompliant, res.NewStatus)

	var schedule, archive *SideEffect
	for i := range res.SideEffects {
		switch res.SideEffects[i].Type {
		case EffectScheduleNextReview:
			schedule = &res.SideEffects[i]
		case EffectArchiveEvidence:
			archive = &res.SideEffects[i]
		}
	}
	require.NotNil(t, schedule)
	assert.Equal(t, testNow.AddDate(0, 0, 365), schedule.NextDate)
	require.NotNil(t, archive)
	assert.Equal(t, testNow.Year()-1, archive.ArchiveYear)
}

func TestConductReviewDefaultsPeriodWhenUnset(t *testing.T) {
	def := MustDefinition(KindObligationReview)
	snap := Snapshot{ID: uuid.New(), Kind: KindObligationReview, CurrentStatus: StatusCompliant, CreatedBy: uuid.New()}

	res := ApplyTransition(def, snap, Request{ActorRole: RoleObligationOwner, Action: ActionConductReview}, testNow)

	require.True(t, res.Accepted)
	for _, eff := range res.SideEffects {
		if eff.Type == EffectScheduleNextReview {
			assert.Equal(t, testNow.AddDate(0, 0, DefaultReviewPeriodDays), eff.NextDate)
			return
		}
	}
	t.Fatal("no schedule side effect emitted")
}

func TestConductReviewRejectsUnknownOutcome(t *testing.T) {
	def := MustDefinition(KindObligationReview)
	snap := Snapshot{ID: uuid.New(), Kind: KindObligationReview, CurrentStatus: StatusCompliant, CreatedBy: uuid.New()}

	res := ApplyTransition(def, snap, Request{
		ActorRole: RoleObligationOwner,
		Action:    ActionConductReview,
		Outcome:   "GREEN",
	}, testNow)

	assert.False(t, res.Accepted)
	assert.Equal(t, ReasonInvalidTransition, res.ReasonCode)
}

func TestApplyTransitionIsDeterministic(t *testing.T) {
	def := MustDefinition(KindDocument)
	snap := documentSnapshot(StatusDraft)
	req := Request{ActorRole: RoleDocumentOwner, Action: ActionSubmit}

	first := ApplyTransition(def, snap, req, testNow)
	second := ApplyTransition(def, snap, req, testNow)

	assert.Equal(t, first, second)
}
