package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinDefinitionsRegistered(t *testing.T) {
	for _, kind := range []Kind{KindDocument, KindRecord, KindObligationReview} {
		def, ok := Lookup(kind)
		require.True(t, ok, "kind %s", kind)
		assert.Equal(t, kind, def.Kind)
	}
}

func TestMustDefinitionPanicsOnUnknownKind(t *testing.T) {
	assert.Panics(t, func() { MustDefinition(Kind("permit-to-work")) })
}

func TestDocumentChainDeclaration(t *testing.T) {
	def := MustDefinition(KindDocument)

	assert.Equal(t, StatusDraft, def.InitialStatus())
	assert.True(t, def.IsTerminal(StatusApproved))
	assert.True(t, def.IsTerminal(StatusRejected))

	tr, ok := def.CanTransition(StatusDraft, ActionSubmit)
	require.True(t, ok)
	assert.Equal(t, StatusHSSEReview, tr.To)
	assert.Equal(t, RoleDocumentOwner, tr.RequiredRole)

	// Rejection is legal from every review stage, gated by that stage's role.
	for status, role := range map[string]string{
		StatusHSSEReview: RoleHSSEReviewer,
		StatusOpsReview:  RoleOperationsReviewer,
		StatusMDApproval: RoleFinalApprover,
	} {
		tr, ok := def.CanTransition(status, ActionReject)
		require.True(t, ok, "reject from %s", status)
		assert.Equal(t, StatusRejected, tr.To)
		assert.Equal(t, role, tr.RequiredRole)
	}

	_, ok = def.CanTransition(StatusDraft, ActionApprove)
	assert.False(t, ok)
}

func TestObligationChainIsCyclic(t *testing.T) {
	def := MustDefinition(KindObligationReview)

	for _, status := range def.Statuses {
		assert.False(t, def.IsTerminal(status))
		tr, ok := def.CanTransition(status, ActionConductReview)
		require.True(t, ok)
		assert.Equal(t, status, tr.To)
		assert.Equal(t, RoleObligationOwner, tr.RequiredRole)
	}
}

func TestNewDefinitionRejectsBrokenDeclarations(t *testing.T) {
	assert.Panics(t, func() {
		// Non-terminal status with no way out.
		NewDefinition("broken", []string{"A", "B"}, []string{"B"}, map[transitionKey]Transition{})
	})
	assert.Panics(t, func() {
		// Transition into an undeclared status.
		NewDefinition("broken", []string{"A", "B"}, []string{"B"}, map[transitionKey]Transition{
			{"A", ActionSubmit}: {To: "C", RequiredRole: RoleAny},
		})
	})
	assert.Panics(t, func() {
		// Terminal status with an outgoing transition.
		NewDefinition("broken", []string{"A", "B"}, []string{"B"}, map[transitionKey]Transition{
			{"A", ActionSubmit}: {To: "B", RequiredRole: RoleAny},
			{"B", ActionSubmit}: {To: "A", RequiredRole: RoleAny},
		})
	})
}
