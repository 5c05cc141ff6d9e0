package workflow

import "fmt"

// Action identifies a request to move an entity along its review chain.
type Action string

const (
	ActionSubmit        Action = "submit"
	ActionApprove       Action = "approve"
	ActionReject        Action = "reject"
	ActionConductReview Action = "conduct_review"
)

// Kind identifies which workflow definition applies to an entity.
type Kind string

const (
	KindDocument         Kind = "document"
	KindRecord           Kind = "record"
	KindObligationReview Kind = "obligation-review"
)

// RoleAny matches any authenticated actor.
const RoleAny = "*"

// RoleSuperuser bypasses every stage gate.
const RoleSuperuser = "superuser"

// Roles required by the built-in workflow definitions.
const (
	RoleDocumentOwner      = "document-owner"
	RoleHSSEReviewer       = "hsse-reviewer"
	RoleOperationsReviewer = "operations-reviewer"
	RoleFinalApprover      = "final-approver"
	RoleReviewer           = "reviewer"
	RoleObligationOwner    = "obligation-owner"
)

// Document workflow statuses.
const (
	StatusDraft      = "DRAFT"
	StatusHSSEReview = "HSSE_REVIEW"
	StatusOpsReview  = "OPS_REVIEW"
	StatusMDApproval = "MD_APPROVAL"
	StatusApproved   = "APPROVED"
	StatusRejected   = "REJECTED"
)

// Record workflow statuses. Approved and rejected are shared with documents.
const (
	StatusPendingReview = "PENDING_REVIEW"
)

// Obligation-review compliance statuses. The obligation chain is cyclic:
// conducting a review re-asserts or reclassifies compliance, it never
// terminates the obligation.
const (
	StatusCompliant    = "COMPLIANT"
	StatusPartial      = "PARTIALLY_COMPLIANT"
	StatusNonCompliant = "NON_COMPLIANT"
)

type transitionKey struct {
	From   string
	Action Action
}

// Transition is the declared outcome of an (from-status, action) pair.
type Transition struct {
	To           string
	RequiredRole string
}

// Definition declares the statuses, terminal statuses and role-gated
// transitions for one entity kind. Definitions are immutable after
// construction and safe for concurrent use.
type Definition struct {
	Kind        Kind
	Statuses    []string
	terminal    map[string]bool
	transitions map[transitionKey]Transition
}

// NewDefinition validates and builds a workflow definition. It panics on an
// inconsistent declaration: that is a configuration bug that must surface at
// process start, not per request.
func NewDefinition(kind Kind, statuses []string, terminal []string, transitions map[transitionKey]Transition) *Definition {
	def := &Definition{
		Kind:        kind,
		Statuses:    statuses,
		terminal:    make(map[string]bool, len(terminal)),
		transitions: transitions,
	}
	known := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		known[s] = true
	}
	for _, s := range terminal {
		if !known[s] {
			panic(fmt.Sprintf("workflow %q: terminal status %q not declared", kind, s))
		}
		def.terminal[s] = true
	}
	for key, tr := range transitions {
		if !known[key.From] || !known[tr.To] {
			panic(fmt.Sprintf("workflow %q: transition %s -> %s references undeclared status", kind, key.From, tr.To))
		}
		if def.terminal[key.From] {
			panic(fmt.Sprintf("workflow %q: terminal status %q has outgoing transition", kind, key.From))
		}
	}
	for _, s := range statuses {
		if def.terminal[s] {
			continue
		}
		if !def.hasOutgoing(s) {
			panic(fmt.Sprintf("workflow %q: non-terminal status %q has no outgoing transition", kind, s))
		}
	}
	return def
}

func (d *Definition) hasOutgoing(status string) bool {
	for key := range d.transitions {
		if key.From == status {
			return true
		}
	}
	return false
}

// CanTransition looks up the declared outcome of applying action from the
// given status. The second return value is false when the pair is undeclared.
func (d *Definition) CanTransition(from string, action Action) (Transition, bool) {
	tr, ok := d.transitions[transitionKey{From: from, Action: action}]
	return tr, ok
}

// IsTerminal reports whether a status has no further transitions.
func (d *Definition) IsTerminal(status string) bool {
	return d.terminal[status]
}

// HasStatus reports whether the status belongs to this definition.
func (d *Definition) HasStatus(status string) bool {
	for _, s := range d.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// InitialStatus returns the first declared status.
func (d *Definition) InitialStatus() string {
	return d.Statuses[0]
}

// NextRequiredRole returns the role that gates the next stage out of the
// given status, used to address review notifications. Approval stages win
// over rejection paths; cyclic review stages fall back to the review gate.
func (d *Definition) NextRequiredRole(status string) (string, bool) {
	for _, action := range []Action{ActionApprove, ActionSubmit, ActionConductReview} {
		if tr, ok := d.CanTransition(status, action); ok {
			return tr.RequiredRole, true
		}
	}
	return "", false
}

var registry = map[Kind]*Definition{}

func register(def *Definition) {
	if _, exists := registry[def.Kind]; exists {
		panic(fmt.Sprintf("workflow %q registered twice", def.Kind))
	}
	registry[def.Kind] = def
}

// Lookup returns the definition registered for a kind.
func Lookup(kind Kind) (*Definition, bool) {
	def, ok := registry[kind]
	return def, ok
}

// MustDefinition returns the definition for a kind, panicking when none is
// registered. An unregistered kind is a wiring bug, never a runtime input.
func MustDefinition(kind Kind) *Definition {
	def, ok := registry[kind]
	if !ok {
		panic(fmt.Sprintf("no workflow definition registered for kind %q", kind))
	}
	return def
}

func init() {
	register(NewDefinition(
		KindDocument,
		[]string{StatusDraft, StatusHSSEReview, StatusOpsReview, StatusMDApproval, StatusApproved, StatusRejected},
		[]string{StatusApproved, StatusRejected},
		map[transitionKey]Transition{
			{StatusDraft, ActionSubmit}:       {To: StatusHSSEReview, RequiredRole: RoleDocumentOwner},
			{StatusHSSEReview, ActionApprove}: {To: StatusOpsReview, RequiredRole: RoleHSSEReviewer},
			{StatusHSSEReview, ActionReject}:  {To: StatusRejected, RequiredRole: RoleHSSEReviewer},
			{StatusOpsReview, ActionApprove}:  {To: StatusMDApproval, RequiredRole: RoleOperationsReviewer},
			{StatusOpsReview, ActionReject}:   {To: StatusRejected, RequiredRole: RoleOperationsReviewer},
			{StatusMDApproval, ActionApprove}: {To: StatusApproved, RequiredRole: RoleFinalApprover},
			{StatusMDApproval, ActionReject}:  {To: StatusRejected, RequiredRole: RoleFinalApprover},
		},
	))

	register(NewDefinition(
		KindRecord,
		[]string{StatusPendingReview, StatusApproved, StatusRejected},
		[]string{StatusApproved, StatusRejected},
		map[transitionKey]Transition{
			{StatusPendingReview, ActionApprove}: {To: StatusApproved, RequiredRole: RoleReviewer},
			{StatusPendingReview, ActionReject}:  {To: StatusRejected, RequiredRole: RoleReviewer},
		},
	))

	register(NewDefinition(
		KindObligationReview,
		[]string{StatusCompliant, StatusPartial, StatusNonCompliant},
		nil,
		map[transitionKey]Transition{
			{StatusCompliant, ActionConductReview}:    {To: StatusCompliant, RequiredRole: RoleObligationOwner},
			{StatusPartial, ActionConductReview}:      {To: StatusPartial, RequiredRole: RoleObligationOwner},
			{StatusNonCompliant, ActionConductReview}: {To: StatusNonCompliant, RequiredRole: RoleObligationOwner},
		},
	))
}
