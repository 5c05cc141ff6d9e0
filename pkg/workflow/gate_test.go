package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		required string
		actor    string
		want     bool
	}{
		{"exact match", RoleHSSEReviewer, RoleHSSEReviewer, true},
		{"wildcard admits anyone", RoleAny, "warehouse-clerk", true},
		{"superuser bypasses gate", RoleFinalApprover, RoleSuperuser, true},
		{"wrong role refused", RoleHSSEReviewer, RoleOperationsReviewer, false},
		{"empty actor refused", RoleReviewer, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.required, tt.actor))
		})
	}
}
