package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
)

func TestReferenceDataGuard_Authorize(t *testing.T) {
	guard := access.ReferenceDataGuard{}

	tests := []struct {
		name     string
		identity access.Identity
		action   access.Action
		want     access.Decision
	}{
		{"gamer lists", gamer(1), access.ActionList, access.Allow()},
		{"gamer views", gamer(1), access.ActionView, access.Allow()},
		{"gamer creates", gamer(1), access.ActionCreate, access.Deny(access.ReasonForbidden)},
		{"gamer updates", gamer(1), access.ActionUpdate, access.Deny(access.ReasonForbidden)},
		{"admin views", admin(2), access.ActionView, access.Allow()},
		{"admin creates", admin(2), access.ActionCreate, access.Allow()},
		{"admin updates", admin(2), access.ActionUpdate, access.Allow()},
		{"admin deletes", admin(2), access.ActionDelete, access.Deny(access.ReasonForbidden)},
		{"gamer deletes", gamer(1), access.ActionDelete, access.Deny(access.ReasonForbidden)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guard.Authorize(tt.identity, tt.action))
		})
	}
}

func TestReferenceDataGuard_CreateAllowedOnlyForAdmins(t *testing.T) {
	guard := access.ReferenceDataGuard{}

	for id := uint(1); id <= 5; id++ {
		assert.True(t, guard.Authorize(admin(id), access.ActionCreate).Allowed)
		assert.True(t, guard.Authorize(gamer(id), access.ActionCreate).Denied())
	}
}
