package access_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
)

func softDeleted(u *models.User) *models.User {
	u.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return u
}

func TestStateOf(t *testing.T) {
	active := userWithRole(1, models.RoleGamer)
	assert.Equal(t, access.StateActive, access.StateOf(active))

	deactivated := userWithRole(2, models.RoleGamer)
	deactivated.IsActive = false
	assert.Equal(t, access.StateDeactivated, access.StateOf(deactivated))

	assert.Equal(t, access.StateSoftDeleted, access.StateOf(softDeleted(userWithRole(3, models.RoleGamer))))
}

// ==================== DEACTIVATE / REACTIVATE ====================

func TestUserLifecycle_Deactivate(t *testing.T) {
	lifecycle := access.NewUserLifecycle(access.OwnershipGuard{})

	t.Run("admin deactivates gamer", func(t *testing.T) {
		transition, d := lifecycle.Deactivate(admin(1), userWithRole(2, models.RoleGamer))
		require.True(t, d.Allowed)
		assert.Equal(t, access.StateActive, transition.From)
		assert.Equal(t, access.StateDeactivated, transition.To)
		assert.True(t, transition.Changed)
	})

	t.Run("second deactivate is a no-op", func(t *testing.T) {
		target := userWithRole(2, models.RoleGamer)
		target.IsActive = false

		transition, d := lifecycle.Deactivate(admin(1), target)
		require.True(t, d.Allowed)
		assert.Equal(t, access.StateDeactivated, transition.To)
		assert.False(t, transition.Changed)
	})

	t.Run("gamer may deactivate own account", func(t *testing.T) {
		_, d := lifecycle.Deactivate(gamer(2), userWithRole(2, models.RoleGamer))
		assert.True(t, d.Allowed)
	})

	t.Run("gamer may not deactivate others", func(t *testing.T) {
		_, d := lifecycle.Deactivate(gamer(3), userWithRole(2, models.RoleGamer))
		assert.Equal(t, access.Deny(access.ReasonForbidden), d)
	})

	t.Run("soft deleted target is not found", func(t *testing.T) {
		_, d := lifecycle.Deactivate(admin(1), softDeleted(userWithRole(2, models.RoleGamer)))
		assert.Equal(t, access.Deny(access.ReasonNotFound), d)
	})

	t.Run("missing target is not found", func(t *testing.T) {
		_, d := lifecycle.Deactivate(admin(1), nil)
		assert.Equal(t, access.Deny(access.ReasonNotFound), d)
	})
}

func TestUserLifecycle_Reactivate(t *testing.T) {
	lifecycle := access.NewUserLifecycle(access.OwnershipGuard{})
	target := userWithRole(2, models.RoleGamer)
	target.IsActive = false

	transition, d := lifecycle.Reactivate(admin(1), target)
	require.True(t, d.Allowed)
	assert.Equal(t, access.StateDeactivated, transition.From)
	assert.Equal(t, access.StateActive, transition.To)
	assert.True(t, transition.Changed)

	transition, d = lifecycle.Reactivate(admin(1), userWithRole(2, models.RoleGamer))
	require.True(t, d.Allowed)
	assert.False(t, transition.Changed)
}

// ==================== SOFT DELETE ====================

func TestUserLifecycle_SoftDelete(t *testing.T) {
	lifecycle := access.NewUserLifecycle(access.OwnershipGuard{})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("admin deletes gamer", func(t *testing.T) {
		transition, d := lifecycle.SoftDelete(admin(1), userWithRole(2, models.RoleGamer), now)
		require.True(t, d.Allowed)
		assert.Equal(t, access.StateSoftDeleted, transition.To)
		assert.True(t, transition.Changed)
		require.NotNil(t, transition.DeletedAt)
		assert.Equal(t, now, *transition.DeletedAt)
	})

	t.Run("deactivated gamer can still be deleted", func(t *testing.T) {
		target := userWithRole(2, models.RoleGamer)
		target.IsActive = false

		transition, d := lifecycle.SoftDelete(gamer(2), target, now)
		require.True(t, d.Allowed)
		assert.Equal(t, access.StateDeactivated, transition.From)
	})

	t.Run("already deleted is not found", func(t *testing.T) {
		_, d := lifecycle.SoftDelete(admin(1), softDeleted(userWithRole(2, models.RoleGamer)), now)
		assert.Equal(t, access.Deny(access.ReasonNotFound), d)
	})

	t.Run("gamer may not delete others", func(t *testing.T) {
		_, d := lifecycle.SoftDelete(gamer(3), userWithRole(2, models.RoleGamer), now)
		assert.Equal(t, access.Deny(access.ReasonForbidden), d)
	})
}

func TestUserLifecycle_SoftDeleteAdminAlwaysProtected(t *testing.T) {
	lifecycle := access.NewUserLifecycle(access.OwnershipGuard{})
	target := userWithRole(7, models.RoleAdmin)

	actors := []access.Identity{
		admin(7),
		admin(1),
		gamer(2),
		gamer(7),
		{UserID: 9, Role: models.RoleAdmin},
	}

	for _, actor := range actors {
		_, d := lifecycle.SoftDelete(actor, target, time.Now())
		assert.Equal(t, access.Deny(access.ReasonAdminProtected), d, "actor %d (%s)", actor.UserID, actor.Role)
	}

	// Protection holds even for an admin account that is already deleted
	_, d := lifecycle.SoftDelete(admin(1), softDeleted(userWithRole(8, models.RoleAdmin)), time.Now())
	assert.Equal(t, access.Deny(access.ReasonAdminProtected), d)
}
