package access

import (
	"time"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
)

// LifecycleState is the account state derived from the stored flags
type LifecycleState string

const (
	StateActive      LifecycleState = "ACTIVE"
	StateDeactivated LifecycleState = "DEACTIVATED"
	StateSoftDeleted LifecycleState = "SOFT_DELETED"
)

// StateOf derives the lifecycle state of an account
func StateOf(u *models.User) LifecycleState {
	switch {
	case u.IsSoftDeleted():
		return StateSoftDeleted
	case !u.IsActive:
		return StateDeactivated
	default:
		return StateActive
	}
}

// Transition is the record delta the storage layer must apply after an allowed lifecycle change.
// Changed is false when the target was already in the requested state.
type Transition struct {
	From      LifecycleState
	To        LifecycleState
	Changed   bool
	DeletedAt *time.Time
}

// UserLifecycle enforces Active <-> Deactivated -> SoftDeleted
type UserLifecycle struct {
	guard OwnershipGuard
}

// NewUserLifecycle creates a lifecycle manager backed by the ownership rules
func NewUserLifecycle(guard OwnershipGuard) UserLifecycle {
	return UserLifecycle{guard: guard}
}

// Deactivate disables the target account; repeating it is a no-op
func (m UserLifecycle) Deactivate(actor Identity, target *models.User) (Transition, Decision) {
	return m.toggle(actor, target, ActionDeactivate, StateDeactivated)
}

// Reactivate re-enables a deactivated account; repeating it is a no-op
func (m UserLifecycle) Reactivate(actor Identity, target *models.User) (Transition, Decision) {
	return m.toggle(actor, target, ActionReactivate, StateActive)
}

// SoftDelete retires the target account for good. Admin accounts are refused
// before any ownership rule is consulted.
func (m UserLifecycle) SoftDelete(actor Identity, target *models.User, now time.Time) (Transition, Decision) {
	if target == nil {
		return Transition{}, Deny(ReasonNotFound)
	}
	if d := AdminProtection(target); d.Denied() {
		return Transition{}, d
	}

	from := StateOf(target)
	if from == StateSoftDeleted {
		return Transition{}, Deny(ReasonNotFound)
	}
	if d := m.guard.AuthorizeUser(actor, ActionDelete, target); d.Denied() {
		return Transition{}, d
	}

	deletedAt := now
	return Transition{From: from, To: StateSoftDeleted, Changed: true, DeletedAt: &deletedAt}, Allow()
}

func (m UserLifecycle) toggle(actor Identity, target *models.User, action Action, to LifecycleState) (Transition, Decision) {
	if target == nil {
		return Transition{}, Deny(ReasonNotFound)
	}

	from := StateOf(target)
	if from == StateSoftDeleted {
		return Transition{}, Deny(ReasonNotFound)
	}
	if d := m.guard.AuthorizeUser(actor, action, target); d.Denied() {
		return Transition{}, d
	}

	return Transition{From: from, To: to, Changed: from != to}, Allow()
}
