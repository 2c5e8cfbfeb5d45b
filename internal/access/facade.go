package access

import (
	"time"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
)

// Request describes a single authorization question. Exactly one of User or Game
// is set for per-resource actions on those kinds; reference data needs neither.
type Request struct {
	Identity Identity
	Action   Action
	Kind     ResourceKind
	User     *models.User
	Game     *models.Game
}

// Facade is the single authorization entry point used by the services
type Facade struct {
	ownership OwnershipGuard
	reference ReferenceDataGuard
	lifecycle UserLifecycle
}

// NewFacade wires the guards, compiler and lifecycle manager together
func NewFacade() *Facade {
	ownership := OwnershipGuard{}
	return &Facade{
		ownership: ownership,
		reference: ReferenceDataGuard{},
		lifecycle: NewUserLifecycle(ownership),
	}
}

// Authorize decides a non-list request, or a list request on users and reference data
func (f *Facade) Authorize(req Request) Decision {
	if d := req.Identity.Authenticate(); d.Denied() {
		return d
	}

	switch req.Kind {
	case KindUser:
		if req.Action == ActionList {
			return f.ownership.AuthorizeUserIndex(req.Identity)
		}
		if req.User == nil || req.User.IsSoftDeleted() {
			return Deny(ReasonNotFound)
		}
		if req.Action == ActionDelete {
			if d := AdminProtection(req.User); d.Denied() {
				return d
			}
		}
		return f.ownership.AuthorizeUser(req.Identity, req.Action, req.User)

	case KindGame:
		if req.Action == ActionList {
			// Game listings go through AuthorizeGameList so the owner scope is never skipped
			return Deny(ReasonForbidden)
		}
		if req.Game == nil {
			return Deny(ReasonNotFound)
		}
		return f.ownership.AuthorizeGame(req.Identity, req.Action, req.Game)

	case KindGenre, KindPlatform:
		return f.reference.Authorize(req.Identity, req.Action)

	default:
		return Deny(ReasonForbidden)
	}
}

// AuthorizeGameList authenticates the caller and compiles params into a predicate
// restricted to the caller's own games
func (f *Facade) AuthorizeGameList(identity Identity, params map[string]string) (Decision, GamePredicate) {
	if d := identity.Authenticate(); d.Denied() {
		return d, GamePredicate{}
	}
	return Allow(), CompileGameFilter(params).OwnedBy(identity.UserID)
}

// Deactivate authenticates the actor and applies the deactivate transition rules
func (f *Facade) Deactivate(actor Identity, target *models.User) (Transition, Decision) {
	if d := actor.Authenticate(); d.Denied() {
		return Transition{}, d
	}
	return f.lifecycle.Deactivate(actor, target)
}

// Reactivate authenticates the actor and applies the reactivate transition rules
func (f *Facade) Reactivate(actor Identity, target *models.User) (Transition, Decision) {
	if d := actor.Authenticate(); d.Denied() {
		return Transition{}, d
	}
	return f.lifecycle.Reactivate(actor, target)
}

// SoftDelete applies the soft-delete transition rules. Admin targets are refused
// before the actor is even looked at.
func (f *Facade) SoftDelete(actor Identity, target *models.User, now time.Time) (Transition, Decision) {
	if d := AdminProtection(target); d.Denied() {
		return Transition{}, d
	}
	if d := actor.Authenticate(); d.Denied() {
		return Transition{}, d
	}
	return f.lifecycle.SoftDelete(actor, target, now)
}
