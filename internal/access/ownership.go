package access

import "github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"

// adminUserActions are the actions an admin may take on a non-admin account
var adminUserActions = map[Action]bool{
	ActionView:       true,
	ActionUpdate:     true,
	ActionDeactivate: true,
	ActionReactivate: true,
	ActionDelete:     true,
}

// ownerGameActions are the actions a gamer may take on a game they own
var ownerGameActions = map[Action]bool{
	ActionCreate: true,
	ActionView:   true,
	ActionUpdate: true,
	ActionDelete: true,
}

// OwnershipGuard decides per-resource access for users and games.
// Targets must already be resolved; a missing target is the caller's NOT_FOUND.
type OwnershipGuard struct{}

// AuthorizeUser applies the account rules in priority order
func (OwnershipGuard) AuthorizeUser(identity Identity, action Action, target *models.User) Decision {
	if target == nil {
		return Deny(ReasonForbidden)
	}

	// 1. Admins manage non-admin accounts
	if identity.IsAdmin() && !target.Role.IsAdmin() && adminUserActions[action] {
		return Allow()
	}

	// 2. Everyone manages their own account, except that admins cannot delete themselves
	if target.ID == identity.UserID {
		if action == ActionDelete && identity.IsAdmin() {
			return Deny(ReasonAdminProtected)
		}
		if action != ActionCreate && action != ActionList {
			return Allow()
		}
	}

	return Deny(ReasonForbidden)
}

// AuthorizeUserIndex gates the account listing, which only admins may read
func (OwnershipGuard) AuthorizeUserIndex(identity Identity) Decision {
	if identity.IsAdmin() {
		return Allow()
	}
	return Deny(ReasonForbidden)
}

// AuthorizeGame lets a gamer act only on games they own; admins never touch games
func (OwnershipGuard) AuthorizeGame(identity Identity, action Action, game *models.Game) Decision {
	if game == nil {
		return Deny(ReasonForbidden)
	}
	if identity.IsGamer() && ownerGameActions[action] && game.OwnerID == identity.UserID {
		return Allow()
	}
	return Deny(ReasonForbidden)
}

// AdminProtection refuses deletion of any admin account whoever asks.
// It runs before the ownership rules so the invariant can be audited on its own.
func AdminProtection(target *models.User) Decision {
	if target != nil && target.Role.IsAdmin() {
		return Deny(ReasonAdminProtected)
	}
	return Allow()
}
