package access

import "github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"

// Identity is the snapshot of the authenticated caller a decision is made for
type Identity struct {
	UserID      uint        `json:"user_id"`
	Role        models.Role `json:"role"`
	Active      bool        `json:"active"`
	SoftDeleted bool        `json:"soft_deleted"`
}

// IdentityFromUser takes a snapshot of the account's current state
func IdentityFromUser(u *models.User) Identity {
	return Identity{
		UserID:      u.ID,
		Role:        u.Role,
		Active:      u.IsActive,
		SoftDeleted: u.IsSoftDeleted(),
	}
}

// Authenticate rejects identities that may no longer act: unknown, deactivated or soft-deleted
func (i Identity) Authenticate() Decision {
	if i.UserID == 0 || i.SoftDeleted || !i.Active {
		return Deny(ReasonUnauthenticated)
	}
	if i.Role != models.RoleGamer && i.Role != models.RoleAdmin {
		return Deny(ReasonUnauthenticated)
	}
	return Allow()
}

// IsAdmin reports whether the caller holds the admin role
func (i Identity) IsAdmin() bool {
	return i.Role.IsAdmin()
}

// IsGamer reports whether the caller holds the gamer role
func (i Identity) IsGamer() bool {
	return i.Role == models.RoleGamer
}
