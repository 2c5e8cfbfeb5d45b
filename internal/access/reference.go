package access

// ReferenceDataGuard gates genres and platforms: open reads, admin-only writes, no deletes
type ReferenceDataGuard struct{}

func (ReferenceDataGuard) Authorize(identity Identity, action Action) Decision {
	switch action {
	case ActionView, ActionList:
		return Allow()
	case ActionCreate, ActionUpdate:
		if identity.IsAdmin() {
			return Allow()
		}
		return Deny(ReasonForbidden)
	default:
		// Reference data is never deleted
		return Deny(ReasonForbidden)
	}
}
