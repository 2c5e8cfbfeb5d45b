package database

import (
	"context"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
)

// IdentityCache stores short-lived identity snapshots so authentication can skip the users table
type IdentityCache interface {
	// GetIdentity returns a nil snapshot without error on a cache miss, along with the
	// generation to hand back to SetIdentity
	GetIdentity(ctx context.Context, userID uint) (*access.Identity, int64, error)
	// SetIdentity is a no-op when DeleteIdentity ran after generation was read
	SetIdentity(ctx context.Context, identity access.Identity, generation int64) error
	DeleteIdentity(ctx context.Context, userID uint) error
	Close() error
}
