package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of account roles
type Role uint8

const (
	RoleGamer Role = iota + 1
	RoleAdmin
)

// ErrInvalidRole is returned when a stored or supplied role is not one of the known roles
var ErrInvalidRole = errors.New("invalid role")

// ParseRole converts the canonical role name into a Role
func ParseRole(s string) (Role, error) {
	switch s {
	case "GAMER":
		return RoleGamer, nil
	case "ADMIN":
		return RoleAdmin, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleGamer:
		return "GAMER"
	case RoleAdmin:
		return "ADMIN"
	default:
		return "UNKNOWN"
	}
}

// IsAdmin reports whether the role is the administrator role
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) MarshalText() ([]byte, error) {
	if r != RoleGamer && r != RoleAdmin {
		return nil, ErrInvalidRole
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value stores the role by name so the column stays readable
func (r Role) Value() (driver.Value, error) {
	if r != RoleGamer && r != RoleAdmin {
		return nil, ErrInvalidRole
	}
	return r.String(), nil
}

func (r *Role) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidRole, src)
	}
}

// User represents an account; soft-deleted rows are hidden from every default query
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Username  string         `gorm:"uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      Role           `gorm:"type:varchar(16);not null" json:"role"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Games []Game `gorm:"foreignKey:OwnerID" json:"-"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// IsSoftDeleted reports whether the account has been soft deleted
func (u *User) IsSoftDeleted() bool {
	return u.DeletedAt.Valid
}
