package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameStatus represents where a game sits in the owner's backlog
type GameStatus string

const (
	GameStatusWishlist  GameStatus = "WISHLIST"
	GameStatusPlaying   GameStatus = "PLAYING"
	GameStatusCompleted GameStatus = "COMPLETED"
	GameStatusDropped   GameStatus = "DROPPED"
)

// ErrInvalidGameStatus is returned for status values outside the known set
var ErrInvalidGameStatus = errors.New("invalid game status")

// GameStatuses lists every valid status in display order
func GameStatuses() []GameStatus {
	return []GameStatus{GameStatusWishlist, GameStatusPlaying, GameStatusCompleted, GameStatusDropped}
}

// ParseGameStatus accepts a status name in any letter case
func ParseGameStatus(s string) (GameStatus, error) {
	status := GameStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGameStatus, s)
	}
	return status, nil
}

// IsValid reports whether the status is one of the known values
func (s GameStatus) IsValid() bool {
	switch s {
	case GameStatusWishlist, GameStatusPlaying, GameStatusCompleted, GameStatusDropped:
		return true
	}
	return false
}

// Game is a single entry in a user's personal library
type Game struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uint       `gorm:"not null;index" json:"owner_id"`
	Title       string     `gorm:"not null" json:"title"`
	PlatformID  uint       `gorm:"not null;index" json:"platform_id"`
	GenreID     uint       `gorm:"not null;index" json:"genre_id"`
	Status      GameStatus `gorm:"type:varchar(16);not null;default:'WISHLIST';index" json:"status"`
	HoursPlayed int        `gorm:"not null;default:0" json:"hours_played"`
	Rating      *int       `json:"rating"`
	Notes       string     `gorm:"not null;default:''" json:"notes"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	Owner    User     `gorm:"foreignKey:OwnerID" json:"-"`
	Platform Platform `gorm:"foreignKey:PlatformID" json:"platform,omitempty"`
	Genre    Genre    `gorm:"foreignKey:GenreID" json:"genre,omitempty"`
}

// TableName overrides the table name
func (Game) TableName() string {
	return "games"
}

// BeforeCreate assigns a random identifier when the caller did not
func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// SetStatus moves the game to status, stamping or clearing the completion time
func (g *Game) SetStatus(status GameStatus, now time.Time) {
	switch {
	case status == GameStatusCompleted && g.Status != GameStatusCompleted:
		completed := now
		g.CompletedAt = &completed
	case status != GameStatusCompleted:
		g.CompletedAt = nil
	}
	g.Status = status
}
