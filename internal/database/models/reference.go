package models

import "time"

// ReferenceData holds the columns shared by every admin-managed lookup table
type ReferenceData struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entry exposes the shared columns of a genre or platform
func (r *ReferenceData) Entry() *ReferenceData {
	return r
}

// Genre is reference data shared by every user
type Genre struct {
	ReferenceData
}

// TableName overrides the table name
func (Genre) TableName() string {
	return "genres"
}

// Platform is reference data shared by every user
type Platform struct {
	ReferenceData
}

// TableName overrides the table name
func (Platform) TableName() string {
	return "platforms"
}
