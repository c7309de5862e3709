package models

import (
	"time"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role rows are seeded from club.Role values; users reference one by id.
type Role struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"unique;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (role *Role) BeforeCreate(tx *gorm.DB) (err error) {
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	return
}

// Club falls back to member for rows that were not seeded by this version.
func (role Role) Club() club.Role {
	r := club.Role(role.Name)
	if !r.Valid() {
		return club.RoleMember
	}
	return r
}
