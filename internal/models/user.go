package models

import (
	"time"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/rollno"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	Name           string    `gorm:"not null"`
	Email          string    `gorm:"unique;not null"`
	Password       string    `gorm:"not null"`
	RollNumber     string    `gorm:"unique;not null"`
	Branch         string    `gorm:"type:varchar(3);not null"`
	EnrollmentYear int       `gorm:"not null"`
	RoleID         uuid.UUID `gorm:"type:uuid"`
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}

// Record expects Role to be preloaded. The academic year depends on now and
// is never stored.
func (user *User) Record(now time.Time) club.User {
	rec := club.User{
		ID:             user.ID.String(),
		Name:           user.Name,
		Email:          user.Email,
		RollNumber:     user.RollNumber,
		Branch:         user.Branch,
		EnrollmentYear: user.EnrollmentYear,
		Role:           user.Role.Club(),
		CreatedAt:      user.CreatedAt,
	}
	if n, err := rollno.Parse(user.RollNumber); err == nil {
		rec.AcademicYear = n.AcademicYear(now)
	}
	return rec
}
