package club

import (
	"strings"
	"time"
)

type Role string

const (
	RoleMember     Role = "member"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

func (r Role) IsAdmin() bool { return r == RoleAdmin || r == RoleSuperadmin }

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// DeriveRole maps an e-mail address onto a role using the configured admin
// lists. Superadmin wins when an address appears in both.
func DeriveRole(email string, admins, superadmins []string) Role {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return RoleMember
	}
	for _, s := range superadmins {
		if strings.ToLower(strings.TrimSpace(s)) == email {
			return RoleSuperadmin
		}
	}
	for _, a := range admins {
		if strings.ToLower(strings.TrimSpace(a)) == email {
			return RoleAdmin
		}
	}
	return RoleMember
}

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	RollNumber     string    `json:"roll_number"`
	Branch         string    `json:"branch"`
	EnrollmentYear int       `json:"enrollment_year"`
	AcademicYear   int       `json:"academic_year"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}
