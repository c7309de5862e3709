package club

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveRole(t *testing.T) {
	admins := []string{"lead@club.in", " Both@Club.in "}
	supers := []string{"root@club.in", "both@club.in"}

	tests := []struct {
		email string
		want  Role
	}{
		{"someone@club.in", RoleMember},
		{"LEAD@club.in", RoleAdmin},
		{"root@club.in", RoleSuperadmin},
		{"both@club.in", RoleSuperadmin},
		{"", RoleMember},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveRole(tt.email, admins, supers))
		})
	}
}

func TestRoleIsAdmin(t *testing.T) {
	assert.False(t, RoleMember.IsAdmin())
	assert.True(t, RoleAdmin.IsAdmin())
	assert.True(t, RoleSuperadmin.IsAdmin())
	assert.False(t, Role("guest").Valid())
}

func TestEventWhenFallsBackToDay(t *testing.T) {
	e := Event{Date: "2024-03-15"}
	assert.Equal(t, 2024, e.When().Year())
	assert.Equal(t, 15, e.When().Day())

	assert.True(t, Event{Date: "15/03/2024"}.When().IsZero())
}

func TestSeatsLeft(t *testing.T) {
	assert.Equal(t, -1, Event{}.SeatsLeft())
	assert.Equal(t, 5, Event{Capacity: 10, Participants: 5}.SeatsLeft())
	assert.Equal(t, 0, Event{Capacity: 10, Participants: 12}.SeatsLeft())
}
