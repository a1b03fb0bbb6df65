package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForRoleAdmin(t *testing.T) {
	p := ForRole(RoleAdmin)

	assert.True(t, p.CanManageUsers)
	assert.True(t, p.Visible(RouteUsers))
	assert.True(t, p.Visible(RouteDashboard))
	assert.True(t, p.Visible(RoutePharmacies))
}

func TestForRoleSalesRep(t *testing.T) {
	p := ForRole(RoleSalesRep)

	assert.False(t, p.CanManageUsers)
	assert.False(t, p.Visible(RouteUsers))
	assert.True(t, p.Visible(RouteVisits))
	assert.True(t, p.Visible(RouteCalendar))
}

func TestForRoleFailsClosed(t *testing.T) {
	for _, role := range []string{"", "superadmin", "ADMIN", "unknown"} {
		t.Run("role "+role, func(t *testing.T) {
			p := ForRole(role)
			assert.Equal(t, ForRole(RoleSalesRep), p)
			assert.False(t, p.CanManageUsers)
		})
	}
}
