package policy

// Roles known to the system.
const (
	RoleAdmin    = "admin"
	RoleSalesRep = "sales_rep"
)

// Route identifies one navigation target.
type Route string

const (
	RouteDashboard  Route = "dashboard"
	RouteVisits     Route = "visits"
	RoutePharmacies Route = "pharmacies"
	RouteCalendar   Route = "calendar"
	RouteAnalytics  Route = "analytics"
	RouteUsers      Route = "users"
)

// Policy is what a role is allowed to see and do.
type Policy struct {
	VisibleRoutes  map[Route]bool
	CanManageUsers bool
}

// Visible reports whether the route is in the policy's navigation set.
func (p Policy) Visible(r Route) bool { return p.VisibleRoutes[r] }

func baseRoutes() map[Route]bool {
	return map[Route]bool{
		RouteDashboard:  true,
		RouteVisits:     true,
		RoutePharmacies: true,
		RouteCalendar:   true,
		RouteAnalytics:  true,
	}
}

// ForRole maps a role to its policy. Unknown roles get the sales_rep
// policy: unrecognized input must never widen access.
func ForRole(role string) Policy {
	switch role {
	case RoleAdmin:
		routes := baseRoutes()
		routes[RouteUsers] = true
		return Policy{VisibleRoutes: routes, CanManageUsers: true}
	default:
		return Policy{VisibleRoutes: baseRoutes(), CanManageUsers: false}
	}
}
