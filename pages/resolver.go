// Package pages decides which top-level page a session may see.
package pages

import (
	"github.com/google/uuid"

	"rental-market/models"
)

// Route is a requested top-level page.
type Route string

const (
	RouteHome      Route = "home"
	RouteDashboard Route = "dashboard"
	RouteAdmin     Route = "admin"
)

// Page is the resolved page. The set of implementations is closed.
type Page interface {
	Name() string
	page()
}

// Home is the public search page.
type Home struct{}

// OwnerDashboard lists one owner's properties and analytics.
type OwnerDashboard struct {
	OwnerID uuid.UUID
}

// AdminPanel is the moderation page.
type AdminPanel struct {
	AdminID uuid.UUID
}

// AccessDenied is shown when the session's role may not open Route.
type AccessDenied struct {
	Route Route
	Role  models.Role
}

func (Home) Name() string           { return "home" }
func (OwnerDashboard) Name() string { return "owner-dashboard" }
func (AdminPanel) Name() string     { return "admin-panel" }
func (AccessDenied) Name() string   { return "access-denied" }

func (Home) page()           {}
func (OwnerDashboard) page() {}
func (AdminPanel) page()     {}
func (AccessDenied) page()   {}

// Resolve maps a session and a requested route to the page to show.
// A nil session is a guest. Unknown routes land on Home.
func Resolve(sess *models.Session, route Route) Page {
	role := sess.EffectiveRole()

	switch route {
	case RouteDashboard:
		if role == models.RoleOwner {
			return OwnerDashboard{OwnerID: sess.UserID}
		}
		return AccessDenied{Route: route, Role: role}
	case RouteAdmin:
		if role == models.RoleAdmin {
			return AdminPanel{AdminID: sess.UserID}
		}
		return AccessDenied{Route: route, Role: role}
	default:
		return Home{}
	}
}
