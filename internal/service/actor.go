package service

import "github.com/campusdesk/erp-backend/internal/model"

// Actor is the authenticated account performing an operation.
type Actor struct {
	ID          int
	Name        string
	Permissions []string
}

// ActorFromClaims builds an Actor from validated JWT claims.
func ActorFromClaims(c *Claims) Actor {
	return Actor{ID: c.AccountID, Name: c.Name, Permissions: c.Permissions}
}

// Can reports whether the actor holds a permission.
func (a Actor) Can(p model.Permission) bool {
	return model.HasPermission(a.Permissions, p)
}

// canReadAll reports whether the actor may see papers of other faculty.
func (a Actor) canReadAll() bool {
	return a.Can(model.PermissionPapersReadAll) || a.Can(model.PermissionPapersReview)
}
