package model

import "time"

// Role represents an RBAC role.
type Role struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Seeded role names.
const (
	RoleAdmin   = "Admin"
	RoleHOD     = "HOD"
	RoleFaculty = "Faculty"
)

// RoleWithPermissions is a role together with the permission codes it grants.
type RoleWithPermissions struct {
	Role
	Permissions []string `json:"permissions"`
}

// Grants reports whether the role carries the permission.
func (r RoleWithPermissions) Grants(code Permission) bool {
	return HasPermission(r.Permissions, code)
}
