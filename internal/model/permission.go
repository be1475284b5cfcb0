package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionPapersWriteOwn allows creating papers and editing or submitting own papers.
	PermissionPapersWriteOwn Permission = "papers:write_own"

	// PermissionPapersReadAll allows viewing every paper in the department.
	PermissionPapersReadAll Permission = "papers:read_all"

	// PermissionPapersReview allows claiming, approving and rejecting submitted papers.
	PermissionPapersReview Permission = "papers:review"

	// PermissionAssignmentsRead allows viewing paper setting assignments.
	PermissionAssignmentsRead Permission = "assignments:read"

	// PermissionAssignmentsWrite allows assigning paper setting to faculty.
	PermissionAssignmentsWrite Permission = "assignments:write"

	// PermissionCoursesRead allows viewing courses and regulations.
	PermissionCoursesRead Permission = "courses:read"

	// PermissionCoursesWrite allows adding courses.
	PermissionCoursesWrite Permission = "courses:write"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionPapersWriteOwn,
	PermissionPapersReadAll,
	PermissionPapersReview,
	PermissionAssignmentsRead,
	PermissionAssignmentsWrite,
	PermissionCoursesRead,
	PermissionCoursesWrite,
}

// HasPermission reports whether code is present in a permission list.
func HasPermission(granted []string, code Permission) bool {
	for _, g := range granted {
		if g == string(code) {
			return true
		}
	}
	return false
}
