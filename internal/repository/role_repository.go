package repository

import (
	"context"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RoleRepository handles read access to the seeded roles.
type RoleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

// ListRolesWithPermissions returns every role with the permission codes it grants.
func (r *RoleRepository) ListRolesWithPermissions(ctx context.Context) ([]model.RoleWithPermissions, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.name, r.created_at,
		        COALESCE(array_agg(rp.permission_code ORDER BY rp.permission_code)
		                 FILTER (WHERE rp.permission_code IS NOT NULL), '{}')
		 FROM roles r
		 LEFT JOIN role_permissions rp ON rp.role_id = r.id
		 GROUP BY r.id
		 ORDER BY r.id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []model.RoleWithPermissions
	for rows.Next() {
		var role model.RoleWithPermissions
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.Permissions); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
