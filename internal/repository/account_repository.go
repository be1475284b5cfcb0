package repository

import (
	"context"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountRepository handles staff account and permission data access.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountSelect = `SELECT a.id, a.email, a.name, a.department, a.password_hash, a.role_id, r.name,
	        a.created_at, a.updated_at
	 FROM accounts a JOIN roles r ON a.role_id = r.id`

func scanAccount(row interface{ Scan(...any) error }) (*model.Account, error) {
	a := &model.Account{}
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Department, &a.PasswordHash, &a.RoleID, &a.RoleName,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int) (*model.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, accountSelect+` WHERE a.id = $1`, id))
}

// GetByEmail retrieves an account by its unique email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, accountSelect+` WHERE a.email = $1`, email))
}

// ListByPermission returns every account whose role grants the permission.
func (r *AccountRepository) ListByPermission(ctx context.Context, code model.Permission) ([]model.Account, error) {
	rows, err := r.pool.Query(ctx,
		accountSelect+`
		 JOIN role_permissions rp ON rp.role_id = a.role_id
		 WHERE rp.permission_code = $1
		 ORDER BY a.id`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, a *model.Account) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO accounts (email, name, department, password_hash, role_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		a.Email, a.Name, a.Department, a.PasswordHash, a.RoleID,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

// GetRoleIDByName resolves a seeded role name to its ID.
func (r *AccountRepository) GetRoleIDByName(ctx context.Context, name string) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, name).Scan(&id)
	return id, err
}

// GetPermissionsByRoleID retrieves all permission codes for a given role.
func (r *AccountRepository) GetPermissionsByRoleID(ctx context.Context, roleID int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT permission_code
		 FROM role_permissions
		 WHERE role_id = $1
		 ORDER BY permission_code`, roleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	permissions := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		permissions = append(permissions, code)
	}
	return permissions, rows.Err()
}
