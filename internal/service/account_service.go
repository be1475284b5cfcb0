package service

import (
	"context"
	"fmt"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/repository"
)

// AccountService handles staff account lookups and provisioning.
type AccountService struct {
	accountRepo *repository.AccountRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo *repository.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// GetByEmail retrieves an account by email.
func (s *AccountService) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return s.accountRepo.GetByEmail(ctx, email)
}

// GetByID retrieves an account by ID.
func (s *AccountService) GetByID(ctx context.Context, id int) (*model.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// GetPermissions retrieves permission codes for an account's role.
func (s *AccountService) GetPermissions(ctx context.Context, roleID int) ([]string, error) {
	return s.accountRepo.GetPermissionsByRoleID(ctx, roleID)
}

// Create inserts an account under the named role.
func (s *AccountService) Create(ctx context.Context, a *model.Account, roleName string) error {
	roleID, err := s.accountRepo.GetRoleIDByName(ctx, roleName)
	if err != nil {
		return fmt.Errorf("resolve role %q: %w", roleName, err)
	}
	a.RoleID = roleID
	a.RoleName = roleName
	return s.accountRepo.Create(ctx, a)
}
