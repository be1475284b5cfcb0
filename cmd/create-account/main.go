package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strings"
	"syscall"

	"github.com/campusdesk/erp-backend/internal/config"
	"github.com/campusdesk/erp-backend/internal/database"
	"github.com/campusdesk/erp-backend/internal/logger"
	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/repository"
	"github.com/campusdesk/erp-backend/internal/service"
	"github.com/jackc/pgx/v5"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Services ───────────────────────────────────────────
	accountService := service.NewAccountService(repository.NewAccountRepository(pool))
	authService := service.NewAuthService(cfg, nil) // hashing only, no Redis needed

	roles, err := repository.NewRoleRepository(pool).ListRolesWithPermissions(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load roles")
	}
	if len(roles) == 0 {
		log.Fatal().Msg("No roles found, run the migrations first")
	}

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Staff Account ===")

	name := prompt(reader, "Enter Name: ")
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	email := strings.ToLower(prompt(reader, "Enter Email: "))
	if _, err := mail.ParseAddress(email); err != nil {
		fmt.Println("Error: A valid email is required")
		return
	}

	department := prompt(reader, "Enter Department (e.g. CSE): ")

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	fmt.Println("Available roles:")
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
		marker := ""
		if r.Grants(model.PermissionPapersReview) {
			marker = " (reviewer)"
		}
		fmt.Printf("  %s%s: %s\n", r.Name, marker, strings.Join(r.Permissions, ", "))
	}
	roleName := prompt(reader, fmt.Sprintf("Enter Role [%s] (default %s): ",
		strings.Join(names, "/"), model.RoleFaculty))
	if roleName == "" {
		roleName = model.RoleFaculty
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hash, err := authService.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	account := &model.Account{
		Email:        email,
		Name:         name,
		Department:   department,
		PasswordHash: hash,
	}

	err = accountService.Create(ctx, account, roleName)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		fmt.Printf("Error: Role %q does not exist\n", roleName)
		return
	case errors.Is(err, repository.ErrDuplicateEmail):
		fmt.Printf("Error: An account with email %s already exists\n", email)
		return
	case err != nil:
		log.Fatal().Err(err).Msg("Failed to create account")
	}

	fmt.Printf("\nSuccess! %s account '%s' (%s) created with ID: %d\n", account.RoleName, account.Name, account.Email, account.ID)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
