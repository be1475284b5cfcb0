package model

import "time"

// Account is a staff member who can sign in: faculty, head of department or
// administrator.
type Account struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Department   string    `json:"department"`
	PasswordHash string    `json:"-"`
	RoleID       int       `json:"role_id"`
	RoleName     string    `json:"role_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest is the payload for staff authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Account     Account   `json:"account"`
	Permissions []string  `json:"permissions"`
}

// AccountProfile is returned by the "who am I" endpoint.
type AccountProfile struct {
	Account     Account  `json:"account"`
	Permissions []string `json:"permissions"`
}
