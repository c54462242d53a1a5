package dto

import "time"

// RegisterRequest registration input. Company users must supply a 9-digit
// PIB; the password is hashed in the use case.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"` // defaults to company
	PIB      string `json:"pib,omitempty"`
}

// LoginRequest credentials input.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse a user without its password hash.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PIB       *string   `json:"pib"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse login/registration output. The token is also set as an
// HttpOnly cookie by the handler.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token,omitempty"`
}

// UserListResponse admin listing of all users.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
}

// VerifyUserRequest admin toggle for a company's verified flag.
// Verified defaults to true when the body omits it.
type VerifyUserRequest struct {
	Verified *bool `json:"verified"`
}

// ChangePasswordRequest nested in UpdateMeRequest.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdateMeRequest self-service profile update. PIB is only meaningful for
// company users.
type UpdateMeRequest struct {
	Name           *string                `json:"name"`
	PIB            *string                `json:"pib"`
	ChangePassword *ChangePasswordRequest `json:"change_password"`
}
