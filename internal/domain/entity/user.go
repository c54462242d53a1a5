package entity

import (
	"regexp"
	"time"
)

// Role is the closed set of user roles. Authorization code switches
// exhaustively over it so an unknown role can never slip past a check.
type Role string

const (
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCompany, RoleAdmin:
		return true
	default:
		return false
	}
}

// PIBPattern matches a Serbian tax identification number: exactly 9 digits.
var PIBPattern = regexp.MustCompile(`^\d{9}$`)

// ValidPIB reports whether s is a well-formed PIB.
func ValidPIB(s string) bool {
	return PIBPattern.MatchString(s)
}

// User is a registered account: a company (with a PIB) or an admin.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, never plaintext past registration
	Role         Role
	PIB          *string // 9 digits for company users; nil for admins
	Verified     bool    // companies start unverified; flipped by an admin
	CreatedAt    time.Time
}

// PIBValue returns the user's PIB or "" when none is set.
func (u *User) PIBValue() string {
	if u.PIB == nil {
		return ""
	}
	return *u.PIB
}
