package auth

import "time"

// Role is the coarse identity classification. The set is closed: anything
// outside it is rejected at user creation/update.
type Role string

const (
	// RoleAdmin manages staff, billing and reporting.
	RoleAdmin Role = "admin"
	// RoleFisioterapis covers clinicians working with patients.
	RoleFisioterapis Role = "fisioterapis"
)

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleFisioterapis
}

// User represents a staff account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	NamaLengkap  string    `json:"nama_lengkap"`
	NoTelepon    *string   `json:"no_telepon,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session binds an opaque token to a user for a bounded time window.
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its absolute expiry.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
