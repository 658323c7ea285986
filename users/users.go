package users

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an account known to the development backend.
type User struct {
	ID           int       `json:"id"`                      // Auto-incremented identifier
	Email        string    `json:"email"`                   // Login name, stored lower-cased
	PasswordHash string    `json:"-"`                       // Hashed version of the user's password - never serialize
	FirstName    string    `json:"f_name,omitempty"`        // First name of the user
	LastName     string    `json:"l_name,omitempty"`        // Last name of the user
	Phone        string    `json:"phone,omitempty"`         // Contact number shown on the profile
	DateJoined   time.Time `json:"date_joined"`             // Date and time when the user registered
	IsActive     bool      `json:"is_active"`               // Inactive users cannot authenticate
	IsStaff      bool      `json:"is_staff"`                // Staff may use the admin site
	IsSuperuser  bool      `json:"is_superuser"`            // Superusers may use the admin site
	IsApproved   bool      `json:"is_approved"`             // Admin logins are refused until approved
	CurrentClass string    `json:"current_class,omitempty"` // Class shown on student profiles
}

// CanAccessAdmin reports whether the account passes the admin login role check.
func (u *User) CanAccessAdmin() bool {
	return u != nil && (u.IsStaff || u.IsSuperuser)
}

// Authenticate checks the password of an active account.
func (u *User) Authenticate(password string) bool {
	return u != nil && u.IsActive && CheckPasswordHash(password, u.PasswordHash)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
