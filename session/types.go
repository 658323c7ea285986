package session

import (
	"strings"

	"golang.org/x/oauth2"
)

// UserRecord is the account embedded in a profile response.
type UserRecord struct {
	ID          int     `json:"id"`
	Email       string  `json:"email"`
	FirstName   *string `json:"f_name,omitempty"`
	LastName    *string `json:"l_name,omitempty"`
	IsActive    bool    `json:"is_active"`
	IsStaff     bool    `json:"is_staff"`
	IsSuperuser bool    `json:"is_superuser"`
}

// Profile is the payload of GET /profile/.
type Profile struct {
	ID           int         `json:"id"`
	User         *UserRecord `json:"user"`
	Phone        *string     `json:"phone,omitempty"`
	PhotoURL     *string     `json:"photo_url,omitempty"`
	CurrentClass *string     `json:"current_class,omitempty"`
	GroupName    *string     `json:"group_name,omitempty"`
	StudentUID   *string     `json:"student_uid,omitempty"`
}

// IsStaff reports the server-verified staff bit.
func (p *Profile) IsStaff() bool {
	return p != nil && p.User != nil && p.User.IsStaff
}

// User is the identity derived from a Profile. It is never persisted.
type User struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	FullName    string `json:"full_name"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// DeriveUser builds the User for a profile, or nil when the profile carries no account.
func DeriveUser(p *Profile) *User {
	if p == nil || p.User == nil {
		return nil
	}
	first := trimmed(p.User.FirstName)
	last := trimmed(p.User.LastName)
	fullName := strings.TrimSpace(first + " " + last)
	if fullName == "" {
		fullName = p.User.Email
	}
	return &User{
		ID:          p.User.ID,
		Email:       p.User.Email,
		FirstName:   first,
		LastName:    last,
		FullName:    fullName,
		IsStaff:     p.User.IsStaff,
		IsSuperuser: p.User.IsSuperuser,
	}
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// NormalizeEmail trims and lower-cases an address. Applying it twice is a no-op.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TokenPair is what the login endpoint issues. Both values are opaque.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (p TokenPair) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  p.Access,
		RefreshToken: p.Refresh,
		TokenType:    "Bearer",
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}
