package models

import "time"

// AuthUser is the user object returned by the auth API.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the token set issued by the auth API.
type Session struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	User         AuthUser `json:"user"`
}

// Viewer is the auth state mirrored into the session cookie. ExpiresAt is the
// access token's expiry in Unix seconds, zero when unknown.
type Viewer struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`
	ExpiresAt    int64  `json:"-"`
	Role         Role   `json:"role"`
	FullName     string `json:"full_name,omitempty"`
}

// ExpiresWithin reports whether the access token expires before now+d. An
// unknown expiry never does.
func (v *Viewer) ExpiresWithin(now time.Time, d time.Duration) bool {
	return v != nil && v.ExpiresAt > 0 && now.Add(d).Unix() >= v.ExpiresAt
}

// Authenticated reports whether the viewer carries a signed-in user.
func (v *Viewer) Authenticated() bool {
	return v != nil && v.UserID != "" && v.AccessToken != ""
}

// IsAdmin reports whether the mirrored role is admin.
func (v *Viewer) IsAdmin() bool {
	return v != nil && v.Role == RoleAdmin
}

// DisplayName falls back to DefaultDisplayName when no full name is known.
func (v *Viewer) DisplayName() string {
	if v == nil || v.FullName == "" {
		return DefaultDisplayName
	}
	return v.FullName
}

// LoginRequest is the sign-in form.
type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

// SignupRequest is the sign-up form.
type SignupRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,min=6"`
	FullName string `form:"full_name" json:"full_name" binding:"required"`
}
