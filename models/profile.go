package models

// Role is the mirrored profile role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DefaultDisplayName is shown when a profile has no full name or could not be loaded.
const DefaultDisplayName = "Shopper"

// Profile is a row of the profiles table, keyed by the auth user id.
type Profile struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Email    string `gorm:"type:text;not null" json:"email"`
	FullName string `gorm:"column:full_name;type:text" json:"full_name,omitempty"`
	Role     Role   `gorm:"type:text;not null;default:user" json:"role"`
}

func (Profile) TableName() string { return "profiles" }
