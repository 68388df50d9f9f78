package models

import "time"

// User roles. Exactly one configured owner identity is elevated to admin
// at upsert time; everyone else defaults to user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the identity anchor for artifact ownership. Rows are keyed by the
// immutable OpenID assigned by the external identity provider; upsert is the
// only write path.
type User struct {
	ID           uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OpenID       string  `gorm:"size:64;not null;uniqueIndex" json:"openId"`
	Name         *string `gorm:"size:255" json:"name"`
	Email        *string `gorm:"size:320" json:"email"`
	LoginMethod  *string `gorm:"size:64" json:"loginMethod"`
	Role         string  `gorm:"size:16;not null;default:user" json:"role"`
	LastSignedIn time.Time `json:"lastSignedIn"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// IsAdmin returns true if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
