package services

import (
	"database/sql"
	"time"

	"github.com/creatorhq/creator-api/internal/logger"
	"github.com/creatorhq/creator-api/internal/models"
	"github.com/creatorhq/creator-api/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserUpsert carries the fields of one sign-in. The nullable text fields
// use a tri-state: a nil pointer leaves the stored value untouched, an
// invalid NullString writes NULL, a valid one writes the value.
type UserUpsert struct {
	OpenID       string
	Name         *sql.NullString
	Email        *sql.NullString
	LoginMethod  *sql.NullString
	Role         *string
	LastSignedIn *time.Time
}

// UpsertUser inserts or refreshes the user row keyed by OpenID. It is the
// only write path for users and never duplicates rows: a conflict on the
// unique OpenID resolves to an update of the supplied fields.
//
// LastSignedIn is always refreshed, to now when not explicitly supplied.
// The configured owner identity is granted the admin role unless a role
// was passed in. Storage failures are logged and swallowed: this is a
// best-effort side channel of the authentication flow, not proof of work.
func UpsertUser(db *gorm.DB, log *logger.Logger, ownerOpenID string, in UserUpsert) error {
	if in.OpenID == "" {
		return &types.ValidationError{Message: "user openId is required for upsert"}
	}

	signedIn := time.Now().UTC()
	if in.LastSignedIn != nil {
		signedIn = *in.LastSignedIn
	}

	user := models.User{
		OpenID:       in.OpenID,
		Role:         models.RoleUser,
		LastSignedIn: signedIn,
	}
	assign := map[string]interface{}{
		"last_signed_in": signedIn,
	}

	textFields := []struct {
		column string
		value  *sql.NullString
		dst    **string
	}{
		{"name", in.Name, &user.Name},
		{"email", in.Email, &user.Email},
		{"login_method", in.LoginMethod, &user.LoginMethod},
	}
	for _, f := range textFields {
		if f.value == nil {
			continue
		}
		if f.value.Valid {
			v := f.value.String
			*f.dst = &v
			assign[f.column] = v
		} else {
			*f.dst = nil
			assign[f.column] = nil
		}
	}

	switch {
	case in.Role != nil:
		user.Role = *in.Role
		assign["role"] = *in.Role
	case ownerOpenID != "" && in.OpenID == ownerOpenID:
		user.Role = models.RoleAdmin
		assign["role"] = models.RoleAdmin
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "open_id"}},
		DoUpdates: clause.Assignments(assign),
	}).Create(&user).Error
	if err != nil {
		log.Warn().Err(err).Str("open_id", in.OpenID).Msg("user upsert skipped: store unavailable")
		return nil
	}

	return nil
}

// GetUserByOpenID loads the user row for an external identity. A missing
// row returns (nil, nil).
func GetUserByOpenID(db *gorm.DB, openID string) (*models.User, error) {
	var user models.User
	err := db.Where("open_id = ?", openID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, &types.StorageError{Op: "get user", Err: err}
	}
	return &user, nil
}
