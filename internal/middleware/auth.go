package middleware

import (
	"database/sql"
	"fmt"

	"github.com/creatorhq/creator-api/internal/config"
	"github.com/creatorhq/creator-api/internal/logger"
	"github.com/creatorhq/creator-api/internal/models"
	"github.com/creatorhq/creator-api/internal/services"
	"github.com/creatorhq/creator-api/internal/types"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserLocal is the fiber locals key carrying the resolved *models.User.
const UserLocal = "user"

// AuthUser validates the session cookie against the Authorizer, upserts the
// user row (best effort) and resolves the local user record so every
// handler downstream has an established owner identity. Anonymous calls
// are rejected here, before any handler runs.
func AuthUser(db *gorm.DB, cfg *config.Config, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := c.Cookies("cookie_session")
		if session == "" {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Authorizer cookie \"cookie_session\" not found",
				Type:    "creator.authorization.user",
			}
		}

		// The Authorizer client needs the request host for its redirect
		// URL, so it is initialized on the first authenticated request.
		if !services.IsAuthorizerInitialized() {
			if err := services.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err != nil {
				return &types.CustomError{
					Code:    fiber.StatusServiceUnavailable,
					Message: fmt.Sprintf("Authorizer unavailable: %v", err),
					Type:    "creator.authorization.init",
				}
			}
		}

		sessionUser, err := services.ValidateSession(session, []string{models.RoleUser})
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: fmt.Sprintf("Invalid session: %v", err),
				Type:    "creator.authorization.user",
			}
		}

		// Establish ownership before any handler runs. The upsert itself
		// is best effort; the row load below is not.
		_ = services.UpsertUser(db, log, cfg.OwnerOpenID, services.UserUpsert{
			OpenID:      sessionUser.ID,
			Name:        nullable(sessionUser.GivenName),
			Email:       nullable(sessionUser.Email),
			LoginMethod: nullable(sessionUser.SignupMethods),
		})

		user, err := services.GetUserByOpenID(db, sessionUser.ID)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusInternalServerError,
				Message: "Storage unavailable",
				Type:    "creator.storage.user",
			}
		}
		if user == nil {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "User record could not be established",
				Type:    "creator.authorization.user",
			}
		}

		c.Locals(UserLocal, user)

		return c.Next()
	}
}

// CurrentUser returns the user resolved by AuthUser for this request.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(UserLocal).(*models.User)
	if !ok || user == nil {
		return nil, fmt.Errorf("user not found in context")
	}
	return user, nil
}

// nullable maps an optional identity field onto the upsert tri-state:
// a missing field stays untouched rather than being written as NULL.
func nullable(v *string) *sql.NullString {
	if v == nil {
		return nil
	}
	return &sql.NullString{String: *v, Valid: true}
}
