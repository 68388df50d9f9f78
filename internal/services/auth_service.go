package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/authorizerdev/authorizer-go"
	"github.com/creatorhq/creator-api/internal/config"
	"github.com/creatorhq/creator-api/internal/utils"
)

var (
	authClient *authorizer.AuthorizerClient
	authOnce   sync.Once
)

// SessionUser is the identity the Authorizer attached to a valid session.
// It is decoded from the SDK's user payload so only the fields this
// service needs are depended on.
type SessionUser struct {
	ID            string  `json:"id"`
	Email         *string `json:"email"`
	GivenName     *string `json:"given_name"`
	SignupMethods *string `json:"signup_methods"`
}

// IsAuthorizerInitialized returns true if the Authorizer client is initialized
func IsAuthorizerInitialized() bool {
	return authClient != nil
}

// InitAuthorizer initializes the Authorizer client (singleton pattern)
func InitAuthorizer(cfg *config.Config, requestProtocol, requestHost string) error {
	var initErr error

	authOnce.Do(func() {
		// Ping the Authorizer service first
		if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
			initErr = fmt.Errorf("authorizer ping failed: %w", err)
			return
		}

		redirectURL := fmt.Sprintf("%s://%s", requestProtocol, requestHost)

		var err error
		authClient, err = authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, redirectURL, nil)
		if err != nil {
			initErr = fmt.Errorf("failed to create authorizer client: %w", err)
			return
		}
	})

	return initErr
}

// ValidateSession validates a session cookie for the given roles and
// returns the session's user identity.
func ValidateSession(cookie string, roles []string) (*SessionUser, error) {
	if authClient == nil {
		return nil, fmt.Errorf("authorizer client not initialized")
	}

	rolesPtrs := make([]*string, len(roles))
	for i := range roles {
		rolesPtrs[i] = &roles[i]
	}

	res, err := authClient.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}
	if res == nil || !res.IsValid {
		return nil, fmt.Errorf("session is not valid")
	}

	// Round-trip through JSON so only the fields used here matter
	payload, err := json.Marshal(res.User)
	if err != nil {
		return nil, fmt.Errorf("decode session user: %w", err)
	}
	var user SessionUser
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, fmt.Errorf("decode session user: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("session user has no id")
	}

	return &user, nil
}
