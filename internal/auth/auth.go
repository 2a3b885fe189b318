package auth

import (
	"context"
	"time"

	"coursemarket/internal/models"
)

// Claims is the verified identity attached to an authenticated request.
type Claims struct {
	UID     string
	Role    string
	Name    string
	Email   string
	Picture string
}

// IsEducator reports whether the claims carry the educator role.
func (c *Claims) IsEducator() bool {
	return c.Role == models.RoleEducator
}

// Provider is the identity provider. It issues the user IDs, verifies tokens and holds the canonical
// profile and role of every account.
type Provider interface {
	// VerifyIDToken verifies a bearer token and returns its claims.
	VerifyIDToken(ctx context.Context, token string) (*Claims, error)
	// VerifySessionCookie verifies a session cookie created by CreateSessionCookie.
	VerifySessionCookie(ctx context.Context, cookie string) (*Claims, error)
	// CreateSessionCookie exchanges an ID token for a session cookie valid for expiresIn.
	CreateSessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
	// GetProfile returns qerrors.UserNotFoundError when the account does not exist.
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
	// SetRole stores role as a custom claim. It is visible in tokens issued after the call.
	SetRole(ctx context.Context, uid, role string) error
}
