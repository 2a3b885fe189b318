package auth

import (
	"context"
	"fmt"
	"log"
	"time"

	"coursemarket/internal/models"
	"coursemarket/internal/qerrors"

	firebaseSDK "firebase.google.com/go"
	firebaseAuth "firebase.google.com/go/auth"
)

// FirebaseProvider is a Provider backed by Firebase Authentication.
type FirebaseProvider struct {
	authClient *firebaseAuth.Client
}

func NewFirebaseProvider(ctx context.Context, app *firebaseSDK.App) (*FirebaseProvider, error) {
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("Auth client error: %w", err)
	}

	log.Printf("✅ Successfully created Firebase auth client")
	return &FirebaseProvider{authClient: authClient}, nil
}

func (p *FirebaseProvider) VerifyIDToken(ctx context.Context, token string) (*Claims, error) {
	t, err := p.authClient.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", qerrors.UnauthenticatedError, err)
	}
	return tokenToClaims(t), nil
}

func (p *FirebaseProvider) VerifySessionCookie(ctx context.Context, cookie string) (*Claims, error) {
	// Also detects revoked sessions and deleted or disabled accounts.
	t, err := p.authClient.VerifySessionCookieAndCheckRevoked(ctx, cookie)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", qerrors.UnauthenticatedError, err)
	}
	return tokenToClaims(t), nil
}

func (p *FirebaseProvider) CreateSessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error) {
	cookie, err := p.authClient.SessionCookie(ctx, idToken, expiresIn)
	if err != nil {
		return "", fmt.Errorf("%w: %v", qerrors.UnauthenticatedError, err)
	}
	return cookie, nil
}

func (p *FirebaseProvider) GetProfile(ctx context.Context, uid string) (*models.Profile, error) {
	fbUser, err := p.authClient.GetUser(ctx, uid)
	if firebaseAuth.IsUserNotFound(err) {
		return nil, qerrors.UserNotFoundError
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", qerrors.IdentityLookupError, err)
	}

	return &models.Profile{
		ID:       fbUser.UID,
		Name:     fbUser.DisplayName,
		Email:    fbUser.Email,
		ImageURL: fbUser.PhotoURL,
	}, nil
}

func (p *FirebaseProvider) SetRole(ctx context.Context, uid, role string) error {
	fbUser, err := p.authClient.GetUser(ctx, uid)
	if firebaseAuth.IsUserNotFound(err) {
		return qerrors.UserNotFoundError
	}
	if err != nil {
		return fmt.Errorf("%w: %v", qerrors.IdentityLookupError, err)
	}

	// SetCustomUserClaims replaces every custom claim, so keep the ones already there.
	claims := make(map[string]interface{}, len(fbUser.CustomClaims)+1)
	for k, v := range fbUser.CustomClaims {
		claims[k] = v
	}
	claims["role"] = role

	if err := p.authClient.SetCustomUserClaims(ctx, uid, claims); err != nil {
		return fmt.Errorf("error setting role of user %v: %w", uid, err)
	}
	return nil
}

// Helpers

func tokenToClaims(t *firebaseAuth.Token) *Claims {
	return &Claims{
		UID:     t.UID,
		Role:    stringClaim(t.Claims, "role"),
		Name:    stringClaim(t.Claims, "name"),
		Email:   stringClaim(t.Claims, "email"),
		Picture: stringClaim(t.Claims, "picture"),
	}
}

func stringClaim(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
