package firebase

import (
	"context"
	"fmt"
	"log"

	firebaseSDK "firebase.google.com/go"
	"google.golang.org/api/option"

	"coursemarket/internal/config"
)

// NewApp initializes the Firebase App used for both Firestore and Firebase Auth.
func NewApp(ctx context.Context, cfg *config.ServerConfig) (*firebaseSDK.App, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentials))
	}

	var fbConfig *firebaseSDK.Config
	if cfg.FirebaseProjectID != "" {
		fbConfig = &firebaseSDK.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebaseSDK.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	log.Println("✅ Initialized Firebase app")
	return app, nil
}
