package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig is a struct that contains configuration values for the server.
type ServerConfig struct {
	// AllowedOrigins is a list of URLs that the server will accept requests from.
	AllowedOrigins []string
	// SessionCookieName is the name of the cookie checked when a request carries no bearer token.
	SessionCookieName string
	// SessionCookieExpiration is how long a session cookie created by /v1/users/session stays valid.
	SessionCookieExpiration time.Duration
	// IsHTTPS controls the Secure and SameSite attributes of the session cookie.
	IsHTTPS bool
	// Port is the port the server should run on.
	Port int

	// FirebaseCredentials is the path to the service account file used for Firestore and Firebase Auth.
	FirebaseCredentials string
	// FirebaseProjectID overrides the project ID found in the credentials file.
	FirebaseProjectID string

	// StripeSecretKey is the API key used to create checkout sessions.
	StripeSecretKey string
	// StripeWebhookSecret is the signing secret of the payment webhook endpoint.
	StripeWebhookSecret string
	// IdentityWebhookSecret is the Svix signing secret ("whsec_...") of the identity webhook endpoint.
	IdentityWebhookSecret string
	// Currency is the ISO currency code used for checkout line items.
	Currency string
	// EnrollOnCheckout grants course access as soon as a checkout session is created, before the payment
	// webhook confirms the purchase. The purchase itself stays pending until confirmation.
	EnrollOnCheckout bool

	// APIBaseURL is the address of the API, used by coursectl.
	APIBaseURL string
}

func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		AllowedOrigins:    []string{"http://localhost:5173"},
		SessionCookieName: "__session",
		// Firebase accepts session cookies valid for 5 minutes up to 2 weeks.
		SessionCookieExpiration: time.Hour * 24 * 5,
		Port:                    8080,
		FirebaseCredentials:     "firebase-config.json",
		Currency:                "usd",
		EnrollOnCheckout:        false,
		APIBaseURL:              "http://localhost:8080",
	}
}

// Load reads the configuration from a .env file (if present) and the environment. Every field can be
// set with a MARKET_ prefixed variable, e.g. MARKET_STRIPE_SECRET_KEY.
func Load() *ServerConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("🙂️ No .env file found. Reading configuration from the environment.")
	}

	def := DefaultConfig()
	v := viper.New()
	v.SetEnvPrefix("MARKET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("allowed_origins", strings.Join(def.AllowedOrigins, ","))
	v.SetDefault("session_cookie_name", def.SessionCookieName)
	v.SetDefault("session_cookie_expiration", def.SessionCookieExpiration)
	v.SetDefault("is_https", false)
	v.SetDefault("port", def.Port)
	v.SetDefault("firebase_credentials", def.FirebaseCredentials)
	v.SetDefault("firebase_project_id", "")
	v.SetDefault("stripe_secret_key", "")
	v.SetDefault("stripe_webhook_secret", "")
	v.SetDefault("identity_webhook_secret", "")
	v.SetDefault("currency", def.Currency)
	v.SetDefault("enroll_on_checkout", def.EnrollOnCheckout)
	v.SetDefault("api_base_url", def.APIBaseURL)

	return &ServerConfig{
		AllowedOrigins:          splitList(v.GetString("allowed_origins")),
		SessionCookieName:       v.GetString("session_cookie_name"),
		SessionCookieExpiration: v.GetDuration("session_cookie_expiration"),
		IsHTTPS:                 v.GetBool("is_https"),
		Port:                    v.GetInt("port"),
		FirebaseCredentials:     v.GetString("firebase_credentials"),
		FirebaseProjectID:       v.GetString("firebase_project_id"),
		StripeSecretKey:         v.GetString("stripe_secret_key"),
		StripeWebhookSecret:     v.GetString("stripe_webhook_secret"),
		IdentityWebhookSecret:   v.GetString("identity_webhook_secret"),
		Currency:                strings.ToLower(v.GetString("currency")),
		EnrollOnCheckout:        v.GetBool("enroll_on_checkout"),
		APIBaseURL:              strings.TrimRight(v.GetString("api_base_url"), "/"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
