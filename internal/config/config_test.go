package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "usd", cfg.Currency)
	assert.False(t, cfg.EnrollOnCheckout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MARKET_PORT", "9090")
	t.Setenv("MARKET_CURRENCY", "EUR")
	t.Setenv("MARKET_ENROLL_ON_CHECKOUT", "true")
	t.Setenv("MARKET_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("MARKET_API_BASE_URL", "https://api.example/")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "eur", cfg.Currency)
	assert.True(t, cfg.EnrollOnCheckout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "https://api.example", cfg.APIBaseURL)
}
