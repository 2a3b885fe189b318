package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"coursemarket/internal/qerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_secret"

func stripeSignature(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts.Unix(), payload)))
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestParseCheckoutCompleted(t *testing.T) {
	g := NewStripeGateway("sk_test_unused", testWebhookSecret)
	payload := []byte(`{
		"id": "evt_1",
		"object": "event",
		"api_version": "2020-08-27",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_1", "object": "checkout.session", "metadata": {"purchaseId": "purchase-1"}}}
	}`)

	e, err := g.ParseEvent(payload, stripeSignature(payload, testWebhookSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", e.ID)
	assert.Equal(t, EventCheckoutCompleted, e.Type)
	assert.Equal(t, "cs_test_1", e.SessionID)
	assert.Equal(t, "purchase-1", e.PurchaseID)
}

func TestParseOtherEvent(t *testing.T) {
	g := NewStripeGateway("sk_test_unused", testWebhookSecret)
	payload := []byte(`{"id": "evt_2", "object": "event", "type": "charge.refunded", "data": {"object": {"id": "ch_1"}}}`)

	e, err := g.ParseEvent(payload, stripeSignature(payload, testWebhookSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "charge.refunded", e.Type)
	assert.Empty(t, e.PurchaseID)
}

func TestParseEventRejectsBadSignature(t *testing.T) {
	g := NewStripeGateway("sk_test_unused", testWebhookSecret)
	payload := []byte(`{"id": "evt_1", "object": "event", "type": "checkout.session.completed"}`)

	_, err := g.ParseEvent(payload, stripeSignature(payload, "whsec_other", time.Now()))
	assert.ErrorIs(t, err, qerrors.InvalidSignatureError)

	_, err = g.ParseEvent(payload, stripeSignature(payload, testWebhookSecret, time.Now().Add(-time.Hour)))
	assert.ErrorIs(t, err, qerrors.InvalidSignatureError)

	_, err = g.ParseEvent(payload, "")
	assert.ErrorIs(t, err, qerrors.InvalidSignatureError)
}
