package payment

import (
	"context"
)

const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"

	// PurchaseIDMetadataKey correlates a checkout session with its purchase.
	PurchaseIDMetadataKey = "purchaseId"
)

// CheckoutRequest describes a single-item checkout.
type CheckoutRequest struct {
	PurchaseID  string
	ProductName string
	Currency    string
	// UnitAmount is in minor units (e.g. cents).
	UnitAmount int64
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Event is a verified payment webhook event.
type Event struct {
	ID         string
	Type       string
	SessionID  string
	PurchaseID string
}

// Gateway is the payment processor.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error)
	// ParseEvent verifies the signature header of a webhook payload and decodes it.
	ParseEvent(payload []byte, signatureHeader string) (*Event, error)
}
