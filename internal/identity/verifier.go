package identity

import (
	"fmt"
	"net/http"

	"coursemarket/internal/qerrors"

	svix "github.com/svix/svix-webhooks/go"
)

// Verifier checks the Svix signature headers (svix-id, svix-timestamp, svix-signature) of identity webhooks.
type Verifier struct {
	wh *svix.Webhook
}

func NewVerifier(secret string) (*Verifier, error) {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("error creating identity webhook verifier: %w", err)
	}
	return &Verifier{wh: wh}, nil
}

func (v *Verifier) Verify(payload []byte, headers http.Header) error {
	if err := v.wh.Verify(payload, headers); err != nil {
		return fmt.Errorf("%w: %v", qerrors.InvalidSignatureError, err)
	}
	return nil
}
