package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"coursemarket/internal/identity"
	"coursemarket/internal/qerrors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang/glog"
)

// WebhookRoutes receives signed events from the identity provider and the payment processor. They are not
// behind the auth middleware; the signature authenticates the sender.
func WebhookRoutes(s *Services) *chi.Mux {
	h := newHandlers(s)
	router := chi.NewRouter()

	router.Post("/identity", h.identityWebhookHandler)
	router.Post("/payments", h.paymentWebhookHandler)

	return router
}

// POST: /identity
func (h *handlers) identityWebhookHandler(w http.ResponseWriter, r *http.Request) {
	body, err := readWebhookBody(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.IdentityVerifier.Verify(body, r.Header); err != nil {
		respondError(w, r, err)
		return
	}

	var event identity.Event
	if err := json.Unmarshal(body, &event); err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", qerrors.InvalidEventError, err))
		return
	}

	if err := h.Identity.HandleEvent(r.Context(), &event); err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, r, "Webhook Received")
}

// POST: /payments
//
// Verified events that are dropped still get a 200. Any other processing failure gets a 500 so the processor
// redelivers the event.
func (h *handlers) paymentWebhookHandler(w http.ResponseWriter, r *http.Request) {
	body, err := readWebhookBody(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	event, err := h.Payments.ParseEvent(body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.Enrollment.HandlePaymentEvent(r.Context(), event); err != nil {
		glog.Errorf("error handling payment event %v: %v\n", event.ID, err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, render.M{"success": false, "message": "something went wrong"})
		return
	}

	respond(w, r, render.M{"received": true})
}
