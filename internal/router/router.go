package router

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"coursemarket/internal/analytics"
	"coursemarket/internal/auth"
	"coursemarket/internal/config"
	"coursemarket/internal/enrollment"
	"coursemarket/internal/identity"
	"coursemarket/internal/payment"
	"coursemarket/internal/progress"
	"coursemarket/internal/qerrors"
	"coursemarket/internal/rating"
	"coursemarket/internal/repository"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/golang/glog"
)

// maxWebhookBytes bounds the size of webhook payloads.
const maxWebhookBytes = 1 << 20

// WebhookVerifier checks the signature headers of an identity webhook payload.
type WebhookVerifier interface {
	Verify(payload []byte, headers http.Header) error
}

// Services is everything the route handlers depend on.
type Services struct {
	Config           *config.ServerConfig
	Repository       repository.Repository
	Auth             auth.Provider
	Identity         *identity.Syncer
	IdentityVerifier WebhookVerifier
	Payments         payment.Gateway
	Enrollment       *enrollment.Service
	Progress         *progress.Tracker
	Ratings          *rating.Service
	Analytics        *analytics.Service
}

// NewServices wires the domain services on top of a repository and the external providers.
func NewServices(cfg *config.ServerConfig, repo repository.Repository, provider auth.Provider, verifier WebhookVerifier, gateway payment.Gateway) *Services {
	return &Services{
		Config:           cfg,
		Repository:       repo,
		Auth:             provider,
		Identity:         identity.NewSyncer(repo, provider),
		IdentityVerifier: verifier,
		Payments:         gateway,
		Enrollment:       enrollment.NewService(repo, gateway, cfg),
		Progress:         progress.NewTracker(repo),
		Ratings:          rating.NewService(repo),
		Analytics:        analytics.NewService(repo),
	}
}

// handlers binds route handlers to their services.
type handlers struct {
	*Services
	validate *validator.Validate
}

func newHandlers(s *Services) *handlers {
	return &handlers{Services: s, validate: validator.New()}
}

func (h *handlers) requireAuth() func(http.Handler) http.Handler {
	return auth.RequireAuth(h.Auth, h.Config.SessionCookieName)
}

// Helpers

// respond writes a successful response. payload keys sit next to the success flag.
func respond(w http.ResponseWriter, r *http.Request, payload render.M) {
	if payload == nil {
		payload = render.M{}
	}
	payload["success"] = true
	render.JSON(w, r, payload)
}

func respondMessage(w http.ResponseWriter, r *http.Request, message string) {
	respond(w, r, render.M{"message": message})
}

// respondError writes the failure envelope with the status code matching err.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := errorMessage(err)
	if status >= http.StatusInternalServerError {
		glog.Errorf("%v %v failed: %v\n", r.Method, r.URL.Path, err)
		if !errors.Is(err, qerrors.IdentityLookupError) {
			message = "something went wrong"
		}
	} else {
		glog.Warningf("%v %v rejected: %v\n", r.Method, r.URL.Path, err)
	}

	render.Status(r, status)
	render.JSON(w, r, render.M{"success": false, "message": message})
}

func statusFor(err error) int {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors),
		errors.Is(err, qerrors.InvalidRequestError),
		errors.Is(err, qerrors.ThumbnailRequiredError),
		errors.Is(err, qerrors.InvalidCourseError),
		errors.Is(err, qerrors.InvalidLectureError),
		errors.Is(err, qerrors.InvalidRatingError),
		errors.Is(err, qerrors.InvalidSignatureError),
		errors.Is(err, qerrors.InvalidEventError):
		return http.StatusBadRequest
	case errors.Is(err, qerrors.UnauthenticatedError):
		return http.StatusUnauthorized
	case errors.Is(err, qerrors.NotEducatorError),
		errors.Is(err, qerrors.NotEnrolledError):
		return http.StatusForbidden
	case errors.Is(err, qerrors.CourseNotFoundError),
		errors.Is(err, qerrors.UserNotFoundError),
		errors.Is(err, qerrors.PurchaseNotFoundError),
		errors.Is(err, qerrors.ProgressNotFoundError):
		return http.StatusNotFound
	case errors.Is(err, qerrors.AlreadyEnrolledError),
		errors.Is(err, qerrors.UserExistsError):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag())
	}
	return err.Error()
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", qerrors.InvalidRequestError, err)
	}
	return nil
}

func readWebhookBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", qerrors.InvalidRequestError, err)
	}
	return body, nil
}
