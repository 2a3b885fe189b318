package router

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"coursemarket/internal/auth"
	"coursemarket/internal/config"
	"coursemarket/internal/identity"
	"coursemarket/internal/models"
	"coursemarket/internal/payment"
	"coursemarket/internal/qerrors"
	"coursemarket/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const (
	studentToken  = "student-token"
	educatorToken = "educator-token"

	paymentSecret = "whsec_payment_test"
)

var identityKey = []byte("identity-webhook-test-key-000000")

type fakeProvider struct {
	tokens   map[string]*auth.Claims
	profiles map[string]*models.Profile
	roles    map[string]string
}

func (f *fakeProvider) VerifyIDToken(_ context.Context, token string) (*auth.Claims, error) {
	if c, ok := f.tokens[token]; ok {
		return c, nil
	}
	return nil, qerrors.UnauthenticatedError
}

func (f *fakeProvider) VerifySessionCookie(ctx context.Context, cookie string) (*auth.Claims, error) {
	return f.VerifyIDToken(ctx, cookie)
}

func (f *fakeProvider) CreateSessionCookie(_ context.Context, idToken string, _ time.Duration) (string, error) {
	if _, ok := f.tokens[idToken]; !ok {
		return "", qerrors.UnauthenticatedError
	}
	return idToken, nil
}

func (f *fakeProvider) GetProfile(_ context.Context, uid string) (*models.Profile, error) {
	if p, ok := f.profiles[uid]; ok {
		return p, nil
	}
	return nil, qerrors.UserNotFoundError
}

func (f *fakeProvider) SetRole(_ context.Context, uid, role string) error {
	f.roles[uid] = role
	return nil
}

// fakeGateway verifies webhooks like Stripe but never calls it.
type fakeGateway struct {
	*payment.StripeGateway
	requests []*payment.CheckoutRequest
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req *payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	g.requests = append(g.requests, req)
	return &payment.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.example/cs_test_1"}, nil
}

type testEnv struct {
	cfg      *config.ServerConfig
	repo     *repository.Memory
	provider *fakeProvider
	gateway  *fakeGateway
	handler  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, func(m *repository.Memory) repository.Repository { return m })
}

// newTestEnvWith serves the routes from the repository wrap builds around the in-memory store.
func newTestEnvWith(t *testing.T, wrap func(*repository.Memory) repository.Repository) *testEnv {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.AllowedOrigins = []string{"https://shop.example"}

	repo := repository.NewMemory()
	provider := &fakeProvider{
		tokens: map[string]*auth.Claims{
			studentToken:  {UID: "student"},
			educatorToken: {UID: "educator", Role: models.RoleEducator},
		},
		profiles: map[string]*models.Profile{
			"student":  {ID: "student", Name: "Ada", Email: "ada@example.com"},
			"educator": {ID: "educator", Name: "Grace"},
		},
		roles: map[string]string{},
	}
	gateway := &fakeGateway{StripeGateway: payment.NewStripeGateway("sk_test_unused", paymentSecret)}
	verifier, err := identity.NewVerifier("whsec_" + base64.StdEncoding.EncodeToString(identityKey))
	require.NoError(t, err)

	s := NewServices(cfg, wrap(repo), provider, verifier, gateway)

	router := chi.NewRouter()
	router.Mount("/", HealthRoutes())
	router.Route("/v1", func(r chi.Router) {
		r.Mount("/courses", CourseRoutes(s))
		r.Mount("/educator", EducatorRoutes(s))
		r.Mount("/users", UserRoutes(s))
	})
	router.Mount("/webhooks", WebhookRoutes(s))

	return &testEnv{cfg: cfg, repo: repo, provider: provider, gateway: gateway, handler: router}
}

func (e *testEnv) request(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func (e *testEnv) do(t *testing.T, method, path, token string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.request(t, req)
}

func (e *testEnv) publishedCourse(t *testing.T) *models.Course {
	t.Helper()
	c, err := e.repo.CreateCourse(context.Background(), &models.Course{
		Title:        "Distributed Systems",
		ThumbnailURL: "https://img/ds.png",
		Price:        100,
		Discount:     20,
		IsPublished:  true,
		EducatorID:   "educator",
		Chapters: []*models.Chapter{
			{
				ID:    "ch1",
				Order: 1,
				Lectures: []*models.Lecture{
					{ID: "l1", Title: "Welcome", URL: "https://video/1", IsPreviewFree: true, Order: 1},
					{ID: "l2", Title: "Consensus", URL: "https://video/2", Order: 2},
				},
			},
		},
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) paymentWebhook(t *testing.T, eventType, purchaseID, signingSecret string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	payload := []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"type": %q,
		"data": {"object": {"id": "cs_test_1", "object": "checkout.session", "metadata": {"purchaseId": %q}}}
	}`, eventType, purchaseID))

	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(signingSecret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts, payload)))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil))))
	return e.request(t, req)
}

func (e *testEnv) identityWebhook(t *testing.T, payload []byte, key []byte) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	id := "msg_1"
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(fmt.Sprintf("%s.%s.%s", id, ts, payload)))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/identity", bytes.NewReader(payload))
	req.Header.Set("svix-id", id)
	req.Header.Set("svix-timestamp", ts)
	req.Header.Set("svix-signature", "v1,"+base64.StdEncoding.EncodeToString(mac.Sum(nil)))
	return e.request(t, req)
}
