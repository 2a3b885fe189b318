package enrollment

import (
	"context"
	"errors"
	"testing"

	"coursemarket/internal/config"
	"coursemarket/internal/models"
	"coursemarket/internal/payment"
	"coursemarket/internal/qerrors"
	"coursemarket/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	requests []*payment.CheckoutRequest
	err      error
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req *payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.requests = append(g.requests, req)
	return &payment.CheckoutSession{ID: "cs_test", URL: "https://checkout.example/cs_test"}, nil
}

func (g *fakeGateway) ParseEvent([]byte, string) (*payment.Event, error) {
	return nil, errors.New("not used")
}

type fixture struct {
	repo    *repository.Memory
	gateway *fakeGateway
	service *Service
	course  *models.Course
}

func newFixture(t *testing.T, enrollOnCheckout bool) *fixture {
	t.Helper()
	ctx := context.Background()

	repo := repository.NewMemory()
	gateway := &fakeGateway{}
	cfg := config.DefaultConfig()
	cfg.EnrollOnCheckout = enrollOnCheckout

	require.NoError(t, repo.CreateUser(ctx, &models.User{ID: "student", Name: "Student"}))
	course, err := repo.CreateCourse(ctx, &models.Course{
		Title:       "Distributed Systems",
		Price:       100,
		Discount:    20,
		IsPublished: true,
		EducatorID:  "educator",
	})
	require.NoError(t, err)

	return &fixture{repo: repo, gateway: gateway, service: NewService(repo, gateway, cfg), course: course}
}

func TestStartPurchaseAmounts(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	checkout, err := f.service.StartPurchase(ctx, "student", f.course.ID, "https://shop.example")
	require.NoError(t, err)

	assert.Equal(t, 80.0, checkout.Purchase.Amount)
	assert.Equal(t, models.PurchasePending, checkout.Purchase.Status)
	assert.Equal(t, "cs_test", checkout.Purchase.CheckoutSessionID)
	assert.Equal(t, "https://checkout.example/cs_test", checkout.SessionURL)

	require.Len(t, f.gateway.requests, 1)
	req := f.gateway.requests[0]
	assert.Equal(t, int64(8000), req.UnitAmount)
	assert.Equal(t, "usd", req.Currency)
	assert.Equal(t, "Distributed Systems", req.ProductName)
	assert.Equal(t, checkout.Purchase.ID, req.PurchaseID)
	assert.Equal(t, "https://shop.example/loading/my-enrollments", req.SuccessURL)
	assert.Equal(t, "https://shop.example/course/"+f.course.ID, req.CancelURL)

	// Access waits for confirmation.
	u, err := f.repo.GetUserByID(ctx, "student")
	require.NoError(t, err)
	assert.Empty(t, u.EnrolledCourses)

	status, err := f.service.State(ctx, "student", f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatePendingPayment, status.State)
}

func TestConfirmPurchaseIsIdempotent(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	checkout, err := f.service.StartPurchase(ctx, "student", f.course.ID, "https://shop.example")
	require.NoError(t, err)

	require.NoError(t, f.service.ConfirmPurchase(ctx, checkout.Purchase.ID))
	require.NoError(t, f.service.ConfirmPurchase(ctx, checkout.Purchase.ID))

	u, err := f.repo.GetUserByID(ctx, "student")
	require.NoError(t, err)
	assert.Equal(t, []string{f.course.ID}, u.EnrolledCourses)

	c, err := f.repo.GetCourseByID(ctx, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"student"}, c.EnrolledStudents)

	p, err := f.repo.GetPurchaseByID(ctx, checkout.Purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseCompleted, p.Status)
	assert.Equal(t, 80.0, p.Amount)

	status, err := f.service.State(ctx, "student", f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateCompleted, status.State)
}

func TestEnrollOnCheckout(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	checkout, err := f.service.StartPurchase(ctx, "student", f.course.ID, "https://shop.example")
	require.NoError(t, err)

	u, err := f.repo.GetUserByID(ctx, "student")
	require.NoError(t, err)
	assert.Equal(t, []string{f.course.ID}, u.EnrolledCourses)

	status, err := f.service.State(ctx, "student", f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatePendingPayment, status.State)

	// The webhook merges into the same rosters without duplicating.
	require.NoError(t, f.service.HandlePaymentEvent(ctx, &payment.Event{
		Type:       payment.EventCheckoutCompleted,
		PurchaseID: checkout.Purchase.ID,
	}))

	c, err := f.repo.GetCourseByID(ctx, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"student"}, c.EnrolledStudents)
}

func TestStartPurchaseRejections(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.service.StartPurchase(ctx, "nobody", f.course.ID, "")
	assert.ErrorIs(t, err, qerrors.UserNotFoundError)

	_, err = f.service.StartPurchase(ctx, "student", "missing", "")
	assert.ErrorIs(t, err, qerrors.CourseNotFoundError)

	require.NoError(t, f.service.Enroll(ctx, "student", f.course.ID))
	_, err = f.service.StartPurchase(ctx, "student", f.course.ID, "")
	assert.ErrorIs(t, err, qerrors.AlreadyEnrolledError)

	draft, err := f.repo.CreateCourse(ctx, &models.Course{Title: "Draft", Price: 10})
	require.NoError(t, err)
	_, err = f.service.StartPurchase(ctx, "student", draft.ID, "")
	assert.ErrorIs(t, err, qerrors.CourseNotFoundError)

	assert.Empty(t, f.gateway.requests)
}

func TestStartPurchaseGatewayFailure(t *testing.T) {
	f := newFixture(t, false)
	f.gateway.err = errors.New("processor unavailable")

	_, err := f.service.StartPurchase(context.Background(), "student", f.course.ID, "")
	assert.ErrorIs(t, err, f.gateway.err)
}

func TestUnknownPurchaseIsDropped(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	assert.NoError(t, f.service.ConfirmPurchase(ctx, "does-not-exist"))
	assert.NoError(t, f.service.ConfirmPurchase(ctx, ""))
	assert.NoError(t, f.service.HandlePaymentEvent(ctx, &payment.Event{Type: payment.EventCheckoutExpired}))
	assert.NoError(t, f.service.HandlePaymentEvent(ctx, &payment.Event{Type: "charge.refunded"}))
}

func TestStateWithoutPurchase(t *testing.T) {
	f := newFixture(t, false)

	status, err := f.service.State(context.Background(), "student", f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateNotPurchased, status.State)
	assert.Empty(t, status.Purchases)
}

func TestEnrolledCourses(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	require.NoError(t, f.service.Enroll(ctx, "student", f.course.ID))

	courses, err := f.service.EnrolledCourses(ctx, "student")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, f.course.ID, courses[0].ID)
}
