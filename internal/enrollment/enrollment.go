package enrollment

import (
	"context"
	"errors"
	"fmt"

	"coursemarket/internal/config"
	"coursemarket/internal/models"
	"coursemarket/internal/payment"
	"coursemarket/internal/qerrors"
	"coursemarket/internal/repository"

	"github.com/golang/glog"
)

// Service runs the purchase and enrollment flow of a (user, course) pair:
// not-purchased -> pending-payment -> completed.
type Service struct {
	repo    repository.Repository
	gateway payment.Gateway
	cfg     *config.ServerConfig
}

func NewService(repo repository.Repository, gateway payment.Gateway, cfg *config.ServerConfig) *Service {
	return &Service{repo: repo, gateway: gateway, cfg: cfg}
}

// Checkout is the result of StartPurchase.
type Checkout struct {
	Purchase   *models.Purchase
	SessionURL string
}

// StartPurchase records a pending purchase of courseID and opens a checkout session for it. origin is the
// storefront address the processor redirects back to.
func (s *Service) StartPurchase(ctx context.Context, userID, courseID, origin string) (*Checkout, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		return nil, qerrors.CourseNotFoundError
	}
	if user.IsEnrolled(courseID) || course.HasStudent(userID) {
		return nil, qerrors.AlreadyEnrolledError
	}

	purchase, err := s.repo.CreatePurchase(ctx, &models.Purchase{
		CourseID: courseID,
		UserID:   userID,
		Amount:   models.PurchaseAmount(course.Price, course.Discount),
		Status:   models.PurchasePending,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating purchase: %w", err)
	}

	if s.cfg.EnrollOnCheckout {
		if err := s.Enroll(ctx, userID, courseID); err != nil {
			return nil, err
		}
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, &payment.CheckoutRequest{
		PurchaseID:  purchase.ID,
		ProductName: course.Title,
		Currency:    s.cfg.Currency,
		UnitAmount:  models.MinorUnits(purchase.Amount),
		SuccessURL:  origin + "/loading/my-enrollments",
		CancelURL:   origin + "/course/" + courseID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetCheckoutSession(ctx, purchase.ID, session.ID); err != nil {
		// The webhook correlates through metadata, so the purchase can still be confirmed.
		glog.Warningf("error storing checkout session %v on purchase %v: %v\n", session.ID, purchase.ID, err)
	} else {
		purchase.CheckoutSessionID = session.ID
	}

	return &Checkout{Purchase: purchase, SessionURL: session.URL}, nil
}

// ConfirmPurchase enrolls the buyer of purchaseID and marks the purchase completed. Unknown purchases are
// logged and dropped so that the processor does not retry them. Confirming twice is harmless.
func (s *Service) ConfirmPurchase(ctx context.Context, purchaseID string) error {
	if purchaseID == "" {
		glog.Warningln("dropping payment event without a purchase id")
		return nil
	}

	purchase, err := s.repo.GetPurchaseByID(ctx, purchaseID)
	if errors.Is(err, qerrors.PurchaseNotFoundError) {
		glog.Warningf("dropping payment event for unknown purchase %v\n", purchaseID)
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.Enroll(ctx, purchase.UserID, purchase.CourseID); err != nil {
		return err
	}

	return s.repo.UpdatePurchaseStatus(ctx, purchase.ID, models.PurchaseCompleted)
}

// Enroll adds the pair to both rosters. Each roster holds an ID at most once, so Enroll is idempotent.
func (s *Service) Enroll(ctx context.Context, userID, courseID string) error {
	if err := s.repo.AddEnrolledCourse(ctx, userID, courseID); err != nil {
		return fmt.Errorf("error enrolling user %v: %w", userID, err)
	}
	if err := s.repo.AddEnrolledStudent(ctx, courseID, userID); err != nil {
		return fmt.Errorf("error adding student to course %v: %w", courseID, err)
	}
	return nil
}

// HandlePaymentEvent applies a verified payment event.
func (s *Service) HandlePaymentEvent(ctx context.Context, e *payment.Event) error {
	switch e.Type {
	case payment.EventCheckoutCompleted:
		return s.ConfirmPurchase(ctx, e.PurchaseID)
	case payment.EventCheckoutExpired:
		// TODO: decide whether an expired checkout should revoke access granted by EnrollOnCheckout.
		glog.Infof("checkout session %v expired for purchase %v\n", e.SessionID, e.PurchaseID)
		return nil
	default:
		glog.Infof("ignoring payment event %v of type %v\n", e.ID, e.Type)
		return nil
	}
}

// Status is the enrollment state of a user in one course.
type Status struct {
	CourseID  string                 `json:"courseId"`
	State     models.EnrollmentState `json:"state"`
	Purchases []*models.Purchase     `json:"purchases"`
}

// State reports where the pair is in the purchase flow. A user with access whose purchase is not confirmed
// yet is reported as pending-payment.
func (s *Service) State(ctx context.Context, userID, courseID string) (*Status, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	purchases, err := s.repo.ListPurchases(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	status := &Status{CourseID: courseID, State: models.StateNotPurchased, Purchases: purchases}
	for _, p := range purchases {
		switch p.Status {
		case models.PurchaseCompleted:
			status.State = models.StateCompleted
			return status, nil
		case models.PurchasePending:
			status.State = models.StatePendingPayment
		}
	}
	if status.State == models.StateNotPurchased && user.IsEnrolled(courseID) {
		status.State = models.StateCompleted
	}

	return status, nil
}

// EnrolledCourses returns the courses the user has access to.
func (s *Service) EnrolledCourses(ctx context.Context, userID string) ([]*models.Course, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetCoursesByIDs(ctx, user.EnrolledCourses)
}
