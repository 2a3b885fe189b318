package models

import (
	"math"
	"time"
)

var (
	FirestorePurchasesCollection = "purchases"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
)

// EnrollmentState is the state of a (user, course) pair as seen by the student.
type EnrollmentState string

const (
	StateNotPurchased   EnrollmentState = "not-purchased"
	StatePendingPayment EnrollmentState = "pending-payment"
	StateCompleted      EnrollmentState = "completed"
)

// Purchase records one attempt to buy a course.
type Purchase struct {
	ID                string         `json:"id" mapstructure:"id"`
	CourseID          string         `json:"courseId" mapstructure:"courseId"`
	UserID            string         `json:"userId" mapstructure:"userId"`
	Amount            float64        `json:"amount" mapstructure:"amount"`
	Status            PurchaseStatus `json:"status" mapstructure:"status"`
	CheckoutSessionID string         `json:"checkoutSessionId,omitempty" mapstructure:"checkoutSessionId"`
	CreatedAt         time.Time      `json:"createdAt" mapstructure:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt" mapstructure:"updatedAt"`
}

// PurchaseAmount returns price less discount percent, rounded to cents.
func PurchaseAmount(price, discount float64) float64 {
	return math.Round((price-discount*price/100)*100) / 100
}

// MinorUnits converts an amount to the integer minor-unit value used by the payment processor.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// PurchaseRequest is the parameter struct for the StartPurchase function.
type PurchaseRequest struct {
	CourseID string `json:"courseId"`
}
