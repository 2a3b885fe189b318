package repository

import (
	"context"
	"fmt"
	"log"

	"coursemarket/internal/models"

	"cloud.google.com/go/firestore"
	firebaseSDK "firebase.google.com/go"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Repository encapsulates the logic to access courses, users, purchases and progress records.
type Repository interface {
	CourseRepository
	UserRepository
	PurchaseRepository
	ProgressRepository
}

type CourseRepository interface {
	// CreateCourse saves a new course and returns it with its ID set.
	CreateCourse(ctx context.Context, c *models.Course) (*models.Course, error)
	// GetCourseByID returns qerrors.CourseNotFoundError when the course does not exist.
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
	// GetCoursesByIDs returns the courses that exist among ids, in the order of ids.
	GetCoursesByIDs(ctx context.Context, ids []string) ([]*models.Course, error)
	ListCoursesByEducator(ctx context.Context, educatorID string) ([]*models.Course, error)
	ListPublishedCourses(ctx context.Context) ([]*models.Course, error)
	// AddEnrolledStudent adds userID to the course roster if it is not already there.
	AddEnrolledStudent(ctx context.Context, courseID, userID string) error
	// UpsertRating replaces the rating of rating.UserID or appends it.
	UpsertRating(ctx context.Context, courseID string, rating models.Rating) error
}

type UserRepository interface {
	// GetUserByID returns qerrors.UserNotFoundError when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	// CreateUser returns qerrors.UserExistsError when a user with the same ID exists.
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUserProfile(ctx context.Context, p *models.Profile) error
	// AddEnrolledCourse adds courseID to the user's enrolled list if it is not already there.
	AddEnrolledCourse(ctx context.Context, userID, courseID string) error
}

type PurchaseRepository interface {
	CreatePurchase(ctx context.Context, p *models.Purchase) (*models.Purchase, error)
	// GetPurchaseByID returns qerrors.PurchaseNotFoundError when the purchase does not exist.
	GetPurchaseByID(ctx context.Context, id string) (*models.Purchase, error)
	SetCheckoutSession(ctx context.Context, id, sessionID string) error
	UpdatePurchaseStatus(ctx context.Context, id string, s models.PurchaseStatus) error
	ListPurchases(ctx context.Context, userID, courseID string) ([]*models.Purchase, error)
	ListCompletedPurchases(ctx context.Context, courseIDs []string) ([]*models.Purchase, error)
}

type ProgressRepository interface {
	// GetProgress returns qerrors.ProgressNotFoundError when no record exists for the pair.
	GetProgress(ctx context.Context, userID, courseID string) (*models.CourseProgress, error)
	// AddCompletedLecture creates the record for the pair or adds lectureID to its completed set.
	AddCompletedLecture(ctx context.Context, userID, courseID, lectureID string) (*models.CourseProgress, error)
}

// FirebaseRepository queries and persists documents in Firestore.
type FirebaseRepository struct {
	firestoreClient *firestore.Client
}

func NewFirebaseRepository(ctx context.Context, app *firebaseSDK.App) (*FirebaseRepository, error) {
	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("Firestore client error: %w", err)
	}

	log.Printf("✅ Successfully created Firebase repository client")
	return &FirebaseRepository{firestoreClient: firestoreClient}, nil
}

func (fr *FirebaseRepository) Close() error {
	return fr.firestoreClient.Close()
}

// Helpers

// decode destructures a Firestore document into out.
func decode(doc *firestore.DocumentSnapshot, out interface{}) error {
	if err := mapstructure.Decode(doc.Data(), out); err != nil {
		return fmt.Errorf("error destructuring document %v: %w", doc.Ref.ID, err)
	}
	return nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}
