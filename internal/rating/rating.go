package rating

import (
	"context"

	"coursemarket/internal/models"
	"coursemarket/internal/qerrors"
	"coursemarket/internal/repository"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Service struct {
	repo repository.Repository
}

func NewService(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Rate stores the rating of userID for courseID, replacing an earlier rating by the same user. Only enrolled
// students may rate.
func (s *Service) Rate(ctx context.Context, userID, courseID string, rating int) error {
	if courseID == "" || rating < MinRating || rating > MaxRating {
		return qerrors.InvalidRatingError
	}

	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsEnrolled(courseID) && !course.HasStudent(userID) {
		return qerrors.NotEnrolledError
	}

	return s.repo.UpsertRating(ctx, courseID, models.Rating{UserID: userID, Rating: rating})
}
