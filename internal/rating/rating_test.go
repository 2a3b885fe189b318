package rating

import (
	"context"
	"testing"

	"coursemarket/internal/models"
	"coursemarket/internal/qerrors"
	"coursemarket/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateReplacesPreviousRating(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	course, err := repo.CreateCourse(ctx, &models.Course{Title: "Go"})
	require.NoError(t, err)
	require.NoError(t, repo.CreateUser(ctx, &models.User{ID: "u1"}))
	require.NoError(t, repo.AddEnrolledCourse(ctx, "u1", course.ID))

	s := NewService(repo)
	require.NoError(t, s.Rate(ctx, "u1", course.ID, 2))
	require.NoError(t, s.Rate(ctx, "u1", course.ID, 5))

	got, err := repo.GetCourseByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Rating{{UserID: "u1", Rating: 5}}, got.Ratings)
}

func TestRateRejections(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	course, err := repo.CreateCourse(ctx, &models.Course{Title: "Go"})
	require.NoError(t, err)
	require.NoError(t, repo.CreateUser(ctx, &models.User{ID: "visitor"}))
	s := NewService(repo)

	tests := []struct {
		name     string
		userID   string
		courseID string
		rating   int
		wantErr  error
	}{
		{name: "below range", userID: "visitor", courseID: course.ID, rating: 0, wantErr: qerrors.InvalidRatingError},
		{name: "above range", userID: "visitor", courseID: course.ID, rating: 6, wantErr: qerrors.InvalidRatingError},
		{name: "missing course id", userID: "visitor", rating: 3, wantErr: qerrors.InvalidRatingError},
		{name: "unknown course", userID: "visitor", courseID: "missing", rating: 3, wantErr: qerrors.CourseNotFoundError},
		{name: "unknown user", userID: "ghost", courseID: course.ID, rating: 3, wantErr: qerrors.UserNotFoundError},
		{name: "not enrolled", userID: "visitor", courseID: course.ID, rating: 3, wantErr: qerrors.NotEnrolledError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, s.Rate(ctx, tt.userID, tt.courseID, tt.rating), tt.wantErr)
		})
	}

	got, err := repo.GetCourseByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Ratings)
}
