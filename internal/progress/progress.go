package progress

import (
	"context"
	"errors"

	"coursemarket/internal/models"
	"coursemarket/internal/qerrors"
	"coursemarket/internal/repository"

	"golang.org/x/sync/errgroup"
)

// Tracker records which lectures a student has completed.
type Tracker struct {
	repo repository.Repository
}

func NewTracker(repo repository.Repository) *Tracker {
	return &Tracker{repo: repo}
}

// MarkComplete adds lectureID to the completed set of the pair, creating the record on first completion.
func (t *Tracker) MarkComplete(ctx context.Context, userID, courseID, lectureID string) (*models.CourseProgress, error) {
	if courseID == "" || lectureID == "" {
		return nil, qerrors.InvalidLectureError
	}

	user, err := t.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsEnrolled(courseID) {
		return nil, qerrors.NotEnrolledError
	}

	existing, err := t.repo.GetProgress(ctx, userID, courseID)
	if err != nil && !errors.Is(err, qerrors.ProgressNotFoundError) {
		return nil, err
	}
	if existing != nil && existing.HasCompleted(lectureID) {
		return existing, nil
	}

	return t.repo.AddCompletedLecture(ctx, userID, courseID, lectureID)
}

// GetProgress returns qerrors.ProgressNotFoundError when nothing was ever completed in the course.
func (t *Tracker) GetProgress(ctx context.Context, userID, courseID string) (*models.CourseProgress, error) {
	return t.repo.GetProgress(ctx, userID, courseID)
}

// Player is what the course player needs: the course, the student's progress in it and the rating they left.
// Progress is nil when no record exists, and Rating is 0 when the student has not rated the course.
type Player struct {
	Course   *models.Course         `json:"courseData"`
	Progress *models.CourseProgress `json:"progressData"`
	Enrolled bool                   `json:"enrolled"`
	Rating   int                    `json:"userRating"`
}

// Player fetches the course, the user and the progress record concurrently. Lecture URLs are only kept for
// enrolled students and free previews.
func (t *Tracker) Player(ctx context.Context, userID, courseID string) (*Player, error) {
	var (
		course   *models.Course
		user     *models.User
		progress *models.CourseProgress
	)

	wg, ctx := errgroup.WithContext(ctx)
	wg.Go(func() error {
		var err error
		course, err = t.repo.GetCourseByID(ctx, courseID)
		return err
	})
	wg.Go(func() error {
		var err error
		user, err = t.repo.GetUserByID(ctx, userID)
		return err
	})
	wg.Go(func() error {
		p, err := t.repo.GetProgress(ctx, userID, courseID)
		if errors.Is(err, qerrors.ProgressNotFoundError) {
			return nil
		}
		progress = p
		return err
	})

	if err := wg.Wait(); err != nil {
		return nil, err
	}

	enrolled := user.IsEnrolled(courseID)
	if !enrolled {
		course = course.Sanitized()
	}

	rating, _ := course.RatingBy(userID)

	return &Player{Course: course, Progress: progress, Enrolled: enrolled, Rating: rating}, nil
}
