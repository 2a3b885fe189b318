package analytics

import (
	"context"
	"math"
	"sort"

	"coursemarket/internal/models"
	"coursemarket/internal/repository"

	"golang.org/x/sync/errgroup"
)

// Service aggregates the sales and ratings of an educator's courses.
type Service struct {
	repo repository.Repository
}

func NewService(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Dashboard returns the totals shown on an educator's dashboard.
func (s *Service) Dashboard(ctx context.Context, educatorID string) (*models.Dashboard, error) {
	courses, err := s.repo.ListCoursesByEducator(ctx, educatorID)
	if err != nil {
		return nil, err
	}

	var (
		purchases []*models.Purchase
		users     []*models.User
	)

	wg, ctx := errgroup.WithContext(ctx)
	wg.Go(func() error {
		var err error
		purchases, err = s.repo.ListCompletedPurchases(ctx, courseIDs(courses))
		return err
	})
	wg.Go(func() error {
		var err error
		users, err = s.repo.GetUsersByIDs(ctx, rosterIDs(courses))
		return err
	})
	if err := wg.Wait(); err != nil {
		return nil, err
	}

	return &models.Dashboard{
		TotalEarnings:        TotalEarnings(purchases),
		TotalCourses:         len(courses),
		EnrolledStudentsData: RosterStudents(courses, users),
		Ratings:              SummarizeRatings(courses),
	}, nil
}

// EnrolledStudents lists the completed purchases of an educator's courses with the buyer and purchase date.
func (s *Service) EnrolledStudents(ctx context.Context, educatorID string) ([]models.EnrolledStudent, error) {
	courses, err := s.repo.ListCoursesByEducator(ctx, educatorID)
	if err != nil {
		return nil, err
	}

	purchases, err := s.repo.ListCompletedPurchases(ctx, courseIDs(courses))
	if err != nil {
		return nil, err
	}

	buyers := make([]string, 0, len(purchases))
	for _, p := range purchases {
		buyers = append(buyers, p.UserID)
	}
	users, err := s.repo.GetUsersByIDs(ctx, dedupe(buyers))
	if err != nil {
		return nil, err
	}

	titles := make(map[string]string, len(courses))
	for _, c := range courses {
		titles[c.ID] = c.Title
	}
	byID := usersByID(users)

	students := make([]models.EnrolledStudent, 0, len(purchases))
	for _, p := range purchases {
		u, ok := byID[p.UserID]
		if !ok {
			continue
		}
		purchaseDate := p.CreatedAt
		students = append(students, models.EnrolledStudent{
			CourseTitle:  titles[p.CourseID],
			Student:      u.Summary(),
			PurchaseDate: &purchaseDate,
		})
	}
	return students, nil
}

// TotalEarnings sums purchase amounts, rounded to cents.
func TotalEarnings(purchases []*models.Purchase) float64 {
	var total float64
	for _, p := range purchases {
		total += p.Amount
	}
	return math.Round(total*100) / 100
}

// RosterStudents pairs every enrolled student of every course with the course title. Students without a
// local user record are skipped.
func RosterStudents(courses []*models.Course, users []*models.User) []models.EnrolledStudent {
	byID := usersByID(users)

	students := make([]models.EnrolledStudent, 0)
	for _, c := range courses {
		for _, id := range c.EnrolledStudents {
			if u, ok := byID[id]; ok {
				students = append(students, models.EnrolledStudent{CourseTitle: c.Title, Student: u.Summary()})
			}
		}
	}
	return students
}

// SummarizeRatings describes every rating left on courses.
func SummarizeRatings(courses []*models.Course) models.RatingSummary {
	var ratings []int
	for _, c := range courses {
		for _, r := range c.Ratings {
			ratings = append(ratings, r.Rating)
		}
	}

	summary := models.RatingSummary{Count: len(ratings)}
	if len(ratings) == 0 {
		return summary
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}
	summary.Mean = math.Round(float64(sum)/float64(len(ratings))*100) / 100
	summary.Percentiles = CalculatePercentiles(ratings)

	return summary
}

func CalculatePercentiles(data []int) models.Percentiles {
	if len(data) == 0 {
		return models.Percentiles{}
	}

	data = append([]int(nil), data...)
	sort.Ints(data)

	calculatePercentile := func(percentile float64) float64 {
		rank := percentile / 100 * float64(len(data)-1)
		rankInt := int(rank)

		// If the rank is an integer, return the value at that index
		if rank == float64(rankInt) {
			return float64(data[rankInt])
		}

		// Otherwise, linearly interpolate
		baseline := data[rankInt]
		interpolation := (rank - float64(rankInt)) * float64(data[rankInt+1]-data[rankInt])

		return float64(baseline) + interpolation
	}

	return models.Percentiles{
		P50: calculatePercentile(50),
		P90: calculatePercentile(90),
		P99: calculatePercentile(99),
	}
}

// Helpers

func courseIDs(courses []*models.Course) []string {
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return ids
}

func rosterIDs(courses []*models.Course) []string {
	var ids []string
	for _, c := range courses {
		ids = append(ids, c.EnrolledStudents...)
	}
	return dedupe(ids)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func usersByID(users []*models.User) map[string]*models.User {
	byID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID
}
