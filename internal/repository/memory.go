package repository

import (
	"context"
	"sync"
	"time"

	"coursemarket/internal/models"
	"coursemarket/internal/qerrors"

	"github.com/google/uuid"
)

// Memory is a Repository that keeps every document in process memory. Documents are copied on the way in
// and out, so callers never share state with the store.
type Memory struct {
	lock      *sync.RWMutex
	courses   map[string]*models.Course
	users     map[string]*models.User
	purchases map[string]*models.Purchase
	progress  map[string]*models.CourseProgress

	// now is swappable so tests get deterministic timestamps.
	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		lock:      &sync.RWMutex{},
		courses:   make(map[string]*models.Course),
		users:     make(map[string]*models.User),
		purchases: make(map[string]*models.Purchase),
		progress:  make(map[string]*models.CourseProgress),
		now:       time.Now,
	}
}

// Courses

func (m *Memory) CreateCourse(_ context.Context, c *models.Course) (*models.Course, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	course := copyCourse(c)
	course.ID = uuid.NewString()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = m.now()
	}
	if course.EnrolledStudents == nil {
		course.EnrolledStudents = []string{}
	}
	if course.Ratings == nil {
		course.Ratings = []models.Rating{}
	}
	m.courses[course.ID] = course

	return copyCourse(course), nil
}

func (m *Memory) GetCourseByID(_ context.Context, id string) (*models.Course, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if val, ok := m.courses[id]; ok {
		return copyCourse(val), nil
	}
	return nil, qerrors.CourseNotFoundError
}

func (m *Memory) GetCoursesByIDs(_ context.Context, ids []string) ([]*models.Course, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	courses := make([]*models.Course, 0, len(ids))
	for _, id := range ids {
		if val, ok := m.courses[id]; ok {
			courses = append(courses, copyCourse(val))
		}
	}
	return courses, nil
}

func (m *Memory) ListCoursesByEducator(_ context.Context, educatorID string) ([]*models.Course, error) {
	return m.filterCourses(func(c *models.Course) bool { return c.EducatorID == educatorID }), nil
}

func (m *Memory) ListPublishedCourses(_ context.Context) ([]*models.Course, error) {
	return m.filterCourses(func(c *models.Course) bool { return c.IsPublished }), nil
}

func (m *Memory) AddEnrolledStudent(_ context.Context, courseID, userID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	c, ok := m.courses[courseID]
	if !ok {
		return qerrors.CourseNotFoundError
	}
	c.EnrolledStudents = union(c.EnrolledStudents, userID)
	return nil
}

func (m *Memory) UpsertRating(_ context.Context, courseID string, rating models.Rating) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	c, ok := m.courses[courseID]
	if !ok {
		return qerrors.CourseNotFoundError
	}
	c.Ratings = upsertRating(c.Ratings, rating)
	return nil
}

// Users

func (m *Memory) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if err := validateLookupID(id); err != nil {
		return nil, err
	}

	m.lock.RLock()
	defer m.lock.RUnlock()

	if val, ok := m.users[id]; ok {
		return copyUser(val), nil
	}
	return nil, qerrors.UserNotFoundError
}

func (m *Memory) GetUsersByIDs(_ context.Context, ids []string) ([]*models.User, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if val, ok := m.users[id]; ok {
			users = append(users, copyUser(val))
		}
	}
	return users, nil
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	if err := validateID(u.ID); err != nil {
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.users[u.ID]; ok {
		return qerrors.UserExistsError
	}
	user := copyUser(u)
	if user.EnrolledCourses == nil {
		user.EnrolledCourses = []string{}
	}
	m.users[u.ID] = user
	return nil
}

func (m *Memory) UpdateUserProfile(_ context.Context, p *models.Profile) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	u, ok := m.users[p.ID]
	if !ok {
		return qerrors.UserNotFoundError
	}
	u.Name = p.Name
	u.Email = p.Email
	u.ImageURL = p.ImageURL
	return nil
}

func (m *Memory) AddEnrolledCourse(_ context.Context, userID, courseID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return qerrors.UserNotFoundError
	}
	u.EnrolledCourses = union(u.EnrolledCourses, courseID)
	return nil
}

// Purchases

func (m *Memory) CreatePurchase(_ context.Context, p *models.Purchase) (*models.Purchase, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	purchase := *p
	purchase.ID = uuid.NewString()
	purchase.CreatedAt = m.now()
	purchase.UpdatedAt = purchase.CreatedAt
	m.purchases[purchase.ID] = &purchase

	out := purchase
	return &out, nil
}

func (m *Memory) GetPurchaseByID(_ context.Context, id string) (*models.Purchase, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if val, ok := m.purchases[id]; ok {
		out := *val
		return &out, nil
	}
	return nil, qerrors.PurchaseNotFoundError
}

func (m *Memory) SetCheckoutSession(_ context.Context, id, sessionID string) error {
	return m.updatePurchase(id, func(p *models.Purchase) { p.CheckoutSessionID = sessionID })
}

func (m *Memory) UpdatePurchaseStatus(_ context.Context, id string, s models.PurchaseStatus) error {
	return m.updatePurchase(id, func(p *models.Purchase) { p.Status = s })
}

func (m *Memory) ListPurchases(_ context.Context, userID, courseID string) ([]*models.Purchase, error) {
	return m.filterPurchases(func(p *models.Purchase) bool {
		return p.UserID == userID && p.CourseID == courseID
	}), nil
}

func (m *Memory) ListCompletedPurchases(_ context.Context, courseIDs []string) ([]*models.Purchase, error) {
	wanted := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = true
	}
	return m.filterPurchases(func(p *models.Purchase) bool {
		return wanted[p.CourseID] && p.Status == models.PurchaseCompleted
	}), nil
}

// Progress

func (m *Memory) GetProgress(_ context.Context, userID, courseID string) (*models.CourseProgress, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if val, ok := m.progress[models.ProgressDocID(userID, courseID)]; ok {
		return copyProgress(val), nil
	}
	return nil, qerrors.ProgressNotFoundError
}

func (m *Memory) AddCompletedLecture(_ context.Context, userID, courseID, lectureID string) (*models.CourseProgress, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	key := models.ProgressDocID(userID, courseID)
	p, ok := m.progress[key]
	if !ok {
		p = &models.CourseProgress{UserID: userID, CourseID: courseID, LectureCompleted: []string{}}
		m.progress[key] = p
	}
	p.LectureCompleted = union(p.LectureCompleted, lectureID)

	return copyProgress(p), nil
}

// Helpers

func (m *Memory) filterCourses(keep func(*models.Course) bool) []*models.Course {
	m.lock.RLock()
	defer m.lock.RUnlock()

	courses := []*models.Course{}
	for _, c := range m.courses {
		if keep(c) {
			courses = append(courses, copyCourse(c))
		}
	}
	sortCourses(courses)
	return courses
}

func (m *Memory) filterPurchases(keep func(*models.Purchase) bool) []*models.Purchase {
	m.lock.RLock()
	defer m.lock.RUnlock()

	purchases := []*models.Purchase{}
	for _, p := range m.purchases {
		if keep(p) {
			out := *p
			purchases = append(purchases, &out)
		}
	}
	sortPurchases(purchases)
	return purchases
}

func (m *Memory) updatePurchase(id string, update func(*models.Purchase)) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	p, ok := m.purchases[id]
	if !ok {
		return qerrors.PurchaseNotFoundError
	}
	update(p)
	p.UpdatedAt = m.now()
	return nil
}

// union appends s to set unless it is already present.
func union(set []string, s string) []string {
	for _, v := range set {
		if v == s {
			return set
		}
	}
	return append(set, s)
}

func copyCourse(c *models.Course) *models.Course {
	out := *c
	out.Chapters = make([]*models.Chapter, 0, len(c.Chapters))
	for _, ch := range c.Chapters {
		chCopy := *ch
		chCopy.Collapsed = false
		chCopy.Lectures = make([]*models.Lecture, 0, len(ch.Lectures))
		for _, l := range ch.Lectures {
			lCopy := *l
			chCopy.Lectures = append(chCopy.Lectures, &lCopy)
		}
		out.Chapters = append(out.Chapters, &chCopy)
	}
	out.Ratings = append([]models.Rating{}, c.Ratings...)
	out.EnrolledStudents = append([]string{}, c.EnrolledStudents...)
	return &out
}

func copyUser(u *models.User) *models.User {
	out := *u
	out.EnrolledCourses = append([]string{}, u.EnrolledCourses...)
	return &out
}

func copyProgress(p *models.CourseProgress) *models.CourseProgress {
	out := *p
	out.LectureCompleted = append([]string{}, p.LectureCompleted...)
	return &out
}
