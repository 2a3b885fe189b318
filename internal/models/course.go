package models

import "time"

var (
	FirestoreCoursesCollection = "courses"
)

// Lecture is the atomic content unit of a course.
type Lecture struct {
	ID            string `json:"lectureId" mapstructure:"lectureId" validate:"required"`
	Title         string `json:"lectureTitle" mapstructure:"lectureTitle"`
	Duration      int    `json:"lectureDuration" mapstructure:"lectureDuration" validate:"gte=0"`
	URL           string `json:"lectureUrl" mapstructure:"lectureUrl"`
	IsPreviewFree bool   `json:"isPreviewFree" mapstructure:"isPreviewFree"`
	Order         int    `json:"lectureOrder" mapstructure:"lectureOrder"`
}

// Chapter is an ordered group of lectures. Chapters are embedded in their course.
type Chapter struct {
	ID       string     `json:"chapterId" mapstructure:"chapterId" validate:"required"`
	Order    int        `json:"chapterOrder" mapstructure:"chapterOrder"`
	Title    string     `json:"chapterTitle" mapstructure:"chapterTitle"`
	Lectures []*Lecture `json:"chapterContent" mapstructure:"chapterContent" validate:"dive,required"`
	// Collapsed is an editor-only flag and is never stored.
	Collapsed bool `json:"-" mapstructure:"-"`
}

// Rating is a single user's score for a course.
type Rating struct {
	UserID string `json:"userId" mapstructure:"userId"`
	Rating int    `json:"rating" mapstructure:"rating"`
}

type Course struct {
	ID               string     `json:"id" mapstructure:"id"`
	Title            string     `json:"courseTitle" mapstructure:"courseTitle"`
	Description      string     `json:"courseDescription" mapstructure:"courseDescription"`
	ThumbnailURL     string     `json:"courseThumbnail" mapstructure:"courseThumbnail"`
	NotesURL         string     `json:"notesUrl,omitempty" mapstructure:"notesUrl"`
	Price            float64    `json:"coursePrice" mapstructure:"coursePrice"`
	Discount         float64    `json:"discount" mapstructure:"discount"`
	IsPublished      bool       `json:"isPublished" mapstructure:"isPublished"`
	Chapters         []*Chapter `json:"courseContent" mapstructure:"courseContent"`
	Ratings          []Rating   `json:"courseRatings" mapstructure:"courseRatings"`
	EducatorID       string     `json:"educator" mapstructure:"educator"`
	EnrolledStudents []string   `json:"enrolledStudents" mapstructure:"enrolledStudents"`
	CreatedAt        time.Time  `json:"createdAt" mapstructure:"createdAt"`
}

// HasStudent reports whether userID is on the course roster.
func (c *Course) HasStudent(userID string) bool {
	return contains(c.EnrolledStudents, userID)
}

// RatingBy returns the rating left by userID and whether one exists.
func (c *Course) RatingBy(userID string) (int, bool) {
	for _, r := range c.Ratings {
		if r.UserID == userID {
			return r.Rating, true
		}
	}
	return 0, false
}

// Sanitized returns a copy of the course safe to show to anyone: lecture URLs are removed unless the
// lecture is a free preview.
func (c *Course) Sanitized() *Course {
	out := *c
	out.Chapters = make([]*Chapter, 0, len(c.Chapters))
	for _, ch := range c.Chapters {
		chCopy := *ch
		chCopy.Lectures = make([]*Lecture, 0, len(ch.Lectures))
		for _, l := range ch.Lectures {
			lCopy := *l
			if !lCopy.IsPreviewFree {
				lCopy.URL = ""
			}
			chCopy.Lectures = append(chCopy.Lectures, &lCopy)
		}
		out.Chapters = append(out.Chapters, &chCopy)
	}
	return &out
}

// CreateCourseRequest is the parameter struct for the CreateCourse function.
type CreateCourseRequest struct {
	Title        string     `json:"courseTitle" validate:"required"`
	Description  string     `json:"courseDescription" validate:"required"`
	Price        float64    `json:"coursePrice" validate:"gte=0"`
	Discount     float64    `json:"discount" validate:"gte=0,lte=100"`
	Chapters     []*Chapter `json:"courseContent" validate:"dive,required"`
	ThumbnailURL string     `json:"courseThumbnail"`
	NotesURL     string     `json:"notesUrl"`
	// Set from the authenticated user.
	EducatorID string `json:"-"`
}

// RateCourseRequest is the parameter struct for the Rate function.
type RateCourseRequest struct {
	CourseID string `json:"courseId"`
	Rating   int    `json:"rating"`
}

// DuplicateContentID returns the first chapter ID repeated within chapters, or lecture ID repeated within
// one chapter, and whether there is one.
func DuplicateContentID(chapters []*Chapter) (string, bool) {
	chapterIDs := make(map[string]bool, len(chapters))
	for _, ch := range chapters {
		if chapterIDs[ch.ID] {
			return ch.ID, true
		}
		chapterIDs[ch.ID] = true

		lectureIDs := make(map[string]bool, len(ch.Lectures))
		for _, l := range ch.Lectures {
			if lectureIDs[l.ID] {
				return l.ID, true
			}
			lectureIDs[l.ID] = true
		}
	}
	return "", false
}

func contains(s []string, str string) bool {
	for _, v := range s {
		if v == str {
			return true
		}
	}

	return false
}
