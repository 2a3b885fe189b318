package models

var (
	FirestoreCourseProgressCollection = "courseProgress"
)

// CourseProgress is the set of completed lectures of one user in one course.
type CourseProgress struct {
	UserID           string   `json:"userId" mapstructure:"userId"`
	CourseID         string   `json:"courseId" mapstructure:"courseId"`
	LectureCompleted []string `json:"lectureCompleted" mapstructure:"lectureCompleted"`
}

// ProgressDocID is the document ID of the progress record of a (user, course) pair.
func ProgressDocID(userID, courseID string) string {
	return userID + "_" + courseID
}

// HasCompleted reports whether lectureID is in the completed set.
func (p *CourseProgress) HasCompleted(lectureID string) bool {
	return contains(p.LectureCompleted, lectureID)
}

// UpdateProgressRequest is the parameter struct for the MarkComplete function.
type UpdateProgressRequest struct {
	CourseID  string `json:"courseId"`
	LectureID string `json:"lectureId"`
}
