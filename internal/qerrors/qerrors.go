package qerrors

import "errors"

var (
	InvalidRequestError = errors.New("invalid request body")

	// Course errors
	CourseNotFoundError    = errors.New("course not found")
	ThumbnailRequiredError = errors.New("thumbnail URL is required")
	InvalidCourseError     = errors.New("invalid course details")

	// User errors
	UserNotFoundError     = errors.New("user not found")
	UserExistsError       = errors.New("user already exists")
	IdentityLookupError   = errors.New("could not retrieve user account")
	NotEducatorError      = errors.New("access denied: you do not have educator privileges")
	UnauthenticatedError  = errors.New("you must be authenticated to access this resource")
	InvalidSignatureError = errors.New("webhook signature verification failed")
	InvalidEventError     = errors.New("malformed webhook event")

	// Enrollment errors
	PurchaseNotFoundError = errors.New("purchase not found")
	AlreadyEnrolledError  = errors.New("user is already enrolled in this course")
	NotEnrolledError      = errors.New("user is not enrolled in this course")

	// Progress & rating errors
	ProgressNotFoundError = errors.New("no progress recorded for this course")
	InvalidLectureError   = errors.New("course and lecture IDs are required")
	InvalidRatingError    = errors.New("invalid details")
)
