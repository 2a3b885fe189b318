package models

import "time"

// Percentiles is a generic struct for storing percentiles for any distribution of data.
type Percentiles struct {
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
	P99 float64 `json:"p99"`
}

// RatingSummary describes the ratings left on a set of courses.
type RatingSummary struct {
	Count       int         `json:"count"`
	Mean        float64     `json:"mean"`
	Percentiles Percentiles `json:"percentiles"`
}

// EnrolledStudent pairs a student with the title of a course they are enrolled in.
type EnrolledStudent struct {
	CourseTitle  string         `json:"courseTitle"`
	Student      StudentSummary `json:"student"`
	PurchaseDate *time.Time     `json:"purchaseDate,omitempty"`
}

// Dashboard is the aggregate shown to an educator.
type Dashboard struct {
	TotalEarnings        float64           `json:"totalEarnings"`
	TotalCourses         int               `json:"totalCourses"`
	EnrolledStudentsData []EnrolledStudent `json:"enrolledStudentsData"`
	Ratings              RatingSummary     `json:"ratings"`
}
