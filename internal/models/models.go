package models

const (
	FirestoreUsersCollection = "users"
)

const (
	RoleEducator = "educator"
)

// Profile is the canonical profile information held by the identity provider.
type Profile struct {
	ID       string `json:"id" mapstructure:"id"`
	Name     string `json:"name" mapstructure:"name"`
	Email    string `json:"email" mapstructure:"email"`
	ImageURL string `json:"imageUrl" mapstructure:"imageUrl"`
}

// User is the local mirror of an identity provider account. The ID is issued by the provider.
type User struct {
	ID              string   `json:"_id" mapstructure:"id"`
	Name            string   `json:"name" mapstructure:"name"`
	Email           string   `json:"email" mapstructure:"email"`
	ImageURL        string   `json:"imageUrl" mapstructure:"imageUrl"`
	EnrolledCourses []string `json:"enrolledCourses" mapstructure:"enrolledCourses"`
}

// NewUserFromProfile creates a User with an empty enrollment list.
func NewUserFromProfile(p *Profile) *User {
	return &User{
		ID:              p.ID,
		Name:            p.Name,
		Email:           p.Email,
		ImageURL:        p.ImageURL,
		EnrolledCourses: []string{},
	}
}

// IsEnrolled reports whether courseID is in the user's enrolled list.
func (u *User) IsEnrolled(courseID string) bool {
	return contains(u.EnrolledCourses, courseID)
}

// StudentSummary is the public part of a user shown to educators.
type StudentSummary struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

func (u *User) Summary() StudentSummary {
	return StudentSummary{ID: u.ID, Name: u.Name, ImageURL: u.ImageURL}
}
