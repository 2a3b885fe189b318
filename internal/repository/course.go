package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"coursemarket/internal/models"
	"coursemarket/internal/qerrors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

func (fr *FirebaseRepository) CreateCourse(ctx context.Context, c *models.Course) (*models.Course, error) {
	course := *c
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now()
	}
	if course.EnrolledStudents == nil {
		course.EnrolledStudents = []string{}
	}
	if course.Ratings == nil {
		course.Ratings = []models.Rating{}
	}

	ref, _, err := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Add(ctx, map[string]interface{}{
		"courseTitle":       course.Title,
		"courseDescription": course.Description,
		"courseThumbnail":   course.ThumbnailURL,
		"notesUrl":          course.NotesURL,
		"coursePrice":       course.Price,
		"discount":          course.Discount,
		"isPublished":       course.IsPublished,
		"courseContent":     chaptersToData(course.Chapters),
		"courseRatings":     ratingsToData(course.Ratings),
		"educator":          course.EducatorID,
		"enrolledStudents":  course.EnrolledStudents,
		"createdAt":         course.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating course: %w", err)
	}
	course.ID = ref.ID

	return &course, nil
}

func (fr *FirebaseRepository) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	if id == "" {
		return nil, qerrors.CourseNotFoundError
	}

	doc, err := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Doc(id).Get(ctx)
	if isNotFound(err) {
		return nil, qerrors.CourseNotFoundError
	}
	if err != nil {
		return nil, fmt.Errorf("error getting course %v: %w", id, err)
	}

	return docToCourse(doc)
}

func (fr *FirebaseRepository) GetCoursesByIDs(ctx context.Context, ids []string) ([]*models.Course, error) {
	if len(ids) == 0 {
		return []*models.Course{}, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Doc(id))
	}

	docs, err := fr.firestoreClient.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("error getting courses: %w", err)
	}

	courses := make([]*models.Course, 0, len(docs))
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		c, err := docToCourse(doc)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}

func (fr *FirebaseRepository) ListCoursesByEducator(ctx context.Context, educatorID string) ([]*models.Course, error) {
	query := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Where("educator", "==", educatorID)
	return fr.queryCourses(ctx, query)
}

func (fr *FirebaseRepository) ListPublishedCourses(ctx context.Context) ([]*models.Course, error) {
	query := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Where("isPublished", "==", true)
	return fr.queryCourses(ctx, query)
}

func (fr *FirebaseRepository) AddEnrolledStudent(ctx context.Context, courseID, userID string) error {
	_, err := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Doc(courseID).Update(ctx, []firestore.Update{
		{
			Path:  "enrolledStudents",
			Value: firestore.ArrayUnion(userID),
		},
	})
	if isNotFound(err) {
		return qerrors.CourseNotFoundError
	}
	return err
}

func (fr *FirebaseRepository) UpsertRating(ctx context.Context, courseID string, rating models.Rating) error {
	courseRef := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Doc(courseID)
	return fr.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(courseRef)
		if isNotFound(err) {
			return qerrors.CourseNotFoundError
		}
		if err != nil {
			return err
		}

		course, err := docToCourse(doc)
		if err != nil {
			return err
		}

		return tx.Update(courseRef, []firestore.Update{
			{
				Path:  "courseRatings",
				Value: ratingsToData(upsertRating(course.Ratings, rating)),
			},
		})
	})
}

// Helpers

func (fr *FirebaseRepository) queryCourses(ctx context.Context, query firestore.Query) ([]*models.Course, error) {
	courses := []*models.Course{}
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error listing courses: %w", err)
		}

		c, err := docToCourse(doc)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}

	sortCourses(courses)
	return courses, nil
}

func docToCourse(doc *firestore.DocumentSnapshot) (*models.Course, error) {
	var c models.Course
	if err := decode(doc, &c); err != nil {
		return nil, err
	}
	c.ID = doc.Ref.ID
	return &c, nil
}

func chaptersToData(chapters []*models.Chapter) []interface{} {
	data := make([]interface{}, 0, len(chapters))
	for _, ch := range chapters {
		lectures := make([]interface{}, 0, len(ch.Lectures))
		for _, l := range ch.Lectures {
			lectures = append(lectures, map[string]interface{}{
				"lectureId":       l.ID,
				"lectureTitle":    l.Title,
				"lectureDuration": l.Duration,
				"lectureUrl":      l.URL,
				"isPreviewFree":   l.IsPreviewFree,
				"lectureOrder":    l.Order,
			})
		}
		data = append(data, map[string]interface{}{
			"chapterId":      ch.ID,
			"chapterOrder":   ch.Order,
			"chapterTitle":   ch.Title,
			"chapterContent": lectures,
		})
	}
	return data
}

func ratingsToData(ratings []models.Rating) []interface{} {
	data := make([]interface{}, 0, len(ratings))
	for _, r := range ratings {
		data = append(data, map[string]interface{}{
			"userId": r.UserID,
			"rating": r.Rating,
		})
	}
	return data
}

// upsertRating overwrites the rating of the same user in place, or appends it.
func upsertRating(ratings []models.Rating, rating models.Rating) []models.Rating {
	out := make([]models.Rating, 0, len(ratings)+1)
	replaced := false
	for _, r := range ratings {
		if r.UserID == rating.UserID {
			r.Rating = rating.Rating
			replaced = true
		}
		out = append(out, r)
	}
	if !replaced {
		out = append(out, rating)
	}
	return out
}

// sortCourses orders courses newest first.
func sortCourses(courses []*models.Course) {
	sort.SliceStable(courses, func(i, j int) bool {
		if courses[i].CreatedAt.Equal(courses[j].CreatedAt) {
			return courses[i].ID < courses[j].ID
		}
		return courses[i].CreatedAt.After(courses[j].CreatedAt)
	})
}
