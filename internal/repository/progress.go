package repository

import (
	"context"
	"fmt"

	"coursemarket/internal/models"
	"coursemarket/internal/qerrors"

	"cloud.google.com/go/firestore"
)

func (fr *FirebaseRepository) GetProgress(ctx context.Context, userID, courseID string) (*models.CourseProgress, error) {
	doc, err := fr.progressRef(userID, courseID).Get(ctx)
	if isNotFound(err) {
		return nil, qerrors.ProgressNotFoundError
	}
	if err != nil {
		return nil, fmt.Errorf("error getting progress: %w", err)
	}

	var p models.CourseProgress
	if err := decode(doc, &p); err != nil {
		return nil, err
	}
	if p.LectureCompleted == nil {
		p.LectureCompleted = []string{}
	}
	return &p, nil
}

// AddCompletedLecture upserts the record of the pair. ArrayUnion keeps the completed set free of
// duplicates even when two completions race.
func (fr *FirebaseRepository) AddCompletedLecture(ctx context.Context, userID, courseID, lectureID string) (*models.CourseProgress, error) {
	_, err := fr.progressRef(userID, courseID).Set(ctx, map[string]interface{}{
		"userId":           userID,
		"courseId":         courseID,
		"lectureCompleted": firestore.ArrayUnion(lectureID),
	}, firestore.MergeAll)
	if err != nil {
		return nil, fmt.Errorf("error updating progress: %w", err)
	}

	return fr.GetProgress(ctx, userID, courseID)
}

func (fr *FirebaseRepository) progressRef(userID, courseID string) *firestore.DocumentRef {
	return fr.firestoreClient.Collection(models.FirestoreCourseProgressCollection).Doc(models.ProgressDocID(userID, courseID))
}
