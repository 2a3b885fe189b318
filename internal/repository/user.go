package repository

import (
	"context"
	"fmt"

	"coursemarket/internal/models"
	"coursemarket/internal/qerrors"

	"cloud.google.com/go/firestore"
)

func (fr *FirebaseRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if err := validateLookupID(id); err != nil {
		return nil, err
	}

	doc, err := fr.firestoreClient.Collection(models.FirestoreUsersCollection).Doc(id).Get(ctx)
	if isNotFound(err) {
		return nil, qerrors.UserNotFoundError
	}
	if err != nil {
		return nil, fmt.Errorf("error getting user %v: %w", id, err)
	}

	return docToUser(doc)
}

func (fr *FirebaseRepository) GetUsersByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, fr.firestoreClient.Collection(models.FirestoreUsersCollection).Doc(id))
	}

	docs, err := fr.firestoreClient.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("error getting users: %w", err)
	}

	users := make([]*models.User, 0, len(docs))
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		u, err := docToUser(doc)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// CreateUser uses the provider-issued ID as the document ID, so a second create for the same ID fails
// with AlreadyExists instead of producing a duplicate.
func (fr *FirebaseRepository) CreateUser(ctx context.Context, u *models.User) error {
	if err := validateID(u.ID); err != nil {
		return err
	}

	enrolled := u.EnrolledCourses
	if enrolled == nil {
		enrolled = []string{}
	}

	_, err := fr.firestoreClient.Collection(models.FirestoreUsersCollection).Doc(u.ID).Create(ctx, map[string]interface{}{
		"id":              u.ID,
		"name":            u.Name,
		"email":           u.Email,
		"imageUrl":        u.ImageURL,
		"enrolledCourses": enrolled,
	})
	if isAlreadyExists(err) {
		return qerrors.UserExistsError
	}
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (fr *FirebaseRepository) UpdateUserProfile(ctx context.Context, p *models.Profile) error {
	_, err := fr.firestoreClient.Collection(models.FirestoreUsersCollection).Doc(p.ID).Update(ctx, []firestore.Update{
		{Path: "name", Value: p.Name},
		{Path: "email", Value: p.Email},
		{Path: "imageUrl", Value: p.ImageURL},
	})
	if isNotFound(err) {
		return qerrors.UserNotFoundError
	}
	return err
}

func (fr *FirebaseRepository) AddEnrolledCourse(ctx context.Context, userID, courseID string) error {
	_, err := fr.firestoreClient.Collection(models.FirestoreUsersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{
			Path:  "enrolledCourses",
			Value: firestore.ArrayUnion(courseID),
		},
	})
	if isNotFound(err) {
		return qerrors.UserNotFoundError
	}
	return err
}

// Helpers

func docToUser(doc *firestore.DocumentSnapshot) (*models.User, error) {
	var u models.User
	if err := decode(doc, &u); err != nil {
		return nil, err
	}
	u.ID = doc.Ref.ID
	if u.EnrolledCourses == nil {
		u.EnrolledCourses = []string{}
	}
	return &u, nil
}

func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id must be a non-empty string", qerrors.InvalidRequestError)
	}
	if len(id) > 128 {
		return fmt.Errorf("%w: id string must not be longer than 128 characters", qerrors.InvalidRequestError)
	}
	return nil
}

// validateLookupID reports an ID that no user can have as qerrors.UserNotFoundError.
func validateLookupID(id string) error {
	if err := validateID(id); err != nil {
		return fmt.Errorf("%w: %v", qerrors.UserNotFoundError, err)
	}
	return nil
}
