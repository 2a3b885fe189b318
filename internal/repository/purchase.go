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

func (fr *FirebaseRepository) CreatePurchase(ctx context.Context, p *models.Purchase) (*models.Purchase, error) {
	purchase := *p
	now := time.Now()
	purchase.CreatedAt = now
	purchase.UpdatedAt = now

	ref, _, err := fr.firestoreClient.Collection(models.FirestorePurchasesCollection).Add(ctx, map[string]interface{}{
		"courseId":          purchase.CourseID,
		"userId":            purchase.UserID,
		"amount":            purchase.Amount,
		"status":            string(purchase.Status),
		"checkoutSessionId": purchase.CheckoutSessionID,
		"createdAt":         purchase.CreatedAt,
		"updatedAt":         purchase.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating purchase: %w", err)
	}
	purchase.ID = ref.ID

	return &purchase, nil
}

func (fr *FirebaseRepository) GetPurchaseByID(ctx context.Context, id string) (*models.Purchase, error) {
	if id == "" {
		return nil, qerrors.PurchaseNotFoundError
	}

	doc, err := fr.firestoreClient.Collection(models.FirestorePurchasesCollection).Doc(id).Get(ctx)
	if isNotFound(err) {
		return nil, qerrors.PurchaseNotFoundError
	}
	if err != nil {
		return nil, fmt.Errorf("error getting purchase %v: %w", id, err)
	}

	return docToPurchase(doc)
}

func (fr *FirebaseRepository) SetCheckoutSession(ctx context.Context, id, sessionID string) error {
	return fr.updatePurchase(ctx, id, []firestore.Update{
		{Path: "checkoutSessionId", Value: sessionID},
		{Path: "updatedAt", Value: time.Now()},
	})
}

func (fr *FirebaseRepository) UpdatePurchaseStatus(ctx context.Context, id string, s models.PurchaseStatus) error {
	return fr.updatePurchase(ctx, id, []firestore.Update{
		{Path: "status", Value: string(s)},
		{Path: "updatedAt", Value: time.Now()},
	})
}

func (fr *FirebaseRepository) ListPurchases(ctx context.Context, userID, courseID string) ([]*models.Purchase, error) {
	query := fr.firestoreClient.Collection(models.FirestorePurchasesCollection).
		Where("userId", "==", userID).
		Where("courseId", "==", courseID)
	return fr.queryPurchases(ctx, query)
}

// Helpers

func (fr *FirebaseRepository) updatePurchase(ctx context.Context, id string, updates []firestore.Update) error {
	_, err := fr.firestoreClient.Collection(models.FirestorePurchasesCollection).Doc(id).Update(ctx, updates)
	if isNotFound(err) {
		return qerrors.PurchaseNotFoundError
	}
	return err
}

func (fr *FirebaseRepository) queryPurchases(ctx context.Context, query firestore.Query) ([]*models.Purchase, error) {
	purchases := []*models.Purchase{}
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error listing purchases: %w", err)
		}

		p, err := docToPurchase(doc)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}

	sortPurchases(purchases)
	return purchases, nil
}

func docToPurchase(doc *firestore.DocumentSnapshot) (*models.Purchase, error) {
	var p models.Purchase
	if err := decode(doc, &p); err != nil {
		return nil, err
	}
	p.ID = doc.Ref.ID
	return &p, nil
}

// sortPurchases orders purchases oldest first.
func sortPurchases(purchases []*models.Purchase) {
	sort.SliceStable(purchases, func(i, j int) bool {
		if purchases[i].CreatedAt.Equal(purchases[j].CreatedAt) {
			return purchases[i].ID < purchases[j].ID
		}
		return purchases[i].CreatedAt.Before(purchases[j].CreatedAt)
	})
}
