package repository

import (
	"context"

	"coursemarket/internal/models"
)

// ListCompletedPurchases returns the completed purchases of every course in courseIDs. These feed the
// educator dashboard's earnings and the enrolled-students listing.
func (fr *FirebaseRepository) ListCompletedPurchases(ctx context.Context, courseIDs []string) ([]*models.Purchase, error) {
	purchases := []*models.Purchase{}
	for _, courseID := range courseIDs {
		query := fr.firestoreClient.Collection(models.FirestorePurchasesCollection).
			Where("courseId", "==", courseID).
			Where("status", "==", string(models.PurchaseCompleted))
		ps, err := fr.queryPurchases(ctx, query)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, ps...)
	}

	sortPurchases(purchases)
	return purchases, nil
}
