// internal/services/tracking_service.go
package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/shopwatch/shopwatch-backend/internal/store"
)

// Interactive action identifiers shared by composed blocks and the
// interaction dispatcher.
const (
	ActionTrackProduct   = "track-product"
	ActionUntrackProduct = "untrack-product"
	ActionSearchQuery    = "search-query"
)

// TrackingService flips a product's tracked flag. Concurrent toggles are
// last-write-wins: user intent ("make it tracked") is idempotent, so no
// optimistic locking is needed.
type TrackingService struct {
	catalog store.CatalogStore
}

func NewTrackingService(catalog store.CatalogStore) *TrackingService {
	return &TrackingService{catalog: catalog}
}

func (s *TrackingService) SetTracked(ctx context.Context, productID int64, tracked bool) error {
	if err := s.catalog.SetTracked(ctx, productID, tracked); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"product_id": productID,
		"tracked":    tracked,
	}).Info("Product tracking updated")
	return nil
}
