// internal/services/resolver_service.go
package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopwatch/shopwatch-backend/internal/models"
	"github.com/shopwatch/shopwatch-backend/internal/store"
)

// ResolverService reconstructs the entities behind an inbound notification
// identifier and picks the image shown alongside the message.
type ResolverService struct {
	catalog       store.CatalogStore
	notifications store.NotificationStore
}

func NewResolverService(catalog store.CatalogStore, notifications store.NotificationStore) *ResolverService {
	return &ResolverService{catalog: catalog, notifications: notifications}
}

// Resolve joins notification → change → variant → product. An unknown id
// surfaces store.ErrNotFound: the inbound event referenced a notification
// that was never created or has been purged.
func (s *ResolverService) Resolve(ctx context.Context, notificationID uuid.UUID) (*store.ResolvedNotification, error) {
	return s.notifications.Resolve(ctx, notificationID)
}

// ResolveFeaturedImage prefers the variant's embedded featured image, then
// falls back to the lowest-position product image covering the variant
// (an empty variant_ids array covers all variants). Per-variant images are
// rarer than product-level ones, hence the two tiers. Returns "" when the
// product has no usable image at all.
func (s *ResolverService) ResolveFeaturedImage(ctx context.Context, variant *models.Variant) (string, error) {
	if src := variant.FeaturedImageSrc(); src != "" {
		return src, nil
	}

	images, err := s.catalog.Images(ctx, variant.ProductID)
	if err != nil {
		return "", err
	}

	var best *models.Image
	for i := range images {
		img := &images[i]
		if !img.AppliesTo(variant.ID) {
			continue
		}
		if best == nil || img.Position < best.Position {
			best = img
		}
	}
	if best == nil {
		return "", nil
	}
	return best.Src, nil
}
