// internal/store/store.go
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/shopwatch/shopwatch-backend/internal/models"
)

// ErrNotFound is returned when a referenced entity does not exist. Callers
// treat it as a data-integrity signal, never as a transient failure.
var ErrNotFound = errors.New("entity not found")

// ProductHit is one search or feed row: a product, one of its variants and
// the canonical (position-1) product image when one exists.
type ProductHit struct {
	Product models.Product
	Variant models.Variant
	Image   *models.Image
}

// ResolvedNotification joins a notification with the change, variant and
// product it refers to.
type ResolvedNotification struct {
	Notification models.Notification
	Change       models.VariantChange
	Variant      models.Variant
	Product      models.Product
}

// CatalogStore reads the synced product catalog and owns the tracked flag.
type CatalogStore interface {
	Product(ctx context.Context, id int64) (*models.Product, error)
	// SetTracked is a single-row last-write-wins update.
	SetTracked(ctx context.Context, productID int64, tracked bool) error
	// Images returns all images of a product ordered by ascending position.
	Images(ctx context.Context, productID int64) ([]models.Image, error)
	// Search runs the store's native full-text search over product and
	// variant text columns.
	Search(ctx context.Context, term string, limit int) ([]ProductHit, error)
	// Newest returns the most recently published products.
	Newest(ctx context.Context, limit int) ([]ProductHit, error)
}

// ChangeLogStore reads the append-only variant change log.
type ChangeLogStore interface {
	Change(ctx context.Context, changeID uuid.UUID) (*models.VariantChange, error)
	// History returns the newest rows of a variant's history at or before
	// the (changedAt, changeSeq) position, newest first, at most limit rows.
	// Insertion order (changeSeq) breaks identical-timestamp ties.
	History(ctx context.Context, variantID int64, changedAt time.Time, changeSeq int64, limit int) ([]models.VariantChange, error)
}

// NotificationStore reads notifications and records delivery outcomes.
type NotificationStore interface {
	Resolve(ctx context.Context, id uuid.UUID) (*ResolvedNotification, error)
	// MarkDelivered overwrites the delivered flag; last write wins.
	MarkDelivered(ctx context.Context, id uuid.UUID, delivered bool) error
	// ListUndelivered returns undelivered notifications created before the
	// cutoff, oldest first.
	ListUndelivered(ctx context.Context, before time.Time, limit int) ([]models.Notification, error)
}
