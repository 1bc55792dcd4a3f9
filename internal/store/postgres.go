// internal/store/postgres.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopwatch/shopwatch-backend/internal/models"
)

// Postgres implements the store interfaces over gorm. Every call runs in its
// own session; no transaction is held open across calls.
type Postgres struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

var (
	_ CatalogStore      = (*Postgres)(nil)
	_ ChangeLogStore    = (*Postgres)(nil)
	_ NotificationStore = (*Postgres)(nil)
)

// Full-text predicate over the joined product/variant text columns, matching
// the GIN index created in database.RunMigrations.
const searchPredicate = `to_tsvector('english',
	products.title || ' ' || products.handle || ' ' || products.vendor || ' ' ||
	products.product_type || ' ' || array_to_string(products.tags, ' ') || ' ' ||
	coalesce(variants.title, '') || ' ' || coalesce(variants.sku, '')
) @@ plainto_tsquery('english', ?)`

func (s *Postgres) Product(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch product %d: %w", id, err)
	}
	return &product, nil
}

func (s *Postgres) SetTracked(ctx context.Context, productID int64, tracked bool) error {
	result := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("tracked", tracked)
	if result.Error != nil {
		return fmt.Errorf("set tracked on product %d: %w", productID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	return nil
}

func (s *Postgres) Images(ctx context.Context, productID int64) ([]models.Image, error) {
	var images []models.Image
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("position ASC").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("fetch images for product %d: %w", productID, err)
	}
	return images, nil
}

func (s *Postgres) Search(ctx context.Context, term string, limit int) ([]ProductHit, error) {
	var variants []models.Variant
	err := s.db.WithContext(ctx).
		Joins("JOIN products ON products.id = variants.product_id").
		Where(searchPredicate, term).
		Order("products.published_at DESC, variants.position ASC").
		Limit(limit).
		Preload("Product").
		Find(&variants).Error
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return s.buildHits(ctx, variants)
}

func (s *Postgres) Newest(ctx context.Context, limit int) ([]ProductHit, error) {
	var variants []models.Variant
	err := s.db.WithContext(ctx).
		Joins("JOIN products ON products.id = variants.product_id").
		Where("variants.position = 1").
		Order("products.published_at DESC").
		Limit(limit).
		Preload("Product").
		Find(&variants).Error
	if err != nil {
		return nil, fmt.Errorf("fetch newest products: %w", err)
	}
	return s.buildHits(ctx, variants)
}

func (s *Postgres) buildHits(ctx context.Context, variants []models.Variant) ([]ProductHit, error) {
	hits := make([]ProductHit, 0, len(variants))
	for _, v := range variants {
		hit := ProductHit{Product: v.Product, Variant: v}

		var image models.Image
		err := s.db.WithContext(ctx).
			Where("product_id = ?", v.ProductID).
			Order("position ASC").
			First(&image).Error
		switch {
		case err == nil:
			hit.Image = &image
		case errors.Is(err, gorm.ErrRecordNotFound):
			// products without images still show up in results
		default:
			return nil, fmt.Errorf("fetch image for product %d: %w", v.ProductID, err)
		}

		hits = append(hits, hit)
	}
	return hits, nil
}

func (s *Postgres) Change(ctx context.Context, changeID uuid.UUID) (*models.VariantChange, error) {
	var change models.VariantChange
	if err := s.db.WithContext(ctx).First(&change, "change_id = ?", changeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("change %s: %w", changeID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch change %s: %w", changeID, err)
	}
	return &change, nil
}

func (s *Postgres) History(ctx context.Context, variantID int64, changedAt time.Time, changeSeq int64, limit int) ([]models.VariantChange, error) {
	var rows []models.VariantChange
	err := s.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		Where("changed_at < ? OR (changed_at = ? AND change_seq <= ?)", changedAt, changedAt, changeSeq).
		Order("changed_at DESC, change_seq DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetch history for variant %d: %w", variantID, err)
	}
	return rows, nil
}

func (s *Postgres) Resolve(ctx context.Context, id uuid.UUID) (*ResolvedNotification, error) {
	var notification models.Notification
	err := s.db.WithContext(ctx).
		Preload("Change").
		Preload("Variant").
		Preload("Product").
		First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("notification %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("resolve notification %s: %w", id, err)
	}

	resolved := &ResolvedNotification{
		Notification: notification,
		Change:       notification.Change,
		Variant:      notification.Variant,
		Product:      notification.Product,
	}
	// Preload leaves zero values when a foreign row is missing; a dangling
	// notification is a data-integrity problem, not a deliverable one.
	if resolved.Variant.ID == 0 || resolved.Product.ID == 0 || resolved.Change.ChangeID == uuid.Nil {
		return nil, fmt.Errorf("notification %s references missing entities: %w", id, ErrNotFound)
	}
	return resolved, nil
}

func (s *Postgres) MarkDelivered(ctx context.Context, id uuid.UUID, delivered bool) error {
	result := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("delivered", delivered)
	if result.Error != nil {
		return fmt.Errorf("mark notification %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Postgres) ListUndelivered(ctx context.Context, before time.Time, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.WithContext(ctx).
		Where("NOT delivered").
		Where("notification_at < ?", before).
		Order("notification_at ASC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("list undelivered notifications: %w", err)
	}
	return notifications, nil
}
