// internal/models/catalog.go
package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a point-in-time snapshot from the upstream catalog sync.
// Only Tracked is mutated locally; everything else is owned upstream.
type Product struct {
	ID          int64          `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Title       string         `json:"title" gorm:"type:text"`
	Handle      string         `json:"handle" gorm:"type:text"`
	Vendor      string         `json:"vendor" gorm:"type:text"`
	ProductType string         `json:"product_type" gorm:"type:text"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	PublishedAt time.Time      `json:"published_at" gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Tracked     bool           `json:"tracked" gorm:"not null;default:false"`

	// Relationships
	Variants []Variant `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
	Images   []Image   `json:"images,omitempty" gorm:"foreignKey:ProductID"`
}

type Variant struct {
	ID               int64           `json:"id" gorm:"primaryKey;autoIncrement:false"`
	ProductID        int64           `json:"product_id" gorm:"not null;index"`
	Title            string          `json:"title" gorm:"type:text"`
	Option1          string          `json:"option1" gorm:"type:text"`
	Option2          string          `json:"option2" gorm:"type:text"`
	Option3          string          `json:"option3" gorm:"type:text"`
	SKU              string          `json:"sku" gorm:"column:sku;type:text"`
	RequiresShipping bool            `json:"requires_shipping"`
	Taxable          bool            `json:"taxable"`
	FeaturedImage    JSONB           `json:"featured_image" gorm:"type:jsonb"`
	Available        bool            `json:"available"`
	Price            decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	CompareAtPrice   decimal.Decimal `json:"compare_at_price" gorm:"type:decimal(12,2)"`
	Grams            int             `json:"grams"`
	Position         int             `json:"position"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// FeaturedImageSrc returns the variant's embedded featured-image URL,
// or "" when the variant has none.
func (v *Variant) FeaturedImageSrc() string {
	if v.FeaturedImage == nil {
		return ""
	}
	src, _ := v.FeaturedImage["src"].(string)
	return src
}

// Image belongs to a product. An empty VariantIDs array means the image
// applies to every variant of the product; the lowest position is canonical.
type Image struct {
	ID         int64         `json:"id" gorm:"primaryKey;autoIncrement:false"`
	ProductID  int64         `json:"product_id" gorm:"not null;index"`
	VariantIDs pq.Int64Array `json:"variant_ids" gorm:"type:bigint[]"`
	Src        string        `json:"src" gorm:"type:text"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Position   int           `json:"position"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// AppliesTo reports whether the image covers the given variant.
func (i *Image) AppliesTo(variantID int64) bool {
	if len(i.VariantIDs) == 0 {
		return true
	}
	for _, id := range i.VariantIDs {
		if id == variantID {
			return true
		}
	}
	return false
}
