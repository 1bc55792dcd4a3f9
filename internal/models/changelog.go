// internal/models/changelog.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VariantChange is one row of the append-only change log: a full snapshot of
// a variant's fields at the moment a mutation was detected. Rows are never
// updated after insert.
//
// ChangedAt orders a variant's history; ChangeSeq (insertion order) breaks
// ties when two rows carry an identical timestamp.
type VariantChange struct {
	ChangeID  uuid.UUID       `json:"change_id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChangeSeq int64           `json:"change_seq" gorm:"autoIncrement;uniqueIndex"`
	Operation ChangeOperation `json:"operation" gorm:"type:varchar(20)"`

	// Variant snapshot
	VariantID        int64           `json:"variant_id" gorm:"not null;index:idx_variant_changes_history,priority:1"`
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
	ProductID        int64           `json:"product_id" gorm:"not null;index"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	ChangedAt time.Time `json:"changed_at" gorm:"not null;index:idx_variant_changes_history,priority:2,sort:desc"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (VariantChange) TableName() string {
	return "variant_changes"
}
