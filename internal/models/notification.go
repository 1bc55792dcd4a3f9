// internal/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification asks for a single change to be announced to the channel.
// Created by the upstream trigger alongside a VariantChange row (1:1 via the
// unique ChangeID). Delivered starts false and is flipped by the delivery
// coordinator after a confirmed send; it is never reset.
type Notification struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID      int64     `json:"product_id" gorm:"not null;index"`
	VariantID      int64     `json:"variant_id" gorm:"not null;index"`
	ChangeID       uuid.UUID `json:"change_id" gorm:"type:uuid;not null;uniqueIndex"`
	NotificationAt time.Time `json:"notification_at" gorm:"not null"`
	Delivered      bool      `json:"delivered" gorm:"not null;default:false;index"`

	// Relationships
	Product Product       `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Variant Variant       `json:"variant,omitempty" gorm:"foreignKey:VariantID"`
	Change  VariantChange `json:"change,omitempty" gorm:"foreignKey:ChangeID;references:ChangeID"`
}
