// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
)

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type ChangeOperation string

const (
	ChangeOperationInsert ChangeOperation = "insert"
	ChangeOperationUpdate ChangeOperation = "update"
	ChangeOperationDelete ChangeOperation = "delete"
)

// Notable fields compared between consecutive change-log snapshots.
// Cosmetic fields (title, sku, options) are deliberately excluded.
const (
	FieldPrice     = "price"
	FieldAvailable = "available"
)

// DefaultVariantTitle is the upstream catalog's sentinel title for the sole
// variant of a single-variant product. It is noise to end users and is
// omitted from composed messages.
const DefaultVariantTitle = "Default Title"
