// internal/services/classifier_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopwatch/shopwatch-backend/internal/models"
	"github.com/shopwatch/shopwatch-backend/internal/store"
)

// PriceDelta is an exact decimal comparison; a sub-cent move is still a delta
// when the stored precision reflects it.
type PriceDelta struct {
	Previous decimal.Decimal
	Current  decimal.Decimal
}

func (d PriceDelta) Dropped() bool {
	return d.Previous.GreaterThan(d.Current)
}

type AvailabilityDelta struct {
	Previous bool
	Current  bool
}

// NotableChanges holds the field deltas between the two newest snapshots of a
// variant's history. A nil field means that field did not change notably.
type NotableChanges struct {
	Price     *PriceDelta
	Available *AvailabilityDelta
}

func (n NotableChanges) IsEmpty() bool {
	return n.Price == nil && n.Available == nil
}

// Fields returns the notable field names with previous/current values,
// for structured logging.
func (n NotableChanges) Fields() map[string][2]string {
	fields := make(map[string][2]string, 2)
	if n.Price != nil {
		fields[models.FieldPrice] = [2]string{n.Price.Previous.String(), n.Price.Current.String()}
	}
	if n.Available != nil {
		fields[models.FieldAvailable] = [2]string{
			fmt.Sprintf("%t", n.Available.Previous),
			fmt.Sprintf("%t", n.Available.Current),
		}
	}
	return fields
}

// ClassifierService diffs the two most recent change-log snapshots of a
// variant to decide what, specifically, changed.
type ClassifierService struct {
	changeLog store.ChangeLogStore
}

func NewClassifierService(changeLog store.ChangeLogStore) *ClassifierService {
	return &ClassifierService{changeLog: changeLog}
}

// Classify fetches the two newest snapshots at or before the given change and
// compares the notable fields (price, available). A first-ever change has no
// baseline and yields an empty result. A missing changeID surfaces
// store.ErrNotFound untouched.
func (s *ClassifierService) Classify(ctx context.Context, changeID uuid.UUID) (NotableChanges, error) {
	ref, err := s.changeLog.Change(ctx, changeID)
	if err != nil {
		return NotableChanges{}, err
	}

	window, err := s.changeLog.History(ctx, ref.VariantID, ref.ChangedAt, ref.ChangeSeq, 2)
	if err != nil {
		return NotableChanges{}, fmt.Errorf("classify change %s: %w", changeID, err)
	}
	if len(window) < 2 {
		return NotableChanges{}, nil
	}

	current, previous := window[0], window[1]

	var changes NotableChanges
	if !previous.Price.Equal(current.Price) {
		changes.Price = &PriceDelta{Previous: previous.Price, Current: current.Price}
	}
	if previous.Available != current.Available {
		changes.Available = &AvailabilityDelta{Previous: previous.Available, Current: current.Available}
	}
	return changes, nil
}
