// internal/services/helpers_test.go
package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/slack-go/slack"

	"github.com/shopwatch/shopwatch-backend/internal/models"
	"github.com/shopwatch/shopwatch-backend/internal/store"
)

// In-memory store fakes shared by the service tests.

type fakeChangeLog struct {
	rows []models.VariantChange
}

func (f *fakeChangeLog) Change(_ context.Context, changeID uuid.UUID) (*models.VariantChange, error) {
	for i := range f.rows {
		if f.rows[i].ChangeID == changeID {
			return &f.rows[i], nil
		}
	}
	return nil, fmt.Errorf("change %s: %w", changeID, store.ErrNotFound)
}

func (f *fakeChangeLog) History(_ context.Context, variantID int64, changedAt time.Time, changeSeq int64, limit int) ([]models.VariantChange, error) {
	var out []models.VariantChange
	for _, row := range f.rows {
		if row.VariantID != variantID {
			continue
		}
		if row.ChangedAt.After(changedAt) {
			continue
		}
		if row.ChangedAt.Equal(changedAt) && row.ChangeSeq > changeSeq {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ChangedAt.Equal(out[j].ChangedAt) {
			return out[i].ChangedAt.After(out[j].ChangedAt)
		}
		return out[i].ChangeSeq > out[j].ChangeSeq
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeCatalog struct {
	mu       sync.Mutex
	products map[int64]*models.Product
	images   []models.Image
	hits     []store.ProductHit
}

func (f *fakeCatalog) Product(_ context.Context, id int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("product %d: %w", id, store.ErrNotFound)
}

func (f *fakeCatalog) SetTracked(_ context.Context, productID int64, tracked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok {
		return fmt.Errorf("product %d: %w", productID, store.ErrNotFound)
	}
	p.Tracked = tracked
	return nil
}

func (f *fakeCatalog) Images(_ context.Context, productID int64) ([]models.Image, error) {
	var out []models.Image
	for _, img := range f.images {
		if img.ProductID == productID {
			out = append(out, img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeCatalog) Search(_ context.Context, _ string, _ int) ([]store.ProductHit, error) {
	return f.hits, nil
}

func (f *fakeCatalog) Newest(_ context.Context, _ int) ([]store.ProductHit, error) {
	return f.hits, nil
}

type fakeNotifications struct {
	mu        sync.Mutex
	resolved  map[uuid.UUID]*store.ResolvedNotification
	markCalls []bool
}

func (f *fakeNotifications) Resolve(_ context.Context, id uuid.UUID) (*store.ResolvedNotification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.resolved[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, fmt.Errorf("notification %s: %w", id, store.ErrNotFound)
}

func (f *fakeNotifications) MarkDelivered(_ context.Context, id uuid.UUID, delivered bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.resolved[id]
	if !ok {
		return fmt.Errorf("notification %s: %w", id, store.ErrNotFound)
	}
	r.Notification.Delivered = delivered
	f.markCalls = append(f.markCalls, delivered)
	return nil
}

func (f *fakeNotifications) ListUndelivered(_ context.Context, before time.Time, limit int) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, r := range f.resolved {
		if !r.Notification.Delivered && r.Notification.NotificationAt.Before(before) {
			out = append(out, r.Notification)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NotificationAt.Before(out[j].NotificationAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakePoster struct {
	mu    sync.Mutex
	calls int
	fail  bool

	lastChannel string
	lastText    string
	lastBlocks  []slack.Block
}

func (f *fakePoster) PostMessage(_ context.Context, channel, text string, blocks []slack.Block) (Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return Receipt{}, fmt.Errorf("channel_not_found")
	}
	f.lastChannel = channel
	f.lastText = text
	f.lastBlocks = blocks
	return Receipt{Channel: channel, Timestamp: "1724800000.000100"}, nil
}
