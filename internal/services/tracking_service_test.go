// internal/services/tracking_service_test.go
package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopwatch/shopwatch-backend/internal/models"
	"github.com/shopwatch/shopwatch-backend/internal/store"
)

func TestSetTracked(t *testing.T) {
	catalog := &fakeCatalog{products: map[int64]*models.Product{10: {ID: 10}}}
	tracking := NewTrackingService(catalog)

	assert.NoError(t, tracking.SetTracked(context.Background(), 10, true))
	assert.True(t, catalog.products[10].Tracked)

	assert.NoError(t, tracking.SetTracked(context.Background(), 10, false))
	assert.False(t, catalog.products[10].Tracked)
}

func TestSetTrackedUnknownProduct(t *testing.T) {
	tracking := NewTrackingService(&fakeCatalog{products: map[int64]*models.Product{}})

	err := tracking.SetTracked(context.Background(), 404, true)

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetTrackedConcurrentTogglesConverge(t *testing.T) {
	catalog := &fakeCatalog{products: map[int64]*models.Product{10: {ID: 10}}}
	tracking := NewTrackingService(catalog)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, tracking.SetTracked(context.Background(), 10, true))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, tracking.SetTracked(context.Background(), 10, false))
		}()
	}
	wg.Wait()

	// whichever write landed last won; a subsequent write is authoritative
	assert.NoError(t, tracking.SetTracked(context.Background(), 10, true))
	assert.True(t, catalog.products[10].Tracked)
}
