// internal/services/search_service.go
package services

import (
	"context"
	"strings"

	"github.com/shopwatch/shopwatch-backend/internal/store"
)

const (
	defaultSearchLimit = 25
	defaultNewestLimit = 15
)

// SearchService answers the interactive search modal and the home-view feed.
// Ranking is delegated to the store's native full-text search.
type SearchService struct {
	catalog store.CatalogStore
}

func NewSearchService(catalog store.CatalogStore) *SearchService {
	return &SearchService{catalog: catalog}
}

func (s *SearchService) Search(ctx context.Context, term string) ([]store.ProductHit, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	return s.catalog.Search(ctx, term, defaultSearchLimit)
}

func (s *SearchService) Newest(ctx context.Context) ([]store.ProductHit, error) {
	return s.catalog.Newest(ctx, defaultNewestLimit)
}
