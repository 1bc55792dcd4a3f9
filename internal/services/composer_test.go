// internal/services/composer_test.go
package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopwatch/shopwatch-backend/internal/models"
	"github.com/shopwatch/shopwatch-backend/internal/store"
)

func priceDelta(previous, current string) *PriceDelta {
	return &PriceDelta{
		Previous: decimal.RequireFromString(previous),
		Current:  decimal.RequireFromString(current),
	}
}

func TestComposeTitle(t *testing.T) {
	widget := &models.Product{Title: "Widget"}

	tests := []struct {
		name    string
		variant models.Variant
		changes NotableChanges
		want    string
	}{
		{
			name:    "default title variant now available",
			variant: models.Variant{Title: "Default Title", Available: true},
			changes: NotableChanges{Available: &AvailabilityDelta{Previous: false, Current: true}},
			want:    "Widget now available!",
		},
		{
			name:    "named variant price drop",
			variant: models.Variant{Title: "Blue"},
			changes: NotableChanges{Price: priceDelta("10.00", "8.00")},
			want:    "Widget Blue price drop!",
		},
		{
			name:    "available and price increase combined",
			variant: models.Variant{Title: "Blue", Available: true},
			changes: NotableChanges{
				Available: &AvailabilityDelta{Previous: false, Current: true},
				Price:     priceDelta("8.00", "9.00"),
			},
			want: "Widget Blue now available! with price increase!",
		},
		{
			name:    "now unavailable",
			variant: models.Variant{Title: "Blue"},
			changes: NotableChanges{Available: &AvailabilityDelta{Previous: true, Current: false}},
			want:    "Widget Blue now unavailable!",
		},
		{
			name:    "no notable changes",
			variant: models.Variant{Title: "Blue"},
			changes: NotableChanges{},
			want:    "Widget Blue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComposeTitle(widget, &tt.variant, tt.changes))
		})
	}
}

func TestComposeNotificationBlocks(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	product := &models.Product{
		Title:  "Widget",
		Handle: "https://shop.example.com/products/widget",
		Vendor: "Acme",
	}
	variant := &models.Variant{
		Title:     "Blue",
		Available: true,
		Price:     decimal.RequireFromString("8.00"),
		UpdatedAt: now.Add(-2 * time.Hour),
	}
	changes := NotableChanges{Available: &AvailabilityDelta{Previous: false, Current: true}}

	title, blocks := ComposeNotification(product, variant, changes, "https://cdn.example.com/widget.jpg", now)

	assert.Equal(t, "Widget Blue now available!", title)
	require.Len(t, blocks, 3)

	header, ok := blocks[0].(*slack.HeaderBlock)
	require.True(t, ok)
	assert.Equal(t, title, header.Text.Text)

	section, ok := blocks[1].(*slack.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "Widget")
	assert.Contains(t, section.Text.Text, "Acme")
	assert.Contains(t, section.Text.Text, "8.00")
	require.NotNil(t, section.Accessory)
	require.NotNil(t, section.Accessory.ImageElement)
	assert.Equal(t, "https://cdn.example.com/widget.jpg", section.Accessory.ImageElement.ImageURL)

	contextBlock, ok := blocks[2].(*slack.ContextBlock)
	require.True(t, ok)
	require.Len(t, contextBlock.ContextElements.Elements, 2)
	stock, ok := contextBlock.ContextElements.Elements[0].(*slack.TextBlockObject)
	require.True(t, ok)
	assert.Equal(t, ":white_check_mark: *now in stock*", stock.Text)
	updated, ok := contextBlock.ContextElements.Elements[1].(*slack.TextBlockObject)
	require.True(t, ok)
	assert.Equal(t, "Updated 2 hours ago", updated.Text)
}

func TestComposeNotificationStockWordingWithoutAvailabilityChange(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	product := &models.Product{Title: "Widget", Handle: "https://shop.example.com/products/widget"}
	variant := &models.Variant{Title: "Blue", Available: false, UpdatedAt: now.Add(-time.Minute)}

	_, blocks := ComposeNotification(product, variant, NotableChanges{Price: priceDelta("10.00", "9.00")}, "", now)

	contextBlock, ok := blocks[2].(*slack.ContextBlock)
	require.True(t, ok)
	stock := contextBlock.ContextElements.Elements[0].(*slack.TextBlockObject)
	assert.Equal(t, ":x: *out of stock*", stock.Text)

	// no image resolved means no accessory
	section := blocks[1].(*slack.SectionBlock)
	assert.Nil(t, section.Accessory)
}

func TestComposeSearchResults(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	hits := []store.ProductHit{
		{
			Product: models.Product{ID: 1, Title: "Widget", Handle: "https://shop.example.com/widget", Tracked: true},
			Variant: models.Variant{ID: 2, Available: true, Price: decimal.RequireFromString("8.00"), UpdatedAt: now.Add(-time.Hour)},
			Image:   &models.Image{Src: "https://cdn.example.com/widget.jpg", Position: 1},
		},
	}

	blocks := ComposeSearchResults(hits, now)

	// count section + divider/section/context/actions per hit
	require.Len(t, blocks, 5)
	count := blocks[0].(*slack.SectionBlock)
	assert.Equal(t, "*1* results found", count.Text.Text)

	actions, ok := blocks[4].(*slack.ActionBlock)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(actions.Elements.ElementSet), 2)
	button, ok := actions.Elements.ElementSet[0].(*slack.ButtonBlockElement)
	require.True(t, ok)
	// tracked products get the untrack toggle
	assert.Equal(t, ActionUntrackProduct, button.ActionID)
	assert.Equal(t, "1/2", button.Value)
	assert.Equal(t, slack.StyleDanger, button.Style)
}
