// internal/services/composer.go
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/slack-go/slack"

	"github.com/shopwatch/shopwatch-backend/internal/models"
	"github.com/shopwatch/shopwatch-backend/internal/store"
)

// Block Kit caps a modal or home view at 100 blocks; result lists are
// trimmed below that.
const maxResultBlocks = 75

// ComposeTitle assembles the notification headline: product title, variant
// title (unless it is the upstream "Default Title" sentinel), then the change
// suffixes joined with " with ".
func ComposeTitle(product *models.Product, variant *models.Variant, changes NotableChanges) string {
	parts := []string{product.Title}
	if variant.Title != "" && variant.Title != models.DefaultVariantTitle {
		parts = append(parts, variant.Title)
	}

	var updates []string
	if changes.Available != nil {
		if changes.Available.Current {
			updates = append(updates, "now available!")
		} else {
			updates = append(updates, "now unavailable!")
		}
	}
	if changes.Price != nil {
		if changes.Price.Dropped() {
			updates = append(updates, "price drop!")
		} else {
			updates = append(updates, "price increase!")
		}
	}
	if len(updates) > 0 {
		parts = append(parts, strings.Join(updates, " with "))
	}

	return strings.Join(parts, " ")
}

// ComposeNotification renders the full channel message: headline plus a
// content section and a stock/recency context line.
func ComposeNotification(product *models.Product, variant *models.Variant, changes NotableChanges, imageURL string, now time.Time) (string, []slack.Block) {
	title := ComposeTitle(product, variant, changes)

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, false, false)),
		productSection(product, variant.Price.StringFixed(2), imageURL),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, stockStatus(variant.Available, changes.Available != nil), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("Updated %s", relTime(variant.UpdatedAt, now)), false, false),
		),
	}

	return title, blocks
}

// ComposeSearchResults renders the modal body for a search: a result count
// followed by one section/context/actions group per hit.
func ComposeSearchResults(hits []store.ProductHit, now time.Time) []slack.Block {
	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*%d* results found", len(hits)), false, false),
			nil, nil,
		),
	}
	for _, hit := range hits {
		blocks = append(blocks, hitBlocks(hit, "Updated", hit.Variant.UpdatedAt, now)...)
	}
	return trimBlocks(blocks)
}

// ComposeNewest renders the home-view feed of most recently published
// products.
func ComposeNewest(hits []store.ProductHit, now time.Time) []slack.Block {
	var blocks []slack.Block
	for _, hit := range hits {
		blocks = append(blocks, hitBlocks(hit, "Released", hit.Product.PublishedAt, now)...)
	}
	return trimBlocks(blocks)
}

func hitBlocks(hit store.ProductHit, verb string, since time.Time, now time.Time) []slack.Block {
	imageURL := ""
	if hit.Image != nil {
		imageURL = hit.Image.Src
	}

	// Button value round-trips through the action payload.
	productVariant := fmt.Sprintf("%d/%d", hit.Product.ID, hit.Variant.ID)

	trackButton := slack.NewButtonBlockElement(ActionTrackProduct, productVariant,
		slack.NewTextBlockObject(slack.PlainTextType, "Turn on notifications", false, false))
	trackButton.Style = slack.StylePrimary
	if hit.Product.Tracked {
		trackButton = slack.NewButtonBlockElement(ActionUntrackProduct, productVariant,
			slack.NewTextBlockObject(slack.PlainTextType, "Turn off notifications", false, false))
		trackButton.Style = slack.StyleDanger
	}

	viewButton := slack.NewButtonBlockElement("view-online", hit.Product.Handle,
		slack.NewTextBlockObject(slack.PlainTextType, "View online", false, false))
	viewButton.URL = hit.Product.Handle

	return []slack.Block{
		slack.NewDividerBlock(),
		productSection(&hit.Product, hit.Variant.Price.StringFixed(2), imageURL),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, stockStatus(hit.Variant.Available, false), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("%s %s", verb, relTime(since, now)), false, false),
		),
		slack.NewActionBlock("", trackButton, viewButton),
	}
}

func productSection(product *models.Product, price, imageURL string) *slack.SectionBlock {
	text := slack.NewTextBlockObject(slack.MarkdownType,
		fmt.Sprintf("*<%s|%s>*\n%s\n%s", product.Handle, product.Title, product.Vendor, price),
		false, false)

	var accessory *slack.Accessory
	if imageURL != "" {
		accessory = slack.NewAccessory(slack.NewImageBlockElement(imageURL, product.Title))
	}
	return slack.NewSectionBlock(text, nil, accessory)
}

// stockStatus renders the stock glyph. The "now" wording is reserved for
// messages where availability itself is the notable change.
func stockStatus(available, justChanged bool) string {
	switch {
	case available && justChanged:
		return ":white_check_mark: *now in stock*"
	case available:
		return ":white_check_mark: *in stock*"
	case justChanged:
		return ":x: *now out of stock*"
	default:
		return ":x: *out of stock*"
	}
}

func relTime(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

func trimBlocks(blocks []slack.Block) []slack.Block {
	if len(blocks) > maxResultBlocks {
		return blocks[:maxResultBlocks]
	}
	return blocks
}
