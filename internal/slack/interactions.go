// internal/slack/interactions.go
package slack

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/shopwatch/shopwatch-backend/internal/services"
)

const (
	searchViewCallbackID = "product-search"
	searchQueryBlockID   = "search-query"
)

// Interactions dispatches interactive UI payloads (modal actions, slash
// commands, home-view opens) to the tracking and search services. View state
// is re-queried on each interaction instead of cached per view id.
type Interactions struct {
	api      *slackapi.Client
	tracking *services.TrackingService
	search   *services.SearchService
	log      *logrus.Entry
}

func NewInteractions(client *Client, tracking *services.TrackingService, search *services.SearchService) *Interactions {
	return &Interactions{
		api:      client.api,
		tracking: tracking,
		search:   search,
		log:      logrus.WithField("component", "interactions"),
	}
}

// HandleSlashCommand opens the search modal for /product-search.
func (i *Interactions) HandleSlashCommand(ctx context.Context, command slackapi.SlashCommand) {
	if command.Command != "/product-search" {
		i.log.WithField("command", command.Command).Warn("Ignoring unknown slash command")
		return
	}
	if _, err := i.api.OpenViewContext(ctx, command.TriggerID, searchModal(nil)); err != nil {
		i.log.WithError(err).Error("Failed to open search modal")
	}
}

// HandleInteraction processes block actions from the search modal. Track and
// untrack toggles run first, then the modal is refreshed with the current
// query's results so the buttons reflect the new state.
func (i *Interactions) HandleInteraction(ctx context.Context, callback slackapi.InteractionCallback) {
	if callback.Type != slackapi.InteractionTypeBlockActions || len(callback.ActionCallback.BlockActions) == 0 {
		return
	}
	action := callback.ActionCallback.BlockActions[0]

	switch action.ActionID {
	case services.ActionTrackProduct, services.ActionUntrackProduct:
		productID, _, err := splitProductVariant(action.Value)
		if err != nil {
			i.log.WithField("value", action.Value).WithError(err).Warn("Malformed track action value")
			return
		}
		tracked := action.ActionID == services.ActionTrackProduct
		if err := i.tracking.SetTracked(ctx, productID, tracked); err != nil {
			i.log.WithField("product_id", productID).WithError(err).Error("Failed to toggle tracking")
			return
		}
	case services.ActionSearchQuery:
		i.log.WithField("query", action.Value).Info("Searching products")
	default:
		return
	}

	i.refreshSearchView(ctx, callback)
}

// HandleEventsAPI publishes the home view when a user opens the App Home.
func (i *Interactions) HandleEventsAPI(ctx context.Context, evt socketmode.Event) {
	apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		return
	}
	homeOpened, ok := apiEvent.InnerEvent.Data.(*slackevents.AppHomeOpenedEvent)
	if !ok {
		return
	}

	hits, err := i.search.Newest(ctx)
	if err != nil {
		i.log.WithError(err).Error("Failed to load newest products for home view")
		return
	}

	view := slackapi.HomeTabViewRequest{
		Type:   slackapi.VTHomeTab,
		Blocks: slackapi.Blocks{BlockSet: services.ComposeNewest(hits, time.Now().UTC())},
	}
	if _, err := i.api.PublishViewContext(ctx, homeOpened.User, view, ""); err != nil {
		i.log.WithError(err).Error("Failed to publish home view")
	}
}

func (i *Interactions) refreshSearchView(ctx context.Context, callback slackapi.InteractionCallback) {
	query := ""
	if callback.View.State != nil {
		if block, ok := callback.View.State.Values[searchQueryBlockID]; ok {
			query = block[services.ActionSearchQuery].Value
		}
	}

	hits, err := i.search.Search(ctx, query)
	if err != nil {
		i.log.WithField("query", query).WithError(err).Error("Search failed")
		return
	}

	view := searchModal(services.ComposeSearchResults(hits, time.Now().UTC()))
	// The view hash guards against concurrent updates racing each other.
	if _, err := i.api.UpdateViewContext(ctx, view, "", callback.View.Hash, callback.View.ID); err != nil {
		i.log.WithError(err).Error("Failed to update search modal")
	}
}

func searchModal(resultBlocks []slackapi.Block) slackapi.ModalViewRequest {
	input := slackapi.NewInputBlock(
		searchQueryBlockID,
		slackapi.NewTextBlockObject(slackapi.PlainTextType, "Search items", false, false),
		nil,
		slackapi.NewPlainTextInputBlockElement(nil, services.ActionSearchQuery),
	)
	input.DispatchAction = true

	blocks := append([]slackapi.Block{input}, resultBlocks...)

	return slackapi.ModalViewRequest{
		Type:       slackapi.VTModal,
		CallbackID: searchViewCallbackID,
		Title:      slackapi.NewTextBlockObject(slackapi.PlainTextType, "Inventory Search", false, false),
		Submit:     slackapi.NewTextBlockObject(slackapi.PlainTextType, "Done", false, false),
		Blocks:     slackapi.Blocks{BlockSet: blocks},
	}
}

func splitProductVariant(value string) (productID, variantID int64, err error) {
	parts := strings.SplitN(value, "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected product/variant, got %q", value)
	}
	productID, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse product id: %w", err)
	}
	variantID, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse variant id: %w", err)
	}
	return productID, variantID, nil
}
