// internal/slack/client.go
package slack

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/shopwatch/shopwatch-backend/internal/config"
	"github.com/shopwatch/shopwatch-backend/internal/services"
)

// Client wraps the Slack Web API and a Socket Mode connection. It is created
// at process start and torn down at shutdown; nothing in here is package
// global.
type Client struct {
	api       *slackapi.Client
	sm        *socketmode.Client
	connected atomic.Bool
	log       *logrus.Entry
}

var _ services.MessagePoster = (*Client)(nil)

func New(cfg config.SlackConfig) *Client {
	api := slackapi.New(
		cfg.BotToken,
		slackapi.OptionAppLevelToken(cfg.AppToken),
	)
	return &Client{
		api: api,
		sm:  socketmode.New(api),
		log: logrus.WithField("component", "slack"),
	}
}

// Connected reports whether the Socket Mode transport is up. The readiness
// endpoint delegates here.
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// PostMessage sends a channel message and returns its receipt.
func (c *Client) PostMessage(ctx context.Context, channel, text string, blocks []slackapi.Block) (services.Receipt, error) {
	respChannel, timestamp, err := c.api.PostMessageContext(ctx, channel,
		slackapi.MsgOptionText(text, false),
		slackapi.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return services.Receipt{}, fmt.Errorf("chat.postMessage to %s: %w", channel, err)
	}
	return services.Receipt{Channel: respChannel, Timestamp: timestamp}, nil
}

// Run pumps Socket Mode events until ctx is cancelled. Interactive payloads
// are dispatched to the handler, each on its own goroutine so a slow store
// call cannot stall the event pump.
func (c *Client) Run(ctx context.Context, interactions *Interactions) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-c.sm.Events:
				if !ok {
					return
				}
				c.handleEvent(ctx, evt, interactions)
			}
		}
	}()

	err := c.sm.RunContext(ctx)
	c.connected.Store(false)
	return err
}

func (c *Client) handleEvent(ctx context.Context, evt socketmode.Event, interactions *Interactions) {
	switch evt.Type {
	case socketmode.EventTypeConnected:
		c.connected.Store(true)
		c.log.Info("Socket Mode connected")
	case socketmode.EventTypeDisconnect, socketmode.EventTypeConnectionError:
		c.connected.Store(false)
		c.log.Warn("Socket Mode disconnected")
	case socketmode.EventTypeInteractive:
		callback, ok := evt.Data.(slackapi.InteractionCallback)
		if !ok {
			c.log.WithField("type", evt.Type).Warn("Ignoring malformed interactive payload")
			return
		}
		c.sm.Ack(*evt.Request)
		go interactions.HandleInteraction(ctx, callback)
	case socketmode.EventTypeSlashCommand:
		command, ok := evt.Data.(slackapi.SlashCommand)
		if !ok {
			c.log.WithField("type", evt.Type).Warn("Ignoring malformed slash command payload")
			return
		}
		c.sm.Ack(*evt.Request)
		go interactions.HandleSlashCommand(ctx, command)
	case socketmode.EventTypeEventsAPI:
		c.sm.Ack(*evt.Request)
		go interactions.HandleEventsAPI(ctx, evt)
	}
}
