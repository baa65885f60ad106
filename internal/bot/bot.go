// Package bot listens for chat commands and maps them to feed triggers.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hk-newsdesk/newsrelay/internal/logger"
	"github.com/hk-newsdesk/newsrelay/internal/source"
)

// Triggerer requests an immediate pipeline run for a feed.
type Triggerer interface {
	Trigger(feedID string)
}

// commands maps exact message text to feed ids. Anything else is
// ignored silently.
var commands = map[string]string{
	"!hknews":    source.FeedRegional,
	"!worldnews": source.FeedGlobal,
}

// Bot runs a telegram long-poll loop dispatching news commands.
type Bot struct {
	api       *tgbotapi.BotAPI
	triggerer Triggerer
	log       logger.Logger
}

// New creates the command bot.
func New(token string, triggerer Triggerer, log logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Bot{api: api, triggerer: triggerer, log: log}, nil
}

// Start consumes updates until the context is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.log.InfoObj("command bot started", "bot_start", map[string]any{
		"username": b.api.Self.UserName,
	})

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.InfoObj("command bot stopped", "bot_stop", nil)
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			b.handle(update.Message.Text)
		}
	}
}

// handle dispatches one message text. Exposed through Start only;
// split out so tests can exercise the command table directly.
func (b *Bot) handle(text string) {
	feedID, ok := commands[text]
	if !ok {
		return
	}

	b.log.InfoObj("news command received", "bot_command", map[string]any{
		"command": text,
		"feed_id": feedID,
	})
	b.triggerer.Trigger(feedID)
}
