package sinks

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	telegramCaptionLimit = 1024
	telegramTextLimit    = 4096
)

// telegramAPI is the subset of the bot client used by the sink.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// telegramSink delivers digests to one telegram chat.
type telegramSink struct {
	id     string
	chatID int64
	api    telegramAPI
	log    Logger
}

// newTelegramSink builds a telegram sink from config.
func newTelegramSink(_ context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.Telegram == nil {
		return nil, fmt.Errorf("sink %q missing telegram configuration", cfg.ID)
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("create telegram client: %w", err)
	}

	return &telegramSink{
		id:     cfg.ID,
		chatID: cfg.Telegram.ChatID,
		api:    api,
		log:    ensureLogger(log),
	}, nil
}

func (s *telegramSink) ID() string   { return s.id }
func (s *telegramSink) Type() string { return TypeTelegram }

// Deliver sends the digest to the chat. Messages with an image go out
// as a photo with caption when the text fits the caption limit,
// otherwise as plain text.
func (s *telegramSink) Deliver(_ context.Context, msg Message) error {
	text := msg.Title + "\n\n" + msg.Body

	var payload tgbotapi.Chattable
	if msg.ImageURL != "" && len(text) <= telegramCaptionLimit {
		photo := tgbotapi.NewPhoto(s.chatID, tgbotapi.FileURL(msg.ImageURL))
		photo.Caption = text
		payload = photo
	} else {
		if len(text) > telegramTextLimit {
			text = text[:telegramTextLimit]
		}
		payload = tgbotapi.NewMessage(s.chatID, text)
	}

	sent, err := s.api.Send(payload)
	if err != nil {
		s.log.ErrorObj("telegram sink send failed", "sink_telegram_error", map[string]any{
			"feed":  msg.Feed,
			"error": err.Error(),
		})
		return fmt.Errorf("send message to telegram: %w", err)
	}

	s.log.DebugObj("telegram sink delivered message", "sink_telegram_delivery", map[string]any{
		"feed":       msg.Feed,
		"message_id": sent.MessageID,
	})
	return nil
}
