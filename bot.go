package main

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// sender is the part of the Telegram API the bot needs to reply
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot relays transformed messages back into the chat they came from
type Bot struct {
	api    sender
	selfID int64
	rules  *RuleCache
	logger *zap.Logger
}

func NewBot(api sender, selfID int64, rules *RuleCache, logger *zap.Logger) *Bot {
	return &Bot{
		api:    api,
		selfID: selfID,
		rules:  rules,
		logger: logger,
	}
}

// Run handles updates one at a time until ctx is done or updates is closed
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	b.logger.Info("Bot started", zap.Int64("self_id", b.selfID))

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				b.logger.Info("Update stream closed")
				return
			}
			if update.Message == nil {
				continue
			}
			b.HandleMessage(update.Message)
		}
	}
}

// HandleMessage answers a single inbound message. Send failures are
// logged and never abort the stream.
func (b *Bot) HandleMessage(msg *tgbotapi.Message) {
	if msg.Text == "" || msg.Chat == nil {
		return
	}

	if b.isReplyToSelf(msg) && IsPraise(msg.Text) {
		b.reply(msg, praiseAck)
	}

	answer := transformMessage(msg.Text, b.rules.Table())
	if answer != "" {
		b.reply(msg, answer)
	}
}

func (b *Bot) isReplyToSelf(msg *tgbotapi.Message) bool {
	replied := msg.ReplyToMessage
	return replied != nil && replied.From != nil && replied.From.ID == b.selfID
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID

	if _, err := b.api.Send(out); err != nil {
		b.logger.Error("Failed to send reply",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Int("message_id", msg.MessageID),
			zap.Error(err))
		return
	}

	b.logger.Debug("Reply sent",
		zap.Int64("chat_id", msg.Chat.ID),
		zap.String("text", text))
}
