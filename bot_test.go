package main

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSelfID int64 = 42

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func newTestBot(t *testing.T, api sender) *Bot {
	t.Helper()
	rules, err := NewRuleCache("", zap.NewNop())
	require.NoError(t, err)
	return NewBot(api, testSelfID, rules, zap.NewNop())
}

func textMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 7,
		Chat:      &tgbotapi.Chat{ID: 100},
		From:      &tgbotapi.User{ID: 1},
		Text:      text,
	}
}

func replyTo(msg *tgbotapi.Message, fromID int64) *tgbotapi.Message {
	msg.ReplyToMessage = &tgbotapi.Message{
		MessageID: 6,
		Chat:      msg.Chat,
		From:      &tgbotapi.User{ID: fromID, IsBot: fromID == testSelfID},
		Text:      "Пидоры*",
	}
	return msg
}

func sentTexts(f *fakeSender) []string {
	texts := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		texts = append(texts, m.Text)
	}
	return texts
}

func TestHandleMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  *tgbotapi.Message
		want []string
	}{
		{"no match, no reply", textMessage("обычный текст"), []string{}},
		{"transform reply", textMessage("все питерцы такие"), []string{"Пидоры*"}},
		{"praise to self", replyTo(textMessage("спасибо"), testSelfID), []string{praiseAck}},
		{"praise to someone else", replyTo(textMessage("спасибо"), 5), []string{}},
		{"praise without reply", textMessage("good bot"), []string{}},
		{"praise and transform", replyTo(textMessage("Thanks, питерский бот"), testSelfID), []string{praiseAck, "Пидорский*"}},
		{"empty text", textMessage(""), []string{}},
		// decomposed й is normalized before matching
		{"nfd input", textMessage("питерски\u0438\u0306"), []string{"Пидорский*"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeSender{}
			newTestBot(t, api).HandleMessage(tt.msg)

			assert.Equal(t, tt.want, sentTexts(api))
			for _, m := range api.sent {
				assert.Equal(t, int64(100), m.ChatID)
				assert.Equal(t, 7, m.ReplyToMessageID)
			}
		})
	}
}

func TestHandleMessageSendErrorContinues(t *testing.T) {
	api := &fakeSender{err: errors.New("network down")}
	bot := newTestBot(t, api)

	bot.HandleMessage(replyTo(textMessage("молодец, питерец"), testSelfID))
	bot.HandleMessage(textMessage("питерский"))

	assert.Equal(t, []string{praiseAck, "Пидор*", "Пидорский*"}, sentTexts(api))
}

func TestRunStopsOnClosedChannel(t *testing.T) {
	api := &fakeSender{}
	bot := newTestBot(t, api)

	updates := make(chan tgbotapi.Update, 3)
	updates <- tgbotapi.Update{UpdateID: 1, Message: textMessage("питерец")}
	updates <- tgbotapi.Update{UpdateID: 2}
	updates <- tgbotapi.Update{UpdateID: 3, Message: textMessage("питерцы")}
	close(updates)

	bot.Run(context.Background(), updates)

	assert.Equal(t, []string{"Пидор*", "Пидоры*"}, sentTexts(api))
}

func TestRunStopsOnContext(t *testing.T) {
	bot := newTestBot(t, &fakeSender{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		bot.Run(ctx, make(chan tgbotapi.Update))
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
