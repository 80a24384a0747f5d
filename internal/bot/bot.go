package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/example/ballethq/internal/router"
	"github.com/example/ballethq/internal/session"
	"github.com/example/ballethq/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// sender is the part of the Telegram API the bot talks to
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Bot plays the quiz in Telegram chats, one session per chat
type Bot struct {
	api      *tgbotapi.BotAPI
	sender   sender
	router   *router.Router
	sessions *session.Registry
	title    string
	config   *BotConfig
}

// New connects to Telegram with token
func New(token, title string, rt *router.Router, sessions *session.Registry) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	logger.Log.Info("Authorized on Telegram", zap.String("account", api.Self.UserName))

	b := newBot(api, title, rt, sessions)
	b.api = api
	return b, nil
}

func newBot(s sender, title string, rt *router.Router, sessions *session.Registry) *Bot {
	return &Bot{
		sender:   s,
		router:   rt,
		sessions: sessions,
		title:    title,
		config:   DefaultConfig(),
	}
}

// Start handles updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.UpdateTimeout

	updates := b.api.GetUpdatesChan(updateConfig)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			logger.Log.Info("Bot stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(update)
		}
	}
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	var err error
	switch {
	case update.CallbackQuery != nil:
		err = b.HandleCallback(update.CallbackQuery)
	case update.Message != nil:
		err = b.HandleMessage(update.Message)
	}
	if err != nil {
		logger.Log.Error("Failed to handle update", zap.Int("update_id", update.UpdateID), zap.Error(err))
	}
}

// sessionID maps a chat to its session in the registry
func sessionID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

// sendAll delivers messages in order and stops at the first failure
func (b *Bot) sendAll(messages []tgbotapi.Chattable) error {
	for _, m := range messages {
		if _, err := b.sender.Send(m); err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
	}
	return nil
}
