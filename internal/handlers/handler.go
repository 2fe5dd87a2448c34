package handlers

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-calorie-bot/internal/notifications"
	"telegram-calorie-bot/internal/state"
	"telegram-calorie-bot/internal/storage"
)

// Sender is the slice of the bot API the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	Bot      Sender
	DB       *storage.DB
	States   *state.Store
	Notifier *notifications.Notifier
}

func New(bot Sender, db *storage.DB, notifier *notifications.Notifier) *Handler {
	return &Handler{
		Bot:      bot,
		DB:       db,
		States:   state.NewStore(),
		Notifier: notifier,
	}
}

func (h *Handler) HandleUpdate(upd tgbotapi.Update) {
	switch {
	case upd.Message != nil:
		h.HandleMessage(upd.Message)
	case upd.CallbackQuery != nil:
		h.HandleCallback(upd.CallbackQuery)
	}
}

// HandleMessage routes commands before anything else: a pending goal
// prompt is never consulted by commands, only by plain text.
func (h *Handler) HandleMessage(msg *tgbotapi.Message) {
	if msg.IsCommand() {
		h.HandleCommand(msg)
		return
	}
	h.HandleText(msg)
}

func (h *Handler) reply(chatID int64, text string) {
	if _, err := h.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Println("Ошибка отправки сообщения:", err)
	}
}
