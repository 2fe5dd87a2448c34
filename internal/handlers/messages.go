package handlers

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var digitsRx = regexp.MustCompile(`^\d+$`)

// Границы разумной дневной цели
const (
	minGoalCalories = 800
	maxGoalCalories = 5000
)

// HandleText routes a non-command message: pending goal input first, then
// the plain-number quick add, then the help fallback.
func (h *Handler) HandleText(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if h.handleGoalInput(chatID, text) {
		return
	}

	if digitsRx.MatchString(text) {
		if calories, err := strconv.Atoi(text); err == nil && calories > 0 && calories < 10000 {
			h.handleAdd(chatID, text)
			return
		}
	}

	h.reply(chatID, fallbackText)
}

// handleGoalInput consumes the message when a goal prompt is pending.
// Invalid input keeps the state so the user can retry.
func (h *Handler) handleGoalInput(chatID int64, text string) bool {
	pending, ok := h.States.Get(chatID)
	if !ok {
		return false
	}

	calories, err := strconv.Atoi(text)
	if err != nil || calories < minGoalCalories || calories > maxGoalCalories {
		h.reply(chatID, "❌ Укажите корректное количество калорий (от 800 до 5000)")
		return true
	}

	if err := h.DB.CreateUser(chatID, "", ""); err != nil {
		log.Println("Ошибка создания пользователя:", err)
	}
	if err := h.DB.UpdateUserGoal(chatID, pending.GoalType, calories, 0); err != nil {
		log.Println("Ошибка обновления цели:", err)
		h.reply(chatID, "❌ Ошибка при установке цели")
		h.States.Clear(chatID)
		return true
	}

	h.reply(chatID, buildGoalReply(pending.GoalType, calories))
	h.States.Clear(chatID)
	return true
}
