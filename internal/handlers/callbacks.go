package handlers

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-calorie-bot/internal/models"
	"telegram-calorie-bot/internal/state"
)

// Рекомендуемые значения дневной цели по типам
var recommendedCalories = map[string]int{
	models.GoalGain:     2500,
	models.GoalLose:     1800,
	models.GoalMaintain: 2000,
}

func (h *Handler) HandleCallback(cq *tgbotapi.CallbackQuery) {
	data := cq.Data
	chatID := cq.Message.Chat.ID

	if strings.HasPrefix(data, "goal_") {
		h.handleGoalCallback(chatID, cq.Message.MessageID, strings.TrimPrefix(data, "goal_"))
	}

	// always answer callback to remove 'loading...'
	if _, err := h.Bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		log.Println("Ошибка ответа на callback:", err)
	}
}

// handleGoalCallback turns the pressed goal button into a pending state
// and edits the button message into a prompt for the goal number.
func (h *Handler) handleGoalCallback(chatID int64, messageID int, goalType string) {
	if _, ok := recommendedCalories[goalType]; !ok {
		return
	}

	h.States.Set(chatID, state.PendingGoal{GoalType: goalType})

	prompt := fmt.Sprintf(
		"%s\n\nВведите вашу дневную цель калорий (рекомендуется: %d ккал):",
		goalTitle(goalType), recommendedCalories[goalType],
	)
	edit := tgbotapi.NewEditMessageText(chatID, messageID, prompt)
	if _, err := h.Bot.Send(edit); err != nil {
		log.Println("Ошибка редактирования сообщения:", err)
	}
}
