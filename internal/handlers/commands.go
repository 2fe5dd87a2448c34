package handlers

import (
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type command string

const (
	cmdStart  command = "start"
	cmdAdd    command = "add"
	cmdGoal   command = "goal"
	cmdStats  command = "stats"
	cmdToday  command = "today"
	cmdWeek   command = "week"
	cmdDelete command = "delete"
	cmdHelp   command = "help"
	// скрытая команда для проверки уведомлений
	cmdTestNotification command = "test_notification"
)

func (h *Handler) HandleCommand(msg *tgbotapi.Message) {
	switch command(msg.Command()) {
	case cmdStart:
		h.handleStart(msg)
	case cmdAdd:
		h.handleAdd(msg.Chat.ID, msg.CommandArguments())
	case cmdGoal:
		h.handleGoal(msg.Chat.ID)
	case cmdStats:
		h.handleStats(msg.Chat.ID)
	case cmdToday:
		h.handleToday(msg.Chat.ID)
	case cmdWeek:
		h.handleWeek(msg.Chat.ID)
	case cmdDelete:
		h.handleDelete(msg.Chat.ID)
	case cmdHelp:
		h.reply(msg.Chat.ID, helpText)
	case cmdTestNotification:
		h.Notifier.SendTest(msg.Chat.ID)
	default:
		h.reply(msg.Chat.ID, fallbackText)
	}
}

// ---------------- /start --------------------

func (h *Handler) handleStart(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	var username, firstName string
	if msg.From != nil {
		username = msg.From.UserName
		firstName = msg.From.FirstName
	}
	if err := h.DB.CreateUser(chatID, username, firstName); err != nil {
		log.Println("Ошибка создания пользователя:", err)
	}
	h.reply(chatID, welcomeText)
}

// ---------------- /add ----------------------

// handleAdd parses "/add 350 завтрак омлет с сыром": amount, optional
// meal label, optional description. The same path serves the plain-number
// quick add.
func (h *Handler) handleAdd(chatID int64, args string) {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		h.reply(chatID, addUsageText)
		return
	}

	calories, err := strconv.Atoi(parts[0])
	if err != nil || calories <= 0 {
		h.reply(chatID, invalidCaloriesText)
		return
	}

	mealType := defaultMealType
	if len(parts) > 1 {
		mealType = parts[1]
	}
	var description string
	if len(parts) > 2 {
		description = strings.Join(parts[2:], " ")
	}

	// создаем пользователя, если его нет
	if err := h.DB.CreateUser(chatID, "", ""); err != nil {
		log.Println("Ошибка создания пользователя:", err)
	}
	if err := h.DB.AddEntry(chatID, calories, mealType, description); err != nil {
		log.Println("Ошибка добавления калорий:", err)
		h.reply(chatID, "❌ Ошибка при добавлении записи")
		return
	}

	todayTotal, err := h.DB.TodayCalories(chatID)
	if err != nil {
		log.Println("Ошибка получения калорий за сегодня:", err)
	}
	user, err := h.DB.GetUser(chatID)
	if err != nil {
		log.Println("Ошибка получения пользователя:", err)
	}

	h.reply(chatID, buildAddReply(calories, mealType, description, todayTotal, user))
	h.Notifier.CheckImmediate(chatID, calories)
}

// ---------------- /goal ---------------------

func (h *Handler) handleGoal(chatID int64) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnGoalGain, "goal_gain"),
			tgbotapi.NewInlineKeyboardButtonData(btnGoalLose, "goal_lose"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnGoalMaintain, "goal_maintain"),
		),
	)

	reply := tgbotapi.NewMessage(chatID, "🎯 Выберите вашу цель:")
	reply.ReplyMarkup = kb
	if _, err := h.Bot.Send(reply); err != nil {
		log.Println("Ошибка отправки сообщения:", err)
	}
}

// ---------------- /stats --------------------

func (h *Handler) handleStats(chatID int64) {
	user, err := h.DB.GetUser(chatID)
	if err != nil {
		log.Println("Ошибка получения пользователя:", err)
	}
	if user == nil {
		h.reply(chatID, "❌ Сначала установите цель командой /goal")
		return
	}

	todayTotal, err := h.DB.TodayCalories(chatID)
	if err != nil {
		log.Println("Ошибка получения калорий за сегодня:", err)
	}
	weekStats, err := h.DB.WeeklyStats(chatID)
	if err != nil {
		log.Println("Ошибка получения недельной статистики:", err)
	}

	h.reply(chatID, buildStats(user, todayTotal, weekStats))
}

// ---------------- /today --------------------

func (h *Handler) handleToday(chatID int64) {
	entries, err := h.DB.TodayEntries(chatID)
	if err != nil {
		log.Println("Ошибка получения записей за сегодня:", err)
	}
	if len(entries) == 0 {
		h.reply(chatID, "📅 Сегодня записей нет\n\nДобавьте калории командой /add")
		return
	}
	user, err := h.DB.GetUser(chatID)
	if err != nil {
		log.Println("Ошибка получения пользователя:", err)
	}
	h.reply(chatID, buildToday(entries, user))
}

// ---------------- /week ---------------------

func (h *Handler) handleWeek(chatID int64) {
	weekStats, err := h.DB.WeeklyStats(chatID)
	if err != nil {
		log.Println("Ошибка получения недельной статистики:", err)
	}
	if len(weekStats) == 0 {
		h.reply(chatID, "📈 Записей за неделю нет")
		return
	}
	h.reply(chatID, buildWeek(weekStats))
}

// ---------------- /delete -------------------

func (h *Handler) handleDelete(chatID int64) {
	deleted, err := h.DB.DeleteLastEntry(chatID)
	if err != nil {
		log.Println("Ошибка удаления последней записи:", err)
	}
	if deleted == nil {
		h.reply(chatID, "❌ Нет записей для удаления за сегодня")
		return
	}

	newTotal, err := h.DB.TodayCalories(chatID)
	if err != nil {
		log.Println("Ошибка получения калорий за сегодня:", err)
	}
	h.reply(chatID, buildDeleteReply(deleted, newTotal))
}
