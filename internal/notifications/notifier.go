// Package notifications sends the calorie-limit alerts: the hourly
// threshold sweep, the daily reminder and the immediate check after an
// entry is added.
package notifications

import (
	"fmt"
	"log"
	"math"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-calorie-bot/internal/models"
	"telegram-calorie-bot/internal/storage"
)

// Порог сканирования для часовой проверки
const scanThreshold = 0.8

// Sender is the slice of the bot API the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Notifier struct {
	Bot Sender
	DB  *storage.DB
}

func New(bot Sender, db *storage.DB) *Notifier {
	return &Notifier{Bot: bot, DB: db}
}

// ThresholdSweep notifies lose-goal users who crossed their warning
// threshold, at most once per calendar day. The user is marked notified
// only after a successful send, so a failed send retries on the next
// sweep.
func (n *Notifier) ThresholdSweep() {
	users, err := n.DB.UsersNeedingNotification(scanThreshold)
	if err != nil {
		log.Println("Ошибка получения пользователей для уведомления:", err)
		return
	}

	sent := 0
	for _, u := range users {
		percentage := percentOf(u.TodayCalories, u.DailyLimit)
		text := thresholdAlertText(percentage, u.TodayCalories, u.DailyLimit)

		if _, err := n.Bot.Send(tgbotapi.NewMessage(u.ChatID, text)); err != nil {
			log.Println("Ошибка при отправке уведомления:", err)
			continue
		}
		if err := n.DB.MarkNotificationSent(u.ChatID); err != nil {
			log.Println("Ошибка обновления уведомления:", err)
		}
		sent++
		log.Printf("📢 Отправлено уведомление пользователю %d: %d%%", u.ChatID, percentage)
	}

	if sent > 0 {
		log.Printf("📢 Отправлено %d уведомлений", sent)
	}
}

// thresholdAlertText picks the severity band for the alert. The ≥75%
// branch is kept even though the 0.8 scan floor makes it unreachable with
// the default settings.
func thresholdAlertText(percentage, todayCalories, dailyLimit int) string {
	var b strings.Builder

	switch {
	case percentage >= 95:
		b.WriteString("🚨 Внимание! Вы почти достигли дневного лимита!\n\n")
	case percentage >= 85:
		b.WriteString("⚠️ Осторожно! Приближаетесь к дневному лимиту.\n\n")
	case percentage >= 75:
		b.WriteString("🔶 Напоминание о контроле калорий.\n\n")
	}

	fmt.Fprintf(&b, "📊 Потреблено: %d из %d ккал (%d%%)\n", todayCalories, dailyLimit, percentage)
	fmt.Fprintf(&b, "🎯 Осталось: %d ккал\n\n", dailyLimit-todayCalories)

	if percentage >= 90 {
		b.WriteString("💡 Рекомендация: возможно, стоит ограничить дальнейшее потребление на сегодня.")
	} else {
		b.WriteString("💡 Рекомендация: старайтесь не превышать лимит до конца дня.")
	}
	return b.String()
}

// DailyReminderSweep nudges lose-goal users who are still well below
// their limit in the evening. It does not touch the last-notification
// marker, so it can coexist with a threshold alert on the same day.
func (n *Notifier) DailyReminderSweep() {
	users, err := n.DB.DailyReminderCandidates()
	if err != nil {
		log.Println("Ошибка при отправке ежедневных напоминаний:", err)
		return
	}

	for _, u := range users {
		remaining := u.DailyGoal - u.TodayCalories
		if remaining <= 200 {
			continue
		}
		text := dailyReminderText(u.TodayCalories, u.DailyGoal)
		if _, err := n.Bot.Send(tgbotapi.NewMessage(u.ChatID, text)); err != nil {
			log.Println("Ошибка при отправке ежедневных напоминаний:", err)
		}
	}

	log.Printf("📅 Отправлены ежедневные напоминания %d пользователям", len(users))
}

func dailyReminderText(todayCalories, dailyGoal int) string {
	var b strings.Builder
	b.WriteString("🌅 Ежедневное напоминание!\n\n")
	fmt.Fprintf(&b, "📊 За сегодня: %d ккал (%d%% от цели)\n", todayCalories, percentOf(todayCalories, dailyGoal))
	fmt.Fprintf(&b, "🎯 Цель: %d ккал\n", dailyGoal)
	fmt.Fprintf(&b, "📈 Осталось: %d ккал\n\n", dailyGoal-todayCalories)
	b.WriteString("💡 Не забывайте добавлять все приемы пищи для точного подсчета!")
	return b.String()
}

// CheckImmediate runs right after an entry was added. The 90% alert is
// edge-triggered: it fires only when this add carried the total across
// the line.
func (n *Notifier) CheckImmediate(chatID int64, newCalories int) {
	user, err := n.DB.GetUser(chatID)
	if err != nil {
		log.Println("Ошибка мгновенного уведомления:", err)
		return
	}
	if user == nil || user.GoalType != models.GoalLose {
		return
	}

	todayTotal, err := n.DB.TodayCalories(chatID)
	if err != nil {
		log.Println("Ошибка мгновенного уведомления:", err)
		return
	}

	percentage := float64(todayTotal) / float64(user.DailyLimit) * 100
	before := float64(todayTotal-newCalories) / float64(user.DailyLimit)

	switch {
	case percentage >= 100:
		n.send(chatID, "🚨 Вы превысили дневной лимит калорий!\n\n"+
			"💡 Рекомендуем прекратить прием пищи на сегодня и увеличить физическую активность.")
	case percentage >= 90 && before < 0.9:
		n.send(chatID, fmt.Sprintf("⚠️ Внимание! Вы приближаетесь к дневному лимиту!\n\n"+
			"Осталось всего %d ккал до лимита.", user.DailyLimit-todayTotal))
	}
}

// SendTest backs the hidden /test_notification command.
func (n *Notifier) SendTest(chatID int64) {
	user, err := n.DB.GetUser(chatID)
	if err != nil {
		log.Println("Ошибка тестового уведомления:", err)
		n.send(chatID, "❌ Ошибка при тестировании")
		return
	}
	if user == nil {
		n.send(chatID, "❌ Пользователь не найден")
		return
	}

	todayTotal, err := n.DB.TodayCalories(chatID)
	if err != nil {
		log.Println("Ошибка тестового уведомления:", err)
		n.send(chatID, "❌ Ошибка при тестировании")
		return
	}
	percentage := percentOf(todayTotal, user.DailyLimit)

	var b strings.Builder
	b.WriteString("🧪 Тестовое уведомление:\n\n")
	fmt.Fprintf(&b, "📊 Текущее потребление: %d ккал\n", todayTotal)
	fmt.Fprintf(&b, "🎯 Цель: %d ккал\n", user.DailyGoal)
	fmt.Fprintf(&b, "⚠️ Лимит: %d ккал\n", user.DailyLimit)
	fmt.Fprintf(&b, "📈 Процент от лимита: %d%%\n\n", percentage)
	if percentage >= 80 {
		b.WriteString("🔔 Уведомления активны")
	} else {
		b.WriteString("🔕 Пороговое значение не достигнуто")
	}
	n.send(chatID, b.String())
}

func (n *Notifier) send(chatID int64, text string) {
	if _, err := n.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Println("Ошибка отправки уведомления:", err)
	}
}

func percentOf(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
