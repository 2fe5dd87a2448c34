package handlers

import (
	"fmt"
	"math"
	"strings"
	"time"

	"telegram-calorie-bot/internal/models"
	"telegram-calorie-bot/internal/storage"
)

// defaultMealType помечает записи без указанного приема пищи.
const defaultMealType = "общее"

const (
	btnGoalGain     = "🔺 Набор массы"
	btnGoalLose     = "🔻 Похудение"
	btnGoalMaintain = "⚖️ Поддержание веса"
)

const welcomeText = `🎯 Добро пожаловать в трекер калорий!

Я помогу вам отслеживать потребление калорий и достигать ваших целей.

📋 Доступные команды:
/add [калории] - Добавить калории
/stats - Посмотреть статистику
/goal - Установить цель
/today - Калории за сегодня
/week - Статистика за неделю
/delete - Удалить последнюю запись
/help - Помощь

Начните с установки цели командой /goal`

const helpText = `🤖 Помощь по использованию бота:

📝 Добавление калорий:
/add 350 - добавить 350 ккал
/add 350 завтрак - с указанием приема пищи
/add 350 завтрак омлет - с описанием

📊 Просмотр данных:
/today - записи за сегодня
/stats - общая статистика
/week - статистика за неделю

⚙️ Настройки:
/goal - установить/изменить цель
/delete - удалить последнюю запись

🎯 Типы целей:
• Набор массы - увеличенная норма калорий
• Похудение - с лимитом и уведомлениями
• Поддержание - стандартная норма

🔔 Уведомления (только для похудения):
Бот предупредит, когда вы приближаетесь к дневному лимиту калорий.`

const fallbackText = `❓ Не понимаю команду.

💡 Быстрый ввод:
Просто отправьте число - я пойму, что это калории!
Например: 350

📋 Или используйте команды:
/add 350 - добавить калории
/today - калории за сегодня
/stats - статистика
/help - все команды`

const addUsageText = "📝 Укажите количество калорий:\n/add 350\n/add 350 завтрак\n/add 350 завтрак омлет с сыром"

const invalidCaloriesText = "❌ Укажите корректное количество калорий (число больше 0)"

func goalTitle(goalType string) string {
	switch goalType {
	case models.GoalGain:
		return btnGoalGain
	case models.GoalLose:
		return btnGoalLose
	default:
		return btnGoalMaintain
	}
}

func goalEmoji(goalType string) string {
	switch goalType {
	case models.GoalGain:
		return "🔺"
	case models.GoalLose:
		return "🔻"
	default:
		return "⚖️"
	}
}

func percentOf(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func buildAddReply(calories int, mealType, description string, todayTotal int, user *models.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Добавлено: %d ккал", calories)
	if mealType != defaultMealType {
		fmt.Fprintf(&b, " (%s)", mealType)
	}
	if description != "" {
		fmt.Fprintf(&b, "\n📝 %s", description)
	}

	if user != nil {
		goalPercent := percentOf(todayTotal, user.DailyGoal)
		limitPercent := percentOf(todayTotal, user.DailyLimit)

		b.WriteString("\n\n📊 Прогресс на сегодня:\n")
		fmt.Fprintf(&b, "Потреблено: %d ккал\n", todayTotal)
		fmt.Fprintf(&b, "Цель: %d ккал (%d%%)\n", user.DailyGoal, goalPercent)

		if user.GoalType == models.GoalLose {
			fmt.Fprintf(&b, "Лимит: %d ккал (%d%%)", user.DailyLimit, limitPercent)
			if limitPercent >= 90 {
				b.WriteString("\n⚠️ Вы близки к дневному лимиту!")
			} else if limitPercent >= 75 {
				b.WriteString("\n🔶 Приближаетесь к лимиту калорий")
			}
		}
	}
	return b.String()
}

func buildGoalReply(goalType string, calories int) string {
	var b strings.Builder
	b.WriteString("✅ Цель установлена!\n\n")

	switch goalType {
	case models.GoalGain:
		fmt.Fprintf(&b, "🔺 Цель: %d ккал/день для набора массы", calories)
	case models.GoalLose:
		limit := storage.ComputeLimit(goalType, calories)
		fmt.Fprintf(&b, "🔻 Цель: %d ккал/день для похудения\n", calories)
		fmt.Fprintf(&b, "⚠️ Лимит: %d ккал/день (будут приходить уведомления)", limit)
	case models.GoalMaintain:
		fmt.Fprintf(&b, "⚖️ Цель: %d ккал/день для поддержания веса", calories)
	}

	b.WriteString("\n\nТеперь вы можете добавлять калории командой /add")
	return b.String()
}

func buildStats(user *models.User, todayTotal int, weekStats []models.DayStat) string {
	var b strings.Builder
	b.WriteString("📊 Ваша статистика:\n\n")

	fmt.Fprintf(&b, "%s Цель: %d ккал/день\n", goalEmoji(user.GoalType), user.DailyGoal)
	if user.GoalType == models.GoalLose {
		fmt.Fprintf(&b, "⚠️ Лимит: %d ккал/день\n", user.DailyLimit)
	}

	fmt.Fprintf(&b, "\n📅 Сегодня: %d ккал (%d%%)\n", todayTotal, percentOf(todayTotal, user.DailyGoal))
	if user.GoalType == models.GoalLose {
		fmt.Fprintf(&b, "Лимит: %d%%\n", percentOf(todayTotal, user.DailyLimit))
	}

	if len(weekStats) > 0 {
		b.WriteString("\n📈 Последние 7 дней:\n")
		fmt.Fprintf(&b, "Среднее: %d ккал/день\n", weeklyAverage(weekStats))
		for _, day := range weekStats {
			fmt.Fprintf(&b, "%s: %d ккал (%d записей)\n", formatDayMonth(day.Date), day.DailyTotal, day.EntriesCount)
		}
	}
	return b.String()
}

func buildToday(entries []models.CalorieEntry, user *models.User) string {
	var b strings.Builder
	b.WriteString("📅 Записи за сегодня:\n\n")

	total := 0
	for i, e := range entries {
		total += e.Calories
		fmt.Fprintf(&b, "%d. %d ккал", i+1, e.Calories)
		if e.MealType != defaultMealType {
			fmt.Fprintf(&b, " (%s)", e.MealType)
		}
		fmt.Fprintf(&b, " - %s", shortTime(e.EntryTime))
		if e.Description != "" {
			fmt.Fprintf(&b, "\n   📝 %s", e.Description)
		}
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "💯 Всего: %d ккал", total)
	if user != nil {
		fmt.Fprintf(&b, "\n🎯 Цель: %d ккал (%d%%)", user.DailyGoal, percentOf(total, user.DailyGoal))
	}
	return b.String()
}

func buildWeek(weekStats []models.DayStat) string {
	var b strings.Builder
	b.WriteString("📈 Статистика за неделю:\n\n")

	weekTotal := 0
	for _, day := range weekStats {
		weekTotal += day.DailyTotal
	}
	fmt.Fprintf(&b, "Среднее: %d ккал/день\n", weeklyAverage(weekStats))
	fmt.Fprintf(&b, "Общее: %d ккал\n\n", weekTotal)

	for _, day := range weekStats {
		fmt.Fprintf(&b, "%s %s: %d ккал (%d записей)\n",
			weekdayShort(day.Date), formatDayMonth(day.Date), day.DailyTotal, day.EntriesCount)
	}
	return b.String()
}

func buildDeleteReply(e *models.CalorieEntry, newTotal int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Удалена запись: %d ккал", e.Calories)
	if e.MealType != defaultMealType {
		fmt.Fprintf(&b, " (%s)", e.MealType)
	}
	if e.Description != "" {
		fmt.Fprintf(&b, "\n📝 %s", e.Description)
	}
	fmt.Fprintf(&b, "\n\n📊 Осталось сегодня: %d ккал", newTotal)
	return b.String()
}

func weeklyAverage(weekStats []models.DayStat) int {
	if len(weekStats) == 0 {
		return 0
	}
	total := 0
	for _, day := range weekStats {
		total += day.DailyTotal
	}
	return int(math.Round(float64(total) / float64(len(weekStats))))
}

var ruWeekdays = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

func formatDayMonth(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02.01")
}

func weekdayShort(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return ruWeekdays[t.Weekday()]
}

// shortTime trims "HH:MM:SS" to "HH:MM".
func shortTime(t string) string {
	if len(t) >= 5 {
		return t[:5]
	}
	return t
}
