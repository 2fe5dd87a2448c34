package storage

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-calorie-bot/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateUserIdempotent(t *testing.T) {
	db := newTestDB(t)
	chatID := int64(42)

	require.NoError(t, db.CreateUser(chatID, "alice", "Алиса"))
	require.NoError(t, db.UpdateUserGoal(chatID, models.GoalLose, 1800, 0))

	// repeat call must not overwrite anything
	require.NoError(t, db.CreateUser(chatID, "bob", "Боб"))

	u, err := db.GetUser(chatID)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, models.GoalLose, u.GoalType)
	assert.Equal(t, 1800, u.DailyGoal)
	assert.Equal(t, 1980, u.DailyLimit)
}

func TestCreateUserDefaults(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateUser(7, "", ""))

	u, err := db.GetUser(7)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, models.GoalMaintain, u.GoalType)
	assert.Equal(t, 2000, u.DailyGoal)
	assert.Equal(t, 2500, u.DailyLimit)
}

func TestGetUserNotFound(t *testing.T) {
	db := newTestDB(t)
	u, err := db.GetUser(999)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestComputeLimit(t *testing.T) {
	tests := []struct {
		goalType string
		goal     int
		want     int
	}{
		{models.GoalLose, 1800, 1980},
		{models.GoalLose, 1555, 1711}, // round(1710.5)
		{models.GoalGain, 2500, 3250},
		{models.GoalMaintain, 2000, 2600},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ComputeLimit(tc.goalType, tc.goal), "%s %d", tc.goalType, tc.goal)
	}
}

func TestUpdateUserGoalExplicitLimit(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateUser(1, "", ""))
	require.NoError(t, db.UpdateUserGoal(1, models.GoalLose, 1800, 2000))

	u, err := db.GetUser(1)
	require.NoError(t, err)
	assert.Equal(t, 2000, u.DailyLimit)
}

func TestTodayCaloriesSum(t *testing.T) {
	db := newTestDB(t)
	chatID := int64(5)
	require.NoError(t, db.CreateUser(chatID, "", ""))

	total, err := db.TodayCalories(chatID)
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	for _, c := range []int{300, 450, 120} {
		require.NoError(t, db.AddEntry(chatID, c, "общее", ""))
	}

	total, err = db.TodayCalories(chatID)
	require.NoError(t, err)
	assert.Equal(t, 870, total)

	// чужие записи не учитываются
	require.NoError(t, db.CreateUser(6, "", ""))
	require.NoError(t, db.AddEntry(6, 999, "общее", ""))
	total, err = db.TodayCalories(chatID)
	require.NoError(t, err)
	assert.Equal(t, 870, total)
}

func TestTodayEntries(t *testing.T) {
	db := newTestDB(t)
	chatID := int64(5)
	require.NoError(t, db.CreateUser(chatID, "", ""))
	require.NoError(t, db.AddEntry(chatID, 350, "завтрак", "омлет"))
	require.NoError(t, db.AddEntry(chatID, 500, "обед", ""))

	entries, err := db.TodayEntries(chatID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "омлет", entriesByMeal(entries)["завтрак"].Description)
	assert.Equal(t, "", entriesByMeal(entries)["обед"].Description)
}

func entriesByMeal(entries []models.CalorieEntry) map[string]models.CalorieEntry {
	m := make(map[string]models.CalorieEntry, len(entries))
	for _, e := range entries {
		m[e.MealType] = e
	}
	return m
}

func TestDeleteLastEntry(t *testing.T) {
	db := newTestDB(t)
	chatID := int64(9)
	require.NoError(t, db.CreateUser(chatID, "", ""))

	deleted, err := db.DeleteLastEntry(chatID)
	require.NoError(t, err)
	assert.Nil(t, deleted, "nothing to delete")

	require.NoError(t, db.AddEntry(chatID, 400, "общее", ""))
	require.NoError(t, db.AddEntry(chatID, 150, "перекус", ""))

	// same-second entries resolve by insertion order
	deleted, err = db.DeleteLastEntry(chatID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, 150, deleted.Calories)
	assert.Equal(t, "перекус", deleted.MealType)

	deleted, err = db.DeleteLastEntry(chatID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, 400, deleted.Calories)

	total, err := db.TodayCalories(chatID)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func insertOnDay(t *testing.T, db *DB, chatID int64, calories int, daysAgo int) {
	t.Helper()
	_, err := db.Exec(`
        INSERT INTO calorie_entries (chat_id, calories, created_at, entry_date)
        VALUES (?,?,0, date('now', ?))
    `, chatID, calories, fmt.Sprintf("-%d days", daysAgo))
	require.NoError(t, err)
}

func TestWeeklyStats(t *testing.T) {
	db := newTestDB(t)
	chatID := int64(11)
	require.NoError(t, db.CreateUser(chatID, "", ""))

	// записи только в 2 из последних 7 дней, плюс одна старая
	insertOnDay(t, db, chatID, 500, 2)
	insertOnDay(t, db, chatID, 300, 2)
	insertOnDay(t, db, chatID, 700, 5)
	insertOnDay(t, db, chatID, 999, 10)

	stats, err := db.WeeklyStats(chatID)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// newest first
	assert.Equal(t, 800, stats[0].DailyTotal)
	assert.Equal(t, 2, stats[0].EntriesCount)
	assert.Equal(t, 700, stats[1].DailyTotal)
	assert.Equal(t, 1, stats[1].EntriesCount)
	assert.Greater(t, stats[0].Date, stats[1].Date)
}

func setupLoseUser(t *testing.T, db *DB, chatID int64, goal, limit, today int) {
	t.Helper()
	require.NoError(t, db.CreateUser(chatID, "", ""))
	require.NoError(t, db.UpdateUserGoal(chatID, models.GoalLose, goal, limit))
	if today > 0 {
		require.NoError(t, db.AddEntry(chatID, today, "общее", ""))
	}
}

func TestUsersNeedingNotification(t *testing.T) {
	db := newTestDB(t)

	setupLoseUser(t, db, 1, 1800, 2000, 1700) // 85% -> уведомляем
	setupLoseUser(t, db, 2, 1800, 2000, 1000) // 50% -> рано
	setupLoseUser(t, db, 3, 1800, 2000, 1900) // 95%, но отключено
	_, err := db.Exec(`UPDATE notification_settings SET enabled=0 WHERE chat_id=3`)
	require.NoError(t, err)

	// maintain-пользователь не в выборке даже при 100%
	require.NoError(t, db.CreateUser(4, "", ""))
	require.NoError(t, db.UpdateUserGoal(4, models.GoalMaintain, 2000, 2000))
	require.NoError(t, db.AddEntry(4, 2000, "общее", ""))

	users, err := db.UsersNeedingNotification(0.8)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(1), users[0].ChatID)
	assert.Equal(t, 1700, users[0].TodayCalories)
	assert.Equal(t, 2000, users[0].DailyLimit)
	assert.InDelta(t, 0.8, users[0].WarningThreshold, 1e-9)
}

func TestMarkNotificationSentSuppressesResend(t *testing.T) {
	db := newTestDB(t)
	setupLoseUser(t, db, 1, 1800, 2000, 1700)

	users, err := db.UsersNeedingNotification(0.8)
	require.NoError(t, err)
	require.Len(t, users, 1)

	require.NoError(t, db.MarkNotificationSent(1))

	users, err = db.UsersNeedingNotification(0.8)
	require.NoError(t, err)
	assert.Empty(t, users, "at most once per day")

	// вчерашняя отметка не мешает
	_, err = db.Exec(`UPDATE notification_settings SET last_notification = date('now', '-1 days') WHERE chat_id=1`)
	require.NoError(t, err)
	users, err = db.UsersNeedingNotification(0.8)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestDailyReminderCandidates(t *testing.T) {
	db := newTestDB(t)

	setupLoseUser(t, db, 1, 1800, 2000, 900)  // 45% лимита -> кандидат
	setupLoseUser(t, db, 2, 1800, 2000, 1500) // 75% лимита -> нет
	setupLoseUser(t, db, 3, 1800, 2000, 0)    // без записей -> кандидат

	users, err := db.DailyReminderCandidates()
	require.NoError(t, err)
	require.Len(t, users, 2)

	ids := []int64{users[0].ChatID, users[1].ChatID}
	assert.ElementsMatch(t, []int64{1, 3}, ids)
}
