package models

// Goal types selectable via /goal.
const (
	GoalGain     = "gain"
	GoalLose     = "lose"
	GoalMaintain = "maintain"
)

// User represents bot settings for a telegram user.
type User struct {
	ChatID     int64  `db:"chat_id"     json:"chat_id"`
	Username   string `db:"username"    json:"username"`
	FirstName  string `db:"first_name"  json:"first_name"`
	GoalType   string `db:"goal_type"   json:"goal_type"` // gain / lose / maintain
	DailyGoal  int    `db:"daily_goal"  json:"daily_goal"`
	DailyLimit int    `db:"daily_limit" json:"daily_limit"` // только для lose приходят алерты
	CreatedAt  int64  `db:"created_at"  json:"created_at"`
	UpdatedAt  int64  `db:"updated_at"  json:"updated_at"`
}

// CalorieEntry is one recorded meal or snack.
type CalorieEntry struct {
	ID          int64  `db:"id"`
	ChatID      int64  `db:"chat_id"`
	Calories    int    `db:"calories"`
	MealType    string `db:"meal_type"`
	Description string `db:"description"` // empty -> not set
	EntryDate   string `db:"entry_date"`  // YYYY-MM-DD
	EntryTime   string `db:"entry_time"`  // HH:MM:SS
	CreatedAt   int64  `db:"created_at"`
}

// NotificationSettings - one row per user, created together with the user.
type NotificationSettings struct {
	ChatID           int64   `db:"chat_id"`
	Enabled          bool    `db:"enabled"`
	WarningThreshold float64 `db:"warning_threshold"`
	LastNotification string  `db:"last_notification"` // YYYY-MM-DD, empty -> ещё не слали
}

// DayStat is one row of the trailing-week rollup.
type DayStat struct {
	Date         string `db:"entry_date"`
	DailyTotal   int    `db:"daily_total"`
	EntriesCount int    `db:"entries_count"`
}

// AlertCandidate is a user returned by the threshold scan or the daily
// reminder query, with the aggregates the alert text needs.
type AlertCandidate struct {
	ChatID           int64
	DailyGoal        int
	DailyLimit       int
	TodayCalories    int
	WarningThreshold float64
}
