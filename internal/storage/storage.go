package storage

import (
	"database/sql"
	"embed"
	"errors"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"telegram-calorie-bot/internal/models"
)

//go:embed schema.sql
var ddl embed.FS

type DB struct{ *sql.DB }

func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = migrate(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	b, err := ddl.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(string(b))
	return err
}

// ---------- users -----------------------------------------------------------

// CreateUser is an idempotent upsert: an existing user keeps its goal
// fields untouched. A notification_settings row is created alongside.
func (d *DB) CreateUser(chatID int64, username, firstName string) error {
	now := time.Now().Unix()
	if _, err := d.Exec(`
        INSERT OR IGNORE INTO users (chat_id, username, first_name, created_at, updated_at)
        VALUES (?,?,?,?,?)
    `, chatID, username, firstName, now, now); err != nil {
		return err
	}
	_, err := d.Exec(`INSERT OR IGNORE INTO notification_settings (chat_id) VALUES (?)`, chatID)
	return err
}

func (d *DB) GetUser(chatID int64) (*models.User, error) {
	var u models.User
	var username, firstName sql.NullString

	err := d.QueryRow(`
        SELECT chat_id, username, first_name, goal_type, daily_goal, daily_limit, created_at, updated_at
        FROM users WHERE chat_id=?`, chatID,
	).Scan(&u.ChatID, &username, &firstName, &u.GoalType, &u.DailyGoal, &u.DailyLimit, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Username = username.String
	u.FirstName = firstName.String
	return &u, nil
}

// UpdateUserGoal overwrites the goal fields. A zero dailyLimit is computed
// from the goal: goal*1.1 for lose, goal*1.3 otherwise.
func (d *DB) UpdateUserGoal(chatID int64, goalType string, dailyGoal, dailyLimit int) error {
	if dailyLimit == 0 {
		dailyLimit = ComputeLimit(goalType, dailyGoal)
	}
	_, err := d.Exec(`
        UPDATE users
        SET goal_type=?, daily_goal=?, daily_limit=?, updated_at=?
        WHERE chat_id=?
    `, goalType, dailyGoal, dailyLimit, time.Now().Unix(), chatID)
	return err
}

// ComputeLimit derives the daily limit from the goal type and goal value.
func ComputeLimit(goalType string, dailyGoal int) int {
	if goalType == models.GoalLose {
		return int(math.Round(float64(dailyGoal) * 1.1))
	}
	return int(math.Round(float64(dailyGoal) * 1.3))
}

// ---------- calorie entries -------------------------------------------------

// AddEntry appends a row stamped with the current date and time. Calories
// are validated by the caller.
func (d *DB) AddEntry(chatID int64, calories int, mealType, description string) error {
	var desc any
	if description != "" {
		desc = description
	}
	_, err := d.Exec(`
        INSERT INTO calorie_entries (chat_id, calories, meal_type, description, created_at)
        VALUES (?,?,?,?,?)
    `, chatID, calories, mealType, desc, time.Now().Unix())
	return err
}

func (d *DB) TodayCalories(chatID int64) (int, error) {
	var total int
	err := d.QueryRow(`
        SELECT COALESCE(SUM(calories), 0)
        FROM calorie_entries
        WHERE chat_id=? AND entry_date = date('now')
    `, chatID).Scan(&total)
	return total, err
}

func (d *DB) TodayEntries(chatID int64) ([]models.CalorieEntry, error) {
	rows, err := d.Query(`
        SELECT id, chat_id, calories, meal_type, COALESCE(description, ''), entry_date, entry_time, created_at
        FROM calorie_entries
        WHERE chat_id=? AND entry_date = date('now')
        ORDER BY entry_time DESC
    `, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.CalorieEntry
	for rows.Next() {
		var e models.CalorieEntry
		if err := rows.Scan(&e.ID, &e.ChatID, &e.Calories, &e.MealType, &e.Description,
			&e.EntryDate, &e.EntryTime, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// WeeklyStats returns per-day totals for the trailing 7 days, newest
// first. Days without entries are omitted.
func (d *DB) WeeklyStats(chatID int64) ([]models.DayStat, error) {
	rows, err := d.Query(`
        SELECT entry_date, SUM(calories) AS daily_total, COUNT(*) AS entries_count
        FROM calorie_entries
        WHERE chat_id=? AND entry_date >= date('now', '-7 days')
        GROUP BY entry_date
        ORDER BY entry_date DESC
    `, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.DayStat
	for rows.Next() {
		var s models.DayStat
		if err := rows.Scan(&s.Date, &s.DailyTotal, &s.EntriesCount); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// DeleteLastEntry deletes and returns today's most recent entry
// (by creation time, same-second ties resolved by insertion order).
// Returns (nil, nil) when today has no entries.
func (d *DB) DeleteLastEntry(chatID int64) (*models.CalorieEntry, error) {
	var e models.CalorieEntry
	err := d.QueryRow(`
        SELECT id, chat_id, calories, meal_type, COALESCE(description, ''), entry_date, entry_time, created_at
        FROM calorie_entries
        WHERE chat_id=? AND entry_date = date('now')
        ORDER BY created_at DESC, id DESC
        LIMIT 1
    `, chatID).Scan(&e.ID, &e.ChatID, &e.Calories, &e.MealType, &e.Description,
		&e.EntryDate, &e.EntryTime, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if _, err := d.Exec(`DELETE FROM calorie_entries WHERE id=?`, e.ID); err != nil {
		return nil, err
	}
	return &e, nil
}

// ---------- notifications ---------------------------------------------------

// UsersNeedingNotification returns lose-goal users with notifications
// enabled who have not been notified today and whose today/limit ratio
// reached both the scan floor and their own warning threshold.
func (d *DB) UsersNeedingNotification(threshold float64) ([]models.AlertCandidate, error) {
	rows, err := d.Query(`
        SELECT
            u.chat_id,
            u.daily_goal,
            u.daily_limit,
            COALESCE(SUM(ce.calories), 0) AS today_calories,
            ns.warning_threshold
        FROM users u
        LEFT JOIN calorie_entries ce ON u.chat_id = ce.chat_id
            AND ce.entry_date = date('now')
        JOIN notification_settings ns ON u.chat_id = ns.chat_id
        WHERE ns.enabled = 1
        AND (ns.last_notification != date('now') OR ns.last_notification IS NULL)
        AND u.goal_type = 'lose'
        GROUP BY u.chat_id
        HAVING (today_calories / CAST(u.daily_limit AS REAL)) >= MAX(?, ns.warning_threshold)
    `, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCandidates(rows, true)
}

// DailyReminderCandidates returns lose-goal users with notifications
// enabled whose today total is still below 70% of their limit. The
// last-notification marker is deliberately not consulted here.
func (d *DB) DailyReminderCandidates() ([]models.AlertCandidate, error) {
	rows, err := d.Query(`
        SELECT u.chat_id, u.daily_goal, u.daily_limit,
               COALESCE(SUM(ce.calories), 0) AS today_calories
        FROM users u
        LEFT JOIN calorie_entries ce ON u.chat_id = ce.chat_id
            AND ce.entry_date = date('now')
        JOIN notification_settings ns ON u.chat_id = ns.chat_id
        WHERE u.goal_type = 'lose'
        AND ns.enabled = 1
        GROUP BY u.chat_id
        HAVING today_calories < (u.daily_limit * 0.7)
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCandidates(rows, false)
}

func scanCandidates(rows *sql.Rows, withThreshold bool) ([]models.AlertCandidate, error) {
	var res []models.AlertCandidate
	for rows.Next() {
		var c models.AlertCandidate
		var err error
		if withThreshold {
			err = rows.Scan(&c.ChatID, &c.DailyGoal, &c.DailyLimit, &c.TodayCalories, &c.WarningThreshold)
		} else {
			err = rows.Scan(&c.ChatID, &c.DailyGoal, &c.DailyLimit, &c.TodayCalories)
		}
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// MarkNotificationSent records that the threshold alert went out today.
func (d *DB) MarkNotificationSent(chatID int64) error {
	_, err := d.Exec(`
        UPDATE notification_settings
        SET last_notification = date('now')
        WHERE chat_id=?
    `, chatID)
	return err
}
