package scheduler

import (
	"fmt"
	"log"

	"github.com/go-co-op/gocron/v2"

	"telegram-calorie-bot/internal/notifications"
)

// Окно часовой проверки лимита: 18:00-22:00
const thresholdCrontab = "0 18-22 * * *"

// Start registers the two notification timers and runs the scheduler.
// The threshold sweep fires hourly inside the evening window; the daily
// reminder fires once at the configured time.
func Start(n *notifications.Notifier, hour, minute int) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	if _, err := s.NewJob(
		gocron.CronJob(thresholdCrontab, false),
		gocron.NewTask(n.ThresholdSweep),
	); err != nil {
		return nil, err
	}

	if _, err := s.NewJob(
		gocron.CronJob(fmt.Sprintf("%d %d * * *", minute, hour), false),
		gocron.NewTask(n.DailyReminderSweep),
	); err != nil {
		return nil, err
	}

	s.Start()
	log.Println("📅 Система уведомлений запущена")
	return s, nil
}
