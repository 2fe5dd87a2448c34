package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"telegram-calorie-bot/internal/config"
	"telegram-calorie-bot/internal/handlers"
	"telegram-calorie-bot/internal/notifications"
	"telegram-calorie-bot/internal/scheduler"
	"telegram-calorie-bot/internal/storage"
)

func main() {
	_ = godotenv.Load() // TELEGRAM_BOT_TOKEN etc.
	cfg := config.Load()

	log.Println("🔧 Инициализация бота...")

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("❌ Telegram не принял токен: %v (проверьте токен от @BotFather и перезапустите бота)", err)
	}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatal("Ошибка инициализации базы данных:", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Println("Ошибка закрытия базы данных:", err)
		}
	}()
	log.Println("База данных успешно инициализирована")

	notifier := notifications.New(bot, db)
	h := handlers.New(bot, db, notifier)

	sched, err := scheduler.Start(notifier, cfg.NotificationHour, cfg.NotificationMinute)
	if err != nil {
		log.Fatal("Ошибка запуска планировщика:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := bot.GetUpdatesChan(updateConfig)

	go func() {
		<-ctx.Done()
		log.Println("🛑 Получен сигнал завершения, останавливаем бота...")
		bot.StopReceivingUpdates()
	}()

	log.Printf("🤖 Бот @%s запущен успешно!", bot.Self.UserName)

	for upd := range updates {
		h.HandleUpdate(upd)
	}

	if err := sched.Shutdown(); err != nil {
		log.Println("Ошибка остановки планировщика:", err)
	}
}
