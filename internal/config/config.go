package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	TelegramToken string
	DBPath        string
	// Время ежедневного напоминания
	NotificationHour   int
	NotificationMinute int
}

const minTokenLen = 10

func Load() Config {
	return Config{
		TelegramToken:      getBotToken(),
		DBPath:             getEnv("DB_PATH", "calories.db"),
		NotificationHour:   getEnvInt("NOTIFICATION_HOUR", 20),
		NotificationMinute: getEnvInt("NOTIFICATION_MINUTE", 0),
	}
}

func getBotToken() string {
	if data, err := os.ReadFile("/run/secrets/telegram_bot_token"); err == nil {
		token := strings.TrimSpace(string(data))
		if len(token) >= minTokenLen {
			return token
		}
	}
	token := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	if len(token) >= minTokenLen {
		return token
	}
	log.Fatal("❌ Токен бота не настроен: получите токен у @BotFather и укажите его в TELEGRAM_BOT_TOKEN (.env) или в Docker Secret")
	return ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Некорректное значение %s=%q, используется %d", key, v, def)
		return def
	}
	return n
}
