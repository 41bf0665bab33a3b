package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	TelegramBotToken string
	WebhookURL       string // пусто — long polling

	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string

	DefaultEngine string // "gemini" | "gpt"
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() *Config {
	_ = godotenv.Load() // .env — только для локальной разработки

	return &Config{
		Port: getEnv("PORT", "8000"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		DefaultEngine: getEnv("DEFAULT_ENGINE", "gemini"),
	}
}
