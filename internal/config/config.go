package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// DefaultChatModel is the fallback model identifier applied to projects
// created without explicit settings and to chats outside any project.
const DefaultChatModel = "gemini-2.5-flash"

type Config struct {
	GeminiAPIKey     string
	DatabaseURL      string
	HTTPPort         string
	LogLevel         string
	JWTSecret        string
	DefaultChatModel string
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		DatabaseURL:      getEnv("DATABASE_URL", "yellow_ai.db"),
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		DefaultChatModel: getEnv("DEFAULT_CHAT_MODEL", DefaultChatModel),
	}

	if AppConfig.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}

	if AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
