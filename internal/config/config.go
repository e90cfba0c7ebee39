package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	ServerPort string
	AIAPIKey   string
	AIAPIURL   string
	AIModel    string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using environment")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "academykit"),
		JWTSecret:  getEnv("JWT_SECRET", "super-secret-key-change-me"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		AIAPIKey:   getEnv("AI_API_KEY", ""),
		AIAPIURL:   getEnv("AI_API_URL", "https://dashscope.aliyuncs.com/compatible-mode/v1"),
		AIModel:    getEnv("AI_MODEL", "qwen-plus"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
