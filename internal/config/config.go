package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr      string
	Port            string
	DatabasePath    string
	SessionSecret   string
	GinMode         string
	Timezone        string
	SeedDemoData    bool
	DefaultLanguage string
}

// Load 先尝试读取 .env，再从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	// .env 不存在时忽略
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	language := strings.ToLower(getEnv("DEFAULT_LANGUAGE", "fr"))
	if language != "en" {
		language = "fr"
	}

	return AppConfig{
		ListenAddr:      listenAddr,
		Port:            port,
		DatabasePath:    getEnv("DATABASE_PATH", "data/frequentation.db"),
		SessionSecret:   getEnv("SESSION_SECRET", "frequentation-dev-secret"),
		GinMode:         getEnv("GIN_MODE", "release"),
		Timezone:        getEnv("APP_TIMEZONE", "Europe/Paris"),
		SeedDemoData:    getEnvBool("SEED_DEMO_DATA", true),
		DefaultLanguage: language,
	}
}

// Location 返回用于计算“今天”的时区；无法识别时回退到本地时区。
func (c AppConfig) Location() *time.Location {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
