package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Gemini (topic/script generation + Veo video generation)
	GeminiAPIKey         string
	GeminiConcurrentReqs int

	// ElevenLabs TTS
	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string

	// Creatomate render
	CreatomateAPIKey     string
	CreatomateTemplateID string

	// YouTube upload (OAuth refresh-token flow)
	YouTubeClientID     string
	YouTubeClientSecret string
	YouTubeRefreshToken string

	// Media storage
	StorageBucket string

	// Brand
	BrandName    string
	BrandWebsite string
	BrandTagline string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		DatabaseURL:          mustGetEnv("DATABASE_URL"),
		RedisURL:             mustGetEnv("REDIS_URL"),
		GeminiAPIKey:         mustGetEnv("GEMINI_API_KEY"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		ElevenLabsAPIKey:     getEnvOrDefault("ELEVENLABS_API_KEY", ""),
		ElevenLabsVoiceID:    getEnvOrDefault("ELEVENLABS_VOICE_ID", ""),
		CreatomateAPIKey:     getEnvOrDefault("CREATOMATE_API_KEY", ""),
		CreatomateTemplateID: getEnvOrDefault("CREATOMATE_TEMPLATE_ID", ""),
		YouTubeClientID:      getEnvOrDefault("YOUTUBE_CLIENT_ID", ""),
		YouTubeClientSecret:  getEnvOrDefault("YOUTUBE_CLIENT_SECRET", ""),
		YouTubeRefreshToken:  getEnvOrDefault("YOUTUBE_REFRESH_TOKEN", ""),
		StorageBucket:        getEnvOrDefault("STORAGE_BUCKET", "shortform-media"),
		BrandName:            getEnvOrDefault("BRAND_NAME", "DealMotion"),
		BrandWebsite:         getEnvOrDefault("BRAND_WEBSITE", "https://dealmotion.ai"),
		BrandTagline:         getEnvOrDefault("BRAND_TAGLINE", "Put your deals in motion"),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
