package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the bot
type Config struct {
	// Telegram
	BotToken string
	Debug    bool

	// Media limits
	MaxDuration int   // seconds
	MaxFileSize int64 // bytes

	// Transcoder
	FFmpegBin        string
	VideoSize        int    // target square dimension
	VideoFit         string // pad or crop
	KeepAudio        bool
	AudioBitrate     string
	Preset           string
	TranscodeTimeout time.Duration

	// Filesystem
	TempDir string

	// Liveness listener
	Port string
}

// Load loads configuration from environment variables and .env file.
// BOT_TOKEN is the only required value and is checked by the caller;
// everything else has a default.
func Load() *Config {
	// Try to load .env file (optional)
	if err := godotenv.Load(); err == nil {
		log.Println("✅ Loaded configuration from .env file")
	}

	return &Config{
		BotToken: os.Getenv("BOT_TOKEN"),
		Debug:    getBool("DEBUG", false),

		MaxDuration: getInt("VIDEO_MAX_DURATION", 90),
		MaxFileSize: getInt64("VIDEO_MAX_SIZE", 20*1024*1024), // 20MB

		FFmpegBin:        getEnv("FFMPEG_BIN", "ffmpeg"),
		VideoSize:        getInt("VIDEO_SIZE", 720),
		VideoFit:         getEnv("VIDEO_FIT", "pad"),
		KeepAudio:        getBool("KEEP_AUDIO", false),
		AudioBitrate:     getEnv("AUDIO_BITRATE", "128k"),
		Preset:           getEnv("FFMPEG_PRESET", "fast"),
		TranscodeTimeout: getDuration("TRANSCODE_TIMEOUT", 2*time.Minute),

		TempDir: getEnv("TEMP_DIR", "tmp"),

		Port: getEnv("PORT", "10000"),
	}
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("Warning: Invalid integer value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
		log.Printf("Warning: Invalid int64 value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		log.Printf("Warning: Invalid boolean value for %s: %s, using default: %v", key, value, defaultValue)
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		log.Printf("Warning: Invalid duration value for %s: %s, using default: %v", key, value, defaultValue)
	}
	return defaultValue
}
