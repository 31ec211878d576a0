package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/sirupsen/logrus"
)

type Config struct {
	// Server
	ServerPort        string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	TranscribeTimeout time.Duration
	RateLimit         int
	RateLimitInterval time.Duration

	// Logging
	LogDir   string
	LogLevel string

	// Cache
	CacheBackend string
	CacheTTL     time.Duration
	DBPath       string
	RedisAddr    string
	Spaces       SpacesConfig

	// Transcript acquisition
	TranscriptSource string
	TranscriptAPIURL string
	TranscriptLang   string
	APIRateLimit     int
	MaxRetries       int
	ModelName        string
	MaxMediaDuration time.Duration

	// External helpers
	ScriptsPath  string
	PythonRunner string
	YTDLPPath    string
	TempDir      string

	// Summarization
	SummaryBackend   string
	SummaryModel     string
	GeminiAPIKey     string
	ChunkWords       int
	SummaryMinLength int
	SummaryMaxLength int
}

type SpacesConfig struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
	Bucket    string
}

func LoadConfig() *Config {
	return &Config{
		ServerPort:        GetEnv("SERVER_PORT", "8080"),
		ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 10*time.Minute),
		IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		TranscribeTimeout: getEnvAsDuration("TRANSCRIBE_TIMEOUT", 10*time.Minute),
		RateLimit:         getEnvAsInt("RATE_LIMIT", 5),
		RateLimitInterval: getEnvAsDuration("RATE_LIMIT_INTERVAL", 1*time.Second),

		LogDir:   GetEnv("LOG_DIR", ""),
		LogLevel: GetEnv("LOG_LEVEL", "info"),

		CacheBackend: GetEnv("CACHE_BACKEND", "sqlite"),
		CacheTTL:     getEnvAsDuration("CACHE_TTL", 24*time.Hour),
		DBPath:       GetEnv("DB_PATH", "./data/transcripts.db"),
		RedisAddr:    GetEnv("REDIS_ADDR", "localhost:6379"),
		Spaces: SpacesConfig{
			AccessKey: GetEnv("SPACES_ACCESS_KEY", ""),
			SecretKey: GetEnv("SPACES_SECRET_KEY", ""),
			Region:    GetEnv("SPACES_REGION", "us-east-1"),
			Endpoint:  GetEnv("SPACES_ENDPOINT", ""),
			Bucket:    GetEnv("SPACES_BUCKET", ""),
		},

		TranscriptSource: GetEnv("TRANSCRIPT_SOURCE", "caption"),
		TranscriptAPIURL: GetEnv("TRANSCRIPT_API_URL", ""),
		TranscriptLang:   GetEnv("TRANSCRIPT_LANG", "en"),
		APIRateLimit:     getEnvAsInt("TRANSCRIPT_API_RATE_LIMIT", 2),
		MaxRetries:       getEnvAsInt("MAX_RETRIES", 3),
		ModelName:        GetEnv("WHISPER_MODEL", "tiny"),
		MaxMediaDuration: getEnvAsDuration("MAX_MEDIA_DURATION", 10*time.Minute),

		ScriptsPath:  GetEnv("SCRIPTS_PATH", "./scripts"),
		PythonRunner: GetEnv("PYTHON_RUNNER", "uv"),
		YTDLPPath:    GetEnv("YTDLP_PATH", "yt-dlp"),
		TempDir:      GetEnv("TEMP_DIR", os.TempDir()),

		SummaryBackend:   GetEnv("SUMMARY_BACKEND", "script"),
		SummaryModel:     GetEnv("SUMMARY_MODEL", "facebook/bart-large-cnn"),
		GeminiAPIKey:     GetEnv("GEMINI_API_KEY", ""),
		ChunkWords:       getEnvAsInt("CHUNK_WORDS", 500),
		SummaryMinLength: getEnvAsInt("SUMMARY_MIN_LENGTH", 50),
		SummaryMaxLength: getEnvAsInt("SUMMARY_MAX_LENGTH", 150),
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return true
		}
	}
	return false
}

func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return errors.New("server port is required")
	}
	if cfg.TranscribeTimeout <= 0 {
		return errors.New("transcribe timeout must be greater than 0")
	}
	if cfg.ReadTimeout <= 0 {
		return errors.New("read timeout must be greater than 0")
	}
	if cfg.WriteTimeout <= 0 {
		return errors.New("write timeout must be greater than 0")
	}
	if cfg.IdleTimeout <= 0 {
		return errors.New("idle timeout must be greater than 0")
	}
	if cfg.CacheTTL <= 0 {
		return errors.New("cache TTL must be greater than 0")
	}
	if cfg.MaxRetries < 1 {
		return errors.New("max retries must be at least 1")
	}
	if cfg.ChunkWords < 1 {
		return errors.New("chunk size must be at least 1 word")
	}
	if cfg.SummaryMinLength > cfg.SummaryMaxLength {
		return errors.Errorf("summary min length %d exceeds max length %d",
			cfg.SummaryMinLength, cfg.SummaryMaxLength)
	}

	switch strings.ToLower(cfg.CacheBackend) {
	case "sqlite":
		if cfg.DBPath == "" {
			return errors.New("database path is required")
		}
	case "redis":
		if cfg.RedisAddr == "" {
			return errors.New("redis address is required")
		}
	case "spaces":
		if cfg.Spaces.Bucket == "" {
			return errors.New("spaces bucket is required")
		}
	default:
		return errors.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}

	if !oneOf(cfg.TranscriptSource, "caption", "api", "speech") {
		return errors.Errorf("unknown transcript source %q", cfg.TranscriptSource)
	}
	if strings.EqualFold(cfg.TranscriptSource, "api") && cfg.TranscriptAPIURL == "" {
		return errors.New("transcript API URL is required for the api source")
	}

	if !oneOf(cfg.SummaryBackend, "script", "gemini") {
		return errors.Errorf("unknown summary backend %q", cfg.SummaryBackend)
	}
	if strings.EqualFold(cfg.SummaryBackend, "gemini") && cfg.GeminiAPIKey == "" {
		return errors.New("gemini API key is required for the gemini backend")
	}

	return nil
}
