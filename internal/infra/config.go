package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv  string
	OpsPort string

	TelegramToken  string
	PollTimeout    time.Duration
	HandleTimeout  time.Duration
	OverlayDir     string
	FontPath       string
	FontSize       float64
	VacationAsset  string
	LocationFormat string
	ArtifactDir    string

	SessionBackend string
	SessionTTL     time.Duration
	RedisAddr      string
	DatabaseURL    string

	PromptProvider string
	GeminiAPIKey   string
	GeminiModel    string
	GeminiBaseURL  string
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string
	OpenAIOrg      string
	ImageProvider  string

	EnhanceTimeout  time.Duration
	GenerateTimeout time.Duration
	FetchTimeout    time.Duration
	GeneratePerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:  getEnv("APP_ENV", "development"),
		OpsPort: getEnv("OPS_PORT", "8081"),

		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		PollTimeout:    time.Second * time.Duration(getEnvInt("POLL_TIMEOUT_SECONDS", 10)),
		HandleTimeout:  time.Second * time.Duration(getEnvInt("HANDLE_TIMEOUT_SECONDS", 120)),
		OverlayDir:     getEnv("OVERLAY_DIR", "overlays"),
		FontPath:       getEnv("FONT_PATH", "fonts/YangoText_Bd.ttf"),
		FontSize:       getEnvFloat("FONT_SIZE", 120),
		VacationAsset:  getEnv("VACATION_OVERLAY", "vacation.png"),
		LocationFormat: getEnv("LOCATION_FORMAT", "loose"),
		ArtifactDir:    os.Getenv("ARTIFACT_DIR"),

		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		SessionTTL:     time.Minute * time.Duration(getEnvInt("SESSION_TTL_MINUTES", 30)),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		PromptProvider: getEnv("PROMPT_PROVIDER", "static"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:  getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:      os.Getenv("OPENAI_ORG"),
		ImageProvider:  getEnv("IMAGE_PROVIDER", "stub"),

		EnhanceTimeout:  time.Second * time.Duration(getEnvInt("ENHANCE_TIMEOUT_SECONDS", 15)),
		GenerateTimeout: time.Second * time.Duration(getEnvInt("GENERATE_TIMEOUT_SECONDS", 60)),
		FetchTimeout:    time.Second * time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 30)),
		GeneratePerMin:  getEnvInt("GENERATE_RATE_PER_MINUTE", 6),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	switch cfg.SessionBackend {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("SESSION_BACKEND must be memory or redis, got %q", cfg.SessionBackend)
	}

	switch cfg.LocationFormat {
	case "loose", "strict":
	default:
		return nil, fmt.Errorf("LOCATION_FORMAT must be loose or strict, got %q", cfg.LocationFormat)
	}

	switch cfg.ImageProvider {
	case "gemini", "stub":
	default:
		return nil, fmt.Errorf("IMAGE_PROVIDER must be gemini or stub, got %q", cfg.ImageProvider)
	}

	switch cfg.PromptProvider {
	case "static", "gemini", "openai":
	default:
		return nil, fmt.Errorf("PROMPT_PROVIDER must be static, gemini or openai, got %q", cfg.PromptProvider)
	}

	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
