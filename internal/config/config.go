package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

type Config struct {
	BotToken   string  `env:"BOT_TOKEN,required"`
	BotWorkers int     `env:"BOT_WORKERS" envDefault:"4"`
	AdminIDs   []int64 `env:"ADMIN_IDS" envSeparator:","`

	TranslateAPIKey string `env:"TRANSLATE_API_KEY,required"`
	ExchangeAPIKey  string `env:"EXCHANGE_API_KEY,required"`
	ZamzarAPIKey    string `env:"ZAMZAR_API_KEY,required"`
	MediaAPIKey     string `env:"MEDIA_API_KEY,required"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY,required"`

	TranslateURL string `env:"TRANSLATE_URL"`
	ExchangeURL  string `env:"EXCHANGE_URL"`
	ZamzarURL    string `env:"ZAMZAR_URL"`
	YouTubeURL   string `env:"YOUTUBE_API_URL"`
	InstagramURL string `env:"INSTAGRAM_API_URL"`
	TikTokURL    string `env:"TIKTOK_API_URL"`
	OpenAIURL    string `env:"OPENAI_URL"`

	FileSizeLimitMB int64         `env:"FILE_SIZE_LIMIT_MB" envDefault:"2000"`
	MaxRetries      int           `env:"MAX_RETRIES" envDefault:"3"`
	HTTPTimeout     time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	DownloadTimeout time.Duration `env:"DOWNLOAD_TIMEOUT" envDefault:"10m"`
	PollInterval    time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`
	PollMaxAttempts int           `env:"POLL_MAX_ATTEMPTS" envDefault:"60"`
	RatesCacheTTL   time.Duration `env:"RATES_CACHE_TTL" envDefault:"10m"`
	FFmpegPath      string        `env:"FFMPEG_PATH" envDefault:"ffmpeg"`

	Workers    int           `env:"WORKERS" envDefault:"3"`
	JobTimeout time.Duration `env:"JOB_TIMEOUT" envDefault:"15m"`

	Infra
}

// Infra is the part of the configuration the maintenance commands need.
type Infra struct {
	TempDir       string        `env:"TEMP_DIR"`
	SweepSchedule string        `env:"SWEEP_SCHEDULE" envDefault:"@every 15m"`
	SweepMaxAge   time.Duration `env:"SWEEP_MAX_AGE" envDefault:"1h"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string        `env:"REDIS_PREFIX" envDefault:"bat_multitool"`
	ProfileTTL    time.Duration `env:"PROFILE_TTL" envDefault:"720h"`
	PostgresDSN   string        `env:"POSTGRES_DSN"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

func (i *Infra) applyDefaults() {
	if i.TempDir == "" {
		i.TempDir = filepath.Join(os.TempDir(), "bat_multitool")
	}
}

// LoadInfra reads only the infrastructure settings; no credentials are required.
func LoadInfra() (*Infra, error) {
	infra := &Infra{}
	if err := env.Parse(infra); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConfig, err)
	}
	infra.applyDefaults()
	return infra, nil
}

// Load reads the environment. Missing credentials and malformed values wrap types.ErrConfig.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConfig, err)
	}
	cfg.applyDefaults()
	if cfg.FileSizeLimitMB <= 0 {
		return nil, fmt.Errorf("%w: FILE_SIZE_LIMIT_MB must be positive", types.ErrConfig)
	}
	if cfg.MaxRetries < 1 {
		return nil, fmt.Errorf("%w: MAX_RETRIES must be at least 1", types.ErrConfig)
	}
	return cfg, nil
}

func (c *Config) SizeLimitBytes() int64 {
	return c.FileSizeLimitMB << 20
}

func (c *Config) IsAdmin(userID int64) bool {
	return slices.Contains(c.AdminIDs, userID)
}
