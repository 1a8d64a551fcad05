// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	//Paths
	ProfilePath string `yaml:"profile_path"`
	HistoryPath string `yaml:"history_path"`

	//Batch limits
	MaxApplications int `yaml:"max_applications"`
	MaxPages        int `yaml:"max_pages"`
	CooldownSeconds int `yaml:"cooldown_seconds"`
	MinMatchScore   int `yaml:"min_match_score"`

	//Generation bounds
	ExcerptMaxChars int    `yaml:"excerpt_max_chars"`
	AnswerMaxWords  int    `yaml:"answer_max_words"`
	AnswerTone      string `yaml:"answer_tone"`

	//Browser
	Headless          bool    `yaml:"headless"`
	NavTimeoutSeconds int     `yaml:"nav_timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	GenerateTimeoutSeconds int `yaml:"generate_timeout_seconds"`

	//Discovery
	DiscoverURL string `yaml:"discover_url"`
	TestFormURL string `yaml:"test_form_url"`

	//Secrets come from env, never yaml
	GrokAPIKey     string `yaml:"-"`
	TelegramToken  string `yaml:"-"`
	TelegramChatID int64  `yaml:"-"`
}

func Load(path string) *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{Headless: true}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: Could not read %s: %v", path, err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", path, err)
		}
	}

	//Override with env vars
	cfg.GrokAPIKey = os.Getenv("GROK_API_KEY")

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	//Set default values if not set
	if cfg.ProfilePath == "" {
		cfg.ProfilePath = "configs/user-profile.json"
	}
	if cfg.HistoryPath == "" {
		cfg.HistoryPath = ".cache/applications.json"
	}
	if cfg.MaxApplications == 0 {
		cfg.MaxApplications = 5
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = 3
	}
	if cfg.CooldownSeconds == 0 {
		cfg.CooldownSeconds = 30
	}
	if cfg.MinMatchScore == 0 {
		cfg.MinMatchScore = 70
	}
	if cfg.ExcerptMaxChars == 0 {
		cfg.ExcerptMaxChars = 500
	}
	if cfg.AnswerMaxWords == 0 {
		cfg.AnswerMaxWords = 200
	}
	if cfg.AnswerTone == "" {
		cfg.AnswerTone = "natural, conversational"
	}
	if cfg.NavTimeoutSeconds == 0 {
		cfg.NavTimeoutSeconds = 30
	}
	if cfg.GenerateTimeoutSeconds == 0 {
		cfg.GenerateTimeoutSeconds = 60
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 0.5
	}
	if cfg.DiscoverURL == "" {
		cfg.DiscoverURL = "https://jobright.ai/jobs/recommend"
	}

	return cfg
}
