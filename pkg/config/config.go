package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath       = "config.yaml"
	defaultServerAddr       = ":8080"
	defaultGatewayURL       = "https://ai.gateway.lovable.dev/v1/chat/completions"
	defaultOpenRouterURL    = "https://openrouter.ai/api/v1/chat/completions"
	defaultGeminiURL        = "https://generativelanguage.googleapis.com/v1beta"
	defaultElevenLabsURL    = "https://api.elevenlabs.io/v1"
	defaultTextProvider     = "gateway"
	defaultTextModel        = "google/gemini-2.5-flash"
	defaultGroqModel        = "llama-3.3-70b-versatile"
	defaultImageProvider    = "dual"
	defaultImageModel       = "google/gemini-2.5-flash-image-preview"
	defaultOpenRouterModel  = "sourceful/riverflow-v2-standard-preview"
	defaultGeminiImageModel = "gemini-2.5-flash-image"
	defaultFrameModel       = "google/gemini-2.5-flash-image"
	defaultFrameInterval    = time.Second
	defaultRefinerProvider  = "gemini"
	defaultRefinerModel     = "gemini-2.0-flash"
	defaultRefinerORModel   = "nvidia/nemotron-nano-12b-v2-vl:free"
	defaultTranscribeModel  = "scribe_v1"
	defaultLanguage         = "por"
)

type Config struct {
	GatewayAPIKey    string
	GeminiAPIKey     string
	OpenRouterAPIKey string
	ElevenLabsAPIKey string
	GroqAPIKey       string

	Server     ServerConfig     `yaml:"server"`
	Text       TextConfig       `yaml:"text"`
	Image      ImageConfig      `yaml:"image"`
	Frames     FramesConfig     `yaml:"frames"`
	Refiner    RefinerConfig    `yaml:"refiner"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type TextConfig struct {
	Provider   string `yaml:"provider"` // "gateway" or "groq"
	Model      string `yaml:"model"`
	GroqModel  string `yaml:"groq_model"`
	GatewayURL string `yaml:"gateway_url"`
}

type ImageConfig struct {
	Provider        string `yaml:"provider"` // "dual", "gateway", "openrouter" or "gemini"
	Model           string `yaml:"model"`
	GatewayURL      string `yaml:"gateway_url"`
	OpenRouterURL   string `yaml:"openrouter_url"`
	OpenRouterModel string `yaml:"openrouter_model"`
	GeminiURL       string `yaml:"gemini_url"`
	GeminiModel     string `yaml:"gemini_model"`
}

type FramesConfig struct {
	Model    string        `yaml:"model"`
	Interval time.Duration `yaml:"interval"`
	Burst    int           `yaml:"burst"`
}

type RefinerConfig struct {
	Provider        string `yaml:"provider"` // "gemini" or "openrouter"
	Model           string `yaml:"model"`
	OpenRouterModel string `yaml:"openrouter_model"`
	OpenRouterURL   string `yaml:"openrouter_url"`
}

type TranscribeConfig struct {
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
	BaseURL  string `yaml:"base_url"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GatewayAPIKey:    os.Getenv("AI_GATEWAY_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		ElevenLabsAPIKey: os.Getenv("ELEVENLABS_API_KEY"),
		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
	}

	loadYAMLConfig(cfg)
	applyDefaults(cfg)

	return cfg
}

func loadYAMLConfig(cfg *Config) {
	data, err := os.ReadFile(defaultConfigPath)
	if err != nil {
		slog.Warn("No config.yaml found, using defaults")
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("Failed to parse config.yaml", "error", err)
	}
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(cfg)
	applyTextDefaults(cfg)
	applyImageDefaults(cfg)
	applyFramesDefaults(cfg)
	applyRefinerDefaults(cfg)
	applyTranscribeDefaults(cfg)
}

func applyServerDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultServerAddr
	}
}

func applyTextDefaults(cfg *Config) {
	if cfg.Text.Provider == "" {
		cfg.Text.Provider = defaultTextProvider
	}
	if cfg.Text.Model == "" {
		cfg.Text.Model = defaultTextModel
	}
	if cfg.Text.GroqModel == "" {
		cfg.Text.GroqModel = defaultGroqModel
	}
	if cfg.Text.GatewayURL == "" {
		cfg.Text.GatewayURL = defaultGatewayURL
	}
}

func applyImageDefaults(cfg *Config) {
	if cfg.Image.Provider == "" {
		cfg.Image.Provider = defaultImageProvider
	}
	if cfg.Image.Model == "" {
		cfg.Image.Model = defaultImageModel
	}
	if cfg.Image.GatewayURL == "" {
		cfg.Image.GatewayURL = defaultGatewayURL
	}
	if cfg.Image.OpenRouterURL == "" {
		cfg.Image.OpenRouterURL = defaultOpenRouterURL
	}
	if cfg.Image.OpenRouterModel == "" {
		cfg.Image.OpenRouterModel = defaultOpenRouterModel
	}
	if cfg.Image.GeminiURL == "" {
		cfg.Image.GeminiURL = defaultGeminiURL
	}
	if cfg.Image.GeminiModel == "" {
		cfg.Image.GeminiModel = defaultGeminiImageModel
	}
}

func applyFramesDefaults(cfg *Config) {
	if cfg.Frames.Model == "" {
		cfg.Frames.Model = defaultFrameModel
	}
	if cfg.Frames.Interval == 0 {
		cfg.Frames.Interval = defaultFrameInterval
	}
	if cfg.Frames.Burst == 0 {
		cfg.Frames.Burst = 1
	}
}

func applyRefinerDefaults(cfg *Config) {
	if cfg.Refiner.Provider == "" {
		cfg.Refiner.Provider = defaultRefinerProvider
	}
	if cfg.Refiner.Model == "" {
		cfg.Refiner.Model = defaultRefinerModel
	}
	if cfg.Refiner.OpenRouterModel == "" {
		cfg.Refiner.OpenRouterModel = defaultRefinerORModel
	}
	if cfg.Refiner.OpenRouterURL == "" {
		cfg.Refiner.OpenRouterURL = defaultOpenRouterURL
	}
}

func applyTranscribeDefaults(cfg *Config) {
	if cfg.Transcribe.Model == "" {
		cfg.Transcribe.Model = defaultTranscribeModel
	}
	if cfg.Transcribe.Language == "" {
		cfg.Transcribe.Language = defaultLanguage
	}
	if cfg.Transcribe.BaseURL == "" {
		cfg.Transcribe.BaseURL = defaultElevenLabsURL
	}
}
