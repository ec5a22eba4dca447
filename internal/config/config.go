package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "Asia/Shanghai"

	configPathEnv      = "SOCIALFORGE_CONFIG"
	providerEnv        = "AI_PROVIDER"
	geminiAPIKeyEnv    = "GEMINI_API_KEY"
	geminiModelEnv     = "GEMINI_MODEL"
	anthropicAPIKeyEnv = "ANTHROPIC_API_KEY"
	chatGPTAPIKeyEnv   = "CHATGPT_API_KEY"
	chatGPTModelEnv    = "CHATGPT_MODEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	AI       AIConfig       `yaml:"ai"`
	Tracking TrackingConfig `yaml:"tracking"`
	Feeds    FeedsConfig    `yaml:"feeds"`
	Render   RenderConfig   `yaml:"render"`
	Publish  PublishConfig  `yaml:"publish"`
}

// LoggingConfig controls console log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// AIConfig selects the active text provider and carries per-provider settings.
type AIConfig struct {
	Provider  string          `yaml:"provider"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	ChatGPT   ChatGPTConfig   `yaml:"chatgpt"`
}

// GeminiConfig defines how to contact the Gemini REST API.
type GeminiConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// AnthropicConfig defines how to contact the Anthropic API.
type AnthropicConfig struct {
	Model     string `yaml:"model"`
	APIKey    string `yaml:"apiKey"`
	MaxTokens int64  `yaml:"maxTokens"`
}

// ChatGPTConfig defines how to contact an OpenAI-compatible API.
type ChatGPTConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// TrackingConfig locates the tracking file and the content output tree.
type TrackingConfig struct {
	File      string `yaml:"file"`
	OutputDir string `yaml:"outputDir"`
}

// FeedsConfig describes the subscription list and fetch window.
type FeedsConfig struct {
	OPMLFile     string `yaml:"opmlFile"`
	DigestDir    string `yaml:"digestDir"`
	WindowHours  int    `yaml:"windowHours"`
	PerFeedLimit int    `yaml:"perFeedLimit"`
	FetchContent bool   `yaml:"fetchContent"`
}

// RenderConfig tunes the card renderers.
type RenderConfig struct {
	FontCandidates []string `yaml:"fontCandidates"`
	TimeoutSeconds int      `yaml:"timeoutSeconds"`
}

// PublishConfig defines the timezone used for publish slot scheduling.
type PublishConfig struct {
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the publish timezone string to a time.Location.
func (p PublishConfig) Location() *time.Location {
	if p.location != nil {
		return p.location
	}
	return time.FixedZone("CST", 8*3600)
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(providerEnv); v != "" {
		c.AI.Provider = v
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.AI.Gemini.APIKey = v
	}
	if v := os.Getenv(geminiModelEnv); v != "" {
		c.AI.Gemini.Model = v
	}

	if v := os.Getenv(anthropicAPIKeyEnv); v != "" {
		c.AI.Anthropic.APIKey = v
	}

	if v := os.Getenv(chatGPTAPIKeyEnv); v != "" {
		c.AI.ChatGPT.APIKey = v
	}
	if v := os.Getenv(chatGPTModelEnv); v != "" {
		c.AI.ChatGPT.Model = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Publish.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		c.Publish.location = time.FixedZone("CST", 8*3600)
		return
	}
	c.Publish.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.AI.Provider != "" {
		base.AI.Provider = override.AI.Provider
	}
	if override.AI.Gemini.Endpoint != "" {
		base.AI.Gemini.Endpoint = override.AI.Gemini.Endpoint
	}
	if override.AI.Gemini.Model != "" {
		base.AI.Gemini.Model = override.AI.Gemini.Model
	}
	if override.AI.Gemini.APIKey != "" {
		base.AI.Gemini.APIKey = override.AI.Gemini.APIKey
	}
	if override.AI.Anthropic.Model != "" {
		base.AI.Anthropic.Model = override.AI.Anthropic.Model
	}
	if override.AI.Anthropic.APIKey != "" {
		base.AI.Anthropic.APIKey = override.AI.Anthropic.APIKey
	}
	if override.AI.Anthropic.MaxTokens > 0 {
		base.AI.Anthropic.MaxTokens = override.AI.Anthropic.MaxTokens
	}
	if override.AI.ChatGPT.Endpoint != "" {
		base.AI.ChatGPT.Endpoint = override.AI.ChatGPT.Endpoint
	}
	if override.AI.ChatGPT.Model != "" {
		base.AI.ChatGPT.Model = override.AI.ChatGPT.Model
	}
	if override.AI.ChatGPT.APIKey != "" {
		base.AI.ChatGPT.APIKey = override.AI.ChatGPT.APIKey
	}
	if override.AI.ChatGPT.SystemPrompt != "" {
		base.AI.ChatGPT.SystemPrompt = override.AI.ChatGPT.SystemPrompt
	}

	if override.Tracking.File != "" {
		base.Tracking.File = override.Tracking.File
	}
	if override.Tracking.OutputDir != "" {
		base.Tracking.OutputDir = override.Tracking.OutputDir
	}

	if override.Feeds.OPMLFile != "" {
		base.Feeds.OPMLFile = override.Feeds.OPMLFile
	}
	if override.Feeds.DigestDir != "" {
		base.Feeds.DigestDir = override.Feeds.DigestDir
	}
	if override.Feeds.WindowHours > 0 {
		base.Feeds.WindowHours = override.Feeds.WindowHours
	}
	if override.Feeds.PerFeedLimit > 0 {
		base.Feeds.PerFeedLimit = override.Feeds.PerFeedLimit
	}
	if override.Feeds.FetchContent {
		base.Feeds.FetchContent = true
	}

	if len(override.Render.FontCandidates) > 0 {
		base.Render.FontCandidates = override.Render.FontCandidates
	}
	if override.Render.TimeoutSeconds > 0 {
		base.Render.TimeoutSeconds = override.Render.TimeoutSeconds
	}

	if override.Publish.Timezone != "" {
		base.Publish.Timezone = override.Publish.Timezone
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		AI: AIConfig{
			Provider: "gemini",
			Gemini: GeminiConfig{
				Endpoint: "https://generativelanguage.googleapis.com/v1beta",
				Model:    "gemini-2.5-flash",
			},
			Anthropic: AnthropicConfig{
				Model:     "claude-3-5-sonnet-20241022",
				MaxTokens: 4096,
			},
			ChatGPT: ChatGPTConfig{
				Endpoint: "https://api.openai.com/v1",
				Model:    "gpt-4o-mini",
			},
		},
		Tracking: TrackingConfig{
			File:      "social/tracking.json",
			OutputDir: "social",
		},
		Feeds: FeedsConfig{
			OPMLFile:     "hn-blogs-2025.opml",
			DigestDir:    ".",
			WindowHours:  24,
			PerFeedLimit: 10,
		},
		Render: RenderConfig{
			FontCandidates: []string{
				"/System/Library/Fonts/STHeiti Medium.ttc",
				"/System/Library/Fonts/Hiragino Sans GB.ttc",
				"/System/Library/Fonts/Supplemental/Songti.ttc",
				"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
			},
			TimeoutSeconds: 60,
		},
		Publish: PublishConfig{Timezone: defaultTimezone},
	}
}
