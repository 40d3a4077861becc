package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core/security"
	"github.com/spf13/viper"
)

const (
	ConfigFileName = "config"
	ConfigFileType = "yaml"
	JarvisDirName  = ".jarvis"
	EnvPrefix      = "JARVIS"
)

// Config holds the application configuration
type Config struct {
	General  GeneralConfig   `mapstructure:"general"`
	Security security.Policy `mapstructure:"security"`
	Voice    VoiceConfig     `mapstructure:"voice"`
	UI       UIConfig        `mapstructure:"ui"`
	Features FeaturesConfig  `mapstructure:"features"`
	Lookup   LookupConfig    `mapstructure:"lookup"`
	Log      LogConfig       `mapstructure:"log"`
}

// GeneralConfig holds assistant identity settings
type GeneralConfig struct {
	WakeWord string `mapstructure:"wake_word"`
	Name     string `mapstructure:"name"`
	Debug    bool   `mapstructure:"debug"`
}

// VoiceConfig holds speech settings
type VoiceConfig struct {
	Output VoiceOutputConfig `mapstructure:"output"`
}

// VoiceOutputConfig configures the text-to-speech program
type VoiceOutputConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Command is the TTS program and its arguments; text is written to stdin.
	Command  string `mapstructure:"command"`
	MaxChars int    `mapstructure:"max_chars"`
}

// UIConfig holds display settings
type UIConfig struct {
	Width          int          `mapstructure:"width"`
	RenderMarkdown bool         `mapstructure:"render_markdown"`
	Colors         ColorsConfig `mapstructure:"colors"`
}

// ColorsConfig holds the panel palette
type ColorsConfig struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
}

// FeaturesConfig toggles the online handlers
type FeaturesConfig struct {
	WebSearch bool `mapstructure:"web_search"`
	Wikipedia bool `mapstructure:"wikipedia"`
}

// LookupConfig configures the web search and encyclopedia clients
type LookupConfig struct {
	SearchURL    string        `mapstructure:"search_url"`
	WikipediaURL string        `mapstructure:"wikipedia_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Results      int           `mapstructure:"results"`
	CacheSize    int           `mapstructure:"cache_size"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	UserAgent    string        `mapstructure:"user_agent"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			WakeWord: "jarvis",
			Name:     "JARVIS",
		},
		Security: *security.DefaultPolicy(),
		Voice: VoiceConfig{
			Output: VoiceOutputConfig{
				Command:  "espeak --stdin",
				MaxChars: 200,
			},
		},
		UI: UIConfig{
			Width:          80,
			RenderMarkdown: true,
			Colors: ColorsConfig{
				Primary:   "#00D4FF",
				Secondary: "#0099CC",
				Accent:    "#FF6B35",
				Text:      "#FFFFFF",
			},
		},
		Features: FeaturesConfig{
			WebSearch: true,
			Wikipedia: true,
		},
		Lookup: LookupConfig{
			SearchURL:    "https://api.duckduckgo.com/",
			WikipediaURL: "https://en.wikipedia.org/api/rest_v1/page/summary/",
			Timeout:      10 * time.Second,
			Results:      5,
			CacheSize:    128,
			CacheTTL:     10 * time.Minute,
			UserAgent:    "JARVIS-Assistant/1.0",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Policy returns a copy of the security section
func (c *Config) Policy() *security.Policy {
	return c.Security.Clone()
}

// GetConfigDir returns the jarvis config directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, JarvisDirName), nil
}

// ConfigPath returns the config file path inside dir
func ConfigPath(dir string) string {
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileType)
}

// InitConfig loads the config file at path. An empty path means the default
// file in the config directory. A missing file yields the defaults.
// Environment variables prefixed JARVIS_ override file values.
func InitConfig(path string) (*Config, error) {
	if path == "" {
		dir, err := GetConfigDir()
		if err != nil {
			return nil, err
		}
		path = ConfigPath(dir)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(ConfigFileType)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range configValues(DefaultConfig()) {
		v.SetDefault(key, value)
	}

	// Read config file (ignore if not exists)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects values the runtime cannot work with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.General.WakeWord) == "" {
		return errors.New("config: general.wake_word must not be empty")
	}
	if c.Security.MaxExecutionTime <= 0 {
		return fmt.Errorf("config: security.max_execution_time must be positive, got %d", c.Security.MaxExecutionTime)
	}
	if c.Security.MaxOutputSize <= 0 {
		return fmt.Errorf("config: security.max_output_size must be positive, got %d", c.Security.MaxOutputSize)
	}
	if c.Voice.Output.MaxChars < 0 {
		return fmt.Errorf("config: voice.output.max_chars must not be negative, got %d", c.Voice.Output.MaxChars)
	}
	return nil
}

// SaveConfig writes cfg to path, creating the directory if needed
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType(ConfigFileType)
	for key, value := range configValues(cfg) {
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Settings returns cfg flattened into dotted keys, sorted by key
func Settings(cfg *Config) []Setting {
	values := configValues(cfg)
	settings := make([]Setting, 0, len(values))
	for key, value := range values {
		settings = append(settings, Setting{Key: key, Value: value})
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })
	return settings
}

// Setting is one flattened config entry
type Setting struct {
	Key   string
	Value any
}

// configValues flattens cfg into viper keys
func configValues(cfg *Config) map[string]any {
	return map[string]any{
		"general.wake_word": cfg.General.WakeWord,
		"general.name":      cfg.General.Name,
		"general.debug":     cfg.General.Debug,

		"security.allowed_commands":   cfg.Security.AllowedCommands,
		"security.forbidden_patterns": cfg.Security.ForbiddenPatterns,
		"security.max_execution_time": cfg.Security.MaxExecutionTime,
		"security.max_output_size":    cfg.Security.MaxOutputSize,
		"security.work_dir":           cfg.Security.WorkDir,

		"voice.output.enabled":   cfg.Voice.Output.Enabled,
		"voice.output.command":   cfg.Voice.Output.Command,
		"voice.output.max_chars": cfg.Voice.Output.MaxChars,

		"ui.width":            cfg.UI.Width,
		"ui.render_markdown":  cfg.UI.RenderMarkdown,
		"ui.colors.primary":   cfg.UI.Colors.Primary,
		"ui.colors.secondary": cfg.UI.Colors.Secondary,
		"ui.colors.accent":    cfg.UI.Colors.Accent,
		"ui.colors.text":      cfg.UI.Colors.Text,

		"features.web_search": cfg.Features.WebSearch,
		"features.wikipedia":  cfg.Features.Wikipedia,

		"lookup.search_url":    cfg.Lookup.SearchURL,
		"lookup.wikipedia_url": cfg.Lookup.WikipediaURL,
		"lookup.timeout":       cfg.Lookup.Timeout.String(),
		"lookup.results":       cfg.Lookup.Results,
		"lookup.cache_size":    cfg.Lookup.CacheSize,
		"lookup.cache_ttl":     cfg.Lookup.CacheTTL.String(),
		"lookup.user_agent":    cfg.Lookup.UserAgent,

		"log.level": cfg.Log.Level,
		"log.json":  cfg.Log.JSON,
	}
}
