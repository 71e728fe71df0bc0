package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/brogergvhs/mangagrab/internal/providers"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Output  string `yaml:"output"`
	Workers int    `yaml:"workers"`
	Debug   bool   `yaml:"debug"`

	DefaultURL   string `yaml:"default_url"`
	DefaultRange string `yaml:"default_range"`
	DefaultList  string `yaml:"default_list"`

	// Timeouts are in seconds.
	BaseTimeout    int `yaml:"base_timeout"`
	InitialTimeout int `yaml:"initial_timeout"`
	TimeoutStep    int `yaml:"timeout_step"`
	TimeoutCeiling int `yaml:"timeout_ceiling"`
	MaxRounds      int `yaml:"max_rounds"`

	ConvertJPEG      bool `yaml:"convert_jpeg"`
	CloudflareBypass bool `yaml:"cloudflare_bypass"`

	Cookie     string            `yaml:"cookie"`
	CookieFile string            `yaml:"cookie_file"`
	UserAgent  string            `yaml:"user_agent"`
	Headers    map[string]string `yaml:"headers,omitempty"`

	Rules providers.Rules `yaml:"rules"`
}

type Options struct {
	IgnoreConfig     bool
	Debug            bool
	Output           string
	Workers          int
	DefaultURL       string
	DefaultRange     string
	DefaultList      string
	TimeoutCeiling   int
	MaxRounds        int
	ConvertJPEG      bool
	CloudflareBypass bool
	Cookie           string
	CookieFile       string
	UserAgent        string
}

func DefaultConfig() *Config {
	return &Config{
		Output:           "manga",
		Workers:          1,
		Debug:            false,
		DefaultURL:       "",
		DefaultRange:     "",
		DefaultList:      "",
		BaseTimeout:      5,
		InitialTimeout:   2,
		TimeoutStep:      1,
		TimeoutCeiling:   0,
		MaxRounds:        0,
		ConvertJPEG:      false,
		CloudflareBypass: false,
		Cookie:           "",
		CookieFile:       "",
		UserAgent:        "",
		Rules:            providers.MangaTown,
	}
}

func (c *Config) BaseTimeoutDuration() time.Duration {
	return time.Duration(c.BaseTimeout) * time.Second
}

func (c *Config) InitialTimeoutDuration() time.Duration {
	return time.Duration(c.InitialTimeout) * time.Second
}

func (c *Config) TimeoutStepDuration() time.Duration {
	return time.Duration(c.TimeoutStep) * time.Second
}

func (c *Config) TimeoutCeilingDuration() time.Duration {
	return time.Duration(c.TimeoutCeiling) * time.Second
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

func LoadMerged(opts Options) (*Config, string, error) {
	return DefaultStore().LoadMerged(opts)
}

// LoadMerged reads the active profile (or defaults) and applies CLI overrides.
func (s *Store) LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		return finish(cfg, opts, "(ignored config)")
	}

	activePath, err := s.ActivePath()
	if errors.Is(err, ErrNoConfig) || activePath == "" {
		cfg := DefaultConfig()
		return finish(cfg, opts, "(default config in memory)\nRun `mangagrab config init` to create an actual config\n")
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := Load(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	return finish(cfg, opts, activePath)
}

func finish(cfg *Config, opts Options, used string) (*Config, string, error) {
	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	if err := cfg.Rules.Validate(); err != nil {
		return nil, "", fmt.Errorf("config %s: %w", used, err)
	}

	return cfg, used, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	if o.Debug {
		c.Debug = true
	}
	if o.DefaultURL != "" {
		c.DefaultURL = o.DefaultURL
	}
	if o.DefaultRange != "" {
		c.DefaultRange = o.DefaultRange
	}
	if o.DefaultList != "" {
		c.DefaultList = o.DefaultList
	}
	if o.TimeoutCeiling != 0 {
		c.TimeoutCeiling = o.TimeoutCeiling
	}
	if o.MaxRounds != 0 {
		c.MaxRounds = o.MaxRounds
	}
	if o.ConvertJPEG {
		c.ConvertJPEG = true
	}
	if o.CloudflareBypass {
		c.CloudflareBypass = true
	}
	if o.Cookie != "" {
		c.Cookie = o.Cookie
	}
	if o.CookieFile != "" {
		c.CookieFile = o.CookieFile
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
}

func normalizeDefaults(c *Config) {
	if c.Output == "" {
		c.Output = "manga"
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.BaseTimeout <= 0 {
		c.BaseTimeout = 5
	}
	if c.InitialTimeout <= 0 {
		c.InitialTimeout = 2
	}
	if c.TimeoutStep <= 0 {
		c.TimeoutStep = 1
	}
	if c.TimeoutCeiling < 0 {
		c.TimeoutCeiling = 0
	}
	if c.MaxRounds < 0 {
		c.MaxRounds = 0
	}
	c.Rules = c.Rules.WithDefaults()
}

func (c *Config) Print() {
	if c.Output != "" {
		fmt.Printf(" -output: %s\n", c.Output)
	}
	fmt.Printf(" -workers: %d\n", c.Workers)
	fmt.Printf(" -timeouts: base=%ds initial=%ds step=%ds", c.BaseTimeout, c.InitialTimeout, c.TimeoutStep)
	if c.TimeoutCeiling > 0 {
		fmt.Printf(" ceiling=%ds", c.TimeoutCeiling)
	}
	fmt.Println()
	if c.MaxRounds > 0 {
		fmt.Printf(" -max_rounds: %d\n", c.MaxRounds)
	} else {
		fmt.Printf(" -max_rounds: unlimited\n")
	}
	if c.Debug {
		fmt.Printf(" -debug: %t\n", c.Debug)
	}
	if c.DefaultURL != "" {
		fmt.Printf(" -url: %s\n", c.DefaultURL)
	}
	if c.DefaultRange != "" {
		fmt.Printf(" -range: %s\n", c.DefaultRange)
	}
	if c.DefaultList != "" {
		fmt.Printf(" -list: %s\n", c.DefaultList)
	}
	if c.ConvertJPEG {
		fmt.Printf(" -convert_jpeg: %t\n", c.ConvertJPEG)
	}
	if c.CloudflareBypass {
		fmt.Printf(" -cloudflare_bypass: %t\n", c.CloudflareBypass)
	}
	if c.CookieFile != "" {
		fmt.Printf(" -cookie_file: %s\n", c.CookieFile)
	}
	if c.Rules != providers.MangaTown {
		fmt.Printf(" -rules.chapters: %s\n", c.Rules.Chapters)
		fmt.Printf(" -rules.pages: %s\n", c.Rules.Pages)
		fmt.Printf(" -rules.images: %s\n", c.Rules.Images)
	}
}
