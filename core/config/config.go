package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/termreel/core/recorder"
	"github.com/yourusername/termreel/core/render"
	"github.com/yourusername/termreel/internal/logging"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds everything needed to record one command. The same struct is
// read from the YAML file, environment variables and flags.
type Config struct {
	Command string `yaml:"command,omitempty" mapstructure:"command"`
	Output  string `yaml:"output" mapstructure:"output"`
	Shell   string `yaml:"shell,omitempty" mapstructure:"shell"`

	// Cols and Rows of 0 inherit the size of the current terminal.
	Cols int `yaml:"cols" mapstructure:"cols"`
	Rows int `yaml:"rows" mapstructure:"rows"`

	Prompt      string        `yaml:"prompt" mapstructure:"prompt"`
	TypingSpeed float64       `yaml:"typing_speed" mapstructure:"typing_speed"`
	TypingPause time.Duration `yaml:"typing_pause" mapstructure:"typing_pause"`
	FPS         float64       `yaml:"fps" mapstructure:"fps"`
	Hold        time.Duration `yaml:"hold" mapstructure:"hold"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxDuration time.Duration `yaml:"max_duration" mapstructure:"max_duration"`
	MaxFrames   int           `yaml:"max_frames" mapstructure:"max_frames"`
	Grace       time.Duration `yaml:"grace" mapstructure:"grace"`
	ShowCursor  bool          `yaml:"show_cursor" mapstructure:"show_cursor"`

	Render RenderConfig `yaml:"render" mapstructure:"render"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`

	configPath string
}

// RenderConfig controls how frames look.
type RenderConfig struct {
	Theme      string  `yaml:"theme" mapstructure:"theme"`
	FontSize   float64 `yaml:"font_size" mapstructure:"font_size"`
	LineHeight float64 `yaml:"line_height" mapstructure:"line_height"`
	Padding    int     `yaml:"padding" mapstructure:"padding"`
	WindowBar  bool    `yaml:"window_bar" mapstructure:"window_bar"`
	MaxWidth   int     `yaml:"max_width" mapstructure:"max_width"`
}

// LogConfig controls the JSON log.
type LogConfig struct {
	File  string `yaml:"file,omitempty" mapstructure:"file"`
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/termreel/config.yaml, falling
// back to ~/.config.
func DefaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "termreel", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".termreel", "config.yaml")
	}
	return filepath.Join(home, ".config", "termreel", "config.yaml")
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	layout := render.DefaultLayout()
	return &Config{
		Output:      "termreel.gif",
		Prompt:      recorder.DefaultPrompt,
		TypingSpeed: recorder.DefaultTypingSpeed,
		TypingPause: recorder.DefaultTypingPause,
		FPS:         recorder.DefaultFPS,
		Hold:        recorder.DefaultHold,
		Timeout:     30 * time.Second,
		Grace:       recorder.DefaultGrace,
		Render: RenderConfig{
			Theme:      "default",
			FontSize:   layout.FontSize,
			LineHeight: layout.LineHeight,
			Padding:    layout.Padding,
		},
		Log: LogConfig{Level: logging.LevelInfo},
	}
}

// Load reads the YAML file at path on top of the defaults. A missing file
// is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	cfg := DefaultConfig()
	cfg.configPath = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.expandEnvVars()
	return cfg, nil
}

// Path returns the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.configPath
}

// Save writes the config back to the file it was loaded from, or to the
// default path.
func (c *Config) Save() error {
	if c.configPath == "" {
		c.configPath = DefaultConfigPath()
	}
	return SaveToFile(c, c.configPath)
}

// SaveToFile writes c as YAML to filename.
func SaveToFile(c *Config, filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the config as YAML. The command is never persisted.
func (c *Config) Marshal() ([]byte, error) {
	out := *c
	out.Command = ""
	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	return c.validate(true)
}

// ValidateSettings is Validate without requiring a command, for checking
// a config file on its own.
func (c *Config) ValidateSettings() error {
	return c.validate(false)
}

func (c *Config) validate(needCommand bool) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if needCommand && strings.TrimSpace(c.Command) == "" {
		add("no command given")
	}
	if c.Output == "" {
		add("output path is empty")
	} else if ext := strings.ToLower(filepath.Ext(c.Output)); ext != ".gif" {
		add("output %q must end in .gif", c.Output)
	}
	if c.Cols < 0 || c.Rows < 0 {
		add("cols and rows must not be negative (got %dx%d)", c.Cols, c.Rows)
	}
	if c.TypingSpeed <= 0 {
		add("typing_speed must be positive (got %v)", c.TypingSpeed)
	}
	if c.FPS <= 0 || c.FPS > 100 {
		add("fps must be in (0, 100] (got %v)", c.FPS)
	}
	for name, d := range map[string]time.Duration{
		"typing_pause": c.TypingPause,
		"hold":         c.Hold,
		"timeout":      c.Timeout,
		"max_duration": c.MaxDuration,
		"grace":        c.Grace,
	} {
		if d < 0 {
			add("%s must not be negative (got %s)", name, d)
		}
	}
	if c.MaxFrames < 0 {
		add("max_frames must not be negative (got %d)", c.MaxFrames)
	}
	if _, err := render.LookupTheme(c.Render.Theme); err != nil {
		add("%v (available: %s)", err, strings.Join(render.ThemeNames(), ", "))
	}
	if c.Render.FontSize <= 0 {
		add("render.font_size must be positive (got %v)", c.Render.FontSize)
	}
	if c.Render.LineHeight < 1 {
		add("render.line_height must be at least 1 (got %v)", c.Render.LineHeight)
	}
	if c.Render.Padding < 0 || c.Render.MaxWidth < 0 {
		add("render.padding and render.max_width must not be negative")
	}
	if !logging.IsValidLevel(c.Log.Level) {
		add("log.level %q is not one of %s", c.Log.Level, strings.Join(logging.ValidLevels(), ", "))
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

// Layout converts the render settings for a cols x rows grid.
func (c *Config) Layout(cols, rows int) (render.Layout, error) {
	theme, err := render.LookupTheme(c.Render.Theme)
	if err != nil {
		return render.Layout{}, err
	}
	return render.Layout{
		Cols:       cols,
		Rows:       rows,
		FontSize:   c.Render.FontSize,
		LineHeight: c.Render.LineHeight,
		Padding:    c.Render.Padding,
		Theme:      theme,
		WindowBar:  c.Render.WindowBar,
		MaxWidth:   c.Render.MaxWidth,
	}, nil
}

// RecorderOptions converts the timeline settings for a cols x rows grid.
func (c *Config) RecorderOptions(cols, rows int) recorder.Options {
	return recorder.Options{
		Command:     c.Command,
		Prompt:      c.Prompt,
		Cols:        cols,
		Rows:        rows,
		TypingSpeed: c.TypingSpeed,
		TypingPause: c.TypingPause,
		FPS:         c.FPS,
		Hold:        c.Hold,
		MaxDuration: c.MaxDuration,
		MaxFrames:   c.MaxFrames,
		Grace:       c.Grace,
		ShowCursor:  c.ShowCursor,
	}
}

// expandEnvVars expands ${VAR} references in path-like values.
func (c *Config) expandEnvVars() {
	c.Output = os.ExpandEnv(c.Output)
	c.Shell = os.ExpandEnv(c.Shell)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
