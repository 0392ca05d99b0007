package config

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable, e.g. TERMREEL_FPS or
// TERMREEL_RENDER_THEME.
const EnvPrefix = "TERMREEL"

// NewViper returns a viper instance seeded with the defaults, the
// TERMREEL_* environment and the config file at path (or the default
// path). A missing file leaves the defaults in place.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()

	defaults, err := defaultValues()
	if err != nil {
		return nil, err
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")

	if path == "" {
		path = DefaultConfigPath()
	}
	path = os.ExpandEnv(path)
	if !fileExists(path) {
		return v, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return v, nil
}

// FromViper decodes the merged settings of v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.configPath = v.ConfigFileUsed()
	cfg.expandEnvVars()
	return &cfg, nil
}

// Keys lists every setting in dotted form, e.g. "render.theme".
func Keys() []string {
	defaults, err := defaultValues()
	if err != nil {
		return nil
	}
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	return keys
}

// defaultValues flattens DefaultConfig into dotted keys. Fields that are
// omitted when empty are added explicitly so the environment can set them.
func defaultValues() (map[string]any, error) {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode defaults: %w", err)
	}

	out := map[string]any{
		"command":  "",
		"shell":    "",
		"log.file": "",
	}
	flatten("", tree, out)
	return out, nil
}

func flatten(prefix string, tree map[string]any, out map[string]any) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(key, sub, out)
			continue
		}
		out[key] = v
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Set assigns one dotted key from its string form, decoding it the same
// way as a flag or environment variable would be.
func (c *Config) Set(key, value string) error {
	if key == "command" || !slices.Contains(Keys(), key) {
		return fmt.Errorf("unknown config key %q", key)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	v.Set(key, value)

	var out Config
	if err := v.Unmarshal(&out); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	out.configPath = c.configPath
	*c = out
	return nil
}
