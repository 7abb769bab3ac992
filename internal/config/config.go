package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// Config holds the CLI configuration
type Config struct {
	Owner         string `json:"owner,omitempty"`
	Backend       string `json:"backend,omitempty"`
	Collection    string `json:"collection,omitempty"`
	FileDir       string `json:"file_dir,omitempty"`
	DefaultOutput string `json:"default_output,omitempty"`
	Clipboard     string `json:"clipboard,omitempty"`
}

// Defaults applied for keys left unset
const (
	DefaultBackend    = "auto"
	DefaultCollection = "login" // Secret Service default collection
	DefaultClipboard  = "on"
)

// Load reads config from XDG path, returns defaults if file doesn't exist
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from path, returns defaults if file doesn't exist
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to the XDG config path
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the config to path
func (c *Config) SaveTo(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to JSON (not JSON5 for writing - JSON is valid JSON5)
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with secure permissions
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Keys returns the config key names in declaration order
func Keys() []string {
	t := reflect.TypeOf(Config{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		keys = append(keys, jsonName(t.Field(i)))
	}
	return keys
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			return tag[:i]
		}
	}
	return tag
}

// field finds the struct field for a config key
func (c *Config) field(key string) (reflect.Value, error) {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		if jsonName(t.Field(i)) == key {
			return v.Field(i), nil
		}
	}

	return reflect.Value{}, fmt.Errorf("unknown config key: %s", key)
}

// Get retrieves a config value by key name
func (c *Config) Get(key string) (string, error) {
	f, err := c.field(key)
	if err != nil {
		return "", err
	}
	return f.String(), nil
}

// Set sets a config value by key name. The caller saves.
func (c *Config) Set(key, value string) error {
	f, err := c.field(key)
	if err != nil {
		return err
	}
	f.SetString(value)
	return nil
}

// Unset sets a config value to its zero value. The caller saves.
func (c *Config) Unset(key string) error {
	return c.Set(key, "")
}

// BackendOrDefault returns the configured store backend
func (c *Config) BackendOrDefault() string {
	if c.Backend == "" {
		return DefaultBackend
	}
	return c.Backend
}

// CollectionOrDefault returns the configured keyring collection
func (c *Config) CollectionOrDefault() string {
	if c.Collection == "" {
		return DefaultCollection
	}
	return c.Collection
}

// ClipboardEnabled reports whether get copies secrets to the clipboard
func (c *Config) ClipboardEnabled() bool {
	switch c.Clipboard {
	case "off", "false", "no", "0":
		return false
	}
	return true
}
