package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Version is the tool version written into fresh config files.
const Version = "1.0.0"

// Hotkey is the key combination that triggers a capture in watch mode.
type Hotkey struct {
	Modifiers []string `json:"modifiers"` // ctrl, alt, shift, win/cmd
	Key       string   `json:"key"`       // main key: s, a, 1, f1 ...
}

// Config holds the persisted user settings.
type Config struct {
	Version          string `json:"version"`
	OutputDir        string `json:"output_dir"`
	Format           string `json:"format"` // png, jpg, jpeg
	IncludeTimestamp bool   `json:"include_timestamp"`
	JpegQuality      int    `json:"jpeg_quality"` // 1-100
	Notify           bool   `json:"notify"`
	Hotkey           Hotkey `json:"hotkey"`
}

// Overrides are per-call settings that take precedence over the
// persisted config.
type Overrides struct {
	OutputDir   string
	Format      string
	JpegQuality int
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version:          Version,
		OutputDir:        ".",
		Format:           "png",
		IncludeTimestamp: true,
		JpegQuality:      90,
		Notify:           true,
		Hotkey: Hotkey{
			Modifiers: []string{"ctrl", "alt"},
			Key:       "s",
		},
	}
}

// DefaultPath returns the user-scoped config file path.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".screensnaprc"
	}
	return filepath.Join(homeDir, ".screensnaprc")
}

// Load reads the config file at path (DefaultPath when empty). A missing
// file, a parse error, or invalid values never fail the caller: the
// returned Config is always usable, with bad fields repaired to defaults.
// The error reports why the file contents were not used as-is.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		// First-run convenience write. Failure must never block a capture.
		_ = cfg.save(path)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), err
	}

	// Unmarshal over the defaults so missing keys keep their default value.
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return Default(), err
	}

	cfg.Validate()
	return cfg, nil
}

// Validate repairs invalid values in place, substituting defaults.
func (c *Config) Validate() {
	defaults := Default()

	format := strings.ToLower(c.Format)
	if !ValidFormat(format) {
		c.Format = defaults.Format
	} else {
		c.Format = format
	}

	if c.JpegQuality < 1 || c.JpegQuality > 100 {
		c.JpegQuality = defaults.JpegQuality
	}

	if c.OutputDir == "" {
		c.OutputDir = defaults.OutputDir
	}

	if c.Hotkey.Key == "" || len(c.Hotkey.Modifiers) == 0 {
		c.Hotkey = defaults.Hotkey
	}
}

// ValidFormat reports whether s is a supported image format.
func ValidFormat(s string) bool {
	switch strings.ToLower(s) {
	case "png", "jpg", "jpeg":
		return true
	}
	return false
}

// Resolve returns a copy of c with the given overrides applied on top.
// Zero-value override fields are ignored. The receiver is not modified.
func (c *Config) Resolve(o Overrides) *Config {
	out := *c
	if o.OutputDir != "" {
		out.OutputDir = o.OutputDir
	}
	if o.Format != "" {
		out.Format = o.Format
	}
	if o.JpegQuality != 0 {
		out.JpegQuality = o.JpegQuality
	}
	out.Validate()
	return &out
}

// SetHotkey updates the watch-mode hotkey and persists the config.
func (c *Config) SetHotkey(path string, modifiers []string, key string) error {
	c.Hotkey.Modifiers = modifiers
	c.Hotkey.Key = key
	return c.Save(path)
}

// Save writes the config to path (DefaultPath when empty).
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	return c.save(path)
}

func (c *Config) save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
