// Package config loads the flowboard.toml configuration file.
//
// All settings are optional; a missing file yields the defaults. The file is
// looked up at the path given on the command line, falling back to
// ~/.config/flowboard/flowboard.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full application configuration.
type Config struct {
	Layout  LayoutConfig  `toml:"layout"`
	History HistoryConfig `toml:"history"`
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
}

// LayoutConfig holds spacing and force-layout constants.
type LayoutConfig struct {
	RankSpacing   float64 `toml:"rank_spacing"`
	NodeSpacing   float64 `toml:"node_spacing"`
	MarginX       float64 `toml:"margin_x"`
	MarginY       float64 `toml:"margin_y"`
	DefaultWidth  float64 `toml:"default_width"`
	DefaultHeight float64 `toml:"default_height"`

	ForceIterations int     `toml:"force_iterations"`
	ForceK          float64 `toml:"force_k"`
	ForceRepulsion  float64 `toml:"force_repulsion"`
	ForceAttraction float64 `toml:"force_attraction"`
}

// HistoryConfig bounds the undo/redo stacks.
type HistoryConfig struct {
	Limit int `toml:"limit"`
}

// StorageConfig selects and configures the blob store backend.
type StorageConfig struct {
	// Backend is one of "file", "memory", "redis", "mongo".
	Backend string `toml:"backend"`

	FileDir       string `toml:"file_dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			RankSpacing:     120,
			NodeSpacing:     40,
			MarginX:         50,
			MarginY:         50,
			DefaultWidth:    150,
			DefaultHeight:   60,
			ForceIterations: 50,
			ForceK:          180,
			ForceRepulsion:  0.8,
			ForceAttraction: 0.01,
		},
		History: HistoryConfig{Limit: 50},
		Storage: StorageConfig{Backend: "file"},
		Server:  ServerConfig{Addr: ":8484"},
	}
}

// DefaultPath returns the conventional config file location, or "" when the
// home directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "flowboard", "flowboard.toml")
}

// Load reads the config at path, layered over the defaults. An empty path
// uses DefaultPath. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
