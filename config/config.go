// Package config loads and validates chess-uci-mcp configuration.
//
// Configuration comes from a YAML file (engine path, UCI options, default
// think time) with a small search path of conventional locations. When no
// file exists, a built-in Stockfish default is used so the server can run
// on a stock install with zero setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default search locations, tried in order when no explicit path is given.
func searchPaths() []string {
	paths := []string{
		"./chess-uci-mcp.yaml",
		"./config.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "chess-uci-mcp", "config.yaml"))
	}
	paths = append(paths, "/etc/chess-uci-mcp/config.yaml")
	return paths
}

// Config is the full server configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine"`

	// DefaultThinkTime is the think budget in milliseconds used when a
	// request does not supply one.
	DefaultThinkTime int `yaml:"default_think_time"`

	// LogLevel is a zerolog level name ("debug", "info", "warn", ...).
	LogLevel string `yaml:"log_level"`
}

// EngineConfig describes the UCI engine to bridge.
type EngineConfig struct {
	// Path is the engine executable. "~" expands to the home directory.
	Path string `yaml:"path"`

	// Name is a display name; defaults to the executable's base name.
	Name string `yaml:"name"`

	// Options are UCI options applied at startup, in file order.
	Options Options `yaml:"options"`
}

// Option is one configured UCI option.
type Option struct {
	Name  string
	Value any
}

// Options preserves the configuration file's key order. Order matters:
// setoption commands are sent to the engine in the order configured.
type Options []Option

// UnmarshalYAML decodes a YAML mapping while keeping its key order,
// which plain map decoding would lose.
func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("config: engine options must be a mapping, got %s", nodeKind(node))
	}
	out := make(Options, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("config: option %s: %w", node.Content[i].Value, err)
		}
		out = append(out, Option{Name: node.Content[i].Value, Value: value})
	}
	*o = out
	return nil
}

// MarshalYAML renders the options as a mapping in slice order.
func (o Options) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, opt := range o {
		var value yaml.Node
		if err := value.Encode(opt.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: opt.Name},
			&value,
		)
	}
	return node, nil
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.MappingNode:
		return "a mapping"
	default:
		return "an unexpected node"
	}
}

// Default returns the built-in configuration: Stockfish at its usual
// install path with a modest hash and thread count.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Path: "/usr/local/bin/stockfish",
			Name: "Stockfish",
			Options: Options{
				{Name: "Threads", Value: 4},
				{Name: "Hash", Value: 128},
			},
		},
		DefaultThinkTime: 1000,
		LogLevel:         "info",
	}
}

// Load reads configuration from path. An empty path tries the default
// search locations and falls back to Default() when none exists. The
// result is normalized but not validated — call [Config.Validate] once
// flag overrides have been applied.
func Load(path string) (*Config, error) {
	if path != "" {
		cfg, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}
	for _, candidate := range searchPaths() {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		cfg, err := loadFile(candidate)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Default(), nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.normalize()
	return &cfg, nil
}

// normalize fills derivable defaults: think time, log level, display
// name, and home-directory expansion of the engine path.
func (c *Config) normalize() {
	if c.DefaultThinkTime <= 0 {
		c.DefaultThinkTime = 1000
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.Engine.Path = expandHome(c.Engine.Path)
	if c.Engine.Name == "" && c.Engine.Path != "" {
		c.Engine.Name = filepath.Base(c.Engine.Path)
	}
}

// Validate checks that the configuration names a runnable engine.
func (c *Config) Validate() error {
	if c.Engine.Path == "" {
		return fmt.Errorf("config: engine path is required")
	}
	info, err := os.Stat(c.Engine.Path)
	if err != nil {
		return fmt.Errorf("config: engine path %s: %w", c.Engine.Path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config: engine path %s is a directory", c.Engine.Path)
	}
	if info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("config: engine %s is not executable", c.Engine.Path)
	}
	return nil
}

// WriteDefault writes a starter configuration file to path, creating
// parent directories as needed.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || len(path) > 1 && path[0] == '~' && path[1] == filepath.Separator {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
