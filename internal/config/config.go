// Package config handles configuration loading and ctx home resolution.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// ListConfig controls default listing behavior.
type ListConfig struct {
	IncludeAll bool `yaml:"include_all"` // show completed/cancelled by default
	Recent     bool `yaml:"recent"`      // order by recency instead of creation
}

// Config is the root per-home configuration.
type Config struct {
	Backend string     `yaml:"backend"` // "json" | "sqlite"
	List    ListConfig `yaml:"list"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{Backend: "json"}
}

// Load reads a per-home config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	// Unmarshal into a plain map so we can apply only the keys that are present.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if v, ok := raw["backend"].(string); ok && v != "" {
		cfg.Backend = v
	}
	if list, ok := raw["list"].(map[string]any); ok {
		if v, ok := list["include_all"].(bool); ok {
			cfg.List.IncludeAll = v
		}
		if v, ok := list["recent"].(bool); ok {
			cfg.List.Recent = v
		}
	}

	return cfg, nil
}

// ---------------------------------------------------------------------------
// Ctx home resolution
// ---------------------------------------------------------------------------

// globalConfigPath returns the path to the global ctxtrack config file.
// This file stores only ctx_home (and future global settings).
func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ctxtrack", "config.yaml"), nil
}

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// ResolveCtxHome returns the ctx home path and the source of the resolution.
// Priority: CTX_HOME env → persisted global config → ~/.ctx
// source is one of "env", "config", or "default".
func ResolveCtxHome() (path, source string) {
	if env := os.Getenv("CTX_HOME"); env != "" {
		p, err := normalizePath(env)
		if err == nil {
			return p, "env"
		}
	}

	if persisted, ok, _ := GetPersistedCtxHome(); ok {
		return persisted, "config"
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ctx"), "default"
}

// GetCtxHome returns the resolved ctx home path.
func GetCtxHome() string {
	path, _ := ResolveCtxHome()
	return path
}

// GetPersistedCtxHome reads ctx_home from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedCtxHome() (string, bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return "", false, nil
	}

	val, _ := raw["ctx_home"].(string)
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false, nil
	}

	p, err := normalizePath(val)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

// SetPersistedCtxHome normalizes path and persists it in the global config.
// Returns the normalized path.
func SetPersistedCtxHome(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}

	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", err
	}

	// Read existing global config, preserving any other keys.
	var raw map[string]any
	if data, err := os.ReadFile(cfgPath); err == nil {
		_ = yaml.Unmarshal(data, &raw)
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	raw["ctx_home"] = normalized

	out, err := yaml.Marshal(raw)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, out, 0o600); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedCtxHome removes ctx_home from the global config.
// Returns true if the key was present and removed.
// If the file becomes empty after removal it is deleted.
func ClearPersistedCtxHome() (bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return false, nil
	}

	if _, ok := raw["ctx_home"]; !ok {
		return false, nil
	}
	delete(raw, "ctx_home")

	if len(raw) == 0 {
		_ = os.Remove(cfgPath)
		return true, nil
	}

	out, err := yaml.Marshal(raw)
	if err != nil {
		return false, err
	}
	return true, os.WriteFile(cfgPath, out, 0o600)
}
