package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors ClientConfig as persisted in config.yaml. Unset fields
// leave the lower-precedence value in place.
type FileConfig struct {
	BaseURL        string `yaml:"api_base_url,omitempty" json:"api_base_url,omitempty"`
	APIPrefix      string `yaml:"api_prefix,omitempty" json:"api_prefix,omitempty"`
	TimeoutSeconds int    `yaml:"http_timeout_seconds,omitempty" json:"http_timeout_seconds,omitempty"`
	UserAgent      string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	Session        struct {
		Backend       string `yaml:"backend,omitempty" json:"backend,omitempty"`
		Path          string `yaml:"path,omitempty" json:"path,omitempty"`
		EncryptionKey string `yaml:"encryption_key,omitempty" json:"encryption_key,omitempty"`
		RedisAddr     string `yaml:"redis_addr,omitempty" json:"redis_addr,omitempty"`
		RedisPassword string `yaml:"redis_password,omitempty" json:"redis_password,omitempty"`
		RedisDB       int    `yaml:"redis_db,omitempty" json:"redis_db,omitempty"`
		DatabaseURL   string `yaml:"database_url,omitempty" json:"database_url,omitempty"`
		TTLHours      int    `yaml:"ttl_hours,omitempty" json:"ttl_hours,omitempty"`
	} `yaml:"session,omitempty" json:"session,omitempty"`
	Log struct {
		Level  string `yaml:"level,omitempty" json:"level,omitempty"`
		Format string `yaml:"format,omitempty" json:"format,omitempty"`
	} `yaml:"log,omitempty" json:"log,omitempty"`
}

// DefaultDir returns the per-user directory holding OneFlow client state.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "oneflow"), nil
}

// DefaultFilePath returns the location of config.yaml inside DefaultDir.
func DefaultFilePath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadFile reads a YAML settings file. With an empty path the default
// location is used and a missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	explicit := path != ""
	if !explicit {
		def, err := DefaultFilePath()
		if err != nil {
			return FileConfig{}, nil
		}
		path = def
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("read config file: %w", err)
	}
	var file FileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return FileConfig{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return file, nil
}

// SaveFile writes the settings file with owner-only permissions.
func SaveFile(path string, file FileConfig) error {
	if path == "" {
		def, err := DefaultFilePath()
		if err != nil {
			return err
		}
		path = def
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(file)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func (f FileConfig) apply(cfg ClientConfig) ClientConfig {
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.APIPrefix != "" {
		cfg.APIPrefix = f.APIPrefix
	}
	if f.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(f.TimeoutSeconds) * time.Second
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.Session.Backend != "" {
		cfg.Session.Backend = f.Session.Backend
	}
	if f.Session.Path != "" {
		cfg.Session.Path = f.Session.Path
	}
	if f.Session.EncryptionKey != "" {
		cfg.Session.EncryptionKey = f.Session.EncryptionKey
	}
	if f.Session.RedisAddr != "" {
		cfg.Session.RedisAddr = f.Session.RedisAddr
	}
	if f.Session.RedisPassword != "" {
		cfg.Session.RedisPassword = f.Session.RedisPassword
	}
	if f.Session.RedisDB != 0 {
		cfg.Session.RedisDB = f.Session.RedisDB
	}
	if f.Session.DatabaseURL != "" {
		cfg.Session.DatabaseURL = f.Session.DatabaseURL
	}
	if f.Session.TTLHours > 0 {
		cfg.Session.TTL = time.Duration(f.Session.TTLHours) * time.Hour
	}
	if f.Log.Level != "" {
		cfg.Log.Level = f.Log.Level
	}
	if f.Log.Format != "" {
		cfg.Log.Format = f.Log.Format
	}
	return cfg
}

// FileFromConfig converts cfg into its file form, e.g. to write the effective
// settings with SaveFile.
func FileFromConfig(cfg ClientConfig) FileConfig {
	var f FileConfig
	f.BaseURL = cfg.BaseURL
	f.APIPrefix = cfg.APIPrefix
	f.TimeoutSeconds = int(cfg.Timeout / time.Second)
	f.UserAgent = cfg.UserAgent
	f.Session.Backend = cfg.Session.Backend
	f.Session.Path = cfg.Session.Path
	f.Session.EncryptionKey = cfg.Session.EncryptionKey
	f.Session.RedisAddr = cfg.Session.RedisAddr
	f.Session.RedisPassword = cfg.Session.RedisPassword
	f.Session.RedisDB = cfg.Session.RedisDB
	f.Session.DatabaseURL = cfg.Session.DatabaseURL
	f.Session.TTLHours = int(cfg.Session.TTL / time.Hour)
	f.Log.Level = cfg.Log.Level
	f.Log.Format = cfg.Log.Format
	return f
}
