// Package config loads h5dev settings from h5dev.yaml and command-line flags.
package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the optional config file looked up in the working directory.
const FileName = "h5dev.yaml"

type Config struct {
	Server ServerConfig `yaml:"server"`
	Strip  StripConfig  `yaml:"strip"`
}

// ServerConfig controls the static file server.
type ServerConfig struct {
	Host  string `yaml:"host"`  // empty binds all interfaces
	Port  int    `yaml:"port"`  // default: 8000
	Root  string `yaml:"root"`  // document root (default: working directory)
	Index string `yaml:"index"` // document served for "/" (default: index.html)

	Gzip         bool `yaml:"gzip"`
	CacheHeaders bool `yaml:"cacheHeaders"`

	ReadTimeout     time.Duration `yaml:"readTimeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"writeTimeout"`    // default: 60s
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"` // default: 5s
}

// StripConfig controls the hardcoded text stripper.
type StripConfig struct {
	Target   string        `yaml:"target"` // default: index.html
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"` // default: 300ms
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Root:            ".",
			Index:           "index.html",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Strip: StripConfig{
			Target:   "index.html",
			Debounce: 300 * time.Millisecond,
		},
	}
}

// Load reads h5dev.yaml from the working directory on top of the defaults.
// A missing file is not an error; an unparsable one is logged and ignored.
func Load() *Config {
	cfg := Default()

	data, err := os.ReadFile(FileName)
	if err != nil {
		return cfg
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Warn("Ignoring invalid config file", "file", FileName, "error", err)
		cfg = Default()
	}

	cfg.validate()
	return cfg
}

// validate clamps values into usable ranges.
func (c *Config) validate() {
	s := &c.Server
	if s.Port < 0 || s.Port > 65535 {
		s.Port = 8000
	}
	if s.Root == "" {
		s.Root = "."
	}
	if s.Index == "" {
		s.Index = "index.html"
	}
	if s.ReadTimeout < 0 {
		s.ReadTimeout = 0
	}
	if s.WriteTimeout < 0 {
		s.WriteTimeout = 0
	}
	if s.ShutdownTimeout < 1*time.Second {
		s.ShutdownTimeout = 1 * time.Second
	}
	if s.ShutdownTimeout > 60*time.Second {
		s.ShutdownTimeout = 60 * time.Second
	}

	if c.Strip.Target == "" {
		c.Strip.Target = "index.html"
	}
	if c.Strip.Debounce < 10*time.Millisecond {
		c.Strip.Debounce = 10 * time.Millisecond
	}
	if c.Strip.Debounce > 5*time.Second {
		c.Strip.Debounce = 5 * time.Second
	}
}

// BindFlags registers serve flags whose defaults are the loaded values,
// so anything passed on the command line wins over h5dev.yaml.
func (s *ServerConfig) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&s.Host, "host", s.Host, "The host/IP to bind to (empty for all interfaces)")
	fs.IntVar(&s.Port, "port", s.Port, "The port to listen on")
	fs.StringVar(&s.Root, "root", s.Root, "Document root to serve")
	fs.StringVar(&s.Index, "index", s.Index, "Default document served for /")
	fs.BoolVar(&s.Gzip, "gzip", s.Gzip, "Gzip responses for clients that accept it")
	fs.BoolVar(&s.CacheHeaders, "cache-headers", s.CacheHeaders, "Send Cache-Control headers")
}

// BindFlags registers strip flags.
func (s *StripConfig) BindFlags(fs *flag.FlagSet) {
	fs.BoolVar(&s.Watch, "watch", s.Watch, "Re-run whenever the target file changes")
	fs.DurationVar(&s.Debounce, "debounce", s.Debounce, "Quiet period before re-running in watch mode")
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ResolveRoot makes Root absolute and checks that it is a directory.
func (s *ServerConfig) ResolveRoot() error {
	abs, err := filepath.Abs(s.Root)
	if err != nil {
		return fmt.Errorf("invalid document root %q: %w", s.Root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("document root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("document root %s is not a directory", abs)
	}
	s.Root = abs
	return nil
}
