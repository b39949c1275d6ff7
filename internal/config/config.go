package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/msalah0e/scentnet/internal/network"
	"github.com/msalah0e/scentnet/internal/validation"
)

// Config holds scentnet configuration.
type Config struct {
	Provider ProviderConfig `toml:"provider"`
	Filter   FilterConfig   `toml:"filter"`
	Serve    ServeConfig    `toml:"serve"`
	Log      LogConfig      `toml:"log"`
	UI       UIConfig       `toml:"ui"`
}

// ProviderConfig points at the network, facet and label endpoints.
type ProviderConfig struct {
	BaseURL    string `toml:"base_url" validate:"required,url"`
	GraphPath  string `toml:"graph_path" validate:"required,startswith=/"`
	FacetsPath string `toml:"facets_path" validate:"omitempty,startswith=/"`
	LabelsPath string `toml:"labels_path" validate:"omitempty,startswith=/"`
	Timeout    string `toml:"timeout" validate:"required"`
	MemberID   string `toml:"member_id"`
}

// TimeoutDuration parses Timeout, falling back to 10s.
func (p ProviderConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(p.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// FilterConfig is the filter state a session starts with.
type FilterConfig struct {
	Accords       []string `toml:"accords"`
	MinSimilarity float64  `toml:"min_similarity" validate:"gte=0,lte=1"`
	TopAccords    int      `toml:"top_accords" validate:"gte=0,lte=100"`
	DisplayLimit  int      `toml:"display_limit" validate:"gte=1,lte=10000"`
}

// ServeConfig controls `scentnet serve`.
type ServeConfig struct {
	Addr string `toml:"addr" validate:"required,hostname_port"`
}

// LogConfig controls diagnostics on stderr.
type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=trace debug info warn warning error disabled off"`
	Format string `toml:"format" validate:"oneof=console json"`
}

// UIConfig controls display options.
type UIConfig struct {
	Color bool `toml:"color"`
}

// Default returns the default configuration.
func Default() *Config {
	state := network.DefaultFilterState()
	return &Config{
		Provider: ProviderConfig{
			BaseURL:    "http://localhost:8080/api",
			GraphPath:  "/perfumes/network",
			FacetsPath: "/perfumes/network/filter-options",
			LabelsPath: "/perfumes/labels",
			Timeout:    "10s",
		},
		Filter: FilterConfig{
			Accords:       state.Accords,
			MinSimilarity: state.MinSimilarity,
			TopAccords:    state.TopAccords,
			DisplayLimit:  state.DisplayLimit,
		},
		Serve: ServeConfig{Addr: "127.0.0.1:7410"},
		Log:   LogConfig{Level: "warn", Format: "console"},
		UI:    UIConfig{Color: true},
	}
}

// FilterState converts the [filter] section into a session-start state.
func (c *Config) FilterState() network.FilterState {
	s := network.DefaultFilterState()
	s = s.With(network.FacetAccord, slices.Clone(c.Filter.Accords))
	s.MinSimilarity = c.Filter.MinSimilarity
	s.TopAccords = c.Filter.TopAccords
	s.DisplayLimit = c.Filter.DisplayLimit
	return s
}

// Validate checks every section.
func (c *Config) Validate() error {
	return validation.Struct(c)
}

// ConfigDir returns the scentnet config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "scentnet")
}

// Path returns the user config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// ProjectFile is looked up from the working directory upwards and layered
// over the user config.
const ProjectFile = ".scentnet.toml"

// Load reads the user config and any project config over the defaults.
// Missing or unreadable files leave the defaults in place.
func Load() *Config {
	cfg := Default()
	if data, err := os.ReadFile(Path()); err == nil {
		_ = toml.Unmarshal(data, cfg)
	}
	if p := findProjectConfig(); p != "" {
		if data, err := os.ReadFile(p); err == nil {
			_ = toml.Unmarshal(data, cfg)
		}
	}
	return cfg
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
// It reports whether a file was written.
func EnsureExists() (bool, error) {
	if _, err := os.Stat(Path()); err == nil {
		return false, nil
	}
	return true, Save(Default())
}

// ProjectPath returns the project config file in effect, or "".
func ProjectPath() string {
	return findProjectConfig()
}

func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		p := filepath.Join(dir, ProjectFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
