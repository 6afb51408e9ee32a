package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"

	"dropsel/internal/eventbus"
)

// Config describes a page of dropdowns
type Config struct {
	Version   int        `toml:"version" yaml:"version"`
	LogFile   string     `toml:"log_file,omitempty" yaml:"log_file,omitempty"`
	Dropdowns []Dropdown `toml:"dropdown" yaml:"dropdowns"`
}

// Dropdown is the mount configuration and data of one control
type Dropdown struct {
	Name        string `toml:"name" yaml:"name"`
	Label       string `toml:"label,omitempty" yaml:"label,omitempty"`
	Multiple    bool   `toml:"multiple,omitempty" yaml:"multiple,omitempty"`
	Group       bool   `toml:"group,omitempty" yaml:"group,omitempty"`
	Field       string `toml:"field,omitempty" yaml:"field,omitempty"`
	TrackBy     string `toml:"trackby,omitempty" yaml:"trackby,omitempty"`
	Placeholder string `toml:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Disabled    bool   `toml:"disabled,omitempty" yaml:"disabled,omitempty"`
	Error       bool   `toml:"error,omitempty" yaml:"error,omitempty"`
	Data        []any  `toml:"data" yaml:"data"`
	Model       any    `toml:"model,omitempty" yaml:"model,omitempty"` // single mode initial value
}

// SelectedKey marks pre-selected records in multi mode
const SelectedKey = "selected"

// ConfigService handles configuration management
type ConfigService interface {
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus eventbus.EventBus
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	return &configService{}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	return &configService{bus: bus}
}

// LoadFromPath loads configuration from a specific path. The format follows
// the file extension (.toml, .yaml, .yml).
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	switch format(path) {
	case "toml":
		err = toml.Unmarshal(data, &cfg)
	case "yaml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:      path,
			Dropdowns: len(cfg.Dropdowns),
		})
	}

	return &cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch format(path) {
	case "toml":
		data, err = toml.Marshal(config)
	case "yaml":
		data, err = yaml.Marshal(config)
	default:
		return fmt.Errorf("unsupported config format: %s", path)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: path})
	}

	return nil
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	}
	return ""
}

// Validate checks that every dropdown has a unique, non-empty name
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Dropdowns))
	for i, d := range c.Dropdowns {
		if d.Name == "" {
			return fmt.Errorf("dropdown %d has no name", i)
		}
		if seen[d.Name] {
			return fmt.Errorf("duplicate dropdown name %q", d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

// Dropdown returns the dropdown with the given name
func (c *Config) Dropdown(name string) (*Dropdown, bool) {
	for i := range c.Dropdowns {
		if c.Dropdowns[i].Name == name {
			return &c.Dropdowns[i], true
		}
	}
	return nil, false
}

// RecordSelection stores a committed selection so that it is restored on
// the next load. Single dropdowns keep it in Model; multi dropdowns set the
// "selected" key of their record items.
func (c *Config) RecordSelection(name string, value any) error {
	d, ok := c.Dropdown(name)
	if !ok {
		return fmt.Errorf("unknown dropdown %q", name)
	}

	if !d.Multiple {
		d.Model = value
		return nil
	}

	selected, _ := value.([]any)
	for _, item := range d.Data {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		record[SelectedKey] = containsRecord(selected, record)
	}
	return nil
}

// containsRecord compares records ignoring their "selected" key, which
// differs between the stored data and the items a control published.
func containsRecord(items []any, record map[string]any) bool {
	want := withoutSelected(record)
	for _, item := range items {
		other, ok := item.(map[string]any)
		if ok && reflect.DeepEqual(want, withoutSelected(other)) {
			return true
		}
	}
	return false
}

func withoutSelected(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for k, v := range record {
		if k != SelectedKey {
			out[k] = v
		}
	}
	return out
}

// DefaultPath returns the default config location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "dropsel", "dropsel.toml")
}

// DefaultConfig returns the sample page
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		LogFile: "dropsel.log",
		Dropdowns: []Dropdown{
			{
				Name:        "color",
				Label:       "Color",
				Field:       "color",
				TrackBy:     "id",
				Placeholder: "Select a color...",
				Data: []any{
					map[string]any{"id": int64(1), "color": "Red"},
					map[string]any{"id": int64(2), "color": "White"},
					map[string]any{"id": int64(3), "color": "Green"},
					map[string]any{"id": int64(4), "color": "Blue"},
				},
				Model: map[string]any{"id": int64(3), "color": "Green"},
			},
			{
				Name:        "numbers",
				Label:       "Numbers",
				Multiple:    true,
				Group:       true,
				Placeholder: "Select numbers...",
				Data:        []any{int64(2), int64(3), int64(4), int64(6)},
			},
			{
				Name:        "sizes",
				Label:       "Sizes",
				Multiple:    true,
				Field:       "name",
				Placeholder: "Select sizes...",
				Data: []any{
					map[string]any{"name": "S"},
					map[string]any{"name": "M", SelectedKey: true},
					map[string]any{"name": "L"},
				},
			},
			{
				Name:        "region",
				Label:       "Region",
				Placeholder: "Unavailable",
				Disabled:    true,
				Data:        []any{"eu", "us", "apac"},
			},
		},
	}
}
