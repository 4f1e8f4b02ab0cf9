// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Entity locations recognized by the graph builder.
const (
	LocationKenya = "Kenya"
	LocationUSA   = "USA"
)

// Defaults applied when the YAML omits a setting.
const (
	DefaultRefreshInterval = 5 * time.Minute
	DefaultWebhookTimeout  = 10 * time.Second
	DefaultCommander       = "claude-commander"
	DefaultStatusEndpoint  = "gandi-status"
)

// Duration decodes "300ms"/"5m" style values from YAML and environment.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	td, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(td)
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler for env overrides.
func (d *Duration) UnmarshalText(text []byte) error {
	td, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(td)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Entity describes one tracked business unit. Presentation fields (icon,
// colors) are opaque to all logic except the graph builder's styling.
type Entity struct {
	Code      string `yaml:"code" json:"code"`
	Name      string `yaml:"name" json:"name"`
	Icon      string `yaml:"icon" json:"icon"`
	Color     string `yaml:"color" json:"color"`
	Glow      string `yaml:"glow" json:"glow"`
	Location  string `yaml:"location" json:"location"`
	Regulated bool   `yaml:"regulated" json:"regulated"`
}

// QuickAction maps a named dashboard action to an automation endpoint.
type QuickAction struct {
	Name     string `yaml:"name" json:"name"`
	Label    string `yaml:"label" json:"label"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`
}

// CenterConfig is the root configuration for the command center. The entity
// list is immutable after load; its declaration order is the canonical
// rendering order everywhere.
type CenterConfig struct {
	Entities          []Entity      `yaml:"entities"`
	SnapshotPath      string        `yaml:"snapshot_path" env:"CENTER_SNAPSHOT_PATH"`
	RefreshInterval   Duration      `yaml:"refresh_interval" env:"CENTER_REFRESH_INTERVAL"`
	WebhookBaseURL    string        `yaml:"webhook_base_url" env:"CENTER_WEBHOOK_BASE_URL"`
	WebhookTimeout    Duration      `yaml:"webhook_timeout" env:"CENTER_WEBHOOK_TIMEOUT"`
	CommanderEndpoint string        `yaml:"commander_endpoint"`
	StatusEndpoint    string        `yaml:"status_endpoint"`
	QuickActions      []QuickAction `yaml:"quick_actions"`
}

// Load loads YAML config, validates it against a CUE schema, and applies
// CENTER_* environment overrides on top.
func Load(configPath, cueSchemaPath string) (*CenterConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg CenterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *CenterConfig) applyDefaults() {
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = Duration(DefaultRefreshInterval)
	}
	if c.WebhookTimeout <= 0 {
		c.WebhookTimeout = Duration(DefaultWebhookTimeout)
	}
	if c.CommanderEndpoint == "" {
		c.CommanderEndpoint = DefaultCommander
	}
	if c.StatusEndpoint == "" {
		c.StatusEndpoint = DefaultStatusEndpoint
	}
}

// check rejects misconfiguration that must be fatal at startup.
func (c *CenterConfig) check() error {
	if len(c.Entities) == 0 {
		return fmt.Errorf("no entities defined in the configuration")
	}
	seen := make(map[string]struct{}, len(c.Entities))
	for _, e := range c.Entities {
		if e.Code == "" {
			return fmt.Errorf("entity with empty code")
		}
		if _, dup := seen[e.Code]; dup {
			return fmt.Errorf("duplicate entity code %q", e.Code)
		}
		seen[e.Code] = struct{}{}
	}
	names := make(map[string]struct{}, len(c.QuickActions))
	for _, a := range c.QuickActions {
		if a.Name == "" || a.Endpoint == "" {
			return fmt.Errorf("quick action needs name and endpoint")
		}
		if _, dup := names[a.Name]; dup {
			return fmt.Errorf("duplicate quick action %q", a.Name)
		}
		names[a.Name] = struct{}{}
	}
	return nil
}

// Entity returns the descriptor for code, or false if unknown.
func (c *CenterConfig) Entity(code string) (Entity, bool) {
	for _, e := range c.Entities {
		if e.Code == code {
			return e, true
		}
	}
	return Entity{}, false
}

// Action returns the quick action named name, or false if unknown.
func (c *CenterConfig) Action(name string) (QuickAction, bool) {
	for _, a := range c.QuickActions {
		if a.Name == name {
			return a, true
		}
	}
	return QuickAction{}, false
}
