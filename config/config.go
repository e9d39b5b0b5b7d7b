package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/timzifer/vehiclesim/vehicle"
)

// Duration wraps time.Duration to support YAML unmarshalling from strings.
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses duration strings like "5s" or "1m".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		return fmt.Errorf("duration value node is nil")
	}
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decode duration: %w", err)
	}
	if raw == "" {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	d.Duration = dur
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// AreaConfig declares one valid area of an area-scoped property.
type AreaConfig struct {
	AreaID int32    `yaml:"area_id"`
	Name   string   `yaml:"name,omitempty"`
	Min    *float64 `yaml:"min,omitempty"`
	Max    *float64 `yaml:"max,omitempty"`
}

// PropertyConfig declares one property the bus knows about.
//
// A property with no areas is global and holds a single value. An area-scoped
// property holds one value per configured area. InitialValue seeds every area
// unless InitialAreaValues overrides it for a specific area; a property with
// neither starts absent and reads as not available until the first set.
type PropertyConfig struct {
	Prop              int32                      `yaml:"prop"`
	Name              string                     `yaml:"name,omitempty"`
	Areas             []AreaConfig               `yaml:"areas,omitempty"`
	InitialValue      *vehicle.RawValue          `yaml:"initial_value,omitempty"`
	InitialAreaValues map[int32]vehicle.RawValue `yaml:"initial_area_values,omitempty"`
}

// Global reports whether the property holds a single area-less value.
func (p PropertyConfig) Global() bool {
	return len(p.Areas) == 0
}

// HasArea reports whether the area id is configured for the property. Global
// properties only accept area zero.
func (p PropertyConfig) HasArea(areaID int32) bool {
	if p.Global() {
		return areaID == vehicle.AreaGlobal
	}
	for _, area := range p.Areas {
		if area.AreaID == areaID {
			return true
		}
	}
	return false
}

// PropertyRef addresses one property/area pair from a rule.
type PropertyRef struct {
	Prop   int32 `yaml:"prop"`
	AreaID int32 `yaml:"area_id,omitempty"`
}

// RuleConfig wires a derived property: whenever the trigger is successfully
// written, the expression is evaluated against the new payload and the result
// is written to the target.
type RuleConfig struct {
	ID         string      `yaml:"id"`
	Trigger    PropertyRef `yaml:"trigger"`
	Target     PropertyRef `yaml:"target"`
	Expression string      `yaml:"expression"`
	Type       string      `yaml:"type,omitempty"`
	Disable    bool        `yaml:"disable,omitempty"`
}

// LokiConfig configures optional Loki integration for logging.
type LokiConfig struct {
	Enabled bool              `yaml:"enabled"`
	URL     string            `yaml:"url"`
	Labels  map[string]string `yaml:"labels"`
}

// LoggingConfig encapsulates runtime logging options.
type LoggingConfig struct {
	Level  string     `yaml:"level"`
	Format string     `yaml:"format,omitempty"`
	Loki   LokiConfig `yaml:"loki"`
}

// TelemetryConfig configures runtime telemetry exporters.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider,omitempty"`
}

// InspectorConfig configures the optional HTTP state inspector.
type InspectorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen,omitempty"`
}

// Config is the root configuration structure for the simulator.
type Config struct {
	Name        string          `yaml:"name,omitempty"`
	Description string          `yaml:"description,omitempty"`
	Logging     LoggingConfig   `yaml:"logging"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
	Inspector   InspectorConfig `yaml:"inspector"`
	HotReload   bool            `yaml:"hot_reload,omitempty"`
	// ReloadInterval is the poll interval for hot reload; zero means one second.
	ReloadInterval Duration         `yaml:"reload_interval,omitempty"`
	Properties     []PropertyConfig `yaml:"properties"`
	Rules          []RuleConfig     `yaml:"rules,omitempty"`
}

// ReloadPollInterval returns the configured hot-reload poll interval.
func (c *Config) ReloadPollInterval() time.Duration {
	if c == nil || c.ReloadInterval.Duration <= 0 {
		return time.Second
	}
	return c.ReloadInterval.Duration
}

// Load reads and decodes the configuration file from disk. An empty path
// yields a configuration backed entirely by the built-in property table.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := &Config{Properties: DefaultProperties(), Rules: DefaultRules()}
		return cfg, cfg.Validate()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if len(cfg.Properties) == 0 {
		cfg.Properties = DefaultProperties()
		if len(cfg.Rules) == 0 {
			cfg.Rules = DefaultRules()
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks property and rule declarations for internal consistency.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	props := make(map[int32]*PropertyConfig, len(c.Properties))
	for i := range c.Properties {
		prop := &c.Properties[i]
		if prop.Prop == 0 {
			return fmt.Errorf("property %q: id must not be zero", prop.Name)
		}
		if _, ok := props[prop.Prop]; ok {
			return fmt.Errorf("duplicate property id %#x", prop.Prop)
		}
		areas := make(map[int32]struct{}, len(prop.Areas))
		for _, area := range prop.Areas {
			if area.AreaID == vehicle.AreaGlobal {
				return fmt.Errorf("property %#x: area id must not be zero", prop.Prop)
			}
			if _, ok := areas[area.AreaID]; ok {
				return fmt.Errorf("property %#x: duplicate area id %#x", prop.Prop, area.AreaID)
			}
			areas[area.AreaID] = struct{}{}
		}
		for areaID := range prop.InitialAreaValues {
			if _, ok := areas[areaID]; !ok {
				return fmt.Errorf("property %#x: initial value for unknown area %#x", prop.Prop, areaID)
			}
		}
		if prop.Global() && len(prop.InitialAreaValues) > 0 {
			return fmt.Errorf("property %#x: global property must not carry area values", prop.Prop)
		}
		props[prop.Prop] = prop
	}
	seenRules := make(map[string]struct{}, len(c.Rules))
	for _, rule := range c.Rules {
		if rule.ID == "" {
			return errors.New("rule id must not be empty")
		}
		if _, ok := seenRules[rule.ID]; ok {
			return fmt.Errorf("duplicate rule id %q", rule.ID)
		}
		seenRules[rule.ID] = struct{}{}
		if rule.Expression == "" {
			return fmt.Errorf("rule %s: expression must not be empty", rule.ID)
		}
		for _, ref := range []PropertyRef{rule.Trigger, rule.Target} {
			prop, ok := props[ref.Prop]
			if !ok {
				return fmt.Errorf("rule %s: unknown property %#x", rule.ID, ref.Prop)
			}
			if !prop.HasArea(ref.AreaID) {
				return fmt.Errorf("rule %s: property %#x has no area %#x", rule.ID, ref.Prop, ref.AreaID)
			}
		}
		switch rule.Type {
		case "", "float", "int32", "int64":
		default:
			return fmt.Errorf("rule %s: unsupported result type %q", rule.ID, rule.Type)
		}
	}
	return nil
}

// Property returns the configuration for a property id, if declared.
func (c *Config) Property(prop int32) (*PropertyConfig, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Properties {
		if c.Properties[i].Prop == prop {
			return &c.Properties[i], true
		}
	}
	return nil, false
}
