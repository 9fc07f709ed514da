package framework

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultIndent is the prefix of every detail line in a test report entry.
	DefaultIndent = "     "
	// DefaultDescribeWidth is the column at which description text is wrapped.
	DefaultDescribeWidth = 58
	// DefaultDelay is how long a registered test waits before its action starts.
	DefaultDelay = 25 * time.Millisecond
	// DefaultTitle is printed in the report header.
	DefaultTitle = "Suitest"
)

// Config holds the report and scheduling options of a Session. Unset fields fall back to the
// package defaults. It can be decoded from JSON directly, or loaded from a JSON or YAML file
// with LoadConfig.
type Config struct {
	Title          ldvalue.OptionalString `json:"title,omitempty"`
	Indent         ldvalue.OptionalString `json:"indent,omitempty"`
	DescribeWidth  ldvalue.OptionalInt    `json:"describeWidth,omitempty"`
	DefaultDelayMS ldvalue.OptionalInt    `json:"defaultDelayMs,omitempty"`
	RunTimeoutMS   ldvalue.OptionalInt    `json:"runTimeoutMs,omitempty"`
	Color          bool                   `json:"color,omitempty"`
}

// yamlConfig mirrors Config for YAML files, which ldvalue types cannot decode themselves.
type yamlConfig struct {
	Title          *string `yaml:"title"`
	Indent         *string `yaml:"indent"`
	DescribeWidth  *int    `yaml:"describeWidth"`
	DefaultDelayMS *int    `yaml:"defaultDelayMs"`
	RunTimeoutMS   *int    `yaml:"runTimeoutMs"`
	Color          bool    `yaml:"color"`
}

// LoadConfig reads a Config from a .json, .yaml or .yml file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var raw yamlConfig
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
		cfg = Config{
			Title:          ldvalue.NewOptionalStringFromPointer(raw.Title),
			Indent:         ldvalue.NewOptionalStringFromPointer(raw.Indent),
			DescribeWidth:  ldvalue.NewOptionalIntFromPointer(raw.DescribeWidth),
			DefaultDelayMS: ldvalue.NewOptionalIntFromPointer(raw.DefaultDelayMS),
			RunTimeoutMS:   ldvalue.NewOptionalIntFromPointer(raw.RunTimeoutMS),
			Color:          raw.Color,
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects negative sizes and durations.
func (c Config) Validate() error {
	if c.DescribeWidth.IsDefined() && c.DescribeWidth.IntValue() <= 0 {
		return fmt.Errorf("describeWidth must be positive, got %d", c.DescribeWidth.IntValue())
	}
	if c.DefaultDelayMS.IsDefined() && c.DefaultDelayMS.IntValue() < 0 {
		return fmt.Errorf("defaultDelayMs must not be negative, got %d", c.DefaultDelayMS.IntValue())
	}
	if c.RunTimeoutMS.IsDefined() && c.RunTimeoutMS.IntValue() < 0 {
		return fmt.Errorf("runTimeoutMs must not be negative, got %d", c.RunTimeoutMS.IntValue())
	}
	return nil
}

func (c Config) title() string {
	return c.Title.OrElse(DefaultTitle)
}

func (c Config) indent() string {
	return c.Indent.OrElse(DefaultIndent)
}

func (c Config) describeWidth() int {
	if w := c.DescribeWidth.OrElse(DefaultDescribeWidth); w > 0 {
		return w
	}
	return DefaultDescribeWidth
}

func (c Config) defaultDelay() time.Duration {
	if !c.DefaultDelayMS.IsDefined() {
		return DefaultDelay
	}
	return time.Duration(c.DefaultDelayMS.IntValue()) * time.Millisecond
}

// runTimeout returns zero when no overall timeout is configured.
func (c Config) runTimeout() time.Duration {
	return time.Duration(c.RunTimeoutMS.OrElse(0)) * time.Millisecond
}
