// Package config defines the file configuration of the fab command and the defaults it fills in.
package config

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gopkg.in/yaml.v3"

	"go.viam.com/fab/logging"
	"go.viam.com/fab/motionplan"
	"go.viam.com/fab/ros"
)

// DefaultConnectTimeout bounds dialing the rosbridge server when no connect timeout is configured.
const DefaultConnectTimeout = 10 * time.Second

// Config describes how to reach a rosbridge server and which robot to drive through it.
type Config struct {
	ConfigFilePath string `json:"-" yaml:"-"`

	Rosbridge RosbridgeConfig `json:"rosbridge" yaml:"rosbridge"`
	Robot     RobotConfig     `json:"robot" yaml:"robot"`
	// Planner and Cartesian hold request defaults decoded into motionplan options.
	Planner   map[string]interface{} `json:"planner,omitempty" yaml:"planner,omitempty"`
	Cartesian map[string]interface{} `json:"cartesian,omitempty" yaml:"cartesian,omitempty"`
	Log       LogConfig              `json:"log" yaml:"log"`
	Debug     bool                   `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// RosbridgeConfig is the address of the rosbridge websocket server.
type RosbridgeConfig struct {
	Host           string   `json:"host" yaml:"host"`
	Port           int      `json:"port" yaml:"port"`
	Secure         bool     `json:"secure,omitempty" yaml:"secure,omitempty"`
	Path           string   `json:"path,omitempty" yaml:"path,omitempty"`
	CallTimeout    Duration `json:"call_timeout,omitempty" yaml:"call_timeout,omitempty"`
	ConnectTimeout Duration `json:"connect_timeout,omitempty" yaml:"connect_timeout,omitempty"`
}

// RobotConfig points at the model of the robot. File paths are relative to the config file.
type RobotConfig struct {
	Name          string  `json:"name,omitempty" yaml:"name,omitempty"`
	ModelFile     string  `json:"model_file,omitempty" yaml:"model_file,omitempty"`
	SemanticsFile string  `json:"semantics_file,omitempty" yaml:"semantics_file,omitempty"`
	Scale         float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
	// MeshDir caches package:// resources fetched from the file server.
	MeshDir string `json:"mesh_dir,omitempty" yaml:"mesh_dir,omitempty"`
}

// LogConfig sets the log level, optional rotated log file and per logger levels.
type LogConfig struct {
	Level      string                        `json:"level,omitempty" yaml:"level,omitempty"`
	File       string                        `json:"file,omitempty" yaml:"file,omitempty"`
	MaxSizeMB  int                           `json:"max_size_mb,omitempty" yaml:"max_size_mb,omitempty"`
	MaxBackups int                           `json:"max_backups,omitempty" yaml:"max_backups,omitempty"`
	Patterns   []logging.LoggerPatternConfig `json:"patterns,omitempty" yaml:"patterns,omitempty"`
}

// Validate fills in defaults and reports the first invalid field.
func (c *Config) Validate(path string) error {
	if err := c.Rosbridge.Validate(joinPath(path, "rosbridge")); err != nil {
		return err
	}
	if err := c.Robot.Validate(joinPath(path, "robot")); err != nil {
		return err
	}
	if err := c.Log.Validate(joinPath(path, "log")); err != nil {
		return err
	}
	if _, err := c.MotionOptions(); err != nil {
		return utils.NewConfigValidationError(joinPath(path, "planner"), err)
	}
	if _, err := c.CartesianOptions(); err != nil {
		return utils.NewConfigValidationError(joinPath(path, "cartesian"), err)
	}
	return nil
}

// Validate fills in the default host, port and timeouts.
func (rc *RosbridgeConfig) Validate(path string) error {
	if rc.Host == "" {
		rc.Host = ros.DefaultHost
	}
	if strings.Contains(rc.Host, "://") {
		return utils.NewConfigValidationError(path, errors.Errorf("host %q must not carry a scheme", rc.Host))
	}
	if rc.Port == 0 {
		rc.Port = ros.DefaultPort
	}
	if rc.Port < 0 || rc.Port > 65535 {
		return utils.NewConfigValidationError(path, errors.Errorf("port %d out of range", rc.Port))
	}
	if rc.CallTimeout == 0 {
		rc.CallTimeout = Duration(ros.DefaultCallTimeout)
	}
	if rc.ConnectTimeout == 0 {
		rc.ConnectTimeout = Duration(DefaultConnectTimeout)
	}
	if rc.ConnectTimeout < 0 {
		return utils.NewConfigValidationError(path, errors.New("connect_timeout must be positive"))
	}
	return nil
}

// ClientConfig converts to the options of ros.Dial.
func (rc RosbridgeConfig) ClientConfig() ros.ClientConfig {
	return ros.ClientConfig{
		Host:        rc.Host,
		Port:        rc.Port,
		Secure:      rc.Secure,
		Path:        rc.Path,
		CallTimeout: time.Duration(rc.CallTimeout),
	}
}

// Validate checks the scale and that a semantics file comes with a model.
func (rc *RobotConfig) Validate(path string) error {
	if rc.Scale == 0 {
		rc.Scale = 1
	}
	if rc.Scale < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("scale must be positive, got %v", rc.Scale))
	}
	if rc.SemanticsFile != "" && rc.ModelFile == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "model_file")
	}
	return nil
}

// Validate checks the level and every logger pattern.
func (lc *LogConfig) Validate(path string) error {
	if lc.Level != "" {
		if _, err := logging.LevelFromString(lc.Level); err != nil {
			return utils.NewConfigValidationError(path, err)
		}
	}
	if lc.MaxSizeMB < 0 || lc.MaxBackups < 0 {
		return utils.NewConfigValidationError(path, errors.New("max_size_mb and max_backups must not be negative"))
	}
	for i, lpc := range lc.Patterns {
		if !logging.ValidatePattern(lpc.Pattern) {
			return utils.NewConfigValidationError(path, errors.Errorf("patterns[%d]: invalid pattern %q", i, lpc.Pattern))
		}
		if _, err := logging.LevelFromString(lpc.Level); err != nil {
			return utils.NewConfigValidationError(path, errors.Wrapf(err, "patterns[%d]", i))
		}
	}
	return nil
}

// MotionOptions decodes the planner section over the motion planning defaults.
func (c *Config) MotionOptions() (motionplan.MotionOptions, error) {
	return motionplan.MotionOptions{}.FromMap(c.Planner)
}

// CartesianOptions decodes the cartesian section over the cartesian planning defaults.
func (c *Config) CartesianOptions() (motionplan.CartesianOptions, error) {
	return motionplan.CartesianOptions{}.FromMap(c.Cartesian)
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

// Duration is a time.Duration written as a Go duration string ("1.5s") or as seconds.
type Duration time.Duration

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := parseDuration(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw interface{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := parseDuration(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func parseDuration(raw interface{}) (Duration, error) {
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return 0, err
		}
		return Duration(parsed), nil
	case float64:
		return Duration(v * float64(time.Second)), nil
	case int:
		return Duration(time.Duration(v) * time.Second), nil
	default:
		return 0, errors.Errorf("invalid duration %v", raw)
	}
}
