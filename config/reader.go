package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"go.viam.com/fab/logging"
)

// Environment variables that override the rosbridge address of a config file.
const (
	EnvRosbridgeHost = "FAB_ROSBRIDGE_HOST"
	EnvRosbridgePort = "FAB_ROSBRIDGE_PORT"
)

// Read reads a config from the given file. ${VAR} references in the file are substituted from the
// environment before parsing. Files ending in .yaml or .yml are parsed as YAML, anything else as
// JSON.
func Read(ctx context.Context, filePath string, logger logging.Logger) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %q", filePath)
	}
	return FromReader(ctx, filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies where, if applicable, the file
// the reader originated from.
func FromReader(ctx context.Context, originalPath string, r io.Reader, logger logging.Logger) (*Config, error) {
	cfg := &Config{ConfigFilePath: originalPath}
	if err := decode(originalPath, r, cfg); err != nil {
		return nil, errors.Wrap(err, "cannot parse config")
	}
	return process(ctx, cfg, logger)
}

// Default returns the config used when no file is given: the environment overrides applied to
// an empty config.
func Default(ctx context.Context, logger logging.Logger) (*Config, error) {
	return process(ctx, &Config{}, logger)
}

func decode(originalPath string, r io.Reader, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(originalPath)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}
}

func process(ctx context.Context, cfg *Config, logger logging.Logger) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg, logger); err != nil {
		return nil, err
	}
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath != "" {
		dir := filepath.Dir(cfg.ConfigFilePath)
		cfg.Robot.ModelFile = resolvePath(dir, cfg.Robot.ModelFile)
		cfg.Robot.SemanticsFile = resolvePath(dir, cfg.Robot.SemanticsFile)
		cfg.Robot.MeshDir = resolvePath(dir, cfg.Robot.MeshDir)
		cfg.Log.File = resolvePath(dir, cfg.Log.File)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config, logger logging.Logger) error {
	if host, ok := os.LookupEnv(EnvRosbridgeHost); ok && host != "" {
		logger.Debugw("rosbridge host overridden from environment", "host", host)
		cfg.Rosbridge.Host = host
	}
	if portStr, ok := os.LookupEnv(EnvRosbridgePort); ok && portStr != "" {
		port, err := cast.ToIntE(portStr)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvRosbridgePort)
		}
		logger.Debugw("rosbridge port overridden from environment", "port", port)
		cfg.Rosbridge.Port = port
	}
	return nil
}

func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
