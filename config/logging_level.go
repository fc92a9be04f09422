package config

import (
	"io"

	"go.viam.com/fab/logging"
)

// InitLogging builds the root logger named name inside registry. It writes to console, usually
// stderr so that logs stay apart from command output, and, when a log file is configured, to a
// rotated file. The command line debug flag wins over the configured level. The returned func
// closes the log file.
func InitLogging(
	cfg *Config,
	registry *logging.Registry,
	name string,
	console io.Writer,
	cmdLineDebug bool,
) (logging.Logger, func() error, error) {
	closeFn := func() error { return nil }
	appenders := []logging.Appender{logging.NewWriterAppender(console)}
	if cfg.Log.File != "" {
		file := logging.NewFileAppender(cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups)
		appenders = append(appenders, file)
		closeFn = file.Close
	}

	logger := registry.NewLogger(name, appenders...)
	level := logging.INFO
	if cfg.Log.Level != "" {
		parsed, err := logging.LevelFromString(cfg.Log.Level)
		if err != nil {
			return nil, closeFn, err
		}
		level = parsed
	}
	if cmdLineDebug || cfg.Debug {
		level = logging.DEBUG
	}
	if err := registry.Update(cfg.Log.Patterns, logger); err != nil {
		return nil, closeFn, err
	}
	logger.SetLevel(level)
	logger.Debugw("log level initialized", "level", level)
	return logger, closeFn, nil
}
