package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gridlot/mastermatch/pkg/constants"
)

// Config describes where and how a logger writes.
type Config struct {
	Level      string // trace, debug, info, warn, error, disabled
	Format     string // json, console, auto
	Output     string // stderr, stdout, discard or a file path
	TimeFormat string // kitchen, rfc3339, unix or a Go layout
	NoColor    bool
	AddCaller  bool

	// Fields are attached to every event, e.g. a deployment name.
	Fields map[string]string
}

// NewLoggerFromConfig builds a logger from cfg and sets the zerolog global
// level to match it.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = &Config{}
	}

	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	ctx := zerolog.New(writerFor(cfg)).Level(level).With().Timestamp()
	if cfg.AddCaller || level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	for k, v := range cfg.Fields {
		ctx = ctx.Str(k, v)
	}
	return ctx.Logger()
}

// Configure builds a logger from cfg, installs it as the default and
// returns it.
func Configure(cfg *Config) zerolog.Logger {
	logger := NewLoggerFromConfig(cfg)
	SetDefault(logger)
	return logger
}

// ConfigureFromEnv fills the settings base leaves empty from the LOG_*
// environment, then behaves like Configure. Values already in base win.
func ConfigureFromEnv(base *Config) zerolog.Logger {
	return Configure(envConfig(base))
}

// envConfig overlays LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT, LOG_TIME_FORMAT,
// LOG_CALLER, LOG_FIELDS and NO_COLOR onto a copy of base.
func envConfig(base *Config) *Config {
	cfg := Config{}
	if base != nil {
		cfg = *base
	}

	if cfg.Level == "" {
		cfg.Level = os.Getenv("LOG_LEVEL")
		if cfg.Level == "" && os.Getenv("DEBUG") != "" {
			cfg.Level = "debug"
		}
	}
	if cfg.Format == "" {
		cfg.Format = os.Getenv("LOG_FORMAT")
	}
	if cfg.Output == "" {
		cfg.Output = os.Getenv("LOG_OUTPUT")
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = os.Getenv("LOG_TIME_FORMAT")
	}
	cfg.NoColor = cfg.NoColor || os.Getenv("NO_COLOR") != ""
	cfg.AddCaller = cfg.AddCaller || os.Getenv("LOG_CALLER") == "true"

	fields := parseFields(os.Getenv("LOG_FIELDS"))
	for k, v := range cfg.Fields {
		fields[k] = v
	}
	cfg.Fields = fields
	return &cfg
}

func writerFor(cfg *Config) io.Writer {
	var out io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		out = os.Stdout
	case "", "stderr":
		out = os.Stderr
	case "discard", "none":
		out = io.Discard
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
		if err != nil {
			out = os.Stderr
		} else {
			out = file
		}
	}

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		format = "json"
		if f, ok := out.(*os.File); ok && isTerminal(f) {
			format = "console"
		}
	}
	if format == "console" || format == "pretty" {
		return zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: parseTimeFormat(cfg.TimeFormat),
			NoColor:    cfg.NoColor,
		}
	}
	return out
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "", "info":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	}
	if l, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
		return l
	}
	return zerolog.InfoLevel
}

func parseTimeFormat(format string) string {
	switch strings.ToLower(format) {
	case "", "kitchen":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	case "unix", "epoch":
		return ""
	}
	if strings.Contains(format, "2006") || strings.Contains(format, "15:04") {
		return format
	}
	return time.Kitchen
}

// parseFields reads comma-separated key=value pairs.
func parseFields(s string) map[string]string {
	fields := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if ok && strings.TrimSpace(k) != "" {
			fields[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return fields
}
