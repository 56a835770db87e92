package lower

import (
	"fmt"
	"io/ioutil"

	"sable/report"

	"github.com/pelletier/go-toml"
)

// Config holds the lowering profile: policy switches that control IR
// generation without changing its semantics for well-formed input.
type Config struct {
	// WarnUnreachable enables a diagnostic when control can fall off the end
	// of a non-void function.  The fallthrough always lowers to an
	// unreachable marker either way.
	WarnUnreachable bool `toml:"warn-unreachable"`

	// Verify runs the well-formedness verifier on each function after
	// emission and on the whole module at the end.
	Verify bool `toml:"verify"`

	// LogLevel selects the reporter log level: one of "silent", "error",
	// "warn", "verbose".
	LogLevel string `toml:"log-level"`
}

// DefaultConfig returns the lowering profile used when no profile file is
// given.
func DefaultConfig() *Config {
	return &Config{
		WarnUnreachable: false,
		Verify:          true,
		LogLevel:        "warn",
	}
}

// LoadConfig loads a lowering profile from a TOML file.  Omitted keys keep
// their default values.
func LoadConfig(path string) (*Config, error) {
	buff, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read lowering profile: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(buff, cfg); err != nil {
		return nil, fmt.Errorf("error parsing lowering profile: %w", err)
	}

	if _, ok := logLevels[cfg.LogLevel]; !ok {
		return nil, fmt.Errorf("unknown log level `%s`", cfg.LogLevel)
	}

	return cfg, nil
}

// logLevels maps profile log level names to reporter log levels.
var logLevels = map[string]int{
	"silent":  report.LogLevelSilent,
	"error":   report.LogLevelError,
	"warn":    report.LogLevelWarn,
	"verbose": report.LogLevelVerbose,
}
