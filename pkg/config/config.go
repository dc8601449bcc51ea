// Package config resolves OneFlow client settings. Built-in defaults are
// overlaid by the YAML settings file and then by ONEFLOW_* environment
// variables; the CLI applies its flags last.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix namespaces every environment variable the client reads.
const EnvPrefix = "ONEFLOW_"

// lookupEnv returns the trimmed value of ONEFLOW_<name>. A variable that is
// set to blank counts as unset, so `ONEFLOW_API_PREFIX=` keeps the lower
// layer's value the same way an empty base URL does.
func lookupEnv(name string) (string, bool) {
	value, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// GetString returns ONEFLOW_<name>, or fallback when it is unset or blank.
func GetString(name, fallback string) string {
	if value, ok := lookupEnv(name); ok {
		return value
	}
	return fallback
}

// GetInt returns ONEFLOW_<name> as an integer. Malformed values are logged and
// replaced by fallback.
func GetInt(name string, fallback int) int {
	value, ok := lookupEnv(name)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("ignoring non-integer setting", "key", EnvPrefix+name, "value", value)
		return fallback
	}
	return parsed
}

// GetBool is GetInt for booleans (1, t, true, 0, f, false, ...).
func GetBool(name string, fallback bool) bool {
	value, ok := lookupEnv(name)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("ignoring non-boolean setting", "key", EnvPrefix+name, "value", value)
		return fallback
	}
	return parsed
}

// GetDuration reads ONEFLOW_<name> either as a bare count of unit, matching
// the *_SECONDS and *_HOURS variable names, or as a Go duration such as "90s".
func GetDuration(name string, unit, fallback time.Duration) time.Duration {
	value, ok := lookupEnv(name)
	if !ok {
		return fallback
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * unit
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	slog.Warn("ignoring malformed duration setting", "key", EnvPrefix+name, "value", value)
	return fallback
}
