package config

import (
	"os"
	"regexp"
	"strconv"
)

// Environment variable names
const (
	EnvAddr       = "MOCKWIRE_ADDR"
	EnvConcurrent = "MOCKWIRE_CONCURRENT"
	EnvMaxConns   = "MOCKWIRE_MAX_CONNS"
	EnvLogLevel   = "MOCKWIRE_LOG_LEVEL"
	EnvLogFormat  = "MOCKWIRE_LOG_FORMAT"
	EnvConfig     = "MOCKWIRE_CONFIG"
)

// ApplyEnv overrides cfg with the MOCKWIRE_* variables that are set.
// Values that fail to parse are ignored.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}

	if v := os.Getenv(EnvConcurrent); v != "" {
		cfg.Concurrent = parseBool(v)
	}

	if v := os.Getenv(EnvMaxConns); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxConns = n
		}
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
}

// PathFromEnv returns the config file named by MOCKWIRE_CONFIG, if any.
func PathFromEnv() string {
	return os.Getenv(EnvConfig)
}

func parseBool(v string) bool {
	return v == "true" || v == "1" || v == "yes"
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnvVars expands environment variables in the input string.
// Supports ${VAR_NAME} and ${VAR_NAME:-default} syntax.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if val := os.Getenv(submatch[1]); val != "" {
			return val
		}
		return submatch[2]
	})
}
