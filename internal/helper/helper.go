package helper

import (
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const envPrefix = "ENV:"

// ResolveEnv replaces a value of the form "ENV:NAME" with the content of the
// environment variable NAME. Any other value is returned unchanged.
func ResolveEnv(in string) string {
	if strings.HasPrefix(in, envPrefix) {
		return os.Getenv(in[len(envPrefix):])
	}
	return in
}

// FirstNonEmpty returns the first non-empty value, or "" if there is none.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func SetDefaultStringIfEmpty(value, defaultValue, field, section string) string {
	if len(value) == 0 {
		log.WithFields(log.Fields{"kind": "config", "section": section, "field": field}).
			Debugf("no value specified, assuming default %q", defaultValue)
		return defaultValue
	}
	return value
}

// ParseDurationOrDefault parses value as a Go duration. Empty or invalid
// values yield defaultValue; invalid ones are logged.
func ParseDurationOrDefault(value string, defaultValue time.Duration, field, section string) time.Duration {
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.WithFields(log.Fields{"kind": "config", "section": section, "field": field, "value": value}).
			Warnf("invalid duration, assuming default %s", defaultValue)
		return defaultValue
	}
	return d
}
