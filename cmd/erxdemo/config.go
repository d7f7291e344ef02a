package main

import (
	"os"
	"slices"
	"strings"
	"time"
)

// Flag defaults may be set with environment variables, so a demo can be tweaked without retyping flags.
const (
	envTrace     = "ERXDEMO_TRACE"
	envMetrics   = "ERXDEMO_METRICS"
	envTickEvery = "ERXDEMO_TICK_EVERY"
)

var (
	envTrue  = []string{"1", "yes", "true", "on"}
	envFalse = []string{"0", "no", "false", "off"}
)

// envVal gets the trimmed value of an environment variable, or defaultVal if it's unset or blank.
func envVal(key, defaultVal string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func envBool(key string, defaultVal bool) bool {
	val := strings.ToLower(envVal(key, ""))
	switch {
	case slices.Contains(envTrue, val):
		return true
	case slices.Contains(envFalse, val):
		return false
	default:
		return defaultVal
	}
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	val := envVal(key, "")
	if len(val) == 0 {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
