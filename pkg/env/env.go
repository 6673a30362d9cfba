// Package env reads process environment variables with defaults, for the
// handful of knobs resolved before config loading runs (log format, mostly).
package env

import "os"

// Get returns the variable's value, or fallback when unset or empty.
func Get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
