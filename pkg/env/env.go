package env

import "os"

// Get reads an environment variable, falling back when it is unset or
// empty. Empty counts as unset so a blank override cannot hollow out a
// default.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}
