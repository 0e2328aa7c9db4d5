// Package config loads and validates the glucowatchd YAML configuration.
//
// config.go provides Load with defaults and structural validation; all
// clinically retunable values (range thresholds, staleness windows, alert
// policy) live here rather than in code. watch.go provides fsnotify-based
// hot reload so thresholds can be retuned without restarting the daemon.
//
// Secrets (auth tokens, webhook URLs) are referenced by environment variable
// name and resolved at use time, never stored in the file itself.
package config
