// Package config loads, normalizes, and validates the TOML configuration
// shared by the quill daemon and CLI.
package config
