// Package config loads ababil settings from JSON or YAML files found in the
// working directory, with tri-state booleans so that unset values fall
// back to defaults and explicit values can be merged over them.
package config
