// Package file implements the ConfigStore port on a TOML file in the
// paymate data directory, with environment-variable overrides for the
// wallet credential keys.
package file
