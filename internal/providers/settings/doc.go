// Package settings stores the system configuration shown in the settings
// window (network toggles, volume, theme and so on). Updates are partial
// merges; the result is written as TOML when a path is configured.
package settings
