// Package file provides file-based configuration adapters.
//
// Adapters:
//   - WorkspaceConfigStore: JSON config tying a directory to a remote record
//   - SettingsStore: TOML user-level settings
package file
