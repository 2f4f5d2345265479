// SPDX-License-Identifier: MPL-2.0

// Package config loads and persists launcher settings. Settings live in
// config.cue under the user config directory (%APPDATA%\openlauncher on
// Windows, ~/Library/Application Support/openlauncher on macOS,
// $XDG_CONFIG_HOME/openlauncher elsewhere). The file is validated against
// the embedded config_schema.cue and merged over defaults with Viper.
package config
