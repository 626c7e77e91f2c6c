// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format,
// and the discovery of the clrfile that declares a project's command namespaces.
//
// Configuration is loaded from ~/.config/clr/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/clr/config.cue on macOS, %APPDATA%\clr\config.cue
// on Windows) and validated against an embedded CUE schema (config_schema.cue).
//
// A clrfile (clrfile.cue or clrfile.toml) is searched from the working directory upward,
// then in $CLR_ROOT.
package config
