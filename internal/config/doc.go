// Package config locates keyrate's files and reads its TOML configuration.
//
// Paths follow the XDG base directory layout: the config file and word lists
// live under $XDG_CONFIG_HOME/keyrate and the session database under
// $XDG_DATA_HOME/keyrate. The config file has [practice], [learn] and
// [history] tables. Every value is optional and unknown keys are rejected.
package config
