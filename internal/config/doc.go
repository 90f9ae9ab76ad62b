// Package config provides configuration management for probeid.
//
// The config file holds link settings (speed profile and overrides), output
// preferences, logging and capability toggles. Every field has a default so
// the CLI runs without a file.
//
// Config file locations (priority order):
//  1. $PROBEID_CONFIG
//  2. ./probeid.yaml
//  3. $XDG_CONFIG_HOME/probeid/config.yaml
//  4. ~/.config/probeid/config.yaml
//  5. /etc/probeid/config.yaml
package config
