// Package config defines and loads the cleanup configuration.
//
// Loading layers a YAML document over the built-in defaults, so a partial
// file only overrides what it mentions. Environment variables with the
// JANUS_ prefix take precedence over the file. A loaded Config is validated
// before use and treated as read-only afterwards.
package config
