// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// A .env file and RAILROUTE_* environment variables override file values.
// The package supports multiple worlds, each optionally with its own record
// source, and allows world selection by id or name.
package config
