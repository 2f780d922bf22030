// Package config gathers the environment configuration of all components.
//
// Every package owns its Config type and env tags; this package nests them
// into one Config, parses it with caarlos0/env and hands the sections to fx.
// LoadDotEnv reads .env and .env.local files for local development.
package config
