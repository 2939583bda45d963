// Package config loads the ambient settings used around pipelines: logging,
// tracing and which stages may fail without stopping a run.
//
// Sources, in increasing order of precedence:
// - defaults (see ApplyDefaults)
// - pipes.yml, or the file passed with WithConfigFile
// - .env, or the file passed with WithEnvFile
// - PIPES_* environment variables, e.g. PIPES_LOGGING_LEVEL=debug
package config
