// Package config provides configuration loading and validation for flatkit
// tools.
//
// It uses Viper to load configuration from a YAML file, a .env file and the
// environment. Later sources win: environment variables override the file,
// and command-line flags applied by the caller override both.
//
// # Usage
//
//	var cfg config.Config
//	err := config.LoadConfig("flatten", &cfg, config.WithConfigFile(path))
//
// Environment variables map onto nested keys by splitting on underscores,
// so FLATTEN_MODE sets flatten.mode and LOGGING_LEVEL sets logging.level.
package config
