// Package config loads the fundingdash configuration.
//
// Values are layered in this order, later layers winning:
//
//  1. Default()
//  2. a YAML file (config.yaml or configs/config.yaml, or an explicit path)
//  3. environment variables prefixed FUNDINGDASH_
//
// Nested sections map to nested variable names:
//
//	FUNDINGDASH_SERVER_PORT=9090
//	FUNDINGDASH_LOGGING_LEVEL=debug
//	FUNDINGDASH_DATA_INPUT_PATH=/srv/data/startup_funding.csv
//	FUNDINGDASH_DATA_YEAR_OPTIONS=legacy
//
// The result is validated with go-playground/validator struct tags.
package config
