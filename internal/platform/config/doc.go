// Package config loads the historical job configuration from YAML.
//
// Values of the form ${NAME} are replaced with environment variables before
// parsing. Database and Redis connections are configured from the environment
// by the db and redis packages.
package config
