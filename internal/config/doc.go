// Package config provides configuration structures for htmlgrade.
// It defines the options of the selector checker and the static page
// server, and loads shared defaults from a YAML configuration file.
package config
