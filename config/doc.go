// Package config loads and validates the Xulcan service configuration.
//
// Precedence: built-in defaults, then the YAML file, then environment
// variables with the XULCAN_ prefix. Provider secrets additionally resolve
// from secret files (Docker secrets) before environment values.
package config
