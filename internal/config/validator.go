// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `loader.go` calls `validateStruct` immediately after it unmarshals the
// merged Koanf tree, so the binary never serves with partial or missing
// configuration.  The rules in play are `required` on the DSN, password,
// and listen addresses, plus `hostname_port` on the two listeners.  New
// rules belong on the struct tags in model.go, custom ones get registered
// here.

package config

import "github.com/go-playground/validator/v10"

var v = validator.New()

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
