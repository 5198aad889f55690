// Package config loads client configuration from YAML files, .env files,
// and environment variables, layered in that order.
//
//	var f config.File
//	if err := config.Load("billing", &f); err != nil { ... }
//	f.ApplyDefaults()
//	if err := f.Validate(); err != nil { ... }
//
// The File schema bundles the client's endpoint settings, logging, and
// retry policies keyed by error kind.
package config
