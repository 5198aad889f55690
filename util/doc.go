// Package util provides small generic helpers shared across packages.
package util
