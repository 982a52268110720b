// Package config handles persisted generation settings.
package config
