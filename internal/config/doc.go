// Package config defines the format-agnostic category configuration
// model and the Loader interface concrete syntaxes implement.
package config
