// Package config holds the resolved run settings for a sandpile simulation
// and loads optional HCL run files. Command-line flags are layered on top of
// file values by the cli package.
package config
