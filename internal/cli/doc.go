// Package cli parses command-line arguments for the batch sandpile runner,
// layers them over an optional HCL run file and validates the result.
package cli
