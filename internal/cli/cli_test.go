package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandpile/internal/config"
)

func TestParseShortAndLongFlags(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{
		"-l", "50", "--width", "40", "-i", "seed.txt", "--output", "out",
		"-m", "1000", "--freq", "10", "-workers", "4",
	}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, 50, cfg.Length)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, "seed.txt", cfg.Input)
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, uint64(1000), cfg.MaxIter)
	assert.Equal(t, uint64(10), cfg.Freq)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestParseNoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseHelp(t *testing.T) {
	var out bytes.Buffer
	_, exit, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
}

func TestParseMissingRequired(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-m", "5"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "output directory")
}

func TestParseRejectsBadLogLevel(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-i", "a", "-o", "b", "-log-level", "loud"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "log-level")
}

func TestParseUnknownFlag(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-bogus"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseStrayArguments(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-i", "a", "-o", "b", "extra"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "unexpected arguments")
}

func TestFlagsOverrideRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
output   = "from-file"
max_iter = 42
freq     = 7

pile {
  x      = 0
  y      = 0
  grains = var.mass
}
`), 0o644))

	var out bytes.Buffer
	cfg, _, err := Parse([]string{"-config", path, "-var", "mass=4096", "-f", "3"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Output)
	assert.Equal(t, uint64(42), cfg.MaxIter)
	assert.Equal(t, uint64(3), cfg.Freq, "explicit flag wins over the file")
	assert.Equal(t, []config.Pile{{X: 0, Y: 0, Grains: 4096}}, cfg.Piles)
}

func TestVarWithoutConfig(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-i", "a", "-o", "b", "-var", "x=1"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "-var requires -config")
}
