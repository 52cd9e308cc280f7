package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const sampleRun = `
input    = "seeds.txt"
output   = "out"
max_iter = 5000
freq     = 250
workers  = 4

viewport {
  length = 64
  width  = 48
}

pile {
  x      = 0
  y      = 0
  grains = var.mass
}

pile {
  x      = -3
  y      = 2
  grains = 7
}
`

func TestParseRunFile(t *testing.T) {
	f, err := Parse([]byte(sampleRun), "run.hcl", map[string]string{"mass": "1024"})
	require.NoError(t, err)

	run := Default()
	run.Apply(f)

	assert.Equal(t, "seeds.txt", run.Input)
	assert.Equal(t, "out", run.Output)
	assert.Equal(t, uint64(5000), run.MaxIter)
	assert.Equal(t, uint64(250), run.Freq)
	assert.Equal(t, 4, run.Workers)
	assert.Equal(t, 64, run.Length)
	assert.Equal(t, 48, run.Width)
	assert.Equal(t, []Pile{{0, 0, 1024}, {-3, 2, 7}}, run.Piles)
	require.NoError(t, run.Validate())
}

func TestApplyKeepsUnsetValues(t *testing.T) {
	f, err := Parse([]byte(`output = "elsewhere"`), "partial.hcl", nil)
	require.NoError(t, err)

	run := Default()
	run.Input = "from-flag.txt"
	run.Apply(f)

	assert.Equal(t, "from-flag.txt", run.Input)
	assert.Equal(t, "elsewhere", run.Output)
	assert.Equal(t, Default().MaxIter, run.MaxIter)
	assert.Equal(t, Default().Length, run.Length)
}

func TestParseMissingVariable(t *testing.T) {
	_, err := Parse([]byte(sampleRun), "run.hcl", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run.hcl")
}

func TestParseRejectsUnknownAttribute(t *testing.T) {
	_, err := Parse([]byte(`speed = 3`), "bad.hcl", nil)
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sampleRun), 0o644))

	f, err := LoadFile(path, map[string]string{"mass": "16"})
	require.NoError(t, err)
	require.Len(t, f.Piles, 2)
	assert.Equal(t, uint64(16), f.Piles[0].Grains)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.hcl"), nil)
	require.Error(t, err)
}

func TestVarsObject(t *testing.T) {
	obj := VarsObject(map[string]string{"n": "42", "name": "centre"})
	require.True(t, obj.Type().IsObjectType())
	assert.True(t, obj.GetAttr("n").Type().Equals(cty.Number))
	assert.Equal(t, "centre", obj.GetAttr("name").AsString())

	assert.True(t, VarsObject(nil).RawEquals(cty.EmptyObjectVal))
}

func TestParseVars(t *testing.T) {
	vars, err := ParseVars([]string{"a=1", "b = x=y"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": " x=y"}, vars)

	_, err = ParseVars([]string{"novalue"})
	require.Error(t, err)
	_, err = ParseVars([]string{"=3"})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	run := Default()
	err := run.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no initial configuration")
	assert.Contains(t, err.Error(), "output directory")

	run.Piles = []Pile{{0, 0, 4}}
	run.Output = "out"
	run.Workers = 0
	run.LogFormat = "xml"
	err = run.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
	assert.Contains(t, err.Error(), "log-format")

	run.Workers = 2
	run.LogFormat = "json"
	assert.NoError(t, run.Validate())
}
