package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSizes(t *testing.T) {
	sizes, err := parseSizes(" 4, 16,,64 ")
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 16, 64}, sizes)

	_, err = parseSizes("4,x")
	assert.Error(t, err)
	_, err = parseSizes(",")
	assert.Error(t, err)
}

func TestSweepSortsAndStabilises(t *testing.T) {
	all := sweep(context.Background(), []uint64{256, 3, 16}, 3, 10_000)
	require.Len(t, all, 3)

	assert.Equal(t, uint64(3), all[0].grains)
	assert.Equal(t, uint64(16), all[1].grains)
	assert.Equal(t, uint64(256), all[2].grains)

	assert.Equal(t, uint64(1), all[0].generations)
	for _, res := range all {
		require.NoError(t, res.err)
		assert.True(t, res.stable, "pile of %d", res.grains)
	}
	assert.Greater(t, all[2].width, all[1].width)
}

func TestReportAndChart(t *testing.T) {
	all := sweep(context.Background(), []uint64{16, 64}, 1, 10_000)

	var buf bytes.Buffer
	report(&buf, all, 0)
	assert.Contains(t, buf.String(), "grains=16")
	assert.Contains(t, buf.String(), "stable=true")

	path := filepath.Join(t.TempDir(), "sweep.png")
	require.NoError(t, writeChart(path, all))
	assert.FileExists(t, path)
	assert.Error(t, writeChart(path, all[:1]))
}
