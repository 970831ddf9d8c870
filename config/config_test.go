package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, 32, d.ClusterMax)
	assert.Equal(t, 32, d.SwapClusterMax)
	assert.Equal(t, 500, d.ExtfragThreshold)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadOverridesOnlyNamedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tunables.toml")
	require.NoError(t, os.WriteFile(path, []byte("extfrag_threshold = 200\n"), 0644))

	tunables, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, tunables.ExtfragThreshold)
	assert.Equal(t, 32, tunables.ClusterMax, "unset fields keep their Defaults value")
}

func TestClampExtfragThresholdRange(t *testing.T) {
	tunables := Tunables_t{ExtfragThreshold: 5000, ClusterMax: 1, SwapClusterMax: 1, MaxParallelNodes: 1}
	tunables.Clamp()
	assert.Equal(t, 1000, tunables.ExtfragThreshold)

	tunables.ExtfragThreshold = -5
	tunables.Clamp()
	assert.Equal(t, 0, tunables.ExtfragThreshold)
}

func TestClampRejectsNonPositiveBatchSizes(t *testing.T) {
	tunables := Tunables_t{ExtfragThreshold: 500, ClusterMax: 0, SwapClusterMax: -1, MaxParallelNodes: 0}
	tunables.Clamp()
	assert.Equal(t, Defaults().ClusterMax, tunables.ClusterMax)
	assert.Equal(t, Defaults().SwapClusterMax, tunables.SwapClusterMax)
	assert.Equal(t, Defaults().MaxParallelNodes, tunables.MaxParallelNodes)
}
