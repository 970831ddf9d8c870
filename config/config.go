// Package config loads compaction tunables from a TOML file, the way
// dh-cli loads its own settings with github.com/pelletier/go-toml/v2
// rather than encoding/json or a hand-rolled flag set.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Tunables_t is the sysctl-equivalent knob set a running compactd reads
// at startup and a daemon run consults on every pass.
type Tunables_t struct {
	// ClusterMax is COMPACT_CLUSTER_MAX, the migrate-isolator's batch
	// size. It is loaded and clamped but not read by the compaction
	// packages, which use the isolate.ClusterMax constant.
	ClusterMax int `toml:"cluster_max"`
	// SwapClusterMax is SWAP_CLUSTER_MAX, how often the migrate isolator
	// drops and reacquires the LRU lock. It is loaded and clamped but not
	// read by the compaction packages, which use the
	// isolate.SwapClusterMax constant.
	SwapClusterMax int `toml:"swap_cluster_max"`
	// ExtfragThreshold gates Suitable's fragmentation-index check,
	// clamped to [0, 1000].
	ExtfragThreshold int `toml:"extfrag_threshold"`
	// MaxParallelNodes bounds CompactNodes' concurrent node fan-out.
	MaxParallelNodes int64 `toml:"max_parallel_nodes"`
}

// Defaults mirrors the reference implementation's compiled-in defaults:
// COMPACT_CLUSTER_MAX and SWAP_CLUSTER_MAX both 32, extfrag_threshold
// 500 (the kernel's sysctl_extfrag_threshold default).
func Defaults() Tunables_t {
	return Tunables_t{
		ClusterMax:       32,
		SwapClusterMax:   32,
		ExtfragThreshold: 500,
		MaxParallelNodes: 4,
	}
}

// Load reads path as TOML over Defaults, so a file only needs to name
// the tunables it overrides. Clamp is always applied afterward.
func Load(path string) (Tunables_t, error) {
	t := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("config: parse %s: %w", path, err)
	}
	t.Clamp()
	return t, nil
}

// Clamp enforces ExtfragThreshold's documented [0, 1000] range and
// refuses non-positive batch sizes and parallelism, falling back to
// Defaults' value for any field that is out of range.
func (t *Tunables_t) Clamp() {
	d := Defaults()
	if t.ExtfragThreshold < 0 {
		t.ExtfragThreshold = 0
	}
	if t.ExtfragThreshold > 1000 {
		t.ExtfragThreshold = 1000
	}
	if t.ClusterMax <= 0 {
		t.ClusterMax = d.ClusterMax
	}
	if t.SwapClusterMax <= 0 {
		t.SwapClusterMax = d.SwapClusterMax
	}
	if t.MaxParallelNodes <= 0 {
		t.MaxParallelNodes = d.MaxParallelNodes
	}
}
