package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageframe-os/compactd/zone"
)

func TestProbeHole(t *testing.T) {
	z := zone.NewZone("Test", 0, zone.PageBlockPages)
	got := Probe(z, 5)
	assert.False(t, got.Valid)
}

func TestProbeForeign(t *testing.T) {
	z := zone.NewZone("Test", 0, zone.PageBlockPages)
	z.SetBlockType(0, zone.Movable)
	z.AddLRUPage(5, false)
	z.MarkForeign(5)

	got := Probe(z, 5)
	assert.True(t, got.Valid)
	assert.False(t, got.SameZone)
}

func TestMaxOrderAlignedAndSkip(t *testing.T) {
	assert.True(t, MaxOrderAligned(0))
	assert.True(t, MaxOrderAligned(zone.PageBlockPages))
	assert.False(t, MaxOrderAligned(1))

	last := SkipMaxOrder(5)
	assert.Equal(t, zone.PageBlockPages-1, last)
}

func TestSkipBlock(t *testing.T) {
	assert.True(t, SkipBlock(zone.Isolate, false))
	assert.True(t, SkipBlock(zone.Reserve, true))
	assert.True(t, SkipBlock(zone.Unmovable, true), "unmovable is not async-suitable")
	assert.False(t, SkipBlock(zone.Unmovable, false), "sync runs accept any non-isolate/reserve block")
	assert.False(t, SkipBlock(zone.Movable, true))
}
