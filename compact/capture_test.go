package compact

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageframe-os/compactd/zone"
)

func TestTryCaptureMovableFallsBackAcrossPcpTypes(t *testing.T) {
	z := zone.NewZone("Test", 0, zone.PageBlockPages)
	z.SetBlockType(0, zone.Unmovable)
	z.AddFreeBlock(0, 2, zone.Unmovable) // a free block, but not of the requested type

	c := NewControl(z, 2, zone.Movable, true)
	slot := zone.NilPfn
	c.Capture = &slot

	ok := TryCapture(c)
	assert.True(t, ok, "a MOVABLE capture request may be satisfied from any pcp migratetype")
	assert.Equal(t, zone.Pfn_t(0), slot)
}

func TestTryCaptureExactTypeDoesNotFallBack(t *testing.T) {
	z := zone.NewZone("Test", 0, zone.PageBlockPages)
	z.SetBlockType(0, zone.Unmovable)
	z.AddFreeBlock(0, 2, zone.Unmovable)

	c := NewControl(z, 2, zone.Reclaimable, true)
	slot := zone.NilPfn
	c.Capture = &slot

	ok := TryCapture(c)
	assert.False(t, ok, "a non-MOVABLE request must only match its own exact migratetype")
	assert.Equal(t, zone.NilPfn, slot)
}
