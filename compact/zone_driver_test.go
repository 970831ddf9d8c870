package compact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageframe-os/compactd/migrate"
	"github.com/pageframe-os/compactd/zone"
)

// fragmentedZone alternates free and in-use pages across four
// page-blocks so CompactZone has real work to do: no contiguous run of
// free pages wider than one page exists before compaction runs. More than
// two blocks are needed because the high cursor only scans blocks at or
// above MigratePfn+PageBlockPages, and FreePfn starts at the zone's end.
func fragmentedZone(t *testing.T) *zone.Zone_t {
	t.Helper()
	const blocks = 4
	z := zone.NewZone("Test", 0, blocks*zone.PageBlockPages)
	for b := zone.Pfn_t(0); b < blocks; b++ {
		z.SetBlockType(b*zone.PageBlockPages, zone.Movable)
	}
	for i := zone.Pfn_t(0); i < blocks*zone.PageBlockPages; i++ {
		if i%2 == 0 {
			z.AddFreePage(i, zone.Movable)
		} else {
			z.AddLRUPage(i, false)
		}
	}
	total := z.FreeArea.TotalFreePages()
	z.Watermarks[zone.WatermarkLow] = total / 4
	return z
}

func TestCompactZoneMigratesAndTerminates(t *testing.T) {
	z := fragmentedZone(t)
	before := z.FreeArea.TotalFreePages()

	c := NewControl(z, 2, zone.Movable, true)
	engine := &migrate.Engine_t{Mode: migrate.SyncLight}
	status := CompactZone(c, engine, 500)

	require.Contains(t, []Status_t{Partial, Complete}, status)
	assert.Greater(t, c.PagesMigrated, 0)
	assert.Equal(t, before, z.FreeArea.TotalFreePages(), "migration conserves the total free-page count")
}

func TestCompactZoneSkippedWhenNotSuitable(t *testing.T) {
	z := zone.NewZone("Test", 0, zone.PageBlockPages)
	z.SetBlockType(0, zone.Movable)
	z.AddFreeBlock(0, 4, zone.Movable)

	c := NewControl(z, 8, zone.Movable, true) // order 8 is far beyond available 4
	engine := &migrate.Engine_t{Mode: migrate.SyncLight}
	status := CompactZone(c, engine, 500)
	assert.Equal(t, Skipped, status)
	assert.Zero(t, c.PagesIsolated)
}

func TestCompactZoneCapturesSuitableBlock(t *testing.T) {
	z := fragmentedZone(t)
	c := NewControl(z, 1, zone.Movable, true)
	slot := zone.NilPfn
	c.Capture = &slot
	engine := &migrate.Engine_t{Mode: migrate.SyncLight}

	status := CompactZone(c, engine, 500)
	assert.Equal(t, Partial, status)
	assert.NotEqual(t, zone.NilPfn, slot, "a run long enough to migrate pages should eventually capture an order-1 block")
}

func TestCompactZoneDrainsLeftoverFreePagesOnExit(t *testing.T) {
	z := fragmentedZone(t)
	before := z.FreeArea.TotalFreePages()
	c := NewControl(z, 2, zone.Movable, true)
	engine := &migrate.Engine_t{Mode: migrate.SyncLight}

	CompactZone(c, engine, 500)

	assert.Empty(t, c.FreePages, "every exit path must drain leftover destinations back to the buddy allocator")
	assert.Equal(t, before, z.FreeArea.TotalFreePages(), "drained pages must land back in the free area, not vanish")
}
