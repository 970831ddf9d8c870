package isolate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageframe-os/compactd/zone"
)

func buildLRUZone(t *testing.T, pages int) *zone.Zone_t {
	t.Helper()
	z := zone.NewZone("Test", 0, zone.PageBlockPages)
	z.SetBlockType(0, zone.Movable)
	for i := 0; i < pages; i++ {
		z.AddLRUPage(zone.Pfn_t(i), i%2 == 0)
	}
	return z
}

func TestLowCursorIsolatesLRUPagesOnly(t *testing.T) {
	z := buildLRUZone(t, 10)
	z.AddFreePage(10, zone.Movable) // a buddy page the scanner must skip

	res := LowCursor(z, 0, 11, 32, false, nil)
	assert.False(t, res.Aborted)
	assert.Len(t, res.Isolated, 10)
	for _, pfn := range res.Isolated {
		assert.True(t, z.Page(pfn).Flags&zone.FlagIsolatedMigrate != 0)
	}
	assert.Equal(t, zone.Pfn_t(11), res.NextMigratePfn)
}

func TestLowCursorRespectsClusterMax(t *testing.T) {
	z := buildLRUZone(t, 10)
	res := LowCursor(z, 0, 10, 3, false, nil)
	assert.Len(t, res.Isolated, 3)
}

func TestLowCursorSkipsTransHuge(t *testing.T) {
	z := zone.NewZone("Test", 0, zone.PageBlockPages)
	z.SetBlockType(0, zone.Movable)
	z.MarkTransHuge(0, 2) // spans pfns 0..3
	z.AddLRUPage(4, false)

	res := LowCursor(z, 0, 5, 32, false, nil)
	require.Len(t, res.Isolated, 1)
	assert.Equal(t, zone.Pfn_t(4), res.Isolated[0])
}

func TestLowCursorSkipsTransHugeTailCandidate(t *testing.T) {
	z := zone.NewZone("Test", 0, zone.PageBlockPages)
	z.SetBlockType(0, zone.Movable)
	z.MarkTransHuge(0, 3) // spans pfns 0..7
	z.AddLRUPage(5, false) // a tail pfn inside the span that looks isolatable
	z.AddLRUPage(8, false) // the real candidate just past the span

	res := LowCursor(z, 0, 9, 32, false, nil)
	require.Len(t, res.Isolated, 1)
	assert.Equal(t, zone.Pfn_t(8), res.Isolated[0], "the whole 1<<order span must be skipped, not just `order` pfns")
}

func TestLowCursorThrottlesWhenTooManyIsolated(t *testing.T) {
	z := buildLRUZone(t, 10)
	for i := zone.Pfn_t(0); i < 6; i++ {
		z.DelPageFromLRUList(i)
	}
	require.True(t, z.TooManyIsolated())

	res := LowCursor(z, 6, 10, 32, true, nil)
	assert.True(t, res.Throttled)
	assert.Nil(t, res.Isolated)
}

func TestLowCursorAsyncSkipsUnsuitableBlock(t *testing.T) {
	z := zone.NewZone("Test", 0, zone.PageBlockPages)
	z.SetBlockType(0, zone.Unmovable)
	for i := zone.Pfn_t(0); i < 5; i++ {
		z.AddLRUPage(i, false)
	}

	res := LowCursor(z, 0, 5, 32, true, nil)
	assert.Empty(t, res.Isolated, "async run must skip the whole unmovable block")
	assert.Equal(t, zone.PageBlockPages, res.NextMigratePfn, "the whole page-block is skipped in one jump")
}
