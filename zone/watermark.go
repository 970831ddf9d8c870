package zone

// Watermark_t indexes a zone's three free-page thresholds.
type Watermark_t int

const (
	WatermarkMin Watermark_t = iota
	WatermarkLow
	WatermarkHigh

	NWatermarks = WatermarkHigh + 1
)

// WatermarkOK is zone_watermark_ok: the zone has at least the watermark's
// page count plus room for an allocation of the given order.
func (z *Zone_t) WatermarkOK(w Watermark_t, order int) bool {
	free := z.FreeArea.TotalFreePages()
	need := z.Watermarks[w] + (1 << order)
	return free >= need
}

// LowWatermarkPages is low_wmark_pages.
func (z *Zone_t) LowWatermarkPages() int {
	return z.Watermarks[WatermarkLow]
}

// FragmentationIndex is the fragmentation_index collaborator: a metric in
// [-1000, 1000] where -1000 means fragmentation is not what stands in the
// way of an allocation at order, and higher values mean more free memory
// is present but fragmented.
//
// If FragIndexFn is set, it is used verbatim (tests use this to drive
// exact scenarios). Otherwise this computes a heuristic from the
// free-area shape: -1000 when there are no free blocks or every free
// block is already at least order; else 1000 minus the per-mille share
// of free blocks of at least order, a value in (0, 1000].
func (z *Zone_t) FragmentationIndex(order int) int {
	if z.FragIndexFn != nil {
		return z.FragIndexFn(order)
	}
	total := z.FreeArea.TotalFreeBlocks()
	if total == 0 {
		return -1000
	}
	suitable := z.FreeArea.BlocksAtLeast(order)
	if suitable == total {
		return -1000
	}
	frag := 1000 - (1000 * suitable / total)
	if frag < -1000 {
		frag = -1000
	}
	if frag > 1000 {
		frag = 1000
	}
	return frag
}
