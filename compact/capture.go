package compact

import "github.com/pageframe-os/compactd/zone"

// pcpMigratetypes are the migratetypes a MOVABLE capture request may
// satisfy from: a MOVABLE request is consolidating a whole pageblock, so
// any of the ordinary per-cpu-list types will do, not just MOVABLE
// itself. CMA, Reserve, and Isolate blocks are never fallback candidates
// here, matching the kernel's MIGRATE_PCPTYPES split.
var pcpMigratetypes = []zone.Migratetype_t{zone.Unmovable, zone.Reclaimable, zone.Movable}

// TryCapture is the capture path: after migration
// work frees new pages, look for a free block at or above the requested
// order and, if one is found, atomically pull it off the free area and
// hand it to the caller via Control_t.Capture rather than leaving it for
// some unrelated future allocator to win. A MOVABLE request scans every
// pcp migratetype bucket; any other request scans only its own exact
// migratetype.
//
// It is a no-op when Capture is nil (capture disabled) or Order < 0
// (no specific size requested). Returns true iff it filled the slot.
func TryCapture(c *Control_t) bool {
	if c.Capture == nil || c.Order < 0 {
		return false
	}
	if *c.Capture != zone.NilPfn {
		return false
	}

	if c.Migratetype == zone.Movable {
		for _, mt := range pcpMigratetypes {
			if captureFromType(c, mt) {
				return true
			}
		}
		return false
	}
	return captureFromType(c, c.Migratetype)
}

func captureFromType(c *Control_t, mt zone.Migratetype_t) bool {
	pfn, order, ok := c.Zone.FreeArea.FindCandidate(c.Order, mt)
	if !ok {
		return false
	}
	if !c.Zone.CaptureFreePage(pfn, order, mt) {
		return false
	}
	*c.Capture = pfn
	return true
}
