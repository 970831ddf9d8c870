package compact

import "github.com/pageframe-os/compactd/zone"

// Suitable is compaction_suitable, the preflight step: decide, before
// scanning a single PFN, whether a compaction attempt at order is worth
// running at all.
//
//   - order == -1 ("compact everything") always proceeds: there is no
//     specific allocation to size the preflight against.
//   - if the zone cannot support twice the requested order above its low
//     watermark, reclaim is the bottleneck, not fragmentation: Skipped.
//   - if the fragmentation index reports -1000 (fragmentation is not the
//     obstacle), Partial if the plain low watermark at order already
//     holds, otherwise Skipped — running compaction would not help either
//     way.
//   - if the index is within [0, threshold], memory is free enough but not
//     fragmented enough to bother: Skipped.
//   - otherwise Continue: compaction is likely to help.
func Suitable(z *zone.Zone_t, order int, extfragThreshold int) Status_t {
	if order < 0 {
		return Continue
	}
	if !z.WatermarkOK(zone.WatermarkLow, order+1) {
		return Skipped
	}

	idx := z.FragmentationIndex(order)
	switch {
	case idx == -1000:
		if z.WatermarkOK(zone.WatermarkLow, order) {
			return Partial
		}
		return Skipped
	case idx >= 0 && idx <= extfragThreshold:
		return Skipped
	default:
		return Continue
	}
}

// Deferred wraps zone.Zone_t.CompactionDeferred with the order==-1
// bypass: an unordered "compact everything" request is never deferred.
func Deferred(z *zone.Zone_t, order int) bool {
	if order < 0 {
		return false
	}
	return z.CompactionDeferred(order)
}
