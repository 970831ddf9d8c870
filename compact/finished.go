package compact

import "github.com/pageframe-os/compactd/zone"

// Finished is compact_finished, evaluated once per main-loop iteration:
//
//   - a pending fatal signal or a filled capture slot always ends the run
//     with Partial.
//   - with no capture slot configured, Partial also fires the moment the
//     free-area bucket at the target order (or any higher order, up to
//     the legacyOrderIndexing decision below) is non-empty for the
//     target migratetype, or — for sub-pageblock orders — the moment any
//     whole free page-block exists regardless of its migratetype, since
//     the allocator can retype a whole block on demand.
//   - otherwise Complete once the cursors have met or crossed, Continue
//     while work remains.
//
// order == -1 ("compact everything") has no allocation to size a bucket
// check against, so that check is skipped entirely; termination is by
// cursor-meet alone.
//
// legacyOrderIndexing resolves an open question: the original kernel
// implementation's loop indexes the free-area bucket by the
// fixed requested order on every iteration instead of the loop variable,
// so it can report Partial looking at the wrong bucket. This repo runs
// the corrected (loop-variable-indexed) behavior by default; set
// Control_t.legacyOrderIndexing to reproduce the original bug for
// comparison testing.
func (c *Control_t) Finished() Status_t {
	if c.fatalPending() {
		return Partial
	}

	if c.Capture != nil {
		if *c.Capture != zone.NilPfn {
			return Partial
		}
	} else if c.Order >= 0 {
		for order := c.Order; order < zone.MaxOrder; order++ {
			idx := order
			if c.legacyOrderIndexing {
				idx = c.Order
			}
			if !c.Zone.FreeArea.Empty(idx, c.Migratetype) {
				return Partial
			}
		}
		if c.Order < int(zone.PageBlockOrder) && c.Zone.FreeArea.BlocksAtLeast(int(zone.PageBlockOrder)) > 0 {
			return Partial
		}
	}

	if c.FreePfn <= c.MigratePfn {
		return Complete
	}
	return Continue
}
