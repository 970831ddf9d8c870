package compact

import (
	"github.com/pageframe-os/compactd/isolate"
	"github.com/pageframe-os/compactd/migrate"
	"github.com/pageframe-os/compactd/zone"
)

// CompactZone is compact_zone, the two-cursor main loop. It runs Suitable
// as a preflight, then alternates isolating a
// batch of movable pages from the low cursor, migrating them onto pages
// drawn from the high cursor via the allocator callback, and putting back
// whatever failed to migrate — checking Finished after every batch,
// attempting a capture whenever Order and Capture are both set.
func CompactZone(c *Control_t, engine *migrate.Engine_t, extfragThreshold int) Status_t {
	preflight := Suitable(c.Zone, c.Order, extfragThreshold)
	if preflight != Continue {
		return preflight
	}

	defer releaseFreePages(c)

	for {
		low := isolate.LowCursor(c.Zone, c.MigratePfn, c.FreePfn, isolate.ClusterMax, !c.Sync, &c.Contended)
		c.MigratePfn = low.NextMigratePfn

		if low.Aborted {
			return Partial
		}
		if low.Throttled {
			// too_many_isolated: let the caller's outer retry loop back
			// off and come back around; from this run's point of view
			// it is simply work left undone.
			return Continue
		}

		if len(low.Isolated) == 0 {
			if status := c.Finished(); status != Continue {
				return status
			}
			continue
		}

		c.MigratePages = low.Isolated
		c.PagesIsolated += len(low.Isolated)

		outcomes := engine.Migrate(c.Zone, c.MigratePages, c.allocFreePage)

		var failed []zone.Pfn_t
		for _, o := range outcomes {
			if o.OK {
				c.PagesMigrated++
			} else {
				failed = append(failed, o.Src)
			}
		}
		c.PagesFailed += len(failed)
		if len(failed) > 0 {
			c.Zone.PutbackLRUPages(failed)
		}
		c.MigratePages = nil

		if len(failed) == len(outcomes) {
			// every migration in the batch failed: the zone has nothing
			// left to allocate destinations from. ENOMEM.
			return Partial
		}

		TryCapture(c)

		if status := c.Finished(); status != Continue {
			return status
		}
	}
}

// releaseFreePages drains whatever is left of c.FreePages back to the
// buddy allocator. isolate.HighCursor isolates pages in whole split
// blocks, so it routinely overshoots the allocator callback's per-page
// want; every leftover page must go back on exit or it leaks out of the
// free area for good. Each page keeps its own migratetype from the split
// (zone.SplitFreePage never clears Page_t.Block), so it is put back
// under that, not c.Migratetype.
func releaseFreePages(c *Control_t) {
	for _, pfn := range c.FreePages {
		c.Zone.PutFreePage(pfn, c.Zone.Page(pfn).Block)
	}
	c.FreePages = nil
}
