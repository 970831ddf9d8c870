package isolate

import (
	"github.com/pageframe-os/compactd/lockhelper"
	"github.com/pageframe-os/compactd/scan"
	"github.com/pageframe-os/compactd/zone"
)

// ClusterMax is COMPACT_CLUSTER_MAX: the batch size limit for one
// migrate-isolation pass.
const ClusterMax = 32

// SwapClusterMax is SWAP_CLUSTER_MAX: how often the inner loop drops and
// re-acquires the LRU lock to avoid starving other LRU walkers.
const SwapClusterMax = 32

// MigrateScanResult_t is the outcome of one LowCursor scan.
type MigrateScanResult_t struct {
	Isolated []zone.Pfn_t
	// NextMigratePfn is the PFN at which the next batch should resume.
	NextMigratePfn zone.Pfn_t
	// Aborted is true on contention-induced abort (ISOLATE_ABORT).
	Aborted bool
	// Throttled is true when too_many_isolated rejected an async scan
	// outright (returns 0 without scanning).
	Throttled bool
}

// LowCursor is isolate_migratepages_range: it walks PFNs from lowPfn to
// endPfn (exclusive) under the LRU lock, isolating up to clusterMax
// movable LRU pages onto a private list. async selects
// ISOLATE_ASYNC_MIGRATE mode and the page-block-skip fast path.
func LowCursor(z *zone.Zone_t, lowPfn, endPfn zone.Pfn_t, clusterMax int, async bool, contended *bool) MigrateScanResult_t {
	if z.TooManyIsolated() {
		if async {
			return MigrateScanResult_t{NextMigratePfn: lowPfn, Throttled: true}
		}
		// sync scans proceed at once: neither LowCursor nor package
		// compact's driver waits for congestion before scanning.
	}

	helper := &lockhelper.Helper_t{Lock: &z.LRULock, Sync: !async, Contended: contended}
	var got []zone.Pfn_t
	locked := false
	sinceLock := 0

	pfn := lowPfn
	for ; pfn < endPfn && len(got) < clusterMax; pfn++ {
		if sinceLock >= SwapClusterMax {
			if locked {
				z.LRULock.Unlock()
				locked = false
			}
			sinceLock = 0
		}
		if !locked {
			res, newLocked := helper.Step(locked)
			locked = newLocked
			if res == lockhelper.Aborted {
				return MigrateScanResult_t{Isolated: got, NextMigratePfn: pfn, Aborted: true}
			}
		}
		sinceLock++

		if scan.MaxOrderAligned(pfn) && !z.PfnValid(pfn) {
			pfn = scan.SkipMaxOrder(pfn)
			continue
		}
		if !z.PfnValidWithin(pfn) || !z.SameZone(pfn) {
			continue
		}

		p := z.Page(pfn)
		if p.PageBuddy() {
			continue
		}

		if async && zone.BlockStart(pfn) == pfn {
			mt := z.BlockMigratetype(pfn)
			if scan.SkipBlock(mt, async) {
				pfn = zone.BlockEnd(pfn) - 1
				continue
			}
		}

		if !p.PageLRU() {
			continue
		}

		if p.PageTransHuge() {
			pfn += zone.Pfn_t(1<<uint(p.CompoundOrder())) - 1
			continue
		}

		if !z.TryIsolateLRUPage(pfn, async) {
			continue
		}
		z.DelPageFromLRUList(pfn)
		got = append(got, pfn)
	}

	if locked {
		z.LRULock.Unlock()
	}
	return MigrateScanResult_t{Isolated: got, NextMigratePfn: pfn}
}
