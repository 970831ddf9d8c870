// Package isolate implements the two isolators: pulling buddy pages off
// a zone's free area onto a
// private list (the "free-page isolator"), and detaching movable LRU
// pages onto a private list (the "migrate-page isolator"). Exclusive
// access to the pages they touch is arbitrated by the zone's coarse
// locks: Block takes no lock itself (Range and HighCursor hold ZoneLock
// around each call, HighCursor via lockhelper), while LowCursor acquires
// and releases LRULock itself through lockhelper.
package isolate

import (
	"github.com/pageframe-os/compactd/lockhelper"
	"github.com/pageframe-os/compactd/zone"
)

// Block is isolate_freepages_block: it isolates buddy pages from
// [start, end) — normally one page-block — onto freeList in PFN order,
// splitting every buddy block found to order 0. The caller must already
// hold z.ZoneLock. strict requires every PFN in range to be valid and
// every page to be a buddy head, aborting the whole call with 0 isolated
// and no partial mutation on the first violation; non-strict silently
// skips invalid PFNs and non-buddy pages.
func Block(z *zone.Zone_t, start, end zone.Pfn_t, strict bool, freeList *[]zone.Pfn_t) int {
	isolated := 0
	mark := len(*freeList)
	for pfn := start; pfn < end; pfn++ {
		if !z.PfnValidWithin(pfn) {
			if strict {
				rollbackBlock(z, freeList, mark)
				return 0
			}
			continue
		}
		p := z.Page(pfn)
		if !p.PageBuddy() {
			if strict {
				rollbackBlock(z, freeList, mark)
				return 0
			}
			continue
		}
		n := z.SplitFreePage(pfn)
		if n == 0 {
			if strict {
				rollbackBlock(z, freeList, mark)
				return 0
			}
			continue
		}
		for i := 0; i < n; i++ {
			*freeList = append(*freeList, pfn+zone.Pfn_t(i))
		}
		isolated += n
		pfn += zone.Pfn_t(n - 1)
	}
	return isolated
}

// rollbackBlock undoes whatever this call to Block already split out
// before hitting a strict violation, so a partially-scanned block never
// leaks pages out of the free area on failure.
func rollbackBlock(z *zone.Zone_t, freeList *[]zone.Pfn_t, mark int) {
	for _, pfn := range (*freeList)[mark:] {
		z.PutFreePage(pfn, z.BlockMigratetype(pfn))
	}
	*freeList = (*freeList)[:mark]
}

// Range is isolate_freepages_range, the collaborator-facing strict entry
// point: it requires [start, end) to be fully valid, free, contiguous
// memory and returns every order-0 page isolated, or nil if any part of
// the range failed the strict check (rolling back whatever had already
// been isolated from earlier blocks in the same call).
func Range(z *zone.Zone_t, start, end zone.Pfn_t) []zone.Pfn_t {
	var all []zone.Pfn_t
	for pfn := start; pfn < end; {
		blockEnd := pfn + zone.PageBlockPages
		if blockEnd > end {
			blockEnd = end
		}
		var got []zone.Pfn_t
		z.ZoneLock.Lock()
		n := Block(z, pfn, blockEnd, true, &got)
		z.ZoneLock.Unlock()
		if n == 0 {
			for _, f := range all {
				z.PutFreePage(f, zone.Movable)
			}
			return nil
		}
		all = append(all, got...)
		pfn = blockEnd
	}
	return all
}

// FreeScanResult_t is the outcome of one HighCursor scan.
type FreeScanResult_t struct {
	Isolated []zone.Pfn_t
	// NextFreePfn is the new high cursor: the highest page-block from
	// which something was isolated, i.e. where the next call should
	// resume scanning downward from.
	NextFreePfn zone.Pfn_t
	Aborted     bool
}

// HighCursor is isolate_freepages: it scans page-blocks downward from
// freePfn toward the low bound, stopping as soon as have plus
// whatever is newly isolated reaches want, or the cursors would cross.
// sync/contended follow lockhelper's contention contract.
func HighCursor(z *zone.Zone_t, freePfn, lowBound zone.Pfn_t, have, want int, sync bool, contended *bool) FreeScanResult_t {
	helper := &lockhelper.Helper_t{Lock: &z.ZoneLock, Sync: sync, Contended: contended}
	var got []zone.Pfn_t
	highPfn := zone.NilPfn
	locked := false

	for blockStart := zone.BlockStart(freePfn); blockStart >= lowBound && blockStart >= z.Start && have+len(got) < want; blockStart -= zone.PageBlockPages {
		if !z.PfnValid(blockStart) || !z.SameZone(blockStart) {
			continue
		}

		mt := z.BlockMigratetype(blockStart)
		if mt == zone.Isolate || mt == zone.Reserve {
			continue
		}
		if !blockIsWholeFreeBlock(z, blockStart) && !mt.AsyncSuitable() {
			continue
		}

		res, newLocked := helper.Step(locked)
		locked = newLocked
		if res == lockhelper.Aborted {
			return FreeScanResult_t{Isolated: got, NextFreePfn: nextFreePfn(highPfn, freePfn), Aborted: true}
		}

		mt = z.BlockMigratetype(blockStart)
		if mt != zone.Isolate && mt != zone.Reserve && (blockIsWholeFreeBlock(z, blockStart) || mt.AsyncSuitable()) {
			blockEnd := blockStart + zone.PageBlockPages
			if blockEnd > z.Start+z.Spanned {
				blockEnd = z.Start + z.Spanned
			}
			n := Block(z, blockStart, blockEnd, false, &got)
			if n > 0 && (highPfn == zone.NilPfn || blockStart > highPfn) {
				highPfn = blockStart
			}
		}

		if blockStart < zone.PageBlockPages {
			break
		}
	}

	if locked {
		z.ZoneLock.Unlock()
	}
	return FreeScanResult_t{Isolated: got, NextFreePfn: nextFreePfn(highPfn, freePfn)}
}

func nextFreePfn(highPfn, fallback zone.Pfn_t) zone.Pfn_t {
	if highPfn == zone.NilPfn {
		return fallback
	}
	return highPfn
}

// blockIsWholeFreeBlock reports whether the page-block at blockStart is
// itself already a single free buddy block of order >= pageblock_order.
func blockIsWholeFreeBlock(z *zone.Zone_t, blockStart zone.Pfn_t) bool {
	p := z.Page(blockStart)
	return p.PageBuddy() && p.Order >= int(zone.PageBlockOrder)
}
