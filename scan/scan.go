// Package scan implements the PFN block scanner primitives: per-PFN
// validity and state lookups, plus the two coarse-grain
// skips (a whole MAX_ORDER sub-range on an invalid lead PFN, a whole
// page-block on an async-unsuitable migratetype) that let the isolators in
// package isolate avoid per-PFN work across holes and foreign blocks.
package scan

import "github.com/pageframe-os/compactd/zone"

// PageState_t is a snapshot of everything the isolators need to decide
// what to do with one PFN, read via the collaborator predicates:
// pfn_valid, page_zone, PageBuddy, PageLRU, PageTransHuge,
// get_pageblock_migratetype.
type PageState_t struct {
	Valid    bool
	SameZone bool
	Buddy    bool
	LRU      bool
	THP      bool
	Order    int
	Block    zone.Migratetype_t
}

// Probe reads pfn's state. Valid is false for holes; SameZone is only
// meaningful when Valid is true.
func Probe(z *zone.Zone_t, pfn zone.Pfn_t) PageState_t {
	if !z.PfnValid(pfn) {
		return PageState_t{Valid: false}
	}
	if !z.SameZone(pfn) {
		return PageState_t{Valid: true, SameZone: false}
	}
	p := z.Page(pfn)
	return PageState_t{
		Valid:    true,
		SameZone: true,
		Buddy:    p.PageBuddy(),
		LRU:      p.PageLRU(),
		THP:      p.PageTransHuge(),
		Order:    p.Order,
		Block:    z.BlockMigratetype(pfn),
	}
}

// MaxOrderAligned reports whether pfn begins a MAX_ORDER_NR_PAGES-sized
// sub-range — the granularity at which a scanner may skip ahead on a
// single pfn_valid failure instead of checking every PFN individually.
// This repo sizes MAX_ORDER_NR_PAGES equal to one page-block.
func MaxOrderAligned(pfn zone.Pfn_t) bool {
	return pfn%zone.PageBlockPages == 0
}

// SkipMaxOrder returns the last PFN of the MAX_ORDER sub-range containing
// pfn, so that `pfn = SkipMaxOrder(pfn); pfn++` (the caller's loop
// increment) lands exactly on the next sub-range's first PFN.
func SkipMaxOrder(pfn zone.Pfn_t) zone.Pfn_t {
	return zone.BlockEnd(zone.BlockStart(pfn)) - 1
}

// SkipBlock reports whether an entire page-block should be skipped
// outright: ISOLATE and RESERVE blocks are always refused, and async runs
// additionally refuse any block that is not async-suitable — skip a
// whole page-block when its migratetype is async-unsuitable and the run
// is async.
func SkipBlock(mt zone.Migratetype_t, async bool) bool {
	if mt == zone.Isolate || mt == zone.Reserve {
		return true
	}
	return async && !mt.AsyncSuitable()
}
