package zone

import "sync/atomic"

// Zone_t is a contiguous PFN range with the free-area, LRU, watermark, and
// deferral state kept external to the compaction core itself.
// The compaction packages only ever observe and mutate a Zone_t through
// its exported methods; nothing outside this package touches Pages
// directly.
type Zone_t struct {
	Name string

	Start   Pfn_t
	Spanned Pfn_t

	Pages []Page_t

	FreeArea FreeArea_t
	LRU      Lru_t

	ZoneLock CoarseLock_t
	LRULock  CoarseLock_t

	Watermarks [NWatermarks]int

	IsolatedAnon atomic.Int64
	IsolatedFile atomic.Int64

	// FragIndexFn overrides FragmentationIndex's default heuristic; set
	// by tests that need to drive an end-to-end scenario exactly.
	FragIndexFn func(order int) int

	compactOrderFailed int
	compactConsidered  int
	compactDeferShift  uint

	foreign map[Pfn_t]bool
}

// maxDeferShift caps compact_defer_shift, matching COMPACT_MAX_DEFER_SHIFT.
const maxDeferShift = 6

// NewZone allocates a zone spanning [start, start+spanned) with every page
// initially a hole; callers populate blocks, free pages, and LRU pages
// with SetBlockType / AddFreePage / AddLRUPage before handing the zone to
// the compaction driver.
func NewZone(name string, start, spanned Pfn_t) *Zone_t {
	z := &Zone_t{
		Name:               name,
		Start:              start,
		Spanned:            spanned,
		Pages:              make([]Page_t, spanned),
		FreeArea:           newFreeArea(),
		LRU:                newLRU(),
		compactOrderFailed: MaxOrder,
	}
	for i := range z.Pages {
		z.Pages[i].Pfn = start + Pfn_t(i)
		z.Pages[i].Flags = FlagHole
	}
	return z
}

// page returns the arena slot for pfn. Callers must have already checked
// PFNValid; this indexes unconditionally and will panic on an out-of-range
// PFN, preferring a hard panic over silently wrapping invalid state.
func (z *Zone_t) page(pfn Pfn_t) *Page_t {
	idx := int(pfn - z.Start)
	if idx < 0 || idx >= len(z.Pages) {
		panic("zone: pfn out of range")
	}
	return &z.Pages[idx]
}

// Page exposes the arena slot for pfn to the other packages. Most callers
// only read it; package migrate also clears FlagIsolatedMigrate through it.
func (z *Zone_t) Page(pfn Pfn_t) *Page_t {
	return z.page(pfn)
}

// PfnValid reports whether pfn is backed by a real page (not a hole) in
// this zone's arena.
func (z *Zone_t) PfnValid(pfn Pfn_t) bool {
	if pfn < z.Start || pfn >= z.Start+z.Spanned {
		return false
	}
	return !z.page(pfn).Hole()
}

// PfnValidWithin is pfn_valid_within: a finer-grained hole check used once
// the scanner is already inside a verified MAX_ORDER sub-range. In this
// model it is identical to PfnValid; kept distinct because the two checks
// are separate collaborators with separate call sites.
func (z *Zone_t) PfnValidWithin(pfn Pfn_t) bool {
	return z.PfnValid(pfn)
}

// MarkHole removes pfn from the zone's addressable pages (pfn_valid will
// report false for it from then on).
func (z *Zone_t) MarkHole(pfn Pfn_t) {
	z.page(pfn).Flags |= FlagHole
}

// MarkForeign marks pfn as valid memory belonging to a different zone
// (page_zone(pfn) != this zone), exercising the scanner's cross-zone
// rejection without modeling a second zone's full state.
func (z *Zone_t) MarkForeign(pfn Pfn_t) {
	if z.foreign == nil {
		z.foreign = make(map[Pfn_t]bool)
	}
	z.page(pfn).Flags &^= FlagHole
	z.foreign[pfn] = true
}

// SameZone reports whether pfn belongs to this zone (page_zone(pfn) ==
// zone); false for holes and for pages marked foreign via MarkForeign.
func (z *Zone_t) SameZone(pfn Pfn_t) bool {
	if !z.PfnValid(pfn) {
		return false
	}
	return !z.foreign[pfn]
}

// SetBlockType tags every page in the page-block starting at blockStart with
// migratetype mt, clearing the hole flag (get_pageblock_migratetype's
// write side — real kernel tags blocks at boot/hotplug time).
func (z *Zone_t) SetBlockType(blockStart Pfn_t, mt Migratetype_t) {
	for i := Pfn_t(0); i < PageBlockPages; i++ {
		pfn := blockStart + i
		if pfn >= z.Start+z.Spanned {
			break
		}
		p := z.page(pfn)
		p.Flags &^= FlagHole
		p.Block = mt
	}
}

// BlockMigratetype is get_pageblock_migratetype.
func (z *Zone_t) BlockMigratetype(pfn Pfn_t) Migratetype_t {
	return z.page(pfn).Block
}

// AddFreePage places an already-zeroed order-0 page onto the buddy free
// area as part of building a test or demo zone. For orders above 0, use
// AddFreeBlock.
func (z *Zone_t) AddFreePage(pfn Pfn_t, mt Migratetype_t) {
	z.PutFreePage(pfn, mt)
}

// AddFreeBlock places a free buddy block of the given order at pfn (pfn
// must be order-aligned within the zone). Only the head page carries
// FlagBuddy/Order; the rest of the block is left as ordinary (non-hole,
// non-free) pages, matching how a real buddy block's tail pages look to
// the scanner before being split.
func (z *Zone_t) AddFreeBlock(pfn Pfn_t, order int, mt Migratetype_t) {
	p := z.page(pfn)
	p.Flags &^= FlagHole
	p.Flags |= FlagBuddy
	p.Order = order
	p.Block = mt
	for i := Pfn_t(1); i < Pfn_t(1)<<uint(order); i++ {
		tp := z.page(pfn + i)
		tp.Flags &^= FlagHole
		tp.Block = mt
	}
	z.insertFree(pfn, order, mt)
}

// AddLRUPage marks pfn as an in-use movable page tracked on the anon or
// file LRU list.
func (z *Zone_t) AddLRUPage(pfn Pfn_t, file bool) {
	z.page(pfn).Flags &^= FlagHole
	z.AddTail(pfn, file)
}

// MarkTransHuge marks pfn as the head of a transparent huge page spanning
// 1<<order pages; the low-cursor scanner skips the whole span without
// isolating.
func (z *Zone_t) MarkTransHuge(pfn Pfn_t, order int) {
	p := z.page(pfn)
	p.Flags &^= FlagHole
	p.Flags |= FlagCompound | FlagLRU
	p.Order = order
}

// TooManyIsolated is too_many_isolated: true once the zone's combined
// isolated-page count exceeds half its combined LRU population, the
// throttle checked before starting a migrate scan.
func (z *Zone_t) TooManyIsolated() bool {
	isolated := z.IsolatedAnon.Load() + z.IsolatedFile.Load()
	onLRU := int64(z.LRU.AnonCount() + z.LRU.FileCount())
	return isolated > onLRU/2
}

// DeferCompaction is defer_compaction: record that a synchronous attempt
// at order just failed, lowering compact_order_failed and lengthening the
// backoff before the zone is probed again.
func (z *Zone_t) DeferCompaction(order int) {
	z.compactConsidered = 0
	z.compactDeferShift++
	if z.compactDeferShift > maxDeferShift {
		z.compactDeferShift = maxDeferShift
	}
	if order < z.compactOrderFailed {
		z.compactOrderFailed = order
	}
}

// CompactionDeferred is compaction_deferred: gates whether compaction
// should even be attempted for order, given prior failures at or below
// it.
func (z *Zone_t) CompactionDeferred(order int) bool {
	if order < z.compactOrderFailed {
		return false
	}
	z.compactConsidered++
	deferLimit := int64(1) << z.compactDeferShift
	return int64(z.compactConsidered) < deferLimit
}

// CompactionDeferReset is compaction_defer_reset: called after a
// synchronous run with whether it reached order, to raise the zone's
// confidence floor.
func (z *Zone_t) CompactionDeferReset(order int, success bool) {
	if !success {
		return
	}
	z.compactConsidered = 0
	z.compactDeferShift = 0
	if order >= z.compactOrderFailed {
		z.compactOrderFailed = order + 1
	}
}

// CompactOrderFailed exposes the current deferral floor for tests and
// status reporting.
func (z *Zone_t) CompactOrderFailed() int { return z.compactOrderFailed }
