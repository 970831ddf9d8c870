package zone

// FreeArea_t is the buddy allocator's free-area structure: MaxOrder
// buckets, each partitioned by migratetype, each an intrusive doubly
// linked list of buddy-block heads threaded through the page arena.
type FreeArea_t struct {
	buckets [MaxOrder][NMigrateTypes]freelist_t
}

type freelist_t struct {
	head, tail Pfn_t
	count      int
}

func newFreeArea() FreeArea_t {
	var fa FreeArea_t
	for o := range fa.buckets {
		for mt := range fa.buckets[o] {
			fa.buckets[o][mt] = freelist_t{head: NilPfn, tail: NilPfn}
		}
	}
	return fa
}

// Count returns the number of free blocks of the given order and
// migratetype.
func (fa *FreeArea_t) Count(order int, mt Migratetype_t) int {
	return fa.buckets[order][mt].count
}

// Empty reports whether the (order, migratetype) bucket has no blocks.
func (fa *FreeArea_t) Empty(order int, mt Migratetype_t) bool {
	return fa.buckets[order][mt].count == 0
}

// Peek returns the head of the (order, migratetype) bucket without
// removing it.
func (fa *FreeArea_t) Peek(order int, mt Migratetype_t) (Pfn_t, bool) {
	b := &fa.buckets[order][mt]
	if b.head == NilPfn {
		return 0, false
	}
	return b.head, true
}

// insert links pfn as a new buddy-block head of the given order and
// migratetype. The caller must already have set FlagBuddy and Order on
// the page.
func (z *Zone_t) insertFree(pfn Pfn_t, order int, mt Migratetype_t) {
	b := &z.FreeArea.buckets[order][mt]
	p := z.page(pfn)
	p.freePrev, p.freeNext = NilPfn, NilPfn
	if b.tail == NilPfn {
		b.head, b.tail = pfn, pfn
	} else {
		z.page(b.tail).freeNext = pfn
		p.freePrev = b.tail
		b.tail = pfn
	}
	b.count++
}

// removeFree unlinks pfn from the (order, migratetype) free list it is on.
func (z *Zone_t) removeFree(pfn Pfn_t, order int, mt Migratetype_t) {
	b := &z.FreeArea.buckets[order][mt]
	p := z.page(pfn)
	if p.freePrev != NilPfn {
		z.page(p.freePrev).freeNext = p.freeNext
	} else {
		b.head = p.freeNext
	}
	if p.freeNext != NilPfn {
		z.page(p.freeNext).freePrev = p.freePrev
	} else {
		b.tail = p.freePrev
	}
	p.freePrev, p.freeNext = NilPfn, NilPfn
	b.count--
}

// PutFreePage places a fresh order-0 page on the buddy free area and
// coalesces it with its buddy at every order while the buddy is itself a
// free block of the same migratetype, mirroring __free_one_page. Used to
// drain a compaction run's private freepages list back to the allocator
// on every exit path. This is what turns the scattered order-0 pages
// migration leaves behind into the higher-order blocks compaction exists
// to build.
func (z *Zone_t) PutFreePage(pfn Pfn_t, mt Migratetype_t) {
	order := 0
	for order < MaxOrder-1 {
		buddyPfn := z.Start + ((pfn - z.Start) ^ (Pfn_t(1) << uint(order)))
		if buddyPfn < z.Start || buddyPfn >= z.Start+z.Spanned {
			break
		}
		bp := z.page(buddyPfn)
		if !bp.PageBuddy() || bp.Order != order || bp.Block != mt {
			break
		}
		z.removeFree(buddyPfn, order, mt)
		bp.Flags &^= FlagBuddy
		bp.Order = 0
		if buddyPfn < pfn {
			pfn = buddyPfn
		}
		order++
	}
	p := z.page(pfn)
	p.Flags |= FlagBuddy
	p.Order = order
	p.Block = mt
	z.insertFree(pfn, order, mt)
}

// SplitFreePage is split_free_page: it atomically removes a buddy page of
// some order k from its free list and returns 2^k on success, 0 if pfn is
// not a buddy head. On success every constituent order-0 page becomes
// individually addressable (FlagBuddy cleared, Order reset) but is not
// reinserted into any free list — the caller (the free-page isolator)
// owns staging them onto its private list in PFN order.
func (z *Zone_t) SplitFreePage(pfn Pfn_t) int {
	p := z.page(pfn)
	if !p.PageBuddy() {
		return 0
	}
	order := p.Order
	mt := p.Block
	z.removeFree(pfn, order, mt)

	n := 1 << order
	for i := 0; i < n; i++ {
		sp := z.page(pfn + Pfn_t(i))
		sp.Flags &^= FlagBuddy
		sp.Order = 0
	}
	return n
}

// CaptureFreePage is capture_free_page: it atomically removes exactly the
// free block at pfn if it is still a buddy head of the given order and
// migratetype. Failing is non-fatal to the caller — it just means another
// allocator won the race.
func (z *Zone_t) CaptureFreePage(pfn Pfn_t, order int, mt Migratetype_t) bool {
	p := z.page(pfn)
	if !p.PageBuddy() || p.Order != order || p.Block != mt {
		return false
	}
	z.removeFree(pfn, order, mt)
	p.Flags &^= FlagBuddy
	return true
}

// FindCandidate scans the free-area buckets of order >= minOrder for a
// block whose migratetype is mt, returning the first PFN found. Used by
// the capture path; it does not remove the block.
func (fa *FreeArea_t) FindCandidate(minOrder int, mt Migratetype_t) (Pfn_t, int, bool) {
	for order := minOrder; order < MaxOrder; order++ {
		if pfn, ok := fa.Peek(order, mt); ok {
			return pfn, order, true
		}
	}
	return 0, 0, false
}

// TotalFreePages returns the zone's total free page count across every
// order and migratetype, used for watermark checks.
func (fa *FreeArea_t) TotalFreePages() int {
	total := 0
	for order := 0; order < MaxOrder; order++ {
		for mt := 0; mt < NMigrateTypes; mt++ {
			total += fa.buckets[order][mt].count << order
		}
	}
	return total
}

// TotalFreeBlocks returns the number of free blocks (of any size) across
// every order and migratetype — used by the default fragmentation index
// heuristic, not by the core.
func (fa *FreeArea_t) TotalFreeBlocks() int {
	total := 0
	for order := 0; order < MaxOrder; order++ {
		for mt := 0; mt < NMigrateTypes; mt++ {
			total += fa.buckets[order][mt].count
		}
	}
	return total
}

// BlocksAtLeast returns the number of free blocks of order >= order,
// across all migratetypes.
func (fa *FreeArea_t) BlocksAtLeast(order int) int {
	total := 0
	for o := order; o < MaxOrder; o++ {
		for mt := 0; mt < NMigrateTypes; mt++ {
			total += fa.buckets[o][mt].count
		}
	}
	return total
}
