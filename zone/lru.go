package zone

// Lru_t models the two reclaim lists (anonymous, file-backed) a zone
// tracks pages on. Ordering is the only thing that matters to compaction:
// it never reads page contents, only list membership and the anon/file
// partition used by the isolated-page counters.
type Lru_t struct {
	anonHead, anonTail Pfn_t
	fileHead, fileTail Pfn_t

	anonCount, fileCount int

	// Busy, when non-nil, lets tests simulate __isolate_lru_page racing
	// with another walker that has the page locked.
	Busy func(Pfn_t) bool
}

func newLRU() Lru_t {
	return Lru_t{anonHead: NilPfn, anonTail: NilPfn, fileHead: NilPfn, fileTail: NilPfn}
}

// AnonCount and FileCount report combined active+inactive counts for the
// respective list. This repo does not model LRU aging, so "active" and
// "inactive" collapse to one count per list; the too-many-isolated
// throttle only ever needs the combined figure.
func (l *Lru_t) AnonCount() int { return l.anonCount }
func (l *Lru_t) FileCount() int { return l.fileCount }

// AddTail places pfn at the tail of the anon or file list and marks it
// LRU-tracked. Used both at zone construction and by PutbackLRUPages.
func (z *Zone_t) AddTail(pfn Pfn_t, file bool) {
	p := z.page(pfn)
	p.Flags |= FlagLRU
	if file {
		p.Flags |= FlagFile
	} else {
		p.Flags &^= FlagFile
	}
	p.lruPrev, p.lruNext = NilPfn, NilPfn

	head, tail := &z.LRU.anonHead, &z.LRU.anonTail
	if file {
		head, tail = &z.LRU.fileHead, &z.LRU.fileTail
	}
	if *tail == NilPfn {
		*head, *tail = pfn, pfn
	} else {
		z.page(*tail).lruNext = pfn
		p.lruPrev = *tail
		*tail = pfn
	}
	if file {
		z.LRU.fileCount++
	} else {
		z.LRU.anonCount++
	}
}

// unlink detaches pfn from whichever LRU list it is on without touching
// its flags. Caller decides what to do with FlagLRU/FlagIsolatedMigrate.
func (z *Zone_t) unlink(pfn Pfn_t) {
	p := z.page(pfn)
	file := p.PageIsFileCache()
	head, tail := &z.LRU.anonHead, &z.LRU.anonTail
	count := &z.LRU.anonCount
	if file {
		head, tail = &z.LRU.fileHead, &z.LRU.fileTail
		count = &z.LRU.fileCount
	}
	if p.lruPrev != NilPfn {
		z.page(p.lruPrev).lruNext = p.lruNext
	} else {
		*head = p.lruNext
	}
	if p.lruNext != NilPfn {
		z.page(p.lruNext).lruPrev = p.lruPrev
	} else {
		*tail = p.lruPrev
	}
	p.lruPrev, p.lruNext = NilPfn, NilPfn
	*count--
}

// TryIsolateLRUPage is __isolate_lru_page: a speculative check, performed
// under the LRU lock, that pfn is a valid isolation candidate. It does not
// unlink the page — DelPageFromLRUList does that once the caller commits.
// asyncMigrate selects ISOLATE_ASYNC_MIGRATE mode, which this model treats
// as "never wait for a busy page"; sync mode may still fail via Busy, but
// the two modes are distinguished only by caller intent here, not by
// blocking (nothing in this model blocks).
func (z *Zone_t) TryIsolateLRUPage(pfn Pfn_t, asyncMigrate bool) bool {
	p := z.page(pfn)
	if !p.PageLRU() {
		return false
	}
	if p.Flags&FlagIsolatedMigrate != 0 {
		return false
	}
	if z.LRU.Busy != nil && z.LRU.Busy(pfn) {
		return false
	}
	return true
}

// DelPageFromLRUList detaches pfn from its LRU list and marks it isolated
// for migration, incrementing the zone's isolated-anon/isolated-file
// counter.
func (z *Zone_t) DelPageFromLRUList(pfn Pfn_t) {
	p := z.page(pfn)
	file := p.PageIsFileCache()
	z.unlink(pfn)
	p.Flags = p.Flags&^FlagLRU | FlagIsolatedMigrate
	if file {
		z.IsolatedFile.Add(1)
	} else {
		z.IsolatedAnon.Add(1)
	}
}

// PutbackLRUPages returns previously isolated pages to their original LRU
// list, the round-trip half of DelPageFromLRUList: isolate followed by
// putback is identity on LRU membership and counters.
func (z *Zone_t) PutbackLRUPages(pfns []Pfn_t) {
	for _, pfn := range pfns {
		p := z.page(pfn)
		file := p.PageIsFileCache()
		p.Flags &^= FlagIsolatedMigrate
		z.AddTail(pfn, file)
		if file {
			z.IsolatedFile.Add(-1)
		} else {
			z.IsolatedAnon.Add(-1)
		}
	}
}
