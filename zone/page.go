package zone

// PageFlags_t is a bitmask of per-page state. It mirrors the predicates
// a real page-frame descriptor exposes (PageBuddy, PageLRU, PageTransHuge,
// page_is_file_cache) without modeling real page contents.
type PageFlags_t uint32

const (
	// FlagBuddy marks the page as the head of a buddy free block.
	FlagBuddy PageFlags_t = 1 << iota
	// FlagLRU marks the page as tracked on a reclaim list.
	FlagLRU
	// FlagFile marks an LRU page as file-backed rather than anonymous.
	FlagFile
	// FlagCompound marks the page as the head of a transparent huge page.
	FlagCompound
	// FlagIsolatedMigrate marks the page as detached for migration.
	FlagIsolatedMigrate
	// FlagHole marks a PFN with no backing page (pfn_valid fails).
	FlagHole
)

// Page_t is one physical page's metadata, addressed by its Pfn and never
// copied out of the arena that owns it.
type Page_t struct {
	Pfn   Pfn_t
	Flags PageFlags_t
	// Order is the buddy order when FlagBuddy is set, or the compound
	// order when FlagCompound is set. Zero otherwise.
	Order int
	// Block is the migratetype of the page-block this page belongs to.
	// Cached per-page for scanner speed, matching get_pageblock_migratetype.
	Block Migratetype_t

	// lruPrev/lruNext link this page into its zone's anon or file LRU
	// list. NilPfn terminates either direction.
	lruPrev, lruNext Pfn_t

	// freePrev/freeNext link this page into a buddy free list bucket
	// when FlagBuddy is set.
	freePrev, freeNext Pfn_t
}

// PageBuddy reports whether p heads a free buddy block.
func (p *Page_t) PageBuddy() bool { return p.Flags&FlagBuddy != 0 }

// PageLRU reports whether p is tracked on a reclaim list.
func (p *Page_t) PageLRU() bool { return p.Flags&FlagLRU != 0 }

// PageTransHuge reports whether p heads a transparent huge page.
func (p *Page_t) PageTransHuge() bool { return p.Flags&FlagCompound != 0 }

// PageIsFileCache reports whether an LRU page is file-backed.
func (p *Page_t) PageIsFileCache() bool { return p.Flags&FlagFile != 0 }

// Hole reports whether this PFN has no backing page (pfn_valid fails).
func (p *Page_t) Hole() bool { return p.Flags&FlagHole != 0 }

// CompoundOrder returns the order of the transparent huge page headed at
// p, or 0 if p is not a THP head.
func (p *Page_t) CompoundOrder() int {
	if !p.PageTransHuge() {
		return 0
	}
	return p.Order
}
