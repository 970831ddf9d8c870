// Package migrate models the page-migration engine as an external
// collaborator: migrate_pages(list, alloc_cb, cb_data, mode).
// There is no page content in this repo's model, so "migrating" a page
// means handing its in-use role to a destination page drawn from the
// compactor's private free list and releasing the source page back to the
// buddy allocator — the bookkeeping move the real migration engine makes,
// without the byte copy it also performs.
package migrate

import "github.com/pageframe-os/compactd/zone"

// Mode_t mirrors MIGRATE_ASYNC / MIGRATE_SYNC_LIGHT. This repo's Engine_t
// behaves identically in both modes (nothing here ever blocks); Mode only
// records which mode a run used, and no code here branches on it.
type Mode_t int

const (
	Async Mode_t = iota
	SyncLight
)

// AllocFunc_t is the free-page allocator callback: called
// once per migrating page, it returns a destination PFN and whether one
// was available. Returning false causes that page's migration to fail.
type AllocFunc_t func() (zone.Pfn_t, bool)

// Outcome_t is one page's migration result.
type Outcome_t struct {
	Src zone.Pfn_t
	Dst zone.Pfn_t
	OK  bool
}

// Engine_t runs migrate_pages against one zone.
type Engine_t struct {
	Mode Mode_t
}

// Migrate attempts to migrate every page in pages, in order, consuming one
// destination per page from alloc, and returns one Outcome_t per page.
// There is no separate ENOMEM result: this model's allocator never
// returns an error, only "none available", so a nonempty batch with zero
// successes is the ENOMEM signal, and package compact's driver treats it
// as the "on ENOMEM terminate with PARTIAL" path.
func (e *Engine_t) Migrate(z *zone.Zone_t, pages []zone.Pfn_t, alloc AllocFunc_t) []Outcome_t {
	outcomes := make([]Outcome_t, 0, len(pages))
	for _, src := range pages {
		dst, ok := alloc()
		if !ok {
			outcomes = append(outcomes, Outcome_t{Src: src, OK: false})
			continue
		}
		e.movePage(z, src, dst)
		outcomes = append(outcomes, Outcome_t{Src: src, Dst: dst, OK: true})
	}
	return outcomes
}

// movePage hands src's in-use role to dst and releases src to the buddy
// allocator. Both pages must already be detached from any list: src was
// isolated onto migratepages by package isolate, dst came off the
// compactor's private freepages list.
func (e *Engine_t) movePage(z *zone.Zone_t, src, dst zone.Pfn_t) {
	srcPage := z.Page(src)
	file := srcPage.PageIsFileCache()
	mt := z.BlockMigratetype(src)

	if file {
		z.IsolatedFile.Add(-1)
	} else {
		z.IsolatedAnon.Add(-1)
	}
	srcPage.Flags &^= zone.FlagIsolatedMigrate
	z.PutFreePage(src, mt)

	z.AddLRUPage(dst, file)
}
