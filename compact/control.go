package compact

import "github.com/pageframe-os/compactd/zone"

// Control_t is one compaction attempt's run record — the CompactControl
// equivalent, plus the injectable hooks tests use to drive scenarios
// deterministically.
type Control_t struct {
	Zone        *zone.Zone_t
	Order       int
	Migratetype zone.Migratetype_t
	Sync        bool

	// MigratePfn and FreePfn are the two converging cursors.
	MigratePfn zone.Pfn_t
	FreePfn    zone.Pfn_t

	// FreePages is the private free-list the allocator callback
	// drains and refills; MigratePages holds the current batch handed to
	// the migration engine.
	FreePages    []zone.Pfn_t
	MigratePages []zone.Pfn_t

	// Contended is set by the isolators when an async run aborts on
	// contention.
	Contended bool

	// Capture, when non-nil, is filled with the PFN of a suitable free
	// block the moment one appears. Nil disables capture and falls back
	// to the free-area bucket check in Finished.
	Capture *zone.Pfn_t

	// FatalPending reports a pending fatal signal; checked the same way
	// lockhelper.Helper_t checks it. nil means never.
	FatalPending func() bool

	// legacyOrderIndexing selects the pre-fix compact_finished free-area
	// bucket indexing; see DESIGN.md. Default false runs the corrected
	// behavior.
	legacyOrderIndexing bool

	// PagesIsolated, PagesMigrated and PagesFailed are running totals surfaced to
	// package stats by the caller after a run completes.
	PagesIsolated int
	PagesMigrated int
	PagesFailed   int
}

// NewControl builds a run record starting at the zone's natural bounds:
// MigratePfn at the zone's first PFN, FreePfn at the page-block-aligned
// PFN nearest the zone's end.
func NewControl(z *zone.Zone_t, order int, mt zone.Migratetype_t, sync bool) *Control_t {
	return &Control_t{
		Zone:        z,
		Order:       order,
		Migratetype: mt,
		Sync:        sync,
		MigratePfn:  z.Start,
		FreePfn:     zone.Rounddown(z.Start+z.Spanned, zone.PageBlockPages),
	}
}

func (c *Control_t) fatalPending() bool {
	return c.FatalPending != nil && c.FatalPending()
}
