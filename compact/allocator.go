package compact

import (
	"github.com/pageframe-os/compactd/isolate"
	"github.com/pageframe-os/compactd/zone"
)

// allocFreePage is the free-page allocator callback, bound to one
// Control_t via a closure and handed to the migration engine as a
// migrate.AllocFunc_t. It drains the private
// freepages list the high cursor has already isolated, refilling from
// the zone via isolate.HighCursor whenever the list runs dry.
func (c *Control_t) allocFreePage() (zone.Pfn_t, bool) {
	if len(c.FreePages) == 0 {
		want := len(c.MigratePages)
		if want == 0 {
			want = isolate.ClusterMax
		}
		lowBound := c.MigratePfn + zone.PageBlockPages
		res := isolate.HighCursor(c.Zone, c.FreePfn, lowBound, len(c.FreePages), want, c.Sync, &c.Contended)
		c.FreePages = append(c.FreePages, res.Isolated...)
		c.FreePfn = res.NextFreePfn
	}
	if len(c.FreePages) == 0 {
		return zone.NilPfn, false
	}
	pfn := c.FreePages[0]
	c.FreePages = c.FreePages[1:]
	return pfn, true
}
