// Package demo builds small synthetic zone.Zone_t values for the CLI and
// daemon binaries to run against. This repo has no access to a real
// kernel's page tables — there is no /proc/zoneinfo to read from
// userspace Go — so "a zone" here always means one of these synthetic
// layouts, built deterministically rather than from live memory state.
package demo

import (
	"github.com/pageframe-os/compactd/compact"
	"github.com/pageframe-os/compactd/zone"
)

// FragmentedZone builds a zone whose free memory is real but scattered:
// every page-block repeats one free order-0 page followed by three in-use
// LRU pages, so that no free block larger than one page exists despite a
// healthy total free count — the shape compaction exists to fix.
func FragmentedZone(name string, blocks int) *zone.Zone_t {
	spanned := zone.Pfn_t(blocks) * zone.PageBlockPages
	z := zone.NewZone(name, 0, spanned)

	for b := 0; b < blocks; b++ {
		start := zone.Pfn_t(b) * zone.PageBlockPages
		z.SetBlockType(start, zone.Movable)
		for i := zone.Pfn_t(0); i < zone.PageBlockPages; i++ {
			pfn := start + i
			if i%4 == 0 {
				z.AddFreePage(pfn, zone.Movable)
			} else {
				z.AddLRUPage(pfn, i%2 == 0)
			}
		}
	}

	total := z.FreeArea.TotalFreePages()
	z.Watermarks[zone.WatermarkMin] = total / 8
	z.Watermarks[zone.WatermarkLow] = total / 4
	z.Watermarks[zone.WatermarkHigh] = total / 2
	return z
}

// SampleNode wraps a single FragmentedZone in a one-zone node, the
// smallest unit CompactNode/CompactNodes will accept.
func SampleNode(nodeID int, blocks int) *compact.Node_t {
	return &compact.Node_t{
		ID:    nodeID,
		Zones: []*zone.Zone_t{FragmentedZone("Normal", blocks)},
	}
}
