// Package compact's entry points: the single-zone public API
// (TryToCompactPages), the per-node sequential drivers (CompactPgdat,
// CompactNode), and the multi-node parallel fan-out (CompactNodes) added
// on top of the original per-pgdat-only design.
package compact

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/pageframe-os/compactd/migrate"
	"github.com/pageframe-os/compactd/zone"
)

// ZoneResult_t is one zone's outcome from a compaction attempt, carrying
// enough of the run record for callers (package stats, package daemon)
// to report on without reaching into Control_t's internals.
type ZoneResult_t struct {
	Zone          *zone.Zone_t
	Status        Status_t
	Capture       zone.Pfn_t
	PagesIsolated int
	PagesMigrated int
	PagesFailed   int
}

// TryToCompactPages is the single-zone entry point: it
// consults the zone's deferral state, runs CompactZone if not deferred,
// then updates the deferral bookkeeping from the outcome.
func TryToCompactPages(z *zone.Zone_t, order int, mt zone.Migratetype_t, sync bool, extfragThreshold int, capture bool) ZoneResult_t {
	if Deferred(z, order) {
		return ZoneResult_t{Zone: z, Status: Skipped, Capture: zone.NilPfn}
	}

	ctrl := NewControl(z, order, mt, sync)
	if capture {
		slot := zone.NilPfn
		ctrl.Capture = &slot
	}
	engine := &migrate.Engine_t{Mode: modeOf(sync)}

	status := CompactZone(ctrl, engine, extfragThreshold)

	// Complete means the whole zone was scanned without satisfying the
	// watermark, so only Partial counts as reaching the order. Deferral
	// state is only updated by sync runs.
	success := status == Partial
	if order >= 0 && sync {
		if sync && !success {
			z.DeferCompaction(order)
		} else {
			z.CompactionDeferReset(order, success)
		}
	}

	result := ZoneResult_t{
		Zone:          z,
		Status:        status,
		Capture:       zone.NilPfn,
		PagesIsolated: ctrl.PagesIsolated,
		PagesMigrated: ctrl.PagesMigrated,
		PagesFailed:   ctrl.PagesFailed,
	}
	if ctrl.Capture != nil {
		result.Capture = *ctrl.Capture
	}
	return result
}

func modeOf(sync bool) migrate.Mode_t {
	if sync {
		return migrate.SyncLight
	}
	return migrate.Async
}

// Node_t groups the zones of one NUMA node, the pgdat the kernel's own
// naming draws from.
type Node_t struct {
	ID    int
	Zones []*zone.Zone_t
}

// PgdatResult_t is the sequential outcome of compacting every zone of one
// node in zone order.
type PgdatResult_t struct {
	NodeID int
	Zones  []ZoneResult_t
}

// CompactPgdat is compact_pgdat: it walks a node's zones in order and runs
// TryToCompactPages on each sequentially. A real pgdat stops early once a
// zone reports Complete or Partial for an order high enough to satisfy
// the request and the caller does not need another zone tried; this
// model always walks every zone, since the zones in this repo's node
// model are independent buddy arenas with nothing to gain from an early
// stop beyond wasted work.
func CompactPgdat(node *Node_t, order int, mt zone.Migratetype_t, sync bool, extfragThreshold int, capture bool) PgdatResult_t {
	results := make([]ZoneResult_t, 0, len(node.Zones))
	for _, z := range node.Zones {
		results = append(results, TryToCompactPages(z, order, mt, sync, extfragThreshold, capture))
	}
	return PgdatResult_t{NodeID: node.ID, Zones: results}
}

// CompactNode runs CompactPgdat for a single node. It exists as its own
// entry point, distinct from CompactPgdat, because callers outside this
// package (package daemon) address work by node, not by pgdat — the
// pgdat is this package's implementation detail of what a node is.
func CompactNode(node *Node_t, order int, mt zone.Migratetype_t, sync bool, extfragThreshold int, capture bool) PgdatResult_t {
	return CompactPgdat(node, order, mt, sync, extfragThreshold, capture)
}

// CompactNodes adds multi-node parallelism on top of CompactNode: it fans
// it out across every node concurrently, bounding concurrency
// with a weighted semaphore and collecting the first error (there is
// none in this model short of ctx cancellation) with an errgroup. Order
// of results matches the order of nodes.
func CompactNodes(ctx context.Context, nodes []*Node_t, order int, mt zone.Migratetype_t, sync bool, extfragThreshold int, capture bool, maxParallel int64) ([]PgdatResult_t, error) {
	results := make([]PgdatResult_t, len(nodes))
	sem := semaphore.NewWeighted(maxParallel)
	g, gctx := errgroup.WithContext(ctx)

	for i, node := range nodes {
		i, node := i, node
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			results[i] = CompactNode(node, order, mt, sync, extfragThreshold, capture)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
