// Package daemon runs compaction on a schedule, a kcompactd analog: a
// background loop that wakes on a fixed cadence (or an explicit wakeup
// request) and runs CompactNodes once per tick. Grounded on tinySQL's
// Scheduler (github.com/robfig/cron/v3 for the cadence) and dh-cli's
// machine_linux.go (log "github.com/sirupsen/logrus" import alias,
// google/uuid for correlation IDs on any unit of work that crosses a
// goroutine boundary).
package daemon

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/pageframe-os/compactd/compact"
	"github.com/pageframe-os/compactd/config"
	"github.com/pageframe-os/compactd/stats"
	"github.com/pageframe-os/compactd/zone"
)

// Daemon_t owns the cron loop, the node set it compacts, and the
// collector it reports to.
type Daemon_t struct {
	Nodes     []*compact.Node_t
	Tunables  config.Tunables_t
	Collector *stats.Collector_t
	Log       *log.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	wakeCh  chan struct{}
	stopCh  chan struct{}
	running bool
}

// New builds a Daemon_t. A nil Log defaults to logrus's standard logger.
func New(nodes []*compact.Node_t, tunables config.Tunables_t, collector *stats.Collector_t, logger *log.Logger) *Daemon_t {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Daemon_t{
		Nodes:     nodes,
		Tunables:  tunables,
		Collector: collector,
		Log:       logger,
		wakeCh:    make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start registers spec with the cron schedule and begins running passes.
// spec follows robfig/cron's 5 or 6-field syntax ("*/10 * * * * *" every
// ten seconds, with seconds enabled).
func (d *Daemon_t) Start(spec string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return nil
	}

	d.cron = cron.New(cron.WithParser(cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)))
	if _, err := d.cron.AddFunc(spec, d.requestPass); err != nil {
		return err
	}
	d.cron.Start()
	d.running = true

	go d.loop()
	return nil
}

// Stop halts the cron schedule and signals the pass loop to exit. It
// waits for running cron callbacks (which only queue a pass), not for a
// pass the loop has already started; such a pass runs to completion
// after Stop returns.
func (d *Daemon_t) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	ctx := d.cron.Stop()
	<-ctx.Done()
	close(d.stopCh)
	d.running = false
}

// Wake requests an out-of-band pass immediately, the direct_compact
// counterpart to the periodic cron-driven pass — the caller asked for
// free memory urgently and would rather not wait for the next tick.
func (d *Daemon_t) Wake() {
	select {
	case d.wakeCh <- struct{}{}:
	default:
	}
}

func (d *Daemon_t) requestPass() {
	d.Wake()
}

func (d *Daemon_t) loop() {
	for {
		select {
		case <-d.stopCh:
			return
		case <-d.wakeCh:
			d.runPass()
		}
	}
}

// runPass is one kcompactd_do_work equivalent: compact every node,
// async, order -1 (compact everything rather than size to one pending
// allocation, since nothing here is actually blocked on an allocation
// the way the real per-node kcompactd thread is woken for one).
func (d *Daemon_t) runPass() {
	runID := uuid.New()
	entry := d.Log.WithField("run_id", runID.String())
	entry.Info("compaction pass starting")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	results, err := compact.CompactNodes(ctx, d.Nodes, -1, zone.Movable, false, d.Tunables.ExtfragThreshold, false, d.Tunables.MaxParallelNodes)
	if err != nil {
		entry.WithError(err).Warn("compaction pass aborted")
		return
	}

	for _, pgdat := range results {
		for _, zr := range pgdat.Zones {
			entry.WithFields(log.Fields{
				"node":     pgdat.NodeID,
				"zone":     zr.Zone.Name,
				"status":   zr.Status.String(),
				"migrated": zr.PagesMigrated,
				"failed":   zr.PagesFailed,
			}).Debug("zone pass done")
			if d.Collector != nil {
				d.Collector.Observe(zr, 0)
			}
		}
	}
	entry.Info("compaction pass finished")
}
