package daemon

import (
	"io"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageframe-os/compactd/compact"
	"github.com/pageframe-os/compactd/config"
	"github.com/pageframe-os/compactd/zone"
)

func sampleNode(t *testing.T) *compact.Node_t {
	t.Helper()
	z := zone.NewZone("Normal", 0, zone.PageBlockPages)
	z.SetBlockType(0, zone.Movable)
	for i := zone.Pfn_t(0); i < zone.PageBlockPages; i++ {
		if i%2 == 0 {
			z.AddFreePage(i, zone.Movable)
		} else {
			z.AddLRUPage(i, false)
		}
	}
	return &compact.Node_t{ID: 0, Zones: []*zone.Zone_t{z}}
}

func TestWakeTriggersAPass(t *testing.T) {
	logger := log.New()
	logger.SetOutput(io.Discard)
	d := New([]*compact.Node_t{sampleNode(t)}, config.Defaults(), nil, logger)

	require.NoError(t, d.Start("0 0 1 1 *")) // once a year; the test drives passes via Wake
	defer d.Stop()

	d.Wake()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if d.Nodes[0].Zones[0].FreeArea.TotalFreePages() > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	assert.True(t, d.Nodes[0].Zones[0].FreeArea.TotalFreePages() > 0)
}

func TestStartIsIdempotent(t *testing.T) {
	d := New([]*compact.Node_t{sampleNode(t)}, config.Defaults(), nil, nil)
	require.NoError(t, d.Start("0 0 1 1 *"))
	require.NoError(t, d.Start("0 0 1 1 *"))
	d.Stop()
}
