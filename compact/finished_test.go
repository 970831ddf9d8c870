package compact

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageframe-os/compactd/zone"
)

func TestFinishedCompleteWhenCursorsMeet(t *testing.T) {
	z := zone.NewZone("Test", 0, zone.PageBlockPages)
	c := NewControl(z, 2, zone.Movable, false)
	c.MigratePfn = 100
	c.FreePfn = 100
	assert.Equal(t, Complete, c.Finished())
}

func TestFinishedPartialOnFatalSignal(t *testing.T) {
	z := zone.NewZone("Test", 0, zone.PageBlockPages)
	c := NewControl(z, 2, zone.Movable, true)
	c.FatalPending = func() bool { return true }
	assert.Equal(t, Partial, c.Finished())
}

func TestFinishedPartialWhenCaptureSlotFilled(t *testing.T) {
	z := zone.NewZone("Test", 0, zone.PageBlockPages)
	c := NewControl(z, 2, zone.Movable, false)
	slot := zone.Pfn_t(7)
	c.Capture = &slot
	assert.Equal(t, Partial, c.Finished())
}

func TestFinishedPartialWhenBucketSatisfied(t *testing.T) {
	z := zone.NewZone("Test", 0, zone.PageBlockPages)
	z.SetBlockType(0, zone.Movable)
	z.AddFreeBlock(0, 3, zone.Movable)

	c := NewControl(z, 3, zone.Movable, false)
	c.MigratePfn, c.FreePfn = 0, zone.PageBlockPages // cursors still apart
	assert.Equal(t, Partial, c.Finished())
}

func TestFinishedLegacyIndexingLooksAtWrongBucket(t *testing.T) {
	z := zone.NewZone("Test", 0, zone.PageBlockPages)
	z.SetBlockType(0, zone.Movable)
	z.AddFreeBlock(0, 3, zone.Movable) // satisfies order 3, not order 2

	c := NewControl(z, 2, zone.Movable, false)
	c.MigratePfn, c.FreePfn = 0, zone.PageBlockPages
	assert.Equal(t, Partial, c.Finished(), "corrected indexing finds the order-3 bucket while scanning upward from order 2")

	c.legacyOrderIndexing = true
	assert.Equal(t, Continue, c.Finished(), "legacy indexing only ever checks the fixed requested-order bucket, which is empty")
}

func TestFinishedOrderMinusOneIgnoresBuckets(t *testing.T) {
	z := zone.NewZone("Test", 0, zone.PageBlockPages)
	c := NewControl(z, -1, zone.Movable, false)
	c.MigratePfn, c.FreePfn = 0, zone.PageBlockPages
	assert.Equal(t, Continue, c.Finished())
}
