package merrymem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTableDefaults(t *testing.T) {
	tbl, err := NewTable()
	assert.NoError(t, err)
	assert.Equal(t, 1024, tbl.Capacity())
	assert.Equal(t, 0, tbl.Len())
}

func TestNewTableRejectsBadCapacity(t *testing.T) {
	_, err := NewTable(WithCapacity(100))
	assert.Error(t, err)
}

func TestNewTableHonorsOptions(t *testing.T) {
	tbl, err := NewTable(WithCapacity(64), WithOverflowSlots(4), WithStripeWidth(8))
	assert.NoError(t, err)
	assert.Equal(t, 64, tbl.Capacity())
	assert.Equal(t, 68, tbl.buckets.total())
}

func TestTableLenTracksInsertAndRemove(t *testing.T) {
	tbl, err := NewTable(WithCapacity(64))
	assert.NoError(t, err)

	tbl.Insert(1, 100)
	tbl.Insert(2, 200)
	assert.Equal(t, 2, tbl.Len())

	tbl.Insert(1, 101) // update, not a new key
	assert.Equal(t, 2, tbl.Len())

	tbl.Remove(1)
	assert.Equal(t, 1, tbl.Len())
}

func TestOpStateTransitionAllowsLegalEdges(t *testing.T) {
	assert.NotPanics(t, func() {
		s := opIdle.transition(opFastTry)
		s = s.transition(opSlowEnter)
		s = s.transition(opCommitted)
		s.transition(opIdle)
	})
	assert.NotPanics(t, func() {
		s := opIdle.transition(opFastTry)
		s.transition(opCommitted)
	})
}

func TestOpStateTransitionRejectsIllegalEdges(t *testing.T) {
	assert.Panics(t, func() {
		opIdle.transition(opCommitted)
	}, "Idle must only ever move to FastTry")
	assert.Panics(t, func() {
		opFastTry.transition(opIdle)
	}, "FastTry must only move to Committed or SlowEnter")
	assert.Panics(t, func() {
		opCommitted.transition(opFastTry)
	}, "Committed must only move back to Idle")
}
