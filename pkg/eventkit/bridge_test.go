package eventkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResultCellDeliversAcrossGoroutines(t *testing.T) {
	cell := newResultCell[int]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		cell.put(42)
	}()

	assert.Equal(t, 42, cell.wait())
}

func TestResultCellFirstWriteWins(t *testing.T) {
	cell := newResultCell[string]()

	cell.put("first")
	cell.put("second")

	assert.Equal(t, "first", cell.wait())
	// Repeated waits observe the same value.
	assert.Equal(t, "first", cell.wait())
}

func TestResultCellWaitUntilExpires(t *testing.T) {
	cell := newResultCell[int]()

	start := time.Now()
	v, ok := cell.waitUntil(start.Add(20 * time.Millisecond))

	assert.False(t, ok)
	assert.Equal(t, 0, v)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	// A late write must not panic and must not wake anyone retroactively.
	cell.put(7)
	v, ok = cell.waitUntil(time.Now().Add(10 * time.Millisecond))
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestResultCellWaitUntilDelivered(t *testing.T) {
	cell := newResultCell[string]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		cell.put("done")
	}()

	v, ok := cell.waitUntil(time.Now().Add(5 * time.Second))
	assert.True(t, ok)
	assert.Equal(t, "done", v)
}
