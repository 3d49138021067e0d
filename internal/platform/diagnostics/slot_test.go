package diagnostics_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saan-system/services/optimization/internal/platform/diagnostics"
)

func TestSlotLoadEmpty(t *testing.T) {
	slot := diagnostics.NewSlot()

	_, ok := slot.Load()
	assert.False(t, ok)
}

func TestSlotStoreThenLoad(t *testing.T) {
	slot := diagnostics.NewSlot()

	slot.Store(&diagnostics.Snapshot{RunID: "run-1", SolverName: "clustered_greedy"})

	snap, ok := slot.Load()
	assert.True(t, ok)
	assert.Equal(t, "run-1", snap.RunID)
}

func TestSlotLastWriterWins(t *testing.T) {
	slot := diagnostics.NewSlot()
	slot.Store(&diagnostics.Snapshot{RunID: "run-1"})
	slot.Store(&diagnostics.Snapshot{RunID: "run-2"})

	snap, ok := slot.Load()
	assert.True(t, ok)
	assert.Equal(t, "run-2", snap.RunID)
}

func TestSlotConcurrentAccess(t *testing.T) {
	slot := diagnostics.NewSlot()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			slot.Store(&diagnostics.Snapshot{RunID: "concurrent"})
		}(i)
		go func() {
			defer wg.Done()
			slot.Load()
		}()
	}
	wg.Wait()

	snap, ok := slot.Load()
	assert.True(t, ok)
	assert.Equal(t, "concurrent", snap.RunID)
}

func TestDefaultSlotIsSingleton(t *testing.T) {
	diagnostics.Default().Store(&diagnostics.Snapshot{RunID: "singleton"})

	snap, ok := diagnostics.Default().Load()
	assert.True(t, ok)
	assert.Equal(t, "singleton", snap.RunID)
}
