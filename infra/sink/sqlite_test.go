package sink

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridpilot/gridpilot/core/model"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ticks.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		require.NoError(t, store.Record(testRecord(uint64(i), base.Add(time.Duration(i)*time.Hour), model.ActionIdle)))
	}

	got, err := store.Query(TickQuery{})
	require.NoError(t, err)
	require.Len(t, got, 6)
	for i, rec := range got {
		assert.Equal(t, uint64(i), rec.Tick, "insertion order must be preserved")
	}
}

func TestSQLiteStore_Filters(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ticks.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	actions := []model.BatteryAction{model.ActionIdle, model.ActionCharge, model.ActionDischarge, model.ActionCharge}
	for i, a := range actions {
		require.NoError(t, store.Record(testRecord(uint64(i), base.Add(time.Duration(i)*time.Hour), a)))
	}

	byAction, err := store.Query(TickQuery{Action: "charge"})
	require.NoError(t, err)
	require.Len(t, byAction, 2)

	byTime, err := store.Query(TickQuery{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, byTime, 2)
	assert.Equal(t, uint64(1), byTime[0].Tick)

	both, err := store.Query(TickQuery{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour), Action: "discharge"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, model.ActionDischarge, both[0].Decision.BatteryAction)
}
