package sink

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridpilot/gridpilot/core/model"
	coresink "github.com/gridpilot/gridpilot/core/sink"
)

func testRecord(tick uint64, ts time.Time, action model.BatteryAction) coresink.TickRecord {
	return coresink.TickRecord{
		ID:   fmt.Sprintf("rec-%d", tick),
		Tick: tick,
		Snapshot: model.EnergySnapshot{
			Timestamp:    ts,
			SolarKWh:     10,
			LoadKWh:      80,
			GridPrice:    0.18,
			CO2Intensity: 400,
			BatterySoC:   50,
		},
		Forecast:    model.ForecastResult{HorizonTicks: 3, PredictedSolarKWh: 11, PredictedLoadKWh: 82, Confidence: 0.7},
		Decision:    model.Decision{BatteryAction: action, GridImportKWh: 70, Rationale: "test"},
		CommittedAt: ts,
	}
}

func TestJSONLStore_RoundTrip(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "ticks.log"))
	require.NoError(t, err)
	defer store.Close()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(testRecord(uint64(i), base.Add(time.Duration(i)*time.Hour), model.ActionIdle)))
	}

	got, err := store.Query(TickQuery{})
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, rec := range got {
		assert.Equal(t, uint64(i), rec.Tick, "append order must be preserved")
	}
	assert.Equal(t, 0.18, got[0].Snapshot.GridPrice)
	assert.Equal(t, "test", got[0].Decision.Rationale)
}

func TestJSONLStore_TimeWindowQuery(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "ticks.log"))
	require.NoError(t, err)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		require.NoError(t, store.Record(testRecord(uint64(i), base.Add(time.Duration(i)*time.Hour), model.ActionIdle)))
	}

	got, err := store.Query(TickQuery{Start: base.Add(2 * time.Hour), End: base.Add(5 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, uint64(2), got[0].Tick)
	assert.Equal(t, uint64(5), got[len(got)-1].Tick)
}

func TestJSONLStore_ActionFilter(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "ticks.log"))
	require.NoError(t, err)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	actions := []model.BatteryAction{model.ActionIdle, model.ActionCharge, model.ActionDischarge, model.ActionCharge}
	for i, a := range actions {
		require.NoError(t, store.Record(testRecord(uint64(i), base.Add(time.Duration(i)*time.Hour), a)))
	}

	got, err := store.Query(TickQuery{Action: "charge"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, rec := range got {
		assert.Equal(t, model.ActionCharge, rec.Decision.BatteryAction)
	}
}

func TestJSONLStore_EmptyFile(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "ticks.log"))
	require.NoError(t, err)
	got, err := store.Query(TickQuery{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
