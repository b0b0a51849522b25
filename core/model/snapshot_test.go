package model

import (
	"errors"
	"testing"
	"time"
)

func validSnapshot() EnergySnapshot {
	return EnergySnapshot{
		Timestamp:    time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		SolarKWh:     15,
		LoadKWh:      90,
		GridPrice:    0.18,
		CO2Intensity: 400,
		BatterySoC:   50,
	}
}

func TestSnapshotValidate(t *testing.T) {
	if err := validSnapshot().Validate(); err != nil {
		t.Fatalf("valid snapshot rejected: %v", err)
	}

	mutations := []struct {
		name string
		mut  func(*EnergySnapshot)
	}{
		{"zero timestamp", func(s *EnergySnapshot) { s.Timestamp = time.Time{} }},
		{"solar above max", func(s *EnergySnapshot) { s.SolarKWh = 31 }},
		{"negative solar", func(s *EnergySnapshot) { s.SolarKWh = -1 }},
		{"load below min", func(s *EnergySnapshot) { s.LoadKWh = 10 }},
		{"price above max", func(s *EnergySnapshot) { s.GridPrice = 0.5 }},
		{"co2 below min", func(s *EnergySnapshot) { s.CO2Intensity = 100 }},
		{"soc above max", func(s *EnergySnapshot) { s.BatterySoC = 101 }},
	}
	for _, tc := range mutations {
		t.Run(tc.name, func(t *testing.T) {
			s := validSnapshot()
			tc.mut(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSnapshotClamp(t *testing.T) {
	s := validSnapshot()
	s.SolarKWh = 50
	s.LoadKWh = 5
	s.GridPrice = 1
	s.CO2Intensity = 0
	s.BatterySoC = -3
	c := s.Clamp()
	if err := c.Validate(); err != nil {
		t.Fatalf("clamped snapshot must validate: %v", err)
	}
	if c.SolarKWh != SolarMaxKWh || c.LoadKWh != LoadMinKWh || c.BatterySoC != SoCMinPct {
		t.Fatalf("clamp produced %#v", c)
	}
}

func TestForecastResultValidate(t *testing.T) {
	fc := ForecastResult{HorizonTicks: 3, PredictedSolarKWh: 10, PredictedLoadKWh: 80, Confidence: 0.5}
	if err := fc.Validate(); err != nil {
		t.Fatalf("valid forecast rejected: %v", err)
	}
	fc.Confidence = 1.2
	if err := fc.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for confidence out of range, got %v", err)
	}
}

func TestBatteryActionString(t *testing.T) {
	cases := map[BatteryAction]string{ActionIdle: "idle", ActionCharge: "charge", ActionDischarge: "discharge"}
	for a, want := range cases {
		if a.String() != want {
			t.Fatalf("%d stringer %q, want %q", a, a.String(), want)
		}
	}
}
