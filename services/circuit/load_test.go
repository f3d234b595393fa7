// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package circuit

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// almostEqual compares floats to within a tight absolute tolerance.
func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

// TestNewLoad tests the convenience constructor defaults.
func TestNewLoad(t *testing.T) {
	load := NewLoad("track lights", 1800, 120)

	if load.CurrentAmps != 15.0 {
		t.Errorf("CurrentAmps = %v, want 15.0", load.CurrentAmps)
	}
	if load.PowerFactor != 1.0 {
		t.Errorf("PowerFactor = %v, want 1.0", load.PowerFactor)
	}
	if load.DiversityFactor != 1.0 {
		t.Errorf("DiversityFactor = %v, want 1.0", load.DiversityFactor)
	}

	zeroVolt := NewLoad("orphan", 1800, 0)
	if zeroVolt.CurrentAmps != 0 {
		t.Errorf("CurrentAmps at zero voltage = %v, want 0", zeroVolt.CurrentAmps)
	}
}

// TestLoadAggregator_Aggregate_TwoLoads tests the canonical two-load
// aggregation: 1800 W + 1200 W at 120 V must yield exactly 25 A.
func TestLoadAggregator_Aggregate_TwoLoads(t *testing.T) {
	agg := NewLoadAggregator()

	loads := []Load{
		{Name: "track lights", PowerWatts: 1800, Voltage: 120, PowerFactor: 1.0, Classification: "lighting", DiversityFactor: 1.0},
		{Name: "outlets", PowerWatts: 1200, Voltage: 120, PowerFactor: 1.0, Classification: "receptacle", DiversityFactor: 1.0},
	}

	got, err := agg.Aggregate(loads)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if got.PowerWatts != 3000.0 {
		t.Errorf("PowerWatts = %v, want 3000.0", got.PowerWatts)
	}
	if got.Voltage != 120.0 {
		t.Errorf("Voltage = %v, want 120.0", got.Voltage)
	}
	if got.CurrentAmps != 25.0 {
		t.Errorf("CurrentAmps = %v, want exactly 25.0", got.CurrentAmps)
	}
	if got.PowerFactor != 1.0 {
		t.Errorf("PowerFactor = %v, want 1.0", got.PowerFactor)
	}
	if got.Classification != MixedClassification {
		t.Errorf("Classification = %q, want %q", got.Classification, MixedClassification)
	}
	if got.DiversityFactor != 1.0 {
		t.Errorf("DiversityFactor = %v, want 1.0 on the aggregate", got.DiversityFactor)
	}
}

// TestLoadAggregator_Aggregate_OrderIndependence tests that member order
// does not change the aggregate.
func TestLoadAggregator_Aggregate_OrderIndependence(t *testing.T) {
	agg := NewLoadAggregator()

	forward := []Load{
		{Name: "a", PowerWatts: 1800, Voltage: 120, PowerFactor: 1.0, Classification: "lighting", DiversityFactor: 1.0},
		{Name: "b", PowerWatts: 1200, Voltage: 240, PowerFactor: 1.0, Classification: "lighting", DiversityFactor: 1.0},
		{Name: "c", PowerWatts: 600, Voltage: 120, PowerFactor: 1.0, Classification: "lighting", DiversityFactor: 1.0},
	}
	reversed := []Load{forward[2], forward[1], forward[0]}

	first, err := agg.Aggregate(forward)
	if err != nil {
		t.Fatalf("Aggregate(forward) failed: %v", err)
	}
	second, err := agg.Aggregate(reversed)
	if err != nil {
		t.Fatalf("Aggregate(reversed) failed: %v", err)
	}

	if first != second {
		t.Errorf("order changed the aggregate:\n forward = %+v\nreversed = %+v", first, second)
	}
	if first.Voltage != 120.0 {
		t.Errorf("Voltage = %v, want the minimum member voltage 120.0", first.Voltage)
	}
}

// TestLoadAggregator_Aggregate_Empty tests the nominal default for an
// empty member list.
func TestLoadAggregator_Aggregate_Empty(t *testing.T) {
	agg := NewLoadAggregator()

	got, err := agg.Aggregate(nil)
	if err != nil {
		t.Fatalf("Aggregate(nil) failed: %v", err)
	}

	if got.Voltage != DefaultSystemVoltage {
		t.Errorf("Voltage = %v, want %v", got.Voltage, DefaultSystemVoltage)
	}
	if got.PowerWatts != 0 || got.CurrentAmps != 0 {
		t.Errorf("PowerWatts, CurrentAmps = %v, %v, want 0, 0", got.PowerWatts, got.CurrentAmps)
	}
	if got.PowerFactor != 1.0 {
		t.Errorf("PowerFactor = %v, want 1.0", got.PowerFactor)
	}
}

// TestLoadAggregator_Aggregate_DiversityWeighting tests that member
// diversity factors scale demand before summation.
func TestLoadAggregator_Aggregate_DiversityWeighting(t *testing.T) {
	agg := NewLoadAggregator()

	loads := []Load{
		{Name: "intermittent", PowerWatts: 1000, Voltage: 120, PowerFactor: 1.0, DiversityFactor: 0.5},
		{Name: "continuous", PowerWatts: 1000, Voltage: 120, PowerFactor: 1.0, DiversityFactor: 1.0},
	}

	got, err := agg.Aggregate(loads)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if got.PowerWatts != 1500.0 {
		t.Errorf("PowerWatts = %v, want 1500.0", got.PowerWatts)
	}
	if got.CurrentAmps != 12.5 {
		t.Errorf("CurrentAmps = %v, want 12.5", got.CurrentAmps)
	}
}

// TestLoadAggregator_Aggregate_PowerFactor tests apparent-power weighting
// of mixed power factors.
func TestLoadAggregator_Aggregate_PowerFactor(t *testing.T) {
	agg := NewLoadAggregator()

	loads := []Load{
		{Name: "resistive", PowerWatts: 1000, Voltage: 120, PowerFactor: 1.0, DiversityFactor: 1.0},
		{Name: "inductive", PowerWatts: 1000, Voltage: 120, PowerFactor: 0.5, DiversityFactor: 1.0},
	}

	got, err := agg.Aggregate(loads)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	// 2000 W over 3000 VA.
	if !almostEqual(got.PowerFactor, 2000.0/3000.0) {
		t.Errorf("PowerFactor = %v, want %v", got.PowerFactor, 2000.0/3000.0)
	}
}

// TestLoadAggregator_Aggregate_SharedClassification tests that a uniform
// member classification survives aggregation.
func TestLoadAggregator_Aggregate_SharedClassification(t *testing.T) {
	agg := NewLoadAggregator()

	loads := []Load{
		{Name: "a", PowerWatts: 500, Voltage: 120, PowerFactor: 1.0, Classification: "lighting", DiversityFactor: 1.0},
		{Name: "b", PowerWatts: 500, Voltage: 120, PowerFactor: 1.0, Classification: "lighting", DiversityFactor: 1.0},
	}

	got, err := agg.Aggregate(loads)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if got.Classification != "lighting" {
		t.Errorf("Classification = %q, want %q", got.Classification, "lighting")
	}
}

// TestLoadAggregator_Aggregate_ZeroVoltageMember tests the degenerate
// current division guard.
func TestLoadAggregator_Aggregate_ZeroVoltageMember(t *testing.T) {
	agg := NewLoadAggregator()

	loads := []Load{
		{Name: "unknown supply", PowerWatts: 1000, Voltage: 0, PowerFactor: 1.0, DiversityFactor: 1.0},
	}

	got, err := agg.Aggregate(loads)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if got.Voltage != 0 {
		t.Errorf("Voltage = %v, want 0", got.Voltage)
	}
	if got.CurrentAmps != 0 {
		t.Errorf("CurrentAmps = %v, want 0 when voltage is unknown", got.CurrentAmps)
	}
}

// TestLoadAggregator_Aggregate_Invalid tests member rejection with
// positional identification.
func TestLoadAggregator_Aggregate_Invalid(t *testing.T) {
	agg := NewLoadAggregator()

	valid := Load{Name: "ok", PowerWatts: 100, Voltage: 120, PowerFactor: 1.0, DiversityFactor: 1.0}

	tests := []struct {
		name    string
		bad     Load
		wantSub string
	}{
		{
			name:    "zero power factor",
			bad:     Load{Name: "pump", PowerWatts: 100, Voltage: 120, PowerFactor: 0, DiversityFactor: 1.0},
			wantSub: "power factor",
		},
		{
			name:    "power factor above one",
			bad:     Load{Name: "pump", PowerWatts: 100, Voltage: 120, PowerFactor: 1.5, DiversityFactor: 1.0},
			wantSub: "power factor",
		},
		{
			name:    "zero diversity factor",
			bad:     Load{Name: "pump", PowerWatts: 100, Voltage: 120, PowerFactor: 1.0, DiversityFactor: 0},
			wantSub: "diversity factor",
		},
		{
			name:    "negative power",
			bad:     Load{Name: "pump", PowerWatts: -100, Voltage: 120, PowerFactor: 1.0, DiversityFactor: 1.0},
			wantSub: "power",
		},
		{
			name:    "negative voltage",
			bad:     Load{Name: "pump", PowerWatts: 100, Voltage: -120, PowerFactor: 1.0, DiversityFactor: 1.0},
			wantSub: "voltage",
		},
		{
			name:    "unnamed member",
			bad:     Load{PowerWatts: 100, Voltage: 120, PowerFactor: 0, DiversityFactor: 1.0},
			wantSub: "unnamed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := agg.Aggregate([]Load{valid, tt.bad})
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Aggregate() error = %v, want ErrInvalidInput", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantSub)
			}
			if !strings.Contains(err.Error(), "load 1") {
				t.Errorf("error %q does not identify the offending member position", err.Error())
			}
		})
	}
}

// TestLoadAggregator_MotorLoad tests the horsepower conversion.
func TestLoadAggregator_MotorLoad(t *testing.T) {
	agg := NewLoadAggregator()

	got, err := agg.MotorLoad(5, 480, 0.9)
	if err != nil {
		t.Fatalf("MotorLoad failed: %v", err)
	}

	wantWatts := 5 * WattsPerHorsepower / 0.9
	if !almostEqual(got.PowerWatts, wantWatts) {
		t.Errorf("PowerWatts = %v, want %v", got.PowerWatts, wantWatts)
	}

	wantAmps := wantWatts / (480 * math.Sqrt(3) * AssumedMotorPowerFactor)
	if !almostEqual(got.CurrentAmps, wantAmps) {
		t.Errorf("CurrentAmps = %v, want %v", got.CurrentAmps, wantAmps)
	}
	if got.PowerFactor != AssumedMotorPowerFactor {
		t.Errorf("PowerFactor = %v, want %v", got.PowerFactor, AssumedMotorPowerFactor)
	}
	if got.Classification != "motor" {
		t.Errorf("Classification = %q, want %q", got.Classification, "motor")
	}
}

// TestLoadAggregator_MotorLoad_Invalid tests conversion input rejection.
func TestLoadAggregator_MotorLoad_Invalid(t *testing.T) {
	agg := NewLoadAggregator()

	tests := []struct {
		name       string
		horsepower float64
		voltage    float64
		efficiency float64
	}{
		{"zero horsepower", 0, 480, 0.9},
		{"negative horsepower", -5, 480, 0.9},
		{"zero voltage", 5, 0, 0.9},
		{"zero efficiency", 5, 480, 0},
		{"efficiency above one", 5, 480, 1.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := agg.MotorLoad(tt.horsepower, tt.voltage, tt.efficiency)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("MotorLoad() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}
