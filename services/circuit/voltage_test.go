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
	"testing"

	"github.com/AleutianAI/CircuitGuard/services/circuit/tables"
)

// createTestConductor builds the canonical 150 ft #12 copper run.
func createTestConductor() Conductor {
	return Conductor{
		Gauge:          "12",
		Material:       tables.Copper,
		LengthFeet:     150,
		DeratingFactor: 1.0,
	}
}

// TestNewVoltageDropCalculator_NilTables tests the constructor contract.
func TestNewVoltageDropCalculator_NilTables(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for nil tables")
		}
	}()
	NewVoltageDropCalculator(nil)
}

// TestVoltageDropCalculator_Calculate tests the canonical single-phase
// drop: 25 A over 150 ft of #12 copper at 120 V.
func TestVoltageDropCalculator_Calculate(t *testing.T) {
	calc := NewVoltageDropCalculator(mustTables(t))

	got, err := calc.Calculate(createTestConductor(), 25, 120, false)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if !got.ResistanceResolved {
		t.Fatal("ResistanceResolved = false, want true")
	}
	if got.OhmsPerKft != 1.93 {
		t.Errorf("OhmsPerKft = %v, want 1.93", got.OhmsPerKft)
	}

	// Two-way drop over a 0.2895 ohm one-way run.
	wantDrop := 2 * 25.0 * (1.93 * 150.0 / 1000.0)
	if !almostEqual(got.DropVolts, wantDrop) {
		t.Errorf("DropVolts = %v, want %v", got.DropVolts, wantDrop)
	}
	if !almostEqual(got.DropPercent, wantDrop/120.0*100.0) {
		t.Errorf("DropPercent = %v, want %v", got.DropPercent, wantDrop/120.0*100.0)
	}
}

// TestVoltageDropCalculator_LengthLinearity tests that doubling the run
// length exactly doubles the drop.
func TestVoltageDropCalculator_LengthLinearity(t *testing.T) {
	calc := NewVoltageDropCalculator(mustTables(t))

	short := createTestConductor()
	long := createTestConductor()
	long.LengthFeet = short.LengthFeet * 2

	shortDrop, err := calc.Calculate(short, 25, 120, false)
	if err != nil {
		t.Fatalf("Calculate(short) failed: %v", err)
	}
	longDrop, err := calc.Calculate(long, 25, 120, false)
	if err != nil {
		t.Fatalf("Calculate(long) failed: %v", err)
	}

	if longDrop.DropVolts != 2*shortDrop.DropVolts {
		t.Errorf("DropVolts at double length = %v, want exactly %v",
			longDrop.DropVolts, 2*shortDrop.DropVolts)
	}
}

// TestVoltageDropCalculator_ThreePhaseFactor tests the sqrt(3) versus 2
// multiplier relationship between the phase configurations.
func TestVoltageDropCalculator_ThreePhaseFactor(t *testing.T) {
	calc := NewVoltageDropCalculator(mustTables(t))

	single, err := calc.Calculate(createTestConductor(), 25, 480, false)
	if err != nil {
		t.Fatalf("Calculate(single) failed: %v", err)
	}
	three, err := calc.Calculate(createTestConductor(), 25, 480, true)
	if err != nil {
		t.Fatalf("Calculate(three) failed: %v", err)
	}

	want := single.DropVolts * math.Sqrt(3) / 2
	if !almostEqual(three.DropVolts, want) {
		t.Errorf("three-phase DropVolts = %v, want %v", three.DropVolts, want)
	}
}

// TestVoltageDropCalculator_Override tests that a measured resistance
// takes priority over the table value.
func TestVoltageDropCalculator_Override(t *testing.T) {
	calc := NewVoltageDropCalculator(mustTables(t))

	override := 2.0
	cond := createTestConductor()
	cond.ResistanceOverride = &override

	got, err := calc.Calculate(cond, 10, 120, false)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if !got.ResistanceResolved {
		t.Fatal("ResistanceResolved = false, want true")
	}
	if got.OhmsPerKft != 2.0 {
		t.Errorf("OhmsPerKft = %v, want the override 2.0", got.OhmsPerKft)
	}
}

// TestVoltageDropCalculator_OverrideWithoutTableRow tests that an
// override rescues a (gauge, material) pair absent from the tables.
func TestVoltageDropCalculator_OverrideWithoutTableRow(t *testing.T) {
	calc := NewVoltageDropCalculator(mustTables(t))

	override := 3.18
	cond := Conductor{
		Gauge:              "14",
		Material:           tables.Aluminum,
		LengthFeet:         100,
		DeratingFactor:     1.0,
		ResistanceOverride: &override,
	}

	got, err := calc.Calculate(cond, 10, 120, false)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if !got.ResistanceResolved {
		t.Error("ResistanceResolved = false, want true with an override present")
	}
}

// TestVoltageDropCalculator_Unresolved tests the fail-soft path for an
// unknown (gauge, material) pair.
func TestVoltageDropCalculator_Unresolved(t *testing.T) {
	calc := NewVoltageDropCalculator(mustTables(t))

	cond := Conductor{
		Gauge:          "14",
		Material:       tables.Aluminum,
		LengthFeet:     100,
		DeratingFactor: 1.0,
	}

	got, err := calc.Calculate(cond, 10, 120, false)
	if err != nil {
		t.Fatalf("Calculate returned error: %v, want degraded result", err)
	}
	if got.ResistanceResolved {
		t.Error("ResistanceResolved = true, want false")
	}
	if got.DropVolts != 0 || got.DropPercent != 0 || got.OhmsPerKft != 0 {
		t.Errorf("degraded result = %+v, want zero values", got)
	}
}

// TestVoltageDropCalculator_Degenerate tests division guards and the
// zero-length and zero-current edges.
func TestVoltageDropCalculator_Degenerate(t *testing.T) {
	calc := NewVoltageDropCalculator(mustTables(t))

	t.Run("zero voltage", func(t *testing.T) {
		got, err := calc.Calculate(createTestConductor(), 25, 0, false)
		if err != nil {
			t.Fatalf("Calculate failed: %v", err)
		}
		if got.DropVolts <= 0 {
			t.Errorf("DropVolts = %v, want > 0", got.DropVolts)
		}
		if got.DropPercent != 0 {
			t.Errorf("DropPercent = %v, want 0 at zero voltage", got.DropPercent)
		}
	})

	t.Run("zero length", func(t *testing.T) {
		cond := createTestConductor()
		cond.LengthFeet = 0

		got, err := calc.Calculate(cond, 25, 120, false)
		if err != nil {
			t.Fatalf("Calculate failed: %v", err)
		}
		if !got.ResistanceResolved {
			t.Error("ResistanceResolved = false, want true")
		}
		if got.DropVolts != 0 {
			t.Errorf("DropVolts = %v, want 0", got.DropVolts)
		}
	})

	t.Run("zero current", func(t *testing.T) {
		got, err := calc.Calculate(createTestConductor(), 0, 120, false)
		if err != nil {
			t.Fatalf("Calculate failed: %v", err)
		}
		if got.DropVolts != 0 {
			t.Errorf("DropVolts = %v, want 0", got.DropVolts)
		}
	})

	t.Run("malformed gauge degrades", func(t *testing.T) {
		cond := createTestConductor()
		cond.Gauge = "bogus"

		got, err := calc.Calculate(cond, 25, 120, false)
		if err != nil {
			t.Fatalf("Calculate returned error: %v, want degraded result", err)
		}
		if got.ResistanceResolved {
			t.Error("ResistanceResolved = true, want false for a malformed gauge")
		}
	})
}

// TestVoltageDropCalculator_Invalid tests fail-fast input rejection.
func TestVoltageDropCalculator_Invalid(t *testing.T) {
	calc := NewVoltageDropCalculator(mustTables(t))

	negative := -1.0

	tests := []struct {
		name    string
		mutate  func(c *Conductor)
		current float64
		voltage float64
	}{
		{"negative length", func(c *Conductor) { c.LengthFeet = -10 }, 25, 120},
		{"unknown material", func(c *Conductor) { c.Material = "steel" }, 25, 120},
		{"negative override", func(c *Conductor) { c.ResistanceOverride = &negative }, 25, 120},
		{"negative current", func(c *Conductor) {}, -25, 120},
		{"negative voltage", func(c *Conductor) {}, 25, -120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond := createTestConductor()
			tt.mutate(&cond)

			_, err := calc.Calculate(cond, tt.current, tt.voltage, false)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Calculate() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}
