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
	"math"

	"github.com/AleutianAI/CircuitGuard/services/circuit/tables"
)

// VoltageDropCalculator computes voltage drop for a conductor run.
//
// # Thread Safety
//
// Safe for concurrent use; the calculator only reads the immutable tables.
type VoltageDropCalculator struct {
	tables *tables.Tables
}

// NewVoltageDropCalculator creates a new VoltageDropCalculator.
// Panics if tables is nil.
func NewVoltageDropCalculator(t *tables.Tables) *VoltageDropCalculator {
	if t == nil {
		panic("voltage drop calculator requires non-nil tables")
	}
	return &VoltageDropCalculator{tables: t}
}

// Calculate computes the round-trip voltage drop across a conductor.
//
// Resistance resolution order: an explicit ResistanceOverride wins;
// otherwise the (gauge, material) pair is looked up in the tables. When
// neither resolves, the result is zero drop with ResistanceResolved=false.
// That is a deliberate degraded answer so batch compliance runs keep
// going; callers must treat the flag, not the zero, as the signal.
//
// # Inputs
//
//   - cond: The conductor run. LengthFeet is one-way.
//   - currentAmps: Load current; must not be negative.
//   - voltage: Nominal circuit voltage; must not be negative. Zero voltage
//     yields a zero percent figure rather than a division failure.
//   - threePhase: Selects sqrt(3)*I*R instead of the 2*I*R round trip.
//
// # Outputs
//
//   - VoltageDropResult: Drop volts, percent of nominal, the resistance
//     used, and whether it was resolved.
//   - error: ErrInvalidInput on negative length, current, or voltage, an
//     unknown material, or a negative resistance override.
func (c *VoltageDropCalculator) Calculate(cond Conductor, currentAmps, voltage float64, threePhase bool) (VoltageDropResult, error) {
	if cond.LengthFeet < 0 {
		return VoltageDropResult{}, invalidInputf("conductor length must not be negative, got %v", cond.LengthFeet)
	}
	if currentAmps < 0 {
		return VoltageDropResult{}, invalidInputf("current must not be negative, got %v", currentAmps)
	}
	if voltage < 0 {
		return VoltageDropResult{}, invalidInputf("voltage must not be negative, got %v", voltage)
	}
	if !cond.Material.Valid() {
		return VoltageDropResult{}, invalidInputf("unknown conductor material %q", cond.Material)
	}
	if cond.ResistanceOverride != nil && *cond.ResistanceOverride < 0 {
		return VoltageDropResult{}, invalidInputf("resistance override must not be negative, got %v", *cond.ResistanceOverride)
	}

	ohmsPerKft, resolved := c.resolveResistance(cond)
	if !resolved {
		return VoltageDropResult{ResistanceResolved: false}, nil
	}

	oneWayOhms := ohmsPerKft * cond.LengthFeet / 1000.0
	dropVolts := 2.0 * currentAmps * oneWayOhms
	if threePhase {
		dropVolts = math.Sqrt(3) * currentAmps * oneWayOhms
	}
	dropPercent := 0.0
	if voltage > 0 {
		dropPercent = dropVolts / voltage * 100.0
	}

	return VoltageDropResult{
		DropVolts:          dropVolts,
		DropPercent:        dropPercent,
		OhmsPerKft:         ohmsPerKft,
		ResistanceResolved: true,
	}, nil
}

// resolveResistance picks the override when present, else the table row.
func (c *VoltageDropCalculator) resolveResistance(cond Conductor) (float64, bool) {
	if cond.ResistanceOverride != nil {
		return *cond.ResistanceOverride, true
	}
	return c.tables.Resistance(cond.Material, cond.Gauge)
}
