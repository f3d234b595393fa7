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
	"fmt"

	"github.com/AleutianAI/CircuitGuard/services/circuit/tables"
)

// ComplianceValidator checks an analysis result against code limits.
//
// # Description
//
// Three independent checks run on every call, in a fixed order, with no
// short-circuiting: the branch circuit voltage drop limit, the derated
// ampacity of the conductor, and the minimum wire size for the circuit
// type. A failed ampacity lookup is reported as an explicit "check
// skipped" entry instead of aborting, so a batch run over many circuits
// still produces a complete violation report for the rest.
//
// # Thread Safety
//
// Safe for concurrent use; the validator only reads the immutable tables.
type ComplianceValidator struct {
	tables *tables.Tables
}

// NewComplianceValidator creates a new ComplianceValidator.
// Panics if tables is nil.
func NewComplianceValidator(t *tables.Tables) *ComplianceValidator {
	if t == nil {
		panic("compliance validator requires non-nil tables")
	}
	return &ComplianceValidator{tables: t}
}

// Validate evaluates all compliance checks against an analysis.
//
// # Inputs
//
//   - a: A completed CircuitAnalysis. Must not be nil.
//
// # Outputs
//
//   - []string: Violation descriptions; empty means compliant. The slice
//     is never nil.
//   - error: ErrInvalidInput on a nil analysis, unknown circuit type or
//     material, a non-positive derating factor, or an unparsable gauge
//     label.
func (v *ComplianceValidator) Validate(a *CircuitAnalysis) ([]string, error) {
	if a == nil {
		return nil, invalidInputf("analysis must not be nil")
	}
	if !a.CircuitType.Valid() {
		return nil, invalidInputf("unknown circuit type %q", a.CircuitType)
	}
	if !a.Conductor.Material.Valid() {
		return nil, invalidInputf("unknown conductor material %q", a.Conductor.Material)
	}
	if a.Conductor.DeratingFactor <= 0 {
		return nil, invalidInputf("derating factor must be positive, got %v", a.Conductor.DeratingFactor)
	}

	issues := make([]string, 0)
	limits := v.tables.Limits()

	// Check 1: voltage drop against the branch circuit limit.
	if a.VoltageDrop.DropPercent > limits.MaxVoltageDropPercent {
		issues = append(issues, fmt.Sprintf(
			"voltage drop %.2f%% exceeds the %.1f%% branch circuit limit",
			a.VoltageDrop.DropPercent, limits.MaxVoltageDropPercent))
	}

	// Check 2: load current against derated ampacity.
	if ampacity, ok := v.tables.Ampacity(a.Conductor.Material, a.Conductor.Gauge); ok {
		derated := ampacity * a.Conductor.DeratingFactor
		if a.Load.CurrentAmps > derated {
			issues = append(issues, fmt.Sprintf(
				"load current %.1fA exceeds the derated ampacity %.1fA of %s gauge %q",
				a.Load.CurrentAmps, derated, a.Conductor.Material, a.Conductor.Gauge))
		}
	} else {
		issues = append(issues, fmt.Sprintf(
			"ampacity for %s gauge %q not found in the conductor tables; ampacity check skipped",
			a.Conductor.Material, a.Conductor.Gauge))
	}

	// Check 3: minimum wire size for the circuit type. Circuit types
	// without a defined minimum are not checked.
	if minimum, ok := v.tables.MinimumGauge(string(a.CircuitType)); ok {
		atLeast, err := GaugeAtLeast(a.Conductor.Gauge, minimum)
		if err != nil {
			return nil, err
		}
		if !atLeast {
			issues = append(issues, fmt.Sprintf(
				"gauge %q is below the minimum %q required for %s circuits",
				a.Conductor.Gauge, minimum, a.CircuitType))
		}
	}

	return issues, nil
}
