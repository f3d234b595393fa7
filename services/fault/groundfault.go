// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package fault

import "github.com/AleutianAI/CircuitGuard/services/circuit"

const (
	// AdequateGroundResistanceOhms is the maximum grounding electrode
	// resistance considered adequate.
	AdequateGroundResistanceOhms = 25.0

	// EGCPThresholdAmps is the prospective ground fault current above
	// which equipment ground fault protection is required.
	EGCPThresholdAmps = 30.0

	// GFCIMaxVoltage is the highest voltage at which the device-level
	// GFCI rule applies to receptacle circuits. Intentionally narrower
	// than the circuit-level screening in the circuit package; the two
	// rules answer different questions and stay separately callable.
	GFCIMaxVoltage = 150.0
)

// AnalyzeGroundFault evaluates the ground fault exposure of a circuit.
//
// # Description
//
// The prospective ground fault current is V/R through the grounding
// electrode system. A zero resistance describes a solidly bonded path
// where the current is limited only by the source; the result reports
// 0 A with FaultCurrentUnbounded set rather than an infinite value.
// Equipment ground fault protection is required above 30 A (or for an
// unbounded path), and device-level GFCI protection for receptacle
// circuits at 150 V or less.
//
// # Inputs
//
//   - voltage: System voltage; must not be negative.
//   - groundResistanceOhms: Electrode system resistance; must not be
//     negative.
//   - ct: Circuit type; must be a known member.
//
// # Outputs
//
//   - *GroundFaultResult: Current, adequacy, and protection requirements.
//   - error: Non-nil for invalid inputs.
func AnalyzeGroundFault(voltage, groundResistanceOhms float64, ct circuit.CircuitType) (*GroundFaultResult, error) {
	if voltage < 0 {
		return nil, invalidInputf("voltage must not be negative, got %v", voltage)
	}
	if groundResistanceOhms < 0 {
		return nil, invalidInputf("ground resistance must not be negative, got %v", groundResistanceOhms)
	}
	if !ct.Valid() {
		return nil, invalidInputf("unknown circuit type %q", ct)
	}

	result := &GroundFaultResult{
		Voltage:              voltage,
		GroundResistanceOhms: groundResistanceOhms,
		GroundingAdequate:    groundResistanceOhms <= AdequateGroundResistanceOhms,
		GFCIRequired:         ct == circuit.CircuitReceptacle && voltage <= GFCIMaxVoltage,
	}

	if groundResistanceOhms == 0 {
		result.FaultCurrentUnbounded = true
		result.EGCPRequired = true
		return result, nil
	}

	result.FaultCurrentAmps = voltage / groundResistanceOhms
	result.EGCPRequired = result.FaultCurrentAmps > EGCPThresholdAmps
	return result, nil
}
