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

import "fmt"

// SafetyAnalyzer classifies hazards from a completed analysis.
//
// # Description
//
// These are fast screening heuristics over voltage and current levels, not
// an incident energy study; the quantitative arc flash path lives in
// services/fault. Each screen produces a low, medium, or high finding and
// the overall level is the worst finding.
//
// # Thread Safety
//
// SafetyAnalyzer is stateless and safe for concurrent use.
type SafetyAnalyzer struct{}

// NewSafetyAnalyzer creates a new SafetyAnalyzer.
func NewSafetyAnalyzer() *SafetyAnalyzer {
	return &SafetyAnalyzer{}
}

// Analyze runs all hazard screens against an analysis.
//
// # Inputs
//
//   - a: A completed CircuitAnalysis. Must not be nil.
//
// # Outputs
//
//   - *SafetyAssessment: Findings keyed by SafetyArcFlash, SafetyOverload,
//     SafetyGroundFault, and SafetyShortCircuit, plus the overall level.
//   - error: ErrInvalidInput on a nil analysis or unknown circuit type.
func (s *SafetyAnalyzer) Analyze(a *CircuitAnalysis) (*SafetyAssessment, error) {
	if a == nil {
		return nil, invalidInputf("analysis must not be nil")
	}
	if !a.CircuitType.Valid() {
		return nil, invalidInputf("unknown circuit type %q", a.CircuitType)
	}

	findings := map[string]SafetyFinding{
		SafetyArcFlash:     s.arcFlash(a),
		SafetyOverload:     s.overload(a),
		SafetyGroundFault:  s.groundFault(a),
		SafetyShortCircuit: s.shortCircuit(a),
	}

	overall := HazardLow
	for _, finding := range findings {
		if finding.Level.Exceeds(overall) {
			overall = finding.Level
		}
	}

	return &SafetyAssessment{Findings: findings, Overall: overall}, nil
}

// arcFlash screens arc flash exposure from voltage and current levels.
func (s *SafetyAnalyzer) arcFlash(a *CircuitAnalysis) SafetyFinding {
	voltage := a.Voltage
	current := a.Load.CurrentAmps

	switch {
	case voltage >= ArcFlashHighVoltage && current >= ArcFlashHighAmps:
		return SafetyFinding{
			Level: HazardHigh,
			Notes: []string{fmt.Sprintf(
				"high arc flash exposure: %.0fV at %.1fA", voltage, current)},
			Recommendations: []string{
				"Perform a detailed arc flash incident energy study",
				"Require arc-rated PPE for all energized work on this circuit",
				"Consider remote operation or de-energized work procedures",
			},
		}
	case voltage >= ArcFlashMediumVoltage || current >= ArcFlashMediumAmps:
		return SafetyFinding{
			Level: HazardMedium,
			Notes: []string{fmt.Sprintf(
				"moderate arc flash exposure: %.0fV at %.1fA", voltage, current)},
			Recommendations: []string{
				"Verify arc flash labeling is current",
				"Use arc-rated PPE when working energized",
			},
		}
	default:
		return SafetyFinding{Level: HazardLow}
	}
}

// overload screens the load current against the derated capacity.
func (s *SafetyAnalyzer) overload(a *CircuitAnalysis) SafetyFinding {
	if !a.CapacityResolved || a.CapacityAmps <= 0 {
		return SafetyFinding{
			Level: HazardLow,
			Notes: []string{"conductor capacity unresolved; overload screen not evaluated"},
		}
	}

	current := a.Load.CurrentAmps
	switch {
	case current > a.CapacityAmps:
		return SafetyFinding{
			Level: HazardHigh,
			Notes: []string{fmt.Sprintf(
				"load %.1fA exceeds the %.1fA conductor capacity", current, a.CapacityAmps)},
			Recommendations: []string{
				"Reduce the connected load or increase the conductor size",
			},
		}
	case current > HighUtilizationFraction*a.CapacityAmps:
		return SafetyFinding{
			Level: HazardMedium,
			Notes: []string{fmt.Sprintf(
				"load %.1fA is above %.0f%% of the %.1fA conductor capacity",
				current, HighUtilizationFraction*100, a.CapacityAmps)},
		}
	default:
		return SafetyFinding{Level: HazardLow}
	}
}

// groundFault applies the circuit-level GFCI heuristic. The narrower
// 150 V device-level rule lives in services/fault; both are intentional.
func (s *SafetyAnalyzer) groundFault(a *CircuitAnalysis) SafetyFinding {
	if a.CircuitType == CircuitReceptacle && a.Voltage <= GFCIVoltageCeiling {
		return SafetyFinding{
			Level: HazardMedium,
			Notes: []string{fmt.Sprintf(
				"receptacle circuit at %.0fV requires GFCI protection", a.Voltage)},
			Recommendations: []string{
				"Provide GFCI protection for this receptacle circuit",
			},
		}
	}
	return SafetyFinding{Level: HazardLow}
}

// shortCircuit screens available short circuit energy by voltage level.
func (s *SafetyAnalyzer) shortCircuit(a *CircuitAnalysis) SafetyFinding {
	if a.Voltage >= ShortCircuitMediumVoltage {
		return SafetyFinding{
			Level: HazardMedium,
			Notes: []string{fmt.Sprintf(
				"%.0fV system: elevated available short circuit energy", a.Voltage)},
			Recommendations: []string{
				"Verify the protective device interrupting rating against the available fault current",
			},
		}
	}
	return SafetyFinding{Level: HazardLow}
}
