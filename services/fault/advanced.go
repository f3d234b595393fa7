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

import (
	"fmt"

	"github.com/AleutianAI/CircuitGuard/services/circuit"
)

// ElevatedPPECategory is the PPE category at or above which arc flash
// exposure counts as a risk factor.
const ElevatedPPECategory = 2

// AdvancedRequest bundles everything the advanced analysis can consume
// for one circuit.
//
// # Description
//
// Optional analyses are keyed on field presence: a nil UpstreamDevice
// skips coordination, a nil GroundResistanceOhms skips ground fault
// analysis, and a nil BackupCapacitiesWatts slice skips redundancy
// entirely. An empty-but-non-nil capacities slice means "evaluated,
// zero backup", which is a different statement than "not evaluated".
//
// # Fields
//
//   - Analysis: Analyzed circuit; must not be nil.
//   - Device: Protective device for the fault study.
//   - UpstreamDevice: Optional upstream device enabling coordination.
//   - SourceFaultAmps: Available fault current at the source, 0 unknown.
//   - GroundResistanceOhms: Optional grounding electrode resistance.
//   - BackupCapacitiesWatts: Optional backup source capacities.
//   - Options: Fault study overrides, nil for engine defaults.
type AdvancedRequest struct {
	Analysis              *circuit.CircuitAnalysis
	Device                circuit.ProtectiveDevice
	UpstreamDevice        *circuit.ProtectiveDevice
	SourceFaultAmps       float64
	GroundResistanceOhms  *float64
	BackupCapacitiesWatts []float64
	Options               *FaultOptions
}

// AdvancedResult is the combined record of all analyses that ran.
//
// # Fields
//
//   - CircuitID: Identifier of the analyzed circuit.
//   - Fault: Fault study record; always present.
//   - Coordination: Present only when an upstream device was supplied
//     and a finite nonzero fault current was available.
//   - Redundancy: Present only when backup capacities were supplied.
//   - GroundFault: Present only when a ground resistance was supplied.
//   - OverallRisk: Aggregated risk over the elevated factors.
//   - RiskFactors: The elevated factors found, in evaluation order.
//   - Recommendations: Static remediation guidance, one per factor.
type AdvancedResult struct {
	CircuitID       string                `json:"circuit_id"`
	Fault           *FaultCurrentAnalysis `json:"fault"`
	Coordination    *CoordinationResult   `json:"coordination,omitempty"`
	Redundancy      *RedundancyResult     `json:"redundancy,omitempty"`
	GroundFault     *GroundFaultResult    `json:"ground_fault,omitempty"`
	OverallRisk     RiskLevel             `json:"overall_risk"`
	RiskFactors     []string              `json:"risk_factors"`
	Recommendations []string              `json:"recommendations"`
}

// AdvancedAnalyzer orchestrates the fault, coordination, redundancy,
// and ground fault analyses for one circuit.
//
// # Thread Safety
//
// Safe for concurrent use.
type AdvancedAnalyzer struct {
	fault *FaultAnalysisEngine
}

// NewAdvancedAnalyzer creates an analyzer around the given fault
// engine. A nil engine uses a default-configured one.
func NewAdvancedAnalyzer(f *FaultAnalysisEngine) *AdvancedAnalyzer {
	if f == nil {
		f = NewFaultAnalysisEngine(nil)
	}
	return &AdvancedAnalyzer{fault: f}
}

// Analyze runs every analysis the request enables and aggregates the
// overall risk.
//
// # Description
//
// The fault study always runs. Coordination, redundancy, and ground
// fault analyses run only when their inputs are present; skipped
// analyses stay nil in the result. The overall risk counts elevated
// factors: an arc flash exposure at PPE category 2 or above,
// evaluated-and-inadequate grounding, and evaluated-and-absent
// redundancy. Two or more factors are high risk, one is medium, none
// is low.
//
// # Inputs
//
//   - req: The request; Analysis must not be nil.
//
// # Outputs
//
//   - *AdvancedResult: Combined record. Never nil on success.
//   - error: Non-nil when any enabled analysis rejects its inputs.
func (a *AdvancedAnalyzer) Analyze(req AdvancedRequest) (*AdvancedResult, error) {
	if req.Analysis == nil {
		return nil, invalidInputf("analysis must not be nil")
	}

	faultResult, err := a.fault.AnalyzeFault(req.Analysis, req.SourceFaultAmps, req.Device, req.Options)
	if err != nil {
		return nil, fmt.Errorf("fault study: %w", err)
	}

	result := &AdvancedResult{
		CircuitID: req.Analysis.CircuitID,
		Fault:     faultResult,
	}

	// Coordination needs a finite nonzero fault current; a degenerate
	// study (zero voltage or unbounded current) cannot place the pair
	// on their curves.
	if req.UpstreamDevice != nil && faultResult.AvailableFaultAmps > 0 {
		coordination, err := AnalyzeCoordination(*req.UpstreamDevice, req.Device, faultResult.AvailableFaultAmps)
		if err != nil {
			return nil, fmt.Errorf("coordination: %w", err)
		}
		result.Coordination = coordination
	}

	if req.BackupCapacitiesWatts != nil {
		redundancy, err := AnalyzeRedundancy(req.Analysis.Load.PowerWatts, req.BackupCapacitiesWatts)
		if err != nil {
			return nil, fmt.Errorf("redundancy: %w", err)
		}
		result.Redundancy = redundancy
	}

	if req.GroundResistanceOhms != nil {
		groundFault, err := AnalyzeGroundFault(req.Analysis.Voltage, *req.GroundResistanceOhms, req.Analysis.CircuitType)
		if err != nil {
			return nil, fmt.Errorf("ground fault: %w", err)
		}
		result.GroundFault = groundFault
	}

	result.RiskFactors, result.Recommendations = a.collectRiskFactors(result)
	result.OverallRisk = overallRisk(len(result.RiskFactors))

	return result, nil
}

// collectRiskFactors gathers the elevated factors and their remediation
// guidance in evaluation order.
func (a *AdvancedAnalyzer) collectRiskFactors(result *AdvancedResult) (factors, recommendations []string) {
	factors = make([]string, 0)
	recommendations = make([]string, 0)

	if result.Fault.PPECategory >= ElevatedPPECategory {
		factors = append(factors,
			fmt.Sprintf("arc flash exposure requires PPE category %d", result.Fault.PPECategory))
		recommendations = append(recommendations,
			"Perform a detailed arc flash study and enforce the PPE requirements")
	}

	if result.GroundFault != nil && !result.GroundFault.GroundingAdequate {
		factors = append(factors,
			fmt.Sprintf("grounding resistance %.1f ohms exceeds the %.0f ohm limit",
				result.GroundFault.GroundResistanceOhms, AdequateGroundResistanceOhms))
		recommendations = append(recommendations,
			"Improve the grounding electrode system to 25 ohms or less")
	}

	if result.Redundancy != nil && !result.Redundancy.HasRedundancy {
		factors = append(factors,
			fmt.Sprintf("backup capacity covers only %.0f%% of the primary load",
				result.Redundancy.RedundancyFactor*100))
		recommendations = append(recommendations,
			"Provision backup capacity at or above the primary load")
	}

	return factors, recommendations
}

// overallRisk maps the number of elevated factors to a risk level.
func overallRisk(factorCount int) RiskLevel {
	switch {
	case factorCount >= 2:
		return RiskHigh
	case factorCount == 1:
		return RiskMedium
	default:
		return RiskLow
	}
}
