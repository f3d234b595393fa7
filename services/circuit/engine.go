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

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/AleutianAI/CircuitGuard/pkg/validation"
	"github.com/AleutianAI/CircuitGuard/services/circuit/tables"
)

// requestValidate checks AnalysisRequest struct tags, including the
// custom "awg" gauge label rule.
var requestValidate = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	// The registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("awg", func(fl validator.FieldLevel) bool {
		return validation.ValidateGaugeLabel(fl.Field().String()) == nil
	})
	return v
}

// Engine orchestrates the full circuit analysis pipeline.
//
// # Description
//
// One Analyze call aggregates the member loads, computes the conductor
// voltage drop, assembles the provisional CircuitAnalysis with the derated
// capacity, then runs the compliance and safety analyzers and derives
// recommendations. Every stage is a pure function; no stage mutates a
// value another stage already returned, only the engine assembles the
// final record.
//
// # Thread Safety
//
// Engine is safe for concurrent use.
type Engine struct {
	tables      *tables.Tables
	aggregator  *LoadAggregator
	voltageDrop *VoltageDropCalculator
	compliance  *ComplianceValidator
	safety      *SafetyAnalyzer
}

// NewEngine creates a new Engine over the given conductor tables.
// Panics if tables is nil.
func NewEngine(t *tables.Tables) *Engine {
	if t == nil {
		panic("circuit engine requires non-nil tables")
	}
	return &Engine{
		tables:      t,
		aggregator:  NewLoadAggregator(),
		voltageDrop: NewVoltageDropCalculator(t),
		compliance:  NewComplianceValidator(t),
		safety:      NewSafetyAnalyzer(),
	}
}

// Aggregator returns the engine's load aggregator for direct use, such as
// converting motor nameplates before building a request.
func (e *Engine) Aggregator() *LoadAggregator {
	return e.aggregator
}

// Analyze runs the full analysis pipeline for one circuit.
//
// # Inputs
//
//   - req: The analysis request. A zero TempRatingC defaults to 75. An
//     empty CircuitID gets a generated UUID; supply one for reproducible
//     output.
//
// # Outputs
//
//   - *CircuitAnalysis: The assembled analysis record.
//   - error: ErrInvalidInput on rejected request fields; nothing is
//     retried or degraded for those.
func (e *Engine) Analyze(req AnalysisRequest) (*CircuitAnalysis, error) {
	if err := e.validateRequest(&req); err != nil {
		return nil, err
	}
	if req.Conductor.TempRatingC == 0 {
		req.Conductor.TempRatingC = DefaultTempRatingC
	}

	load, err := e.aggregator.Aggregate(req.Loads)
	if err != nil {
		return nil, fmt.Errorf("aggregate loads: %w", err)
	}

	drop, err := e.voltageDrop.Calculate(req.Conductor, load.CurrentAmps, req.Voltage, req.ThreePhase)
	if err != nil {
		return nil, fmt.Errorf("voltage drop: %w", err)
	}

	analysis := &CircuitAnalysis{
		APIVersion:       APIVersion,
		AlgorithmVersion: AnalysisAlgorithmVersion,
		CircuitID:        req.CircuitID,
		CircuitType:      req.CircuitType,
		Voltage:          req.Voltage,
		ThreePhase:       req.ThreePhase,
		Load:             load,
		Conductor:        req.Conductor,
		VoltageDrop:      drop,
		ComplianceIssues: make([]string, 0),
		Recommendations:  make([]string, 0),
	}
	if analysis.CircuitID == "" {
		analysis.CircuitID = uuid.NewString()
	}
	if ampacity, ok := e.tables.Ampacity(req.Conductor.Material, req.Conductor.Gauge); ok {
		analysis.CapacityAmps = ampacity * req.Conductor.DeratingFactor
		analysis.CapacityResolved = true
	}

	issues, err := e.compliance.Validate(analysis)
	if err != nil {
		return nil, fmt.Errorf("compliance checks: %w", err)
	}
	analysis.ComplianceIssues = issues

	assessment, err := e.safety.Analyze(analysis)
	if err != nil {
		return nil, fmt.Errorf("safety screens: %w", err)
	}
	analysis.Safety = assessment

	analysis.Recommendations = e.buildRecommendations(analysis)
	return analysis, nil
}

// validateRequest rejects malformed requests before any stage runs.
func (e *Engine) validateRequest(req *AnalysisRequest) error {
	if req.CircuitID != "" {
		if err := validation.ValidateCircuitID(req.CircuitID); err != nil {
			return invalidInputf("%v", err)
		}
	}
	if err := requestValidate.Struct(req); err != nil {
		return invalidInputf("invalid analysis request: %v", err)
	}
	return nil
}

// buildRecommendations derives recommendation strings from the assembled
// record, in a fixed order: conductor sizing, load balancing, then the arc
// flash recommendations from the safety screen.
func (e *Engine) buildRecommendations(a *CircuitAnalysis) []string {
	recommendations := make([]string, 0)
	limits := e.tables.Limits()

	if a.VoltageDrop.DropPercent > limits.RecommendedVoltageDropPercent {
		recommendations = append(recommendations, fmt.Sprintf(
			"Consider a larger conductor: voltage drop %.2f%% exceeds the recommended %.1f%%",
			a.VoltageDrop.DropPercent, limits.RecommendedVoltageDropPercent))
	}
	if a.CapacityResolved && a.Load.CurrentAmps > HighUtilizationFraction*a.CapacityAmps {
		recommendations = append(recommendations, fmt.Sprintf(
			"Consider load balancing: current %.1fA is above %.0f%% of the %.1fA capacity",
			a.Load.CurrentAmps, HighUtilizationFraction*100, a.CapacityAmps))
	}
	if a.Safety != nil {
		recommendations = append(recommendations, a.Safety.Findings[SafetyArcFlash].Recommendations...)
	}
	return recommendations
}
