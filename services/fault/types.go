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
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidInput is the sentinel wrapped by every rejection of a
// caller-supplied value in this package. Callers branch with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// invalidInputf builds a descriptive rejection wrapping ErrInvalidInput.
func invalidInputf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}

// RiskLevel indicates the overall risk of an analyzed circuit.
type RiskLevel string

const (
	// RiskLow means no elevated risk factors were found.
	RiskLow RiskLevel = "low"

	// RiskMedium means exactly one elevated risk factor was found.
	// Examples: PPE category 2 exposure, inadequate grounding.
	RiskMedium RiskLevel = "medium"

	// RiskHigh means two or more elevated risk factors compound.
	RiskHigh RiskLevel = "high"
)

// riskOrder maps levels to their severity rank.
var riskOrder = map[RiskLevel]int{
	RiskLow:    0,
	RiskMedium: 1,
	RiskHigh:   2,
}

// Order returns the numeric severity rank of the level.
func (r RiskLevel) Order() int {
	return riskOrder[r]
}

// Exceeds reports whether r is strictly more severe than the threshold.
func (r RiskLevel) Exceeds(threshold RiskLevel) bool {
	return r.Order() > threshold.Order()
}

// ParseRiskLevel parses a risk level string case-insensitively.
// Unknown values map to RiskHigh so that a garbled level is never
// treated as safe.
func ParseRiskLevel(s string) RiskLevel {
	switch strings.ToLower(s) {
	case "low":
		return RiskLow
	case "medium":
		return RiskMedium
	case "high":
		return RiskHigh
	default:
		return RiskHigh
	}
}

// VoltageClass selects the incident energy model for a system voltage.
//
// # Description
//
// Low-voltage systems use an empirical normalized-energy fit; medium
// voltage systems use a direct proportional model. The class arrives
// from the caller (circuit files default to low) rather than being
// inferred, because the boundary between the models is a modeling
// choice, not a property of the circuit.
type VoltageClass string

const (
	// ClassLow covers low-voltage systems (600 V class equipment).
	ClassLow VoltageClass = "low"

	// ClassMedium covers medium-voltage systems.
	ClassMedium VoltageClass = "medium"
)

// Valid reports whether the class is a known member.
func (v VoltageClass) Valid() bool {
	return v == ClassLow || v == ClassMedium
}

// ParseVoltageClass parses a voltage class string case-insensitively.
// Returns an error for unknown values.
func ParseVoltageClass(s string) (VoltageClass, error) {
	class := VoltageClass(strings.ToLower(s))
	if !class.Valid() {
		return "", invalidInputf("unknown voltage class %q (must be low or medium)", s)
	}
	return class, nil
}

// Impedance is a rectangular-form AC impedance.
//
// # Fields
//
//   - ResistanceOhms: Real part.
//   - ReactanceOhms: Imaginary part.
type Impedance struct {
	ResistanceOhms float64 `json:"resistance_ohms"`
	ReactanceOhms  float64 `json:"reactance_ohms"`
}

// Magnitude returns the impedance magnitude sqrt(R^2 + X^2).
func (z Impedance) Magnitude() float64 {
	return math.Hypot(z.ResistanceOhms, z.ReactanceOhms)
}

// Add returns the series combination of two impedances.
func (z Impedance) Add(other Impedance) Impedance {
	return Impedance{
		ResistanceOhms: z.ResistanceOhms + other.ResistanceOhms,
		ReactanceOhms:  z.ReactanceOhms + other.ReactanceOhms,
	}
}

// ArcFlashEnergy is the incident energy at a working distance together
// with the distance at which the energy falls to the 1.2 cal/cm2
// boundary.
type ArcFlashEnergy struct {
	IncidentCalPerCm2 float64 `json:"incident_cal_per_cm2"`
	BoundaryIn        float64 `json:"boundary_in"`
}

// FaultCurrentAnalysis is the complete fault study record for one
// circuit.
//
// # Description
//
// Captures the available bolted fault current, the derived arcing
// current, protective device clearing estimates, and the arc flash
// exposure at the working distance. The record is read-only after
// construction.
//
// # Fields
//
//   - CircuitID: Identifier of the analyzed circuit.
//   - AvailableFaultAmps: Bolted fault current at the circuit location.
//   - XOverR: Reactance-to-resistance ratio of the total impedance.
//     +Inf when the resistance is exactly zero; marshals to JSON null.
//   - FaultCurrentUnbounded: True when the total impedance magnitude is
//     zero, so no finite fault current exists. Energy fields are zero.
//   - ArcingAmps: Sustained arcing current (70% of bolted).
//   - ArcDurationMs: Estimated clearing time of the protective device.
//   - ClearingTimeCycles: The same duration in 60 Hz cycles.
//   - InterruptingRatingExceeded: True when the available fault current
//     exceeds the device's declared interrupting rating.
//   - IncidentEnergy: Arc flash energy in cal/cm2 at the working distance.
//   - ArcFlashBoundaryIn: Distance where energy falls to 1.2 cal/cm2.
//   - PPECategory: Required PPE category 0-4.
//   - PPEItems: Equipment for the category.
//   - WorkingDistanceIn: Distance the energy was evaluated at.
//   - VoltageClass: Energy model the study used.
type FaultCurrentAnalysis struct {
	CircuitID                  string       `json:"circuit_id"`
	AvailableFaultAmps         float64      `json:"available_fault_amps"`
	XOverR                     float64      `json:"x_over_r"`
	FaultCurrentUnbounded      bool         `json:"fault_current_unbounded,omitempty"`
	ArcingAmps                 float64      `json:"arcing_amps"`
	ArcDurationMs              float64      `json:"arc_duration_ms"`
	ClearingTimeCycles         float64      `json:"clearing_time_cycles"`
	InterruptingRatingExceeded bool         `json:"interrupting_rating_exceeded,omitempty"`
	IncidentEnergy             float64      `json:"incident_energy_cal_per_cm2"`
	ArcFlashBoundaryIn         float64      `json:"arc_flash_boundary_in"`
	PPECategory                int          `json:"ppe_category"`
	PPEItems                   []string     `json:"ppe_items"`
	WorkingDistanceIn          float64      `json:"working_distance_in"`
	VoltageClass               VoltageClass `json:"voltage_class"`
}

// MarshalJSON renders a non-finite XOverR as null. encoding/json cannot
// represent +Inf, and the ratio is legitimately infinite for a purely
// reactive impedance.
func (f FaultCurrentAnalysis) MarshalJSON() ([]byte, error) {
	type alias FaultCurrentAnalysis
	shadow := struct {
		alias
		XOverR *float64 `json:"x_over_r"`
	}{alias: alias(f)}

	if !math.IsInf(f.XOverR, 0) && !math.IsNaN(f.XOverR) {
		shadow.XOverR = &f.XOverR
	}
	return json.Marshal(shadow)
}

// CoordinationResult describes whether an upstream and a downstream
// protective device operate selectively for a given fault current.
//
// # Fields
//
//   - FaultAmps: Fault current the pair was evaluated at.
//   - UpstreamSeconds: Operating time of the upstream device.
//   - DownstreamSeconds: Operating time of the downstream device.
//   - MarginSeconds: Upstream minus downstream operating time.
//   - Coordinated: True when the margin meets the selectivity threshold.
//   - Recommendations: Corrective guidance, present only when the pair
//     is uncoordinated.
type CoordinationResult struct {
	FaultAmps         float64  `json:"fault_amps"`
	UpstreamSeconds   float64  `json:"upstream_seconds"`
	DownstreamSeconds float64  `json:"downstream_seconds"`
	MarginSeconds     float64  `json:"margin_seconds"`
	Coordinated       bool     `json:"coordinated"`
	Recommendations   []string `json:"recommendations"`
}

// RedundancyResult describes backup supply coverage for a primary load.
//
// # Fields
//
//   - PrimaryLoadWatts: Demand that must be covered.
//   - BackupCapacityWatts: Total capacity of all backup sources.
//   - RedundancyFactor: Backup capacity over primary load. Exactly 0
//     when the primary load is 0.
//   - HasRedundancy: True when the factor reaches 1.0.
//   - Recommendations: Sizing guidance; always exactly one entry.
type RedundancyResult struct {
	PrimaryLoadWatts    float64  `json:"primary_load_watts"`
	BackupCapacityWatts float64  `json:"backup_capacity_watts"`
	RedundancyFactor    float64  `json:"redundancy_factor"`
	HasRedundancy       bool     `json:"has_redundancy"`
	Recommendations     []string `json:"recommendations"`
}

// GroundFaultResult describes the ground fault exposure of a circuit.
//
// # Fields
//
//   - Voltage: System voltage the fault path sees.
//   - GroundResistanceOhms: Resistance of the grounding electrode system.
//   - FaultCurrentAmps: Prospective ground fault current V/R. Zero when
//     the resistance is zero; see FaultCurrentUnbounded.
//   - FaultCurrentUnbounded: True for a zero-resistance path, where no
//     finite fault current exists.
//   - GroundingAdequate: True when the resistance meets the 25 ohm limit.
//   - EGCPRequired: True when equipment ground fault protection is
//     required (fault current above 30 A, or unbounded).
//   - GFCIRequired: True for receptacle circuits at 150 V or less.
type GroundFaultResult struct {
	Voltage               float64 `json:"voltage"`
	GroundResistanceOhms  float64 `json:"ground_resistance_ohms"`
	FaultCurrentAmps      float64 `json:"fault_current_amps"`
	FaultCurrentUnbounded bool    `json:"fault_current_unbounded,omitempty"`
	GroundingAdequate     bool    `json:"grounding_adequate"`
	EGCPRequired          bool    `json:"egcp_required"`
	GFCIRequired          bool    `json:"gfci_required"`
}
