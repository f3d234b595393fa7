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
	"fmt"
	"strings"

	"github.com/AleutianAI/CircuitGuard/services/circuit/tables"
)

// AnalysisAlgorithmVersion is the version of the circuit analysis algorithm.
// Increment when making changes that affect computed results.
const AnalysisAlgorithmVersion = "1.0"

// APIVersion is the JSON output API version.
const APIVersion = "1.0"

// Exit codes for circuit analysis commands.
const (
	ExitSuccess         = 0 // Compliant, no gating findings
	ExitViolationsFound = 1 // Compliance violations or elevated risk
	ExitError           = 2 // Error (bad input, analysis failure)
)

// Electrical conversion constants.
const (
	DefaultSystemVoltage    = 120.0 // volts, assumed when no loads are present
	WattsPerHorsepower      = 746.0
	AssumedMotorPowerFactor = 0.8
	DefaultTempRatingC      = 75 // conductor termination rating the tables assume
)

// Arc flash screening thresholds (heuristic tiers, volts and amps).
const (
	ArcFlashHighVoltage   = 480.0
	ArcFlashHighAmps      = 100.0
	ArcFlashMediumVoltage = 240.0
	ArcFlashMediumAmps    = 50.0
)

// GFCIVoltageCeiling is the circuit-level heuristic: receptacle circuits at
// or below this voltage are flagged for GFCI protection. The device-level
// rule in services/fault uses a narrower 150 V ceiling; both are kept.
const GFCIVoltageCeiling = 240.0

// ShortCircuitMediumVoltage is the voltage at and above which available
// short circuit energy is flagged as elevated.
const ShortCircuitMediumVoltage = 480.0

// HighUtilizationFraction is the capacity fraction above which load
// balancing is recommended.
const HighUtilizationFraction = 0.8

// MixedClassification is the aggregate classification when member loads
// do not share one.
const MixedClassification = "mixed"

// ErrInvalidInput marks rejected-input failures: negative lengths, power
// factors outside (0,1], unknown enum members. Callers match with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// invalidInputf builds a descriptive error wrapping ErrInvalidInput.
func invalidInputf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}

// HazardLevel represents the severity of a safety finding.
type HazardLevel string

const (
	HazardLow    HazardLevel = "low"
	HazardMedium HazardLevel = "medium"
	HazardHigh   HazardLevel = "high"
)

// ParseHazardLevel parses a string to HazardLevel. Unknown values map to
// HazardHigh so misconfigured thresholds gate conservatively.
func ParseHazardLevel(s string) HazardLevel {
	switch strings.ToLower(s) {
	case "low":
		return HazardLow
	case "medium":
		return HazardMedium
	case "high":
		return HazardHigh
	default:
		return HazardHigh
	}
}

// Exceeds returns true if this hazard level exceeds the threshold.
func (h HazardLevel) Exceeds(threshold HazardLevel) bool {
	return h.Order() > threshold.Order()
}

// Order returns the numeric order of this hazard level.
func (h HazardLevel) Order() int {
	levels := map[HazardLevel]int{
		HazardLow:    0,
		HazardMedium: 1,
		HazardHigh:   2,
	}
	return levels[h]
}

// CircuitType classifies what a branch circuit serves.
type CircuitType string

const (
	CircuitPower      CircuitType = "power"
	CircuitControl    CircuitType = "control"
	CircuitData       CircuitType = "data"
	CircuitLighting   CircuitType = "lighting"
	CircuitMotor      CircuitType = "motor"
	CircuitReceptacle CircuitType = "receptacle"
)

// Valid reports whether t is a member of the closed circuit type set.
func (t CircuitType) Valid() bool {
	switch t {
	case CircuitPower, CircuitControl, CircuitData, CircuitLighting, CircuitMotor, CircuitReceptacle:
		return true
	default:
		return false
	}
}

// ParseCircuitType parses a string to CircuitType. Unknown values are an
// ErrInvalidInput failure, not a default.
func ParseCircuitType(s string) (CircuitType, error) {
	t := CircuitType(strings.ToLower(s))
	if !t.Valid() {
		return "", invalidInputf("unknown circuit type %q", s)
	}
	return t, nil
}

// DeviceKind identifies the protective device technology.
type DeviceKind string

const (
	DeviceBreaker DeviceKind = "breaker"
	DeviceFuse    DeviceKind = "fuse"
	DeviceRelay   DeviceKind = "relay"
)

// Valid reports whether k is a member of the closed device kind set.
func (k DeviceKind) Valid() bool {
	switch k {
	case DeviceBreaker, DeviceFuse, DeviceRelay:
		return true
	default:
		return false
	}
}

// Load describes one electrical load on a circuit.
//
// # Fields
//
//   - Name: Optional human label, carried through to reports.
//   - PowerWatts: Real power demand in watts.
//   - Voltage: Operating voltage in volts.
//   - CurrentAmps: Current draw in amps.
//   - PowerFactor: Real power / apparent power, within (0,1].
//   - Classification: Free-form tag (lighting, receptacle, motor, ...).
//   - DiversityFactor: Weight applied to PowerWatts when aggregating; > 0.
//
// Loads are immutable values. Zero-valued PowerFactor or DiversityFactor
// fields are rejected by the aggregator; use NewLoad or set them to 1.0.
type Load struct {
	Name            string  `json:"name,omitempty"`
	PowerWatts      float64 `json:"power_watts" validate:"gte=0"`
	Voltage         float64 `json:"voltage" validate:"gte=0"`
	CurrentAmps     float64 `json:"current_amps" validate:"gte=0"`
	PowerFactor     float64 `json:"power_factor" validate:"gt=0,lte=1"`
	Classification  string  `json:"classification,omitempty"`
	DiversityFactor float64 `json:"diversity_factor" validate:"gt=0"`
}

// NewLoad creates a Load with unity power and diversity factors and a
// current derived from power and voltage (0 when voltage is 0).
func NewLoad(name string, powerWatts, voltage float64) Load {
	current := 0.0
	if voltage > 0 {
		current = powerWatts / voltage
	}
	return Load{
		Name:            name,
		PowerWatts:      powerWatts,
		Voltage:         voltage,
		CurrentAmps:     current,
		PowerFactor:     1.0,
		DiversityFactor: 1.0,
	}
}

// Conductor describes the wire run serving a circuit.
//
// # Fields
//
//   - Gauge: AWG label; sizes below "1" use the "n/0" form ("1/0".."4/0").
//   - Material: copper or aluminum.
//   - LengthFeet: One-way run length in feet.
//   - TempRatingC: Termination temperature rating; 0 means the 75 default.
//   - DeratingFactor: Ampacity multiplier for installation conditions; > 0.
//   - ResistanceOverride: Optional explicit resistance in ohms per 1000 ft.
//     When set it wins over the table lookup.
type Conductor struct {
	Gauge              string          `json:"gauge" validate:"awg"`
	Material           tables.Material `json:"material" validate:"oneof=copper aluminum"`
	LengthFeet         float64         `json:"length_feet" validate:"gte=0"`
	TempRatingC        int             `json:"temp_rating_c,omitempty" validate:"omitempty,oneof=60 75 90"`
	DeratingFactor     float64         `json:"derating_factor" validate:"gt=0"`
	ResistanceOverride *float64        `json:"resistance_override,omitempty" validate:"omitempty,gte=0"`
}

// ProtectiveDevice describes the overcurrent device protecting a circuit.
// Supplied by the caller; the engine never infers one.
type ProtectiveDevice struct {
	Kind              DeviceKind `json:"kind" validate:"oneof=breaker fuse relay"`
	RatedAmps         float64    `json:"rated_amps" validate:"gt=0"`
	InterruptingAmps  float64    `json:"interrupting_amps,omitempty" validate:"gte=0"`
	Curve             string     `json:"curve,omitempty"`
	InstantaneousAmps *float64   `json:"instantaneous_trip_amps,omitempty" validate:"omitempty,gt=0"`
}

// AnalysisRequest is the input to Engine.Analyze.
//
// # Fields
//
//   - CircuitID: Optional identifier; a UUID is generated when empty.
//   - CircuitType: One of the closed circuit type set.
//   - Voltage: Nominal circuit voltage in volts.
//   - ThreePhase: Three-phase when true, single-phase/DC otherwise.
//   - Loads: Member loads; may be empty.
//   - Conductor: The serving conductor.
type AnalysisRequest struct {
	CircuitID   string      `json:"circuit_id,omitempty"`
	CircuitType CircuitType `json:"circuit_type" validate:"required,oneof=power control data lighting motor receptacle"`
	Voltage     float64     `json:"voltage" validate:"gte=0"`
	ThreePhase  bool        `json:"three_phase"`
	Loads       []Load      `json:"loads" validate:"dive"`
	Conductor   Conductor   `json:"conductor"`
}

// VoltageDropResult holds the computed voltage drop for a conductor run.
// ResistanceResolved is false when the (gauge, material) pair was absent
// from the tables and no override was supplied; drop values are then zero
// by the degraded-answer policy, not because the run is lossless.
type VoltageDropResult struct {
	DropVolts          float64 `json:"drop_volts"`
	DropPercent        float64 `json:"drop_percent"`
	OhmsPerKft         float64 `json:"ohms_per_kft"`
	ResistanceResolved bool    `json:"resistance_resolved"`
}

// Safety finding keys in SafetyAssessment.Findings.
const (
	SafetyArcFlash     = "arc_flash"
	SafetyOverload     = "overload"
	SafetyGroundFault  = "ground_fault"
	SafetyShortCircuit = "short_circuit"
)

// SafetyFinding is one hazard screening result.
type SafetyFinding struct {
	Level           HazardLevel `json:"level"`
	Notes           []string    `json:"notes,omitempty"`
	Recommendations []string    `json:"recommendations,omitempty"`
}

// SafetyAssessment holds all hazard screening results for a circuit.
// Overall is high if any finding is high, else medium if any is medium,
// else low.
type SafetyAssessment struct {
	Findings map[string]SafetyFinding `json:"findings"`
	Overall  HazardLevel              `json:"overall"`
}

// CircuitAnalysis is the assembled result of one analysis run.
//
// Built once per Engine.Analyze call and never mutated by the individual
// analyzers; each analyzer returns a result that the engine attaches.
// CapacityResolved is false when the ampacity lookup failed; CapacityAmps
// is then zero.
type CircuitAnalysis struct {
	APIVersion       string            `json:"api_version"`
	AlgorithmVersion string            `json:"algorithm_version"`
	CircuitID        string            `json:"circuit_id"`
	CircuitType      CircuitType       `json:"circuit_type"`
	Voltage          float64           `json:"voltage"`
	ThreePhase       bool              `json:"three_phase"`
	Load             Load              `json:"load"`
	Conductor        Conductor         `json:"conductor"`
	VoltageDrop      VoltageDropResult `json:"voltage_drop"`
	CapacityAmps     float64           `json:"capacity_amps"`
	CapacityResolved bool              `json:"capacity_resolved"`
	ComplianceIssues []string          `json:"compliance_issues"`
	Recommendations  []string          `json:"recommendations"`
	Safety           *SafetyAssessment `json:"safety,omitempty"`
}
