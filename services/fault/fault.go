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
	"math"

	"github.com/AleutianAI/CircuitGuard/services/circuit"
)

const (
	// DefaultWorkingDistanceIn is the working distance used when the
	// caller does not supply one.
	DefaultWorkingDistanceIn = 18.0

	// ArcingCurrentFraction is the sustained arcing current as a
	// fraction of the bolted fault current.
	ArcingCurrentFraction = 0.7

	// MillisecondsPerCycle converts clearing times to 60 Hz cycles.
	MillisecondsPerCycle = 16.67

	// SourceXOverRAssumption is the X/R ratio assumed for the upstream
	// source when only its available fault current is known.
	SourceXOverRAssumption = 5.0

	// ConductorReactancePerKft is the representative series reactance
	// of building wire, in ohms per thousand feet.
	ConductorReactancePerKft = 0.054

	// InstantaneousTripMultiple is the rated-current multiple above
	// which a breaker without an explicit instantaneous pickup is
	// assumed to trip instantaneously.
	InstantaneousTripMultiple = 10.0

	// BreakerInstantaneousMs is the clearing time of a breaker in its
	// instantaneous region.
	BreakerInstantaneousMs = 83.0

	// BreakerDelayedMs is the clearing time of a breaker below its
	// instantaneous region.
	BreakerDelayedMs = 167.0

	// FuseClearingMs is the representative clearing time of a fuse.
	FuseClearingMs = 50.0

	// DefaultClearingMs is the clearing time assumed for devices
	// without a modeled curve.
	DefaultClearingMs = 167.0
)

// Fallback impedances used when the inputs needed to derive a value are
// absent. Representative of a stiff low-voltage service and a short
// branch run; they keep degraded analyses finite rather than accurate.
var (
	fallbackSourceImpedance  = Impedance{ResistanceOhms: 0.004, ReactanceOhms: 0.02}
	fallbackCircuitImpedance = Impedance{ResistanceOhms: 0.05, ReactanceOhms: 0.01}
)

// ImpedanceModel supplies the source and circuit impedances for a fault
// study. Implementations must be safe for concurrent use.
type ImpedanceModel interface {
	// SourceImpedance returns the upstream system impedance. A zero
	// sourceFaultAmps means the available fault current is unknown.
	SourceImpedance(voltage, sourceFaultAmps float64) Impedance

	// CircuitImpedance returns the impedance of the analyzed circuit's
	// conductor run.
	CircuitImpedance(a *circuit.CircuitAnalysis) Impedance
}

// StandardImpedanceModel is a representative approximation, not a
// network solver.
//
// # Description
//
// Source impedance is sized so that the declared available fault
// current flows at the system voltage, split into resistance and
// reactance with an assumed X/R of 5. Circuit impedance uses the
// conductor's resolved one-way resistance and a small per-length
// reactance. Fixed fallbacks cover unknown sources and unresolved
// conductors.
type StandardImpedanceModel struct{}

// SourceImpedance derives the source impedance from the available fault
// current, or falls back to a representative stiff service.
func (StandardImpedanceModel) SourceImpedance(voltage, sourceFaultAmps float64) Impedance {
	if voltage <= 0 || sourceFaultAmps <= 0 {
		return fallbackSourceImpedance
	}

	magnitude := voltage / sourceFaultAmps
	resistance := magnitude / math.Sqrt(1+SourceXOverRAssumption*SourceXOverRAssumption)
	return Impedance{
		ResistanceOhms: resistance,
		ReactanceOhms:  SourceXOverRAssumption * resistance,
	}
}

// CircuitImpedance derives the conductor run impedance from the
// resolved resistance, or falls back to a representative branch run.
func (StandardImpedanceModel) CircuitImpedance(a *circuit.CircuitAnalysis) Impedance {
	if a == nil || !a.VoltageDrop.ResistanceResolved {
		return fallbackCircuitImpedance
	}

	lengthKft := a.Conductor.LengthFeet / 1000.0
	return Impedance{
		ResistanceOhms: a.VoltageDrop.OhmsPerKft * lengthKft,
		ReactanceOhms:  ConductorReactancePerKft * lengthKft,
	}
}

// CalculateFaultCurrent computes the bolted fault current through the
// series combination of the source and circuit impedances.
//
// # Description
//
// The fault current is V divided by the magnitude of the total
// impedance. The X/R ratio of the total is +Inf when the resistance is
// exactly zero. A zero total impedance never produces an infinite
// current: the current degrades to 0 and AnalyzeFault marks the record
// unbounded.
//
// # Inputs
//
//   - source: Upstream system impedance. Components must not be negative.
//   - cir: Conductor run impedance. Components must not be negative.
//   - voltage: System voltage; must not be negative.
//
// # Outputs
//
//   - amps: Bolted fault current, 0 for a zero voltage or impedance.
//   - xOverR: Total X/R ratio, +Inf at zero resistance.
//   - error: Non-nil for negative inputs.
func CalculateFaultCurrent(source, cir Impedance, voltage float64) (amps, xOverR float64, err error) {
	if voltage < 0 {
		return 0, 0, invalidInputf("voltage must not be negative, got %v", voltage)
	}
	if source.ResistanceOhms < 0 || source.ReactanceOhms < 0 {
		return 0, 0, invalidInputf("source impedance components must not be negative, got %+v", source)
	}
	if cir.ResistanceOhms < 0 || cir.ReactanceOhms < 0 {
		return 0, 0, invalidInputf("circuit impedance components must not be negative, got %+v", cir)
	}

	total := source.Add(cir)

	if total.ResistanceOhms == 0 {
		xOverR = math.Inf(1)
	} else {
		xOverR = total.ReactanceOhms / total.ResistanceOhms
	}

	magnitude := total.Magnitude()
	if magnitude == 0 {
		return 0, xOverR, nil
	}
	return voltage / magnitude, xOverR, nil
}

// EstimateArcDuration estimates the protective device clearing time in
// milliseconds for a given fault current.
//
// # Description
//
// Breakers clear in 83 ms when the fault exceeds the instantaneous
// pickup (the explicit pickup when set, otherwise 10x rated current)
// and 167 ms below it. Fuses clear in 50 ms. Devices without a modeled
// curve get the 167 ms default.
func EstimateArcDuration(faultAmps float64, d circuit.ProtectiveDevice) float64 {
	switch d.Kind {
	case circuit.DeviceBreaker:
		pickup := InstantaneousTripMultiple * d.RatedAmps
		if d.InstantaneousAmps != nil && *d.InstantaneousAmps > 0 {
			pickup = *d.InstantaneousAmps
		}
		if faultAmps > pickup {
			return BreakerInstantaneousMs
		}
		return BreakerDelayedMs
	case circuit.DeviceFuse:
		return FuseClearingMs
	default:
		return DefaultClearingMs
	}
}

// FaultOptions configures a FaultAnalysisEngine or a single AnalyzeFault
// call.
//
// # Fields
//
//   - WorkingDistanceIn: Distance from the arc source to the worker.
//     Zero means keep the engine default.
//   - VoltageClass: Incident energy model selector. Empty means keep
//     the engine default.
//   - Model: Impedance model override. Nil means keep the engine model.
type FaultOptions struct {
	WorkingDistanceIn float64
	VoltageClass      VoltageClass
	Model             ImpedanceModel
}

// DefaultFaultOptions returns options with sensible defaults.
func DefaultFaultOptions() FaultOptions {
	return FaultOptions{
		WorkingDistanceIn: DefaultWorkingDistanceIn,
		VoltageClass:      ClassLow,
	}
}

// FaultAnalysisEngine runs complete fault studies over analyzed
// circuits.
//
// # Thread Safety
//
// Safe for concurrent use. The engine holds only immutable
// configuration.
type FaultAnalysisEngine struct {
	impedances        ImpedanceModel
	workingDistanceIn float64
	voltageClass      VoltageClass
}

// NewFaultAnalysisEngine creates an engine with the given options.
// A nil opts uses defaults: the standard impedance model, an 18 inch
// working distance, and the low voltage class.
func NewFaultAnalysisEngine(opts *FaultOptions) *FaultAnalysisEngine {
	options := DefaultFaultOptions()
	if opts != nil {
		if opts.WorkingDistanceIn > 0 {
			options.WorkingDistanceIn = opts.WorkingDistanceIn
		}
		if opts.VoltageClass != "" {
			options.VoltageClass = opts.VoltageClass
		}
		options.Model = opts.Model
	}

	model := options.Model
	if model == nil {
		model = StandardImpedanceModel{}
	}

	return &FaultAnalysisEngine{
		impedances:        model,
		workingDistanceIn: options.WorkingDistanceIn,
		voltageClass:      options.VoltageClass,
	}
}

// AnalyzeFault runs a complete fault study for one analyzed circuit.
//
// # Description
//
// Builds the source and circuit impedances, computes the bolted and
// arcing fault currents, estimates the device clearing time, and
// evaluates the arc flash exposure at the working distance. A zero
// available fault current (zero voltage, or a zero impedance from a
// custom model) zeroes the energy fields and, for the impedance case,
// sets FaultCurrentUnbounded.
//
// # Inputs
//
//   - a: Analyzed circuit. Must not be nil; voltage must not be negative.
//   - sourceFaultAmps: Available fault current at the source, 0 when
//     unknown; must not be negative.
//   - d: Protective device; kind must be known and rating positive.
//   - opts: Per-call overrides, nil for the engine configuration.
//
// # Outputs
//
//   - *FaultCurrentAnalysis: Complete study record.
//   - error: Non-nil for invalid inputs.
func (e *FaultAnalysisEngine) AnalyzeFault(a *circuit.CircuitAnalysis, sourceFaultAmps float64, d circuit.ProtectiveDevice, opts *FaultOptions) (*FaultCurrentAnalysis, error) {
	if a == nil {
		return nil, invalidInputf("analysis must not be nil")
	}
	if a.Voltage < 0 {
		return nil, invalidInputf("voltage must not be negative, got %v", a.Voltage)
	}
	if sourceFaultAmps < 0 {
		return nil, invalidInputf("source fault current must not be negative, got %v", sourceFaultAmps)
	}
	if !d.Kind.Valid() {
		return nil, invalidInputf("unknown device kind %q", d.Kind)
	}
	if d.RatedAmps <= 0 {
		return nil, invalidInputf("device rated amps must be positive, got %v", d.RatedAmps)
	}

	distance := e.workingDistanceIn
	class := e.voltageClass
	model := e.impedances
	if opts != nil {
		if opts.WorkingDistanceIn < 0 {
			return nil, invalidInputf("working distance must be positive, got %v", opts.WorkingDistanceIn)
		}
		if opts.WorkingDistanceIn > 0 {
			distance = opts.WorkingDistanceIn
		}
		if opts.VoltageClass != "" {
			if !opts.VoltageClass.Valid() {
				return nil, invalidInputf("unknown voltage class %q", opts.VoltageClass)
			}
			class = opts.VoltageClass
		}
		if opts.Model != nil {
			model = opts.Model
		}
	}

	source := model.SourceImpedance(a.Voltage, sourceFaultAmps)
	cir := model.CircuitImpedance(a)

	amps, xOverR, err := CalculateFaultCurrent(source, cir, a.Voltage)
	if err != nil {
		return nil, err
	}

	durationMs := EstimateArcDuration(amps, d)
	arcing := ArcingCurrentFraction * amps

	result := &FaultCurrentAnalysis{
		CircuitID:                  a.CircuitID,
		AvailableFaultAmps:         amps,
		XOverR:                     xOverR,
		FaultCurrentUnbounded:      source.Add(cir).Magnitude() == 0,
		ArcingAmps:                 arcing,
		ArcDurationMs:              durationMs,
		ClearingTimeCycles:         durationMs / MillisecondsPerCycle,
		InterruptingRatingExceeded: d.InterruptingAmps > 0 && amps > d.InterruptingAmps,
		PPEItems:                   make([]string, 0),
		WorkingDistanceIn:          distance,
		VoltageClass:               class,
	}

	if arcing > 0 {
		energy, err := CalculateIncidentEnergy(arcing, distance, durationMs, class)
		if err != nil {
			return nil, err
		}
		result.IncidentEnergy = energy.IncidentCalPerCm2
		result.ArcFlashBoundaryIn = energy.BoundaryIn
		result.PPECategory, result.PPEItems = DeterminePPECategory(energy.IncidentCalPerCm2)
	}

	return result, nil
}
