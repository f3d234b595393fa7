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

import "math"

// LoadAggregator combines multiple load entries into one effective load.
//
// # Thread Safety
//
// LoadAggregator is stateless and safe for concurrent use.
type LoadAggregator struct{}

// NewLoadAggregator creates a new LoadAggregator.
func NewLoadAggregator() *LoadAggregator {
	return &LoadAggregator{}
}

// Aggregate combines the given loads into one effective Load.
//
// # Inputs
//
//   - loads: Member loads. Order never affects the result. May be empty.
//
// # Outputs
//
//   - Load: power is the diversity-weighted sum of member powers; voltage
//     is the minimum member voltage (worst case for current sizing), or
//     the nominal 120 when the collection is empty; current is power over
//     voltage (0 when voltage is 0); power factor is total watts over
//     total volt-amps using each member's own power factor (1.0 when the
//     volt-amp total is 0); classification is the shared member tag, or
//     "mixed" when members disagree.
//   - error: ErrInvalidInput when any member carries a power factor outside
//     (0,1], a non-positive diversity factor, or a negative power, voltage,
//     or current.
func (la *LoadAggregator) Aggregate(loads []Load) (Load, error) {
	for i := range loads {
		if err := validateLoad(&loads[i], i); err != nil {
			return Load{}, err
		}
	}

	totalWatts := 0.0
	totalVoltAmps := 0.0
	voltage := 0.0
	classification := ""
	for i := range loads {
		l := &loads[i]
		weighted := l.PowerWatts * l.DiversityFactor
		totalWatts += weighted
		totalVoltAmps += weighted / l.PowerFactor

		if i == 0 || l.Voltage < voltage {
			voltage = l.Voltage
		}
		if i == 0 {
			classification = l.Classification
		} else if l.Classification != classification {
			classification = MixedClassification
		}
	}

	if len(loads) == 0 {
		voltage = DefaultSystemVoltage
	}

	current := 0.0
	if voltage > 0 {
		current = totalWatts / voltage
	}
	powerFactor := 1.0
	if totalVoltAmps > 0 {
		powerFactor = totalWatts / totalVoltAmps
	}

	return Load{
		PowerWatts:      totalWatts,
		Voltage:         voltage,
		CurrentAmps:     current,
		PowerFactor:     powerFactor,
		Classification:  classification,
		DiversityFactor: 1.0,
	}, nil
}

// MotorLoad builds a Load from a motor nameplate.
//
// Power is horsepower converted at 746 W/hp and divided by efficiency.
// Current assumes a three-phase supply at the conventional 0.8 motor power
// factor: I = P / (V * sqrt(3) * PF).
//
// # Inputs
//
//   - horsepower: Nameplate output; must be positive.
//   - voltage: Supply voltage in volts; must be positive.
//   - efficiency: Within (0,1].
func (la *LoadAggregator) MotorLoad(horsepower, voltage, efficiency float64) (Load, error) {
	if horsepower <= 0 {
		return Load{}, invalidInputf("motor horsepower must be positive, got %v", horsepower)
	}
	if voltage <= 0 {
		return Load{}, invalidInputf("motor voltage must be positive, got %v", voltage)
	}
	if efficiency <= 0 || efficiency > 1 {
		return Load{}, invalidInputf("motor efficiency must be within (0,1], got %v", efficiency)
	}

	watts := horsepower * WattsPerHorsepower / efficiency
	current := watts / (voltage * math.Sqrt(3) * AssumedMotorPowerFactor)
	return Load{
		PowerWatts:      watts,
		Voltage:         voltage,
		CurrentAmps:     current,
		PowerFactor:     AssumedMotorPowerFactor,
		Classification:  string(CircuitMotor),
		DiversityFactor: 1.0,
	}, nil
}

// validateLoad rejects out-of-range member values before aggregation.
func validateLoad(l *Load, index int) error {
	name := l.Name
	if name == "" {
		name = "unnamed"
	}
	if l.PowerFactor <= 0 || l.PowerFactor > 1 {
		return invalidInputf("load %d (%s): power factor must be within (0,1], got %v", index, name, l.PowerFactor)
	}
	if l.DiversityFactor <= 0 {
		return invalidInputf("load %d (%s): diversity factor must be positive, got %v", index, name, l.DiversityFactor)
	}
	if l.PowerWatts < 0 {
		return invalidInputf("load %d (%s): power must not be negative, got %v", index, name, l.PowerWatts)
	}
	if l.Voltage < 0 {
		return invalidInputf("load %d (%s): voltage must not be negative, got %v", index, name, l.Voltage)
	}
	if l.CurrentAmps < 0 {
		return invalidInputf("load %d (%s): current must not be negative, got %v", index, name, l.CurrentAmps)
	}
	return nil
}
