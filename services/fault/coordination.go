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
	// CoordinationMarginSeconds is the minimum upstream-minus-downstream
	// operating time difference for a selective pair.
	CoordinationMarginSeconds = 0.3

	// breakerInstantaneousSeconds is the breaker operating time in its
	// instantaneous region.
	breakerInstantaneousSeconds = 0.083

	// fuseFastClearingSeconds is the fuse operating time well above its
	// rating.
	fuseFastClearingSeconds = 0.05

	// curveKneeMultiple is the rated-current multiple where both device
	// curves switch from the inverse-time region to fast clearing.
	curveKneeMultiple = 10.0
)

// OperatingTime estimates how long a protective device takes to open at
// a given fault current.
//
// # Description
//
// Simplified time-current curves: breakers clear in 0.083 s above ten
// times their rating and follow 0.5 + 2*(rated/current) below it; fuses
// clear in 0.05 s above ten times their rating and follow 1/(ratio^2)
// below it. Relays are a valid device kind but have no modeled curve,
// so they produce a descriptive error rather than an invented time.
//
// # Inputs
//
//   - d: Protective device; kind must be known, rating positive.
//   - currentAmps: Fault current; must be positive.
//
// # Outputs
//
//   - seconds: Estimated operating time.
//   - error: Non-nil for invalid inputs or an unmodeled device kind.
func OperatingTime(d circuit.ProtectiveDevice, currentAmps float64) (float64, error) {
	if currentAmps <= 0 {
		return 0, invalidInputf("fault current must be positive, got %v", currentAmps)
	}
	if d.RatedAmps <= 0 {
		return 0, invalidInputf("device rated amps must be positive, got %v", d.RatedAmps)
	}

	ratio := currentAmps / d.RatedAmps

	switch d.Kind {
	case circuit.DeviceBreaker:
		if ratio > curveKneeMultiple {
			return breakerInstantaneousSeconds, nil
		}
		return 0.5 + 2.0*(d.RatedAmps/currentAmps), nil
	case circuit.DeviceFuse:
		if ratio > curveKneeMultiple {
			return fuseFastClearingSeconds, nil
		}
		return 1.0 / (ratio * ratio), nil
	case circuit.DeviceRelay:
		return 0, invalidInputf("relay time-current curves are not modeled; use breaker or fuse devices for coordination")
	default:
		return 0, invalidInputf("unknown device kind %q", d.Kind)
	}
}

// AnalyzeCoordination checks whether an upstream device is selective
// with a downstream device at a given fault current.
//
// # Description
//
// Selectivity requires the downstream device to clear the fault before
// the upstream device operates, with at least 0.3 s of margin so that
// tolerance bands on the real curves cannot overlap. Recommendations
// are produced only for an uncoordinated pair.
//
// # Inputs
//
//   - upstream: Device electrically closer to the source.
//   - downstream: Device closer to the fault.
//   - faultAmps: Fault current both devices see; must be positive.
//
// # Outputs
//
//   - *CoordinationResult: Margin, verdict, and corrective guidance.
//   - error: Non-nil when either operating time cannot be computed.
func AnalyzeCoordination(upstream, downstream circuit.ProtectiveDevice, faultAmps float64) (*CoordinationResult, error) {
	upstreamTime, err := OperatingTime(upstream, faultAmps)
	if err != nil {
		return nil, err
	}
	downstreamTime, err := OperatingTime(downstream, faultAmps)
	if err != nil {
		return nil, err
	}

	margin := upstreamTime - downstreamTime
	coordinated := margin >= CoordinationMarginSeconds

	recommendations := make([]string, 0)
	if !coordinated {
		recommendations = append(recommendations,
			"Raise the upstream device's short-time pickup or add an intentional delay",
			"Consider time-delay fusing downstream to widen the operating margin",
		)
	}

	return &CoordinationResult{
		FaultAmps:         faultAmps,
		UpstreamSeconds:   upstreamTime,
		DownstreamSeconds: downstreamTime,
		MarginSeconds:     margin,
		Coordinated:       coordinated,
		Recommendations:   recommendations,
	}, nil
}
