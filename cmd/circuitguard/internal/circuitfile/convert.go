// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package circuitfile

import (
	"fmt"

	"github.com/AleutianAI/CircuitGuard/services/circuit"
	"github.com/AleutianAI/CircuitGuard/services/circuit/tables"
	"github.com/AleutianAI/CircuitGuard/services/fault"
)

// AnalysisRequest converts the declaration into the analysis engine's
// input, expanding motor nameplates into member loads after the plain
// loads.
func (c CircuitSpec) AnalysisRequest() (circuit.AnalysisRequest, error) {
	loads := make([]circuit.Load, 0, len(c.Loads)+len(c.MotorLoads))
	for _, l := range c.Loads {
		loads = append(loads, circuit.Load{
			Name:            l.Name,
			PowerWatts:      l.PowerWatts,
			Voltage:         l.Voltage,
			CurrentAmps:     l.CurrentAmps,
			PowerFactor:     l.PowerFactor,
			Classification:  l.Classification,
			DiversityFactor: l.DiversityFactor,
		})
	}

	aggregator := circuit.NewLoadAggregator()
	for i, m := range c.MotorLoads {
		load, err := aggregator.MotorLoad(m.Horsepower, m.Voltage, m.Efficiency)
		if err != nil {
			return circuit.AnalysisRequest{}, fmt.Errorf("motor load %d: %w", i, err)
		}
		loads = append(loads, load)
	}

	return circuit.AnalysisRequest{
		CircuitID:   c.ID,
		CircuitType: circuit.CircuitType(c.Type),
		Voltage:     c.Voltage,
		ThreePhase:  c.ThreePhase,
		Loads:       loads,
		Conductor: circuit.Conductor{
			Gauge:              c.Conductor.Gauge,
			Material:           tables.Material(c.Conductor.Material),
			LengthFeet:         c.Conductor.LengthFeet,
			TempRatingC:        c.Conductor.TempRatingC,
			DeratingFactor:     c.Conductor.DeratingFactor,
			ResistanceOverride: c.Conductor.ResistanceOverride,
		},
	}, nil
}

// AdvancedRequest builds the fault orchestration request for an
// analyzed circuit. Returns false when the declaration carries no
// protective device, which is the gate for all fault studies.
func (c CircuitSpec) AdvancedRequest(a *circuit.CircuitAnalysis) (fault.AdvancedRequest, bool) {
	if c.Device == nil {
		return fault.AdvancedRequest{}, false
	}

	req := fault.AdvancedRequest{
		Analysis:        a,
		Device:          c.Device.ProtectiveDevice(),
		SourceFaultAmps: c.SourceFaultAmps(),
		Options:         c.FaultOptions(),
	}
	if c.UpstreamDevice != nil {
		upstream := c.UpstreamDevice.ProtectiveDevice()
		req.UpstreamDevice = &upstream
	}
	if c.Grounding != nil {
		resistance := c.Grounding.ResistanceOhms
		req.GroundResistanceOhms = &resistance
	}
	if c.Backups != nil {
		capacities := make([]float64, 0, len(c.Backups))
		for _, b := range c.Backups {
			capacities = append(capacities, b.CapacityWatts)
		}
		req.BackupCapacitiesWatts = capacities
	}
	return req, true
}

// SourceFaultAmps returns the declared available source fault current,
// or 0 when the document omits it.
func (c CircuitSpec) SourceFaultAmps() float64 {
	if c.Fault == nil {
		return 0
	}
	return c.Fault.SourceFaultAmps
}

// FaultOptions returns the declared fault study options, or nil when
// the document omits them and the engine defaults apply.
func (c CircuitSpec) FaultOptions() *fault.FaultOptions {
	if c.Fault == nil {
		return nil
	}
	return &fault.FaultOptions{
		WorkingDistanceIn: c.Fault.WorkingDistanceIn,
		VoltageClass:      fault.VoltageClass(c.Fault.VoltageClass),
	}
}

// ProtectiveDevice converts the declaration to the engine's device
// type.
func (d DeviceSpec) ProtectiveDevice() circuit.ProtectiveDevice {
	return circuit.ProtectiveDevice{
		Kind:              circuit.DeviceKind(d.Kind),
		RatedAmps:         d.RatedAmps,
		InterruptingAmps:  d.InterruptingAmps,
		Curve:             d.Curve,
		InstantaneousAmps: d.InstantaneousAmps,
	}
}
