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

// File is the root of a circuit description document.
type File struct {
	Circuits []CircuitSpec `yaml:"circuits" validate:"dive"`
}

// CircuitSpec declares one circuit to analyze. The optional sections
// gate the fault studies: no device means no fault analysis, no
// grounding section means no ground fault study, a missing backups key
// means redundancy was never surveyed.
type CircuitSpec struct {
	ID         string          `yaml:"id"`
	Type       string          `yaml:"type" validate:"required,oneof=power control data lighting motor receptacle"`
	Voltage    float64         `yaml:"voltage" validate:"gte=0"`
	ThreePhase bool            `yaml:"three_phase"`
	Loads      []LoadSpec      `yaml:"loads" validate:"dive"`
	MotorLoads []MotorLoadSpec `yaml:"motor_loads" validate:"dive"`
	Conductor  ConductorSpec   `yaml:"conductor"`

	Device         *DeviceSpec    `yaml:"device"`
	UpstreamDevice *DeviceSpec    `yaml:"upstream_device"`
	Fault          *FaultSpec     `yaml:"fault"`
	Grounding      *GroundingSpec `yaml:"grounding"`
	Backups        []BackupSpec   `yaml:"backups" validate:"dive"`
}

// LoadSpec declares one connected load. Power and diversity factors
// default to 1.0; the current defaults to power over voltage.
type LoadSpec struct {
	Name            string  `yaml:"name"`
	PowerWatts      float64 `yaml:"power_watts" validate:"gte=0"`
	Voltage         float64 `yaml:"voltage" validate:"gte=0"`
	CurrentAmps     float64 `yaml:"current_amps" validate:"gte=0"`
	PowerFactor     float64 `yaml:"power_factor" validate:"gt=0,lte=1"`
	Classification  string  `yaml:"classification"`
	DiversityFactor float64 `yaml:"diversity_factor" validate:"gt=0"`
}

// MotorLoadSpec declares a motor by nameplate horsepower. Efficiency
// defaults to 1.0.
type MotorLoadSpec struct {
	Horsepower float64 `yaml:"horsepower" validate:"gt=0"`
	Voltage    float64 `yaml:"voltage" validate:"gt=0"`
	Efficiency float64 `yaml:"efficiency" validate:"gt=0,lte=1"`
}

// ConductorSpec declares the serving conductor. Gauge labels are
// normalized, so "#12" and "AWG 12" both mean "12". The derating
// factor defaults to 1.0.
type ConductorSpec struct {
	Gauge              string   `yaml:"gauge" validate:"required,awg"`
	Material           string   `yaml:"material" validate:"required,oneof=copper aluminum"`
	LengthFeet         float64  `yaml:"length_feet" validate:"gte=0"`
	TempRatingC        int      `yaml:"temp_rating_c" validate:"omitempty,oneof=60 75 90"`
	DeratingFactor     float64  `yaml:"derating_factor" validate:"gt=0"`
	ResistanceOverride *float64 `yaml:"resistance_override" validate:"omitempty,gte=0"`
}

// DeviceSpec declares a protective device.
type DeviceSpec struct {
	Kind              string   `yaml:"kind" validate:"required,oneof=breaker fuse relay"`
	RatedAmps         float64  `yaml:"rated_amps" validate:"gt=0"`
	InterruptingAmps  float64  `yaml:"interrupting_amps" validate:"gte=0"`
	Curve             string   `yaml:"curve"`
	InstantaneousAmps *float64 `yaml:"instantaneous_trip_amps" validate:"omitempty,gt=0"`
}

// FaultSpec declares fault study parameters. The working distance
// defaults to 18 inches and the voltage class to low.
type FaultSpec struct {
	SourceFaultAmps   float64 `yaml:"source_fault_amps" validate:"gte=0"`
	WorkingDistanceIn float64 `yaml:"working_distance_in" validate:"gte=0"`
	VoltageClass      string  `yaml:"voltage_class" validate:"omitempty,oneof=low medium"`
}

// GroundingSpec declares the measured grounding electrode resistance.
type GroundingSpec struct {
	ResistanceOhms float64 `yaml:"resistance_ohms" validate:"gte=0"`
}

// BackupSpec declares one backup power source.
type BackupSpec struct {
	CapacityWatts float64 `yaml:"capacity_watts" validate:"gte=0"`
}
