// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.
package tables

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/CircuitGuard/pkg/validation"
)

type Material string

const (
	Copper   Material = "copper"
	Aluminum Material = "aluminum"
)

type ConductorPropertiesFile struct {
	Version       int                  `yaml:"version"`
	Materials     []MaterialProperties `yaml:"materials"`
	Limits        Limits               `yaml:"limits"`
	MinimumGauges MinimumGauges        `yaml:"minimum_gauges"`
}

type MaterialProperties struct {
	Name       Material            `yaml:"name"`
	Conductors []ConductorProperty `yaml:"conductors"`
}

type ConductorProperty struct {
	Gauge            string  `yaml:"gauge"`
	ResistancePerKFT float64 `yaml:"resistance_per_kft"`
	Ampacity         float64 `yaml:"ampacity"`
}

type Limits struct {
	MaxVoltageDropPercent         float64 `yaml:"max_voltage_drop_percent"`
	RecommendedVoltageDropPercent float64 `yaml:"recommended_voltage_drop_percent"`
	MaxGroundResistanceOhms       float64 `yaml:"max_ground_resistance_ohms"`
}

type MinimumGauges struct {
	Lighting   string `yaml:"lighting"`
	Receptacle string `yaml:"receptacle"`
	Motor      string `yaml:"motor"`
}

// Valid reports whether m is a member of the closed material set.
func (m Material) Valid() bool {
	switch m {
	case Copper, Aluminum:
		return true
	default:
		return false
	}
}

func (m *Material) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	incomingMaterial := Material(s)
	switch incomingMaterial {
	case Copper, Aluminum:
		*m = incomingMaterial
		return nil
	default:
		return fmt.Errorf("invalid value for Material: %q", incomingMaterial)
	}
}

// Check verifies the parsed file is internally consistent before it is indexed.
// Every gauge label must be well formed, every resistance and ampacity must be
// positive, and no material may list the same gauge twice.
func (f *ConductorPropertiesFile) Check() error {
	if f.Version != 1 {
		return fmt.Errorf("unsupported conductor table version %d", f.Version)
	}
	if len(f.Materials) == 0 {
		return fmt.Errorf("no materials defined")
	}
	seenMaterials := make(map[Material]bool, len(f.Materials))
	for i := range f.Materials {
		material := &f.Materials[i]
		if seenMaterials[material.Name] {
			return fmt.Errorf("material %q is defined twice", material.Name)
		}
		seenMaterials[material.Name] = true
		if len(material.Conductors) == 0 {
			return fmt.Errorf("material %q lists no conductors", material.Name)
		}
		seen := make(map[string]bool, len(material.Conductors))
		for j := range material.Conductors {
			conductor := &material.Conductors[j]
			if err := validation.ValidateGaugeLabel(conductor.Gauge); err != nil {
				return fmt.Errorf("material %q: %w", material.Name, err)
			}
			if seen[conductor.Gauge] {
				return fmt.Errorf("material %q lists gauge %q twice", material.Name, conductor.Gauge)
			}
			seen[conductor.Gauge] = true
			if conductor.ResistancePerKFT <= 0 {
				return fmt.Errorf("material %q gauge %q: resistance must be positive, got %v",
					material.Name, conductor.Gauge, conductor.ResistancePerKFT)
			}
			if conductor.Ampacity <= 0 {
				return fmt.Errorf("material %q gauge %q: ampacity must be positive, got %v",
					material.Name, conductor.Gauge, conductor.Ampacity)
			}
		}
	}
	if f.Limits.MaxVoltageDropPercent <= 0 {
		return fmt.Errorf("max_voltage_drop_percent must be positive, got %v", f.Limits.MaxVoltageDropPercent)
	}
	if f.Limits.RecommendedVoltageDropPercent <= 0 {
		return fmt.Errorf("recommended_voltage_drop_percent must be positive, got %v",
			f.Limits.RecommendedVoltageDropPercent)
	}
	if f.Limits.MaxGroundResistanceOhms <= 0 {
		return fmt.Errorf("max_ground_resistance_ohms must be positive, got %v", f.Limits.MaxGroundResistanceOhms)
	}
	for use, gauge := range map[string]string{
		"lighting":   f.MinimumGauges.Lighting,
		"receptacle": f.MinimumGauges.Receptacle,
		"motor":      f.MinimumGauges.Motor,
	} {
		if err := validation.ValidateGaugeLabel(gauge); err != nil {
			return fmt.Errorf("minimum gauge for %s: %w", use, err)
		}
	}
	return nil
}
