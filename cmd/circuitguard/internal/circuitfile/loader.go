// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package circuitfile reads YAML circuit description files and converts
// them into analysis requests. Loading runs three stages: decode,
// EnsureDefaults, then Validate, so a *File obtained from Load or Parse
// is always complete and well-formed.
package circuitfile

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/CircuitGuard/pkg/validation"
	"github.com/AleutianAI/CircuitGuard/services/fault"
)

// specValidate checks CircuitSpec struct tags, including the custom
// "awg" gauge label rule.
var specValidate = newSpecValidator()

func newSpecValidator() *validator.Validate {
	v := validator.New()
	// The registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("awg", func(fl validator.FieldLevel) bool {
		return validation.ValidateGaugeLabel(fl.Field().String()) == nil
	})
	return v
}

// Load reads and parses the circuit file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read circuit file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a circuit description document, fills in defaults, and
// validates it.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse circuit file: %w", err)
	}
	f.EnsureDefaults()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// EnsureDefaults fills the optional fields a minimal document omits:
// generated circuit IDs, unity power/diversity/derating factors,
// derived load currents, normalized gauge labels, and the fault study
// defaults.
func (f *File) EnsureDefaults() {
	for i := range f.Circuits {
		c := &f.Circuits[i]
		if c.ID == "" {
			c.ID = uuid.NewString()
		}

		for j := range c.Loads {
			l := &c.Loads[j]
			if l.PowerFactor == 0 {
				l.PowerFactor = 1.0
			}
			if l.DiversityFactor == 0 {
				l.DiversityFactor = 1.0
			}
			if l.CurrentAmps == 0 && l.Voltage > 0 {
				l.CurrentAmps = l.PowerWatts / l.Voltage
			}
		}
		for j := range c.MotorLoads {
			if c.MotorLoads[j].Efficiency == 0 {
				c.MotorLoads[j].Efficiency = 1.0
			}
		}

		// Unparsable labels stay as written so Validate can name the field.
		if normalized, err := validation.NormalizeGaugeLabel(c.Conductor.Gauge); err == nil {
			c.Conductor.Gauge = normalized
		}
		if c.Conductor.DeratingFactor == 0 {
			c.Conductor.DeratingFactor = 1.0
		}

		if c.Fault != nil {
			if c.Fault.WorkingDistanceIn == 0 {
				c.Fault.WorkingDistanceIn = fault.DefaultWorkingDistanceIn
			}
			if c.Fault.VoltageClass == "" {
				c.Fault.VoltageClass = string(fault.ClassLow)
			}
		}
	}
}

// Validate checks the whole document and reports the first problem with
// the circuit index and ID that carry it.
func (f *File) Validate() error {
	if len(f.Circuits) == 0 {
		return fmt.Errorf("circuit file declares no circuits")
	}

	seen := make(map[string]int, len(f.Circuits))
	for i := range f.Circuits {
		c := &f.Circuits[i]
		if err := validation.ValidateCircuitID(c.ID); err != nil {
			return fmt.Errorf("circuit %d: %v", i, err)
		}
		if prev, dup := seen[c.ID]; dup {
			return fmt.Errorf("circuit %d reuses the id %q of circuit %d", i, c.ID, prev)
		}
		seen[c.ID] = i

		if err := specValidate.Struct(c); err != nil {
			return fmt.Errorf("circuit %d (%s): %v", i, c.ID, err)
		}
	}
	return nil
}

// Find returns the circuit with the given ID.
func (f *File) Find(id string) (CircuitSpec, bool) {
	for _, c := range f.Circuits {
		if c.ID == id {
			return c, true
		}
	}
	return CircuitSpec{}, false
}
