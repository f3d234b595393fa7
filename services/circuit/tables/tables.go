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

// Tables serves as the main entry point for conductor property lookups.
// It holds the parsed resistance and ampacity data and provides methods to
// resolve values by material and gauge. A Tables instance is read-only after
// construction and safe for concurrent use.
type Tables struct {
	index     map[Material]map[string]ConductorProperty
	order     map[Material][]string
	materials []Material
	limits    Limits
	minimums  map[string]string
}

// New initializes a new Tables instance.
//
// This function takes no arguments. It automatically loads the conductor
// definitions embedded in the binary via the ConductorProperties variable.
//
// It performs the following operations:
// 1. Unmarshals the embedded YAML data.
// 2. Checks the parsed data for internal consistency.
// 3. Builds per-material lookup indexes keyed by gauge label.
//
// Returns an error if the embedded YAML is malformed or fails its checks.
func New() (*Tables, error) {
	var file ConductorPropertiesFile
	if err := yaml.Unmarshal(ConductorProperties, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal the embedded conductor tables: %w", err)
	}
	if err := file.Check(); err != nil {
		return nil, fmt.Errorf("embedded conductor tables are invalid: %w", err)
	}

	t := &Tables{
		index:  make(map[Material]map[string]ConductorProperty, len(file.Materials)),
		order:  make(map[Material][]string, len(file.Materials)),
		limits: file.Limits,
		minimums: map[string]string{
			"lighting":   file.MinimumGauges.Lighting,
			"receptacle": file.MinimumGauges.Receptacle,
			"motor":      file.MinimumGauges.Motor,
		},
	}
	for _, material := range file.Materials {
		byGauge := make(map[string]ConductorProperty, len(material.Conductors))
		order := make([]string, 0, len(material.Conductors))
		for _, conductor := range material.Conductors {
			byGauge[conductor.Gauge] = conductor
			order = append(order, conductor.Gauge)
		}
		t.index[material.Name] = byGauge
		t.order[material.Name] = order
		t.materials = append(t.materials, material.Name)
	}
	return t, nil
}

// lookup resolves one conductor entry. Gauge labels are normalized first so
// callers may pass "#12" or "AWG 12" and still hit the "12" row.
func (t *Tables) lookup(material Material, gauge string) (ConductorProperty, bool) {
	byGauge, ok := t.index[material]
	if !ok {
		return ConductorProperty{}, false
	}
	normalized, err := validation.NormalizeGaugeLabel(gauge)
	if err != nil {
		return ConductorProperty{}, false
	}
	property, ok := byGauge[normalized]
	return property, ok
}

// Resistance returns the DC resistance of the given conductor in ohms per
// 1000 feet. The boolean reports whether the (material, gauge) pair exists in
// the embedded tables; callers that receive false are expected to degrade
// rather than fail, since a missing row is a data gap and not a caller bug.
func (t *Tables) Resistance(material Material, gauge string) (float64, bool) {
	property, ok := t.lookup(material, gauge)
	if !ok {
		return 0, false
	}
	return property.ResistancePerKFT, true
}

// Ampacity returns the allowable ampacity of the given conductor in amperes
// at a 75C termination rating, before any derating is applied. The boolean
// reports whether the (material, gauge) pair exists in the embedded tables.
func (t *Tables) Ampacity(material Material, gauge string) (float64, bool) {
	property, ok := t.lookup(material, gauge)
	if !ok {
		return 0, false
	}
	return property.Ampacity, true
}

// Limits returns the service-wide thresholds applied by the compliance checks.
func (t *Tables) Limits() Limits {
	return t.limits
}

// MinimumGauge returns the smallest conductor permitted for the given branch
// circuit use ("lighting", "receptacle", or "motor"). The boolean reports
// whether the use is one the tables define a minimum for.
func (t *Tables) MinimumGauge(use string) (string, bool) {
	gauge, ok := t.minimums[use]
	return gauge, ok
}

// Materials returns the materials present in the embedded tables, in the
// order they are listed in the source file.
func (t *Tables) Materials() []Material {
	out := make([]Material, len(t.materials))
	copy(out, t.materials)
	return out
}

// Gauges returns the gauge labels defined for the given material, smallest
// conductor first. It returns nil for an unknown material.
func (t *Tables) Gauges(material Material) []string {
	order, ok := t.order[material]
	if !ok {
		return nil
	}
	out := make([]string, len(order))
	copy(out, order)
	return out
}
