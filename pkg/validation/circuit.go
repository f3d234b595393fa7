// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for caller-supplied
// circuit data.
//
// This package contains syntactic validators for fields that arrive as free
// text in circuit description files (wire gauge labels, circuit identifiers,
// conductor materials). Semantic checks, such as whether a gauge exists in
// the conductor tables, belong to the services packages; these validators
// only reject input that could never be valid.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// gaugePattern matches valid AWG wire gauge labels.
// Allows: plain sizes "18" through "1", and the inverted aught family
// "1/0" through "4/0" for sizes above 1 AWG.
var gaugePattern = regexp.MustCompile(`^(\d{1,2}|[1-4]/0)$`)

// circuitIDPattern matches valid circuit identifiers.
// Allows: letters, digits, dots, hyphens, underscores. Max length: 64.
var circuitIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._\-]{0,63}$`)

// ValidateGaugeLabel validates an AWG wire gauge label.
//
// Valid labels:
//   - Plain numeric sizes: "14", "12", "10", ... "1"
//   - Aught sizes: "1/0", "2/0", "3/0", "4/0"
//
// Returns an error if the label is invalid.
//
// Example:
//
//	if err := validation.ValidateGaugeLabel(gauge); err != nil {
//	    return nil, fmt.Errorf("invalid conductor gauge: %w", err)
//	}
//	// Safe to use as a table lookup key
func ValidateGaugeLabel(gauge string) error {
	if gauge == "" {
		return fmt.Errorf("gauge label cannot be empty")
	}

	if !gaugePattern.MatchString(gauge) {
		return fmt.Errorf("invalid gauge label: %q (must be a numeric AWG size like \"12\" or an aught size like \"1/0\")", gauge)
	}

	return nil
}

// ValidateGaugeLabels validates multiple gauge labels.
// Returns an error listing all invalid labels if any fail validation.
func ValidateGaugeLabels(gauges []string) error {
	var invalid []string
	for _, g := range gauges {
		if err := ValidateGaugeLabel(g); err != nil {
			invalid = append(invalid, g)
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid gauge labels: %v", invalid)
	}
	return nil
}

// NormalizeGaugeLabel normalizes and validates a gauge label.
// Strips surrounding whitespace and common prefixes ("#12", "AWG 12") and
// returns the bare label if valid, or an error if invalid.
//
// Use this when reading labels from hand-written circuit files:
//
//	gauge, err := validation.NormalizeGaugeLabel(userInput)
//	if err != nil {
//	    return err
//	}
//	// gauge is a bare label like "12" or "1/0"
func NormalizeGaugeLabel(gauge string) (string, error) {
	normalized := strings.TrimSpace(gauge)
	normalized = strings.TrimPrefix(normalized, "#")
	upper := strings.ToUpper(normalized)
	if rest, found := strings.CutPrefix(upper, "AWG"); found {
		normalized = strings.TrimSpace(rest)
	}
	if err := ValidateGaugeLabel(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// ValidateCircuitID validates a circuit identifier.
//
// Valid identifiers:
//   - 1-64 characters
//   - Letters, digits, dots, underscores, hyphens
//   - Must start with a letter or digit
//
// Returns an error if the identifier is invalid.
func ValidateCircuitID(id string) error {
	if id == "" {
		return fmt.Errorf("circuit id cannot be empty")
	}

	if !circuitIDPattern.MatchString(id) {
		return fmt.Errorf("invalid circuit id: %q (must be 1-64 alphanumeric chars, dots, underscores, or hyphens)", id)
	}

	return nil
}

// ValidateMaterial validates a conductor material name.
// The closed set of materials lives in the tables package; this check only
// rejects strings that no material could ever match.
func ValidateMaterial(material string) error {
	if material == "" {
		return fmt.Errorf("conductor material cannot be empty")
	}

	for _, r := range material {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return fmt.Errorf("invalid conductor material: %q (must be alphabetic)", material)
		}
	}

	return nil
}
