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
	"testing"
)

// TestCompareGauges tests physical size ordering across the AWG scale,
// including the inverted aught family.
func TestCompareGauges(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"aught larger than one", "1/0", "1", 1},
		{"four aught larger than one aught", "4/0", "1/0", 1},
		{"twelve larger than fourteen", "12", "14", 1},
		{"fourteen smaller than twelve", "14", "12", -1},
		{"equal gauges", "12", "12", 0},
		{"normalized forms equal", "#12", "AWG 12", 0},
		{"two aught smaller than four aught", "2/0", "4/0", -1},
		{"one smaller than two aught", "1", "2/0", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompareGauges(tt.a, tt.b)
			if err != nil {
				t.Fatalf("CompareGauges(%q, %q) returned error: %v", tt.a, tt.b, err)
			}
			if got != tt.want {
				t.Errorf("CompareGauges(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// TestCompareGauges_Invalid tests label rejection.
func TestCompareGauges_Invalid(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
	}{
		{"left label malformed", "bogus", "12"},
		{"right label malformed", "12", "5/0"},
		{"empty label", "", "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CompareGauges(tt.a, tt.b); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("CompareGauges(%q, %q) error = %v, want ErrInvalidInput", tt.a, tt.b, err)
			}
		})
	}
}

// TestGaugeAtLeast tests the minimum-size predicate used by compliance.
func TestGaugeAtLeast(t *testing.T) {
	tests := []struct {
		name    string
		gauge   string
		minimum string
		want    bool
	}{
		{"larger wire passes", "12", "14", true},
		{"equal wire passes", "12", "12", true},
		{"smaller wire fails", "14", "12", false},
		{"aught passes numeric minimum", "1/0", "1", true},
		{"numeric fails aught minimum", "1", "1/0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GaugeAtLeast(tt.gauge, tt.minimum)
			if err != nil {
				t.Fatalf("GaugeAtLeast(%q, %q) returned error: %v", tt.gauge, tt.minimum, err)
			}
			if got != tt.want {
				t.Errorf("GaugeAtLeast(%q, %q) = %v, want %v", tt.gauge, tt.minimum, got, tt.want)
			}
		})
	}

	if _, err := GaugeAtLeast("12", "huge"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("GaugeAtLeast with malformed minimum: error = %v, want ErrInvalidInput", err)
	}
}
