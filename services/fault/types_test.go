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
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// RiskLevel Tests
// =============================================================================

func TestRiskLevel_Exceeds(t *testing.T) {
	testCases := []struct {
		level     RiskLevel
		threshold RiskLevel
		expected  bool
	}{
		{RiskLow, RiskLow, false},
		{RiskMedium, RiskLow, true},
		{RiskHigh, RiskMedium, true},
		{RiskLow, RiskHigh, false},
		{RiskHigh, RiskHigh, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.level)+"_vs_"+string(tc.threshold), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.level.Exceeds(tc.threshold))
		})
	}
}

func TestRiskLevel_Order(t *testing.T) {
	assert.Equal(t, 0, RiskLow.Order())
	assert.Equal(t, 1, RiskMedium.Order())
	assert.Equal(t, 2, RiskHigh.Order())
}

func TestParseRiskLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected RiskLevel
	}{
		{"low", RiskLow},
		{"LOW", RiskLow},
		{"medium", RiskMedium},
		{"high", RiskHigh},
		{"garbled", RiskHigh}, // Conservative default
		{"", RiskHigh},        // Conservative default
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseRiskLevel(tc.input))
		})
	}
}

// =============================================================================
// VoltageClass Tests
// =============================================================================

func TestVoltageClass_Valid(t *testing.T) {
	assert.True(t, ClassLow.Valid())
	assert.True(t, ClassMedium.Valid())
	assert.False(t, VoltageClass("").Valid())
	assert.False(t, VoltageClass("high").Valid())
	assert.False(t, VoltageClass("Low").Valid())
}

func TestParseVoltageClass(t *testing.T) {
	class, err := ParseVoltageClass("LOW")
	require.NoError(t, err)
	assert.Equal(t, ClassLow, class)

	class, err = ParseVoltageClass("medium")
	require.NoError(t, err)
	assert.Equal(t, ClassMedium, class)

	_, err = ParseVoltageClass("extra-high")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// =============================================================================
// Impedance Tests
// =============================================================================

func TestImpedance_Magnitude(t *testing.T) {
	testCases := []struct {
		name     string
		z        Impedance
		expected float64
	}{
		{"3-4-5 triangle", Impedance{ResistanceOhms: 3, ReactanceOhms: 4}, 5},
		{"pure resistance", Impedance{ResistanceOhms: 2.5}, 2.5},
		{"pure reactance", Impedance{ReactanceOhms: 0.05}, 0.05},
		{"zero", Impedance{}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, tc.z.Magnitude(), 1e-12)
		})
	}
}

func TestImpedance_Add(t *testing.T) {
	a := Impedance{ResistanceOhms: 0.1, ReactanceOhms: 0.2}
	b := Impedance{ResistanceOhms: 0.3, ReactanceOhms: 0.4}

	sum := a.Add(b)
	assert.InDelta(t, 0.4, sum.ResistanceOhms, 1e-12)
	assert.InDelta(t, 0.6, sum.ReactanceOhms, 1e-12)
}

// =============================================================================
// JSON Marshalling Tests
// =============================================================================

func TestFaultCurrentAnalysis_MarshalJSON_InfiniteXOverR(t *testing.T) {
	record := FaultCurrentAnalysis{
		CircuitID:          "panel-a-1",
		AvailableFaultAmps: 2000,
		XOverR:             math.Inf(1),
		PPEItems:           []string{},
		VoltageClass:       ClassLow,
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"x_over_r":null`)
}

func TestFaultCurrentAnalysis_MarshalJSON_FiniteXOverR(t *testing.T) {
	record := FaultCurrentAnalysis{
		CircuitID:    "panel-a-1",
		XOverR:       5.5,
		PPEItems:     []string{},
		VoltageClass: ClassLow,
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"x_over_r":5.5`)

	// Round-trip preserves the finite ratio.
	var restored FaultCurrentAnalysis
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, 5.5, restored.XOverR)
}
