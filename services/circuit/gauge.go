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
	"strconv"
	"strings"

	"github.com/AleutianAI/CircuitGuard/pkg/validation"
)

// gaugeOrdinal converts an AWG label to a comparable ordinal. Plain sizes
// map to their numeric value; aught sizes "n/0" map to -n, so the ordinal
// decreases as the physical wire gets larger across the entire scale:
//
//	"14" → 14   "1" → 1   "1/0" → -1   "4/0" → -4
func gaugeOrdinal(label string) (int, error) {
	normalized, err := validation.NormalizeGaugeLabel(label)
	if err != nil {
		return 0, invalidInputf("%v", err)
	}
	// The normalized label matched the gauge pattern, so Atoi cannot fail.
	if n, ok := strings.CutSuffix(normalized, "/0"); ok {
		v, _ := strconv.Atoi(n)
		return -v, nil
	}
	v, _ := strconv.Atoi(normalized)
	return v, nil
}

// CompareGauges orders two AWG labels by physical conductor size. It
// returns >0 when a is the larger wire, <0 when b is, and 0 when they are
// the same size. Unparsable labels are an ErrInvalidInput failure.
func CompareGauges(a, b string) (int, error) {
	oa, err := gaugeOrdinal(a)
	if err != nil {
		return 0, err
	}
	ob, err := gaugeOrdinal(b)
	if err != nil {
		return 0, err
	}
	// A smaller ordinal is a larger wire.
	switch {
	case oa < ob:
		return 1, nil
	case oa > ob:
		return -1, nil
	default:
		return 0, nil
	}
}

// GaugeAtLeast reports whether gauge is at least as large a conductor as
// minimum.
func GaugeAtLeast(gauge, minimum string) (bool, error) {
	cmp, err := CompareGauges(gauge, minimum)
	if err != nil {
		return false, err
	}
	return cmp >= 0, nil
}
