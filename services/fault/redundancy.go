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

const (
	// RedundantFactor is the backup-to-primary capacity ratio at which
	// the backup fully covers the load.
	RedundantFactor = 1.0

	// MarginalFactor is the ratio below which the backup covers the
	// load with less than 25% headroom.
	MarginalFactor = 1.25
)

// AnalyzeRedundancy checks whether backup supply capacity covers a
// primary load.
//
// # Description
//
// The redundancy factor is total backup capacity over the primary
// load. A zero primary load yields a factor of exactly 0 rather than
// an infinite one; a circuit with nothing to back up reports no
// redundancy instead of infinite redundancy, which keeps the factor
// comparable across circuits.
//
// # Inputs
//
//   - primaryLoadWatts: Demand to cover; must not be negative.
//   - backupCapacitiesWatts: Capacity of each backup source; entries
//     must not be negative.
//
// # Outputs
//
//   - *RedundancyResult: Factor, verdict, and sizing guidance.
//   - error: Non-nil for negative inputs.
func AnalyzeRedundancy(primaryLoadWatts float64, backupCapacitiesWatts []float64) (*RedundancyResult, error) {
	if primaryLoadWatts < 0 {
		return nil, invalidInputf("primary load must not be negative, got %v", primaryLoadWatts)
	}

	total := 0.0
	for i, capacity := range backupCapacitiesWatts {
		if capacity < 0 {
			return nil, invalidInputf("backup capacity %d must not be negative, got %v", i, capacity)
		}
		total += capacity
	}

	factor := 0.0
	if primaryLoadWatts > 0 {
		factor = total / primaryLoadWatts
	}

	recommendations := make([]string, 0, 1)
	switch {
	case factor < RedundantFactor:
		recommendations = append(recommendations,
			"Backup capacity does not cover the primary load; add backup capacity")
	case factor < MarginalFactor:
		recommendations = append(recommendations,
			"Backup margin is under 25%; consider additional backup capacity")
	default:
		recommendations = append(recommendations,
			"Backup capacity is adequate for the primary load")
	}

	return &RedundancyResult{
		PrimaryLoadWatts:    primaryLoadWatts,
		BackupCapacityWatts: total,
		RedundancyFactor:    factor,
		HasRedundancy:       factor >= RedundantFactor,
		Recommendations:     recommendations,
	}, nil
}
