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

import "math"

const (
	// ArcGapMM is the electrode gap assumed by the low-voltage energy
	// fit, representative of low-voltage equipment bus spacing.
	ArcGapMM = 25.0

	// ReferenceDistanceMM is the distance the energy fits are
	// normalized to.
	ReferenceDistanceMM = 610.0

	// DistanceExponent governs how incident energy decays with
	// distance from the arc.
	DistanceExponent = 1.081

	// ArcFlashBoundaryCalPerCm2 is the incident energy defining the
	// arc flash boundary: the distance at which a worker without PPE
	// would receive a just-curable burn.
	ArcFlashBoundaryCalPerCm2 = 1.2

	// MMPerInch converts working distances to millimeters.
	MMPerInch = 25.4

	// PPE category band edges in cal/cm2, lower-inclusive: an energy
	// exactly at an edge belongs to the higher category.
	PPECategory1CalPerCm2 = 1.2
	PPECategory2CalPerCm2 = 4.0
	PPECategory3CalPerCm2 = 8.0
	PPECategory4CalPerCm2 = 25.0
)

const (
	// joulesPerCalorie converts the normalized low-voltage energy fit
	// to cal/cm2.
	joulesPerCalorie = 4.184

	// lowVoltageScalingFactor scales the normalized fit to open-air
	// exposure at the working distance.
	lowVoltageScalingFactor = 1.5

	// mediumVoltageCoefficient is the proportionality constant of the
	// medium-voltage energy model, in cal/cm2 per kA-second at the
	// reference distance.
	mediumVoltageCoefficient = 5.271
)

// CalculateIncidentEnergy computes the arc flash incident energy at a
// working distance, and the arc flash boundary.
//
// # Description
//
// Low-voltage systems use an empirical normalized-energy fit over the
// arcing current and electrode gap, scaled by duration and an
// inverse-distance power law:
//
//	logEn = 0.792 + 0.555*log10(Ia) + 0.0011*gap
//	E     = 4.184 * 1.5 * 10^logEn * (t_ms/1000) * (610/D_mm)^1.081
//
// Medium-voltage systems use a direct proportional model:
//
//	E = 5.271 * Ia_kA * t_s * (610/D_mm)^1.081
//
// The boundary inverts the same power law to find the distance where
// the energy falls to 1.2 cal/cm2.
//
// # Inputs
//
//   - arcingAmps: Sustained arcing current; must be positive.
//   - workingDistanceIn: Distance from the arc in inches; must be positive.
//   - durationMs: Arc duration in milliseconds; must be positive.
//   - class: Voltage class selecting the model; must be a known member.
//
// # Outputs
//
//   - ArcFlashEnergy: Incident energy and boundary distance.
//   - error: Non-nil for invalid inputs.
func CalculateIncidentEnergy(arcingAmps, workingDistanceIn, durationMs float64, class VoltageClass) (ArcFlashEnergy, error) {
	if arcingAmps <= 0 {
		return ArcFlashEnergy{}, invalidInputf("arcing current must be positive, got %v", arcingAmps)
	}
	if workingDistanceIn <= 0 {
		return ArcFlashEnergy{}, invalidInputf("working distance must be positive, got %v", workingDistanceIn)
	}
	if durationMs <= 0 {
		return ArcFlashEnergy{}, invalidInputf("arc duration must be positive, got %v", durationMs)
	}
	if !class.Valid() {
		return ArcFlashEnergy{}, invalidInputf("unknown voltage class %q", class)
	}

	// prefactor is the energy at the reference distance; the distance
	// term then projects it to the working distance.
	var prefactor float64
	switch class {
	case ClassLow:
		logEn := 0.792 + 0.555*math.Log10(arcingAmps) + 0.0011*ArcGapMM
		prefactor = joulesPerCalorie * lowVoltageScalingFactor *
			math.Pow(10, logEn) * (durationMs / 1000.0)
	case ClassMedium:
		prefactor = mediumVoltageCoefficient * (arcingAmps / 1000.0) * (durationMs / 1000.0)
	}

	distanceMM := workingDistanceIn * MMPerInch
	energy := prefactor * math.Pow(ReferenceDistanceMM/distanceMM, DistanceExponent)

	boundaryMM := ReferenceDistanceMM *
		math.Pow(prefactor/ArcFlashBoundaryCalPerCm2, 1.0/DistanceExponent)

	return ArcFlashEnergy{
		IncidentCalPerCm2: energy,
		BoundaryIn:        boundaryMM / MMPerInch,
	}, nil
}

// DeterminePPECategory maps an incident energy to the required PPE
// category and equipment list.
//
// # Description
//
// Step function over the category band edges. The bands are
// lower-inclusive: 1.2 cal/cm2 is category 1, 4 is category 2, 8 is
// category 3, and 25 is category 4. Category never decreases as energy
// increases.
func DeterminePPECategory(incidentEnergy float64) (int, []string) {
	switch {
	case incidentEnergy < PPECategory1CalPerCm2:
		return 0, []string{
			"Safety glasses",
			"Non-melting natural fiber clothing",
		}
	case incidentEnergy < PPECategory2CalPerCm2:
		return 1, []string{
			"Arc-rated shirt and pants (4 cal/cm2)",
			"Arc-rated face shield",
			"Leather gloves",
		}
	case incidentEnergy < PPECategory3CalPerCm2:
		return 2, []string{
			"Arc-rated shirt and pants (8 cal/cm2)",
			"Arc-rated flash hood",
			"Leather gloves",
		}
	case incidentEnergy < PPECategory4CalPerCm2:
		return 3, []string{
			"Arc flash suit (25 cal/cm2)",
			"Arc-rated flash hood",
			"Arc-rated gloves",
		}
	default:
		return 4, []string{
			"Arc flash suit (40 cal/cm2)",
			"Arc-rated flash hood",
			"Arc-rated gloves",
			"Special analysis required",
		}
	}
}
