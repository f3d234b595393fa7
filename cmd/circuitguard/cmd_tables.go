// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/CircuitGuard/pkg/validation"
	"github.com/AleutianAI/CircuitGuard/services/circuit"
	"github.com/AleutianAI/CircuitGuard/services/circuit/tables"
)

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func verifyTables(cmd *cobra.Command, args []string) {
	os.Exit(verifyEmbeddedTables(os.Stdout))
}

func showTables(cmd *cobra.Command, args []string) {
	os.Exit(showConductorTables(os.Stdout))
}

// verifyEmbeddedTables hashes the compiled-in table bytes and re-parses
// them, so a deployed binary can be checked against a known release.
func verifyEmbeddedTables(out io.Writer) int {
	digest := sha256.Sum256(tables.ConductorProperties)
	fmt.Fprintf(out, "SHA-256: %s\n", hex.EncodeToString(digest[:]))
	fmt.Fprintf(out, "Size: %d bytes\n", len(tables.ConductorProperties))

	t, err := tables.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: embedded tables failed verification: %v\n", err)
		return circuit.ExitError
	}

	materials := t.Materials()
	total := 0
	fmt.Fprintln(out, "Materials:")
	for _, material := range materials {
		count := len(t.Gauges(material))
		total += count
		fmt.Fprintf(out, "  %s: %d conductors\n", material, count)
	}
	limits := t.Limits()
	fmt.Fprintf(out, "Limits: max drop %.1f%%, recommended drop %.1f%%, max ground resistance %.1f ohms\n",
		limits.MaxVoltageDropPercent, limits.RecommendedVoltageDropPercent,
		limits.MaxGroundResistanceOhms)
	fmt.Fprintf(out, "Verified %d conductor entries across %d materials\n", total, len(materials))
	return circuit.ExitSuccess
}

// showConductorTables prints the resistance and ampacity rows, filtered
// by the --material and --gauge flags when set.
func showConductorTables(out io.Writer) int {
	t, err := tables.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load conductor tables: %v\n", err)
		return circuit.ExitError
	}

	materials := t.Materials()
	if tablesMaterial != "" {
		if err := validation.ValidateMaterial(tablesMaterial); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return circuit.ExitError
		}
		materials = []tables.Material{tables.Material(tablesMaterial)}
	}

	gauge := tablesGauge
	if gauge != "" {
		normalized, err := validation.NormalizeGaugeLabel(gauge)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return circuit.ExitError
		}
		gauge = normalized
	}

	for _, material := range materials {
		fmt.Fprintf(out, "%s\n", material)
		fmt.Fprintf(out, "  %-6s %12s %10s\n", "GAUGE", "OHMS/KFT", "AMPACITY")
		rows := 0
		for _, label := range t.Gauges(material) {
			if gauge != "" && label != gauge {
				continue
			}
			resistance, _ := t.Resistance(material, label)
			ampacity, _ := t.Ampacity(material, label)
			fmt.Fprintf(out, "  %-6s %12.3f %10.0f\n", label, resistance, ampacity)
			rows++
		}
		if rows == 0 {
			if gauge != "" {
				fmt.Fprintf(os.Stderr, "Error: no %s row for gauge %q\n", material, gauge)
			} else {
				fmt.Fprintf(os.Stderr, "Error: no rows for material %q\n", material)
			}
			return circuit.ExitError
		}
	}

	limits := t.Limits()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Max voltage drop: %.1f%% (recommended %.1f%%)\n",
		limits.MaxVoltageDropPercent, limits.RecommendedVoltageDropPercent)
	fmt.Fprintf(out, "Max ground resistance: %.1f ohms\n", limits.MaxGroundResistanceOhms)
	for _, use := range []string{"lighting", "receptacle", "motor"} {
		if minimum, ok := t.MinimumGauge(use); ok {
			fmt.Fprintf(out, "Minimum %s gauge: %s\n", use, minimum)
		}
	}
	return circuit.ExitSuccess
}
