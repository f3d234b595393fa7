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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/AleutianAI/CircuitGuard/services/circuit"
	"github.com/AleutianAI/CircuitGuard/services/fault"
)

// =============================================================================
// OUTPUT FORMAT
// =============================================================================

const (
	outputAuto = "auto"
	outputText = "text"
	outputJSON = "json"
)

// resolveOutputFormat maps the --output flag to a concrete format.
// "auto" renders text when stdout is a terminal and JSON otherwise, so
// piping into another tool gets machine readable output without a flag.
func resolveOutputFormat(value string) (string, error) {
	switch value {
	case outputText, outputJSON:
		return value, nil
	case outputAuto:
		if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return outputText, nil
		}
		return outputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q: use auto, text, or json", value)
	}
}

// writeJSON renders v with stable two space indentation.
func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// outputCommandError reports a fatal command error. JSON consumers get
// a parseable envelope on the result stream instead of a bare stderr
// line.
func outputCommandError(out io.Writer, format, msg string, err error) {
	if format == outputJSON {
		_ = writeJSON(out, map[string]any{
			"success": false,
			"error":   fmt.Sprintf("%s: %v", msg, err),
		})
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}

// =============================================================================
// ANALYSIS RENDERING
// =============================================================================

// safetyOrder fixes the rendering order of safety findings; the
// assessment stores them in a map.
var safetyOrder = []string{
	circuit.SafetyArcFlash,
	circuit.SafetyOverload,
	circuit.SafetyGroundFault,
	circuit.SafetyShortCircuit,
}

func renderAnalysisText(out io.Writer, a *circuit.CircuitAnalysis) {
	fmt.Fprintf(out, "Circuit: %s (%s, %gV", a.CircuitID, a.CircuitType, a.Voltage)
	if a.ThreePhase {
		fmt.Fprint(out, ", three phase")
	}
	fmt.Fprintln(out, ")")

	fmt.Fprintf(out, "  Load: %.0fW, %.1fA (power factor %.2f)\n",
		a.Load.PowerWatts, a.Load.CurrentAmps, a.Load.PowerFactor)
	fmt.Fprintf(out, "  Conductor: #%s %s, %g ft\n",
		a.Conductor.Gauge, a.Conductor.Material, a.Conductor.LengthFeet)

	if a.VoltageDrop.ResistanceResolved {
		fmt.Fprintf(out, "  Voltage drop: %.2fV (%.2f%%)\n",
			a.VoltageDrop.DropVolts, a.VoltageDrop.DropPercent)
	} else {
		fmt.Fprintln(out, "  Voltage drop: not resolved (no table entry)")
	}
	if a.CapacityResolved {
		fmt.Fprintf(out, "  Capacity: %.1fA\n", a.CapacityAmps)
	} else {
		fmt.Fprintln(out, "  Capacity: not resolved (no table entry)")
	}

	if len(a.ComplianceIssues) == 0 {
		fmt.Fprintln(out, "  Compliance: OK")
	} else {
		fmt.Fprintln(out, "  Compliance:")
		for _, issue := range a.ComplianceIssues {
			fmt.Fprintf(out, "    ! %s\n", issue)
		}
	}
	if len(a.Recommendations) > 0 {
		fmt.Fprintln(out, "  Recommendations:")
		for _, rec := range a.Recommendations {
			fmt.Fprintf(out, "    - %s\n", rec)
		}
	}

	if a.Safety != nil {
		fmt.Fprintf(out, "  Safety: %s %s\n", a.Safety.Overall, hazardIndicator(a.Safety.Overall))
		for _, key := range safetyOrder {
			finding, ok := a.Safety.Findings[key]
			if !ok || finding.Level == circuit.HazardLow {
				continue
			}
			fmt.Fprintf(out, "    %s %s: %s\n",
				hazardIndicator(finding.Level), key, strings.Join(finding.Notes, "; "))
		}
	}
	fmt.Fprintln(out)
}

// =============================================================================
// FAULT RENDERING
// =============================================================================

func renderFaultText(out io.Writer, f *fault.FaultCurrentAnalysis) {
	fmt.Fprintf(out, "Circuit: %s\n", f.CircuitID)
	if f.FaultCurrentUnbounded {
		fmt.Fprintln(out, "  Fault current: unbounded (zero impedance path)")
	} else {
		fmt.Fprintf(out, "  Fault current: %.0fA (X/R %.1f)\n", f.AvailableFaultAmps, f.XOverR)
	}
	if f.InterruptingRatingExceeded {
		fmt.Fprintln(out, "  [!!] Device interrupting rating exceeded")
	}
	fmt.Fprintf(out, "  Arcing current: %.0fA over %.0fms (%.1f cycles)\n",
		f.ArcingAmps, f.ArcDurationMs, f.ClearingTimeCycles)
	fmt.Fprintf(out, "  Incident energy: %.2f cal/cm2 at %.0f in (%s voltage)\n",
		f.IncidentEnergy, f.WorkingDistanceIn, f.VoltageClass)
	fmt.Fprintf(out, "  Arc flash boundary: %.1f in\n", f.ArcFlashBoundaryIn)
	fmt.Fprintf(out, "  PPE category: %d\n", f.PPECategory)
	for _, item := range f.PPEItems {
		fmt.Fprintf(out, "    - %s\n", item)
	}
}

func renderAdvancedText(out io.Writer, r *fault.AdvancedResult) {
	renderFaultText(out, r.Fault)

	if c := r.Coordination; c != nil {
		verdict := "coordinated"
		if !c.Coordinated {
			verdict = "NOT coordinated"
		}
		fmt.Fprintf(out, "  Coordination: %s (upstream %.3fs, downstream %.3fs, margin %.3fs)\n",
			verdict, c.UpstreamSeconds, c.DownstreamSeconds, c.MarginSeconds)
		for _, rec := range c.Recommendations {
			fmt.Fprintf(out, "    - %s\n", rec)
		}
	}
	if red := r.Redundancy; red != nil {
		fmt.Fprintf(out, "  Redundancy: %.0fW backup for %.0fW load (factor %.2f)\n",
			red.BackupCapacityWatts, red.PrimaryLoadWatts, red.RedundancyFactor)
		for _, rec := range red.Recommendations {
			fmt.Fprintf(out, "    - %s\n", rec)
		}
	}
	if g := r.GroundFault; g != nil {
		if g.FaultCurrentUnbounded {
			fmt.Fprintf(out, "  Ground fault: unbounded at %.1f ohms\n", g.GroundResistanceOhms)
		} else {
			fmt.Fprintf(out, "  Ground fault: %.1fA at %.1f ohms\n",
				g.FaultCurrentAmps, g.GroundResistanceOhms)
		}
		if !g.GroundingAdequate {
			fmt.Fprintln(out, "    ! grounding electrode resistance above limit")
		}
		if g.EGCPRequired {
			fmt.Fprintln(out, "    ! equipment ground fault protection required")
		}
		if g.GFCIRequired {
			fmt.Fprintln(out, "    ! GFCI protection required")
		}
	}

	fmt.Fprintf(out, "  Overall risk: %s %s\n", r.OverallRisk, riskIndicator(r.OverallRisk))
	for _, factor := range r.RiskFactors {
		fmt.Fprintf(out, "    ! %s\n", factor)
	}
	for _, rec := range r.Recommendations {
		fmt.Fprintf(out, "    - %s\n", rec)
	}
}

// =============================================================================
// SEVERITY INDICATORS
// =============================================================================

func hazardIndicator(level circuit.HazardLevel) string {
	switch level {
	case circuit.HazardHigh:
		return "[!!]"
	case circuit.HazardMedium:
		return "[!]"
	default:
		return "[ok]"
	}
}

func riskIndicator(level fault.RiskLevel) string {
	switch level {
	case fault.RiskHigh:
		return "[!!]"
	case fault.RiskMedium:
		return "[!]"
	default:
		return "[ok]"
	}
}
