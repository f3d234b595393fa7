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
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/CircuitGuard/cmd/circuitguard/internal/circuitfile"
	"github.com/AleutianAI/CircuitGuard/services/circuit"
	"github.com/AleutianAI/CircuitGuard/services/circuit/tables"
	"github.com/AleutianAI/CircuitGuard/services/fault"
)

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runFaultCommand(cmd *cobra.Command, args []string) {
	format, err := resolveOutputFormat(faultOutput)
	if err != nil {
		outputCommandError(os.Stdout, outputText, "Invalid flags", err)
		os.Exit(circuit.ExitError)
	}

	t, err := tables.New()
	if err != nil {
		outputCommandError(os.Stdout, format, "Failed to load conductor tables", err)
		os.Exit(circuit.ExitError)
	}
	engine := circuit.NewEngine(t)

	file, err := circuitfile.Load(faultFile)
	if err != nil {
		outputCommandError(os.Stdout, format, "Failed to load circuit file", err)
		os.Exit(circuit.ExitError)
	}

	specs := file.Circuits
	if faultCircuit != "" {
		spec, ok := file.Find(faultCircuit)
		if !ok {
			outputCommandError(os.Stdout, format, "Unknown circuit",
				fmt.Errorf("no circuit with id %q in %s", faultCircuit, faultFile))
			os.Exit(circuit.ExitError)
		}
		specs = []circuitfile.CircuitSpec{spec}
	}

	if faultAdvanced {
		os.Exit(runAdvancedStudies(engine, specs, os.Stdout, format))
	}
	os.Exit(runFaultStudies(engine, specs, os.Stdout, format))
}

// runFaultStudies runs the plain fault study for every circuit that
// declares a protective device. Exit 1 flags any exposure that needs
// PPE category 2 or higher.
func runFaultStudies(engine *circuit.Engine, specs []circuitfile.CircuitSpec, out io.Writer, format string) int {
	faultEngine := fault.NewFaultAnalysisEngine(nil)

	results := make([]*fault.FaultCurrentAnalysis, 0, len(specs))
	elevated := false
	for _, spec := range specs {
		if spec.Device == nil {
			logger.Warn("skipping circuit without a protective device", "circuit", spec.ID)
			continue
		}
		analysis, err := analyzeSpec(engine, spec)
		if err != nil {
			outputCommandError(out, format, "Analysis failed", err)
			return circuit.ExitError
		}
		study, err := faultEngine.AnalyzeFault(analysis, spec.SourceFaultAmps(),
			spec.Device.ProtectiveDevice(), spec.FaultOptions())
		if err != nil {
			outputCommandError(out, format, "Fault study failed",
				fmt.Errorf("circuit %q: %w", spec.ID, err))
			return circuit.ExitError
		}
		if study.PPECategory >= fault.ElevatedPPECategory {
			elevated = true
		}
		results = append(results, study)
	}
	if len(results) == 0 {
		outputCommandError(out, format, "No studies ran",
			fmt.Errorf("no circuit in %s declares a protective device", faultFile))
		return circuit.ExitError
	}

	if format == outputJSON {
		if err := writeJSON(out, results); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return circuit.ExitError
		}
	} else {
		for _, study := range results {
			renderFaultText(out, study)
			fmt.Fprintln(out)
		}
	}

	logger.Info("fault studies complete", "circuits", len(results), "elevated", elevated)
	if elevated {
		return circuit.ExitViolationsFound
	}
	return circuit.ExitSuccess
}

// runAdvancedStudies runs the combined fault, coordination, redundancy,
// and ground fault analysis for every circuit that declares a
// protective device. Exit 1 flags PPE category 2 or higher, or an
// overall risk at or above medium.
func runAdvancedStudies(engine *circuit.Engine, specs []circuitfile.CircuitSpec, out io.Writer, format string) int {
	analyzer := fault.NewAdvancedAnalyzer(nil)

	results := make([]*fault.AdvancedResult, 0, len(specs))
	elevated := false
	for _, spec := range specs {
		analysis, err := analyzeSpec(engine, spec)
		if err != nil {
			outputCommandError(out, format, "Analysis failed", err)
			return circuit.ExitError
		}
		req, ok := spec.AdvancedRequest(analysis)
		if !ok {
			logger.Warn("skipping circuit without a protective device", "circuit", spec.ID)
			continue
		}
		result, err := analyzer.Analyze(req)
		if err != nil {
			outputCommandError(out, format, "Advanced study failed",
				fmt.Errorf("circuit %q: %w", spec.ID, err))
			return circuit.ExitError
		}
		if result.Fault.PPECategory >= fault.ElevatedPPECategory ||
			result.OverallRisk.Exceeds(fault.RiskLow) {
			elevated = true
		}
		results = append(results, result)
	}
	if len(results) == 0 {
		outputCommandError(out, format, "No studies ran",
			fmt.Errorf("no circuit in %s declares a protective device", faultFile))
		return circuit.ExitError
	}

	if format == outputJSON {
		if err := writeJSON(out, results); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return circuit.ExitError
		}
	} else {
		for _, result := range results {
			renderAdvancedText(out, result)
			fmt.Fprintln(out)
		}
	}

	logger.Info("advanced studies complete", "circuits", len(results), "elevated", elevated)
	if elevated {
		return circuit.ExitViolationsFound
	}
	return circuit.ExitSuccess
}

// analyzeSpec runs the circuit analysis pipeline for one file entry.
func analyzeSpec(engine *circuit.Engine, spec circuitfile.CircuitSpec) (*circuit.CircuitAnalysis, error) {
	req, err := spec.AnalysisRequest()
	if err != nil {
		return nil, fmt.Errorf("circuit %q: %w", spec.ID, err)
	}
	analysis, err := engine.Analyze(req)
	if err != nil {
		return nil, fmt.Errorf("circuit %q: %w", spec.ID, err)
	}
	return analysis, nil
}
