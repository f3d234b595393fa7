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
	"github.com/spf13/cobra"

	"github.com/AleutianAI/CircuitGuard/pkg/logging"
)

// --- Global Command Variables ---
var (
	logLevel string
	logJSON  bool
	quiet    bool

	analyzeFile    string
	analyzeCircuit string
	analyzeOutput  string
	analyzeFailOn  bool
	analyzeWatch   bool

	faultFile     string
	faultCircuit  string
	faultAdvanced bool
	faultOutput   string

	tablesMaterial string
	tablesGauge    string

	rootCmd = &cobra.Command{
		Use:   "circuitguard",
		Short: "A cli to analyze low voltage branch circuits",
		Long: `CircuitGuard analyzes branch circuits described in YAML files.

It aggregates loads, computes voltage drop against conductor tables
embedded in the binary, checks code compliance, screens safety hazards,
and runs fault, coordination, redundancy, and ground fault studies.

Analysis results go to stdout; logs go to stderr.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.New(logging.Config{
				Level:   parseLogLevel(logLevel),
				Service: "circuitguard",
				JSON:    logJSON,
				Quiet:   quiet,
			})
		},
	}

	// --- Analysis ---
	analyzeCmd = &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis pipeline over a circuit file",
		Long: `Analyze every circuit in a file, or one circuit selected by id.

Each circuit is aggregated, checked for voltage drop and conductor
capacity against the embedded tables, validated for code compliance,
and screened for safety hazards. Circuits are analyzed concurrently;
results print in file order.

Examples:
  circuitguard analyze --file circuits.yaml
  circuitguard analyze --file circuits.yaml --circuit panel-a-lighting
  circuitguard analyze --file circuits.yaml --output json > report.json
  circuitguard analyze --file circuits.yaml --fail-on-violation
  circuitguard analyze --file circuits.yaml --watch

Exit Codes:
  0 = Analysis completed (violations only fail with --fail-on-violation)
  1 = Violations found and --fail-on-violation set
  2 = Error (unreadable file, invalid circuit, unknown id)`,
		Run: runAnalyzeCommand, // Defined in cmd_analyze.go
	}

	// --- Fault Studies ---
	faultCmd = &cobra.Command{
		Use:   "fault",
		Short: "Run fault and arc flash studies over a circuit file",
		Long: `Estimate available fault current and arc flash exposure.

Every studied circuit must declare a protective device; circuits
without one are skipped with a warning. With --advanced the study also
covers protective coordination, supply redundancy, and ground fault
exposure wherever the file supplies an upstream device, backup
capacities, or a grounding resistance.

Examples:
  circuitguard fault --file circuits.yaml
  circuitguard fault --file circuits.yaml --circuit panel-a-lighting
  circuitguard fault --file circuits.yaml --advanced
  circuitguard fault --file circuits.yaml --advanced --output json

Exit Codes:
  0 = No elevated exposure found
  1 = PPE category 2 or higher, or overall risk at or above medium
  2 = Error (unreadable file, missing device, invalid input)`,
		Run: runFaultCommand, // Defined in cmd_fault.go
	}

	// --- Conductor Tables ---
	tablesCmd = &cobra.Command{
		Use:   "tables",
		Short: "Base command to inspect the embedded conductor tables",
	}
	verifyTablesCmd = &cobra.Command{
		Use:   "verify",
		Short: "Verify the integrity of the embedded conductor tables",
		Long:  `Calculates the SHA256 hash of the compiled-in conductor tables and re-parses them. Use this to verify that the binary is running the expected version of the engineering data.`,
		Run:   verifyTables, // Defined in cmd_tables.go
	}
	showTablesCmd = &cobra.Command{
		Use:   "show",
		Short: "Print conductor resistance and ampacity rows",
		Long: `tables show prints the resistance and ampacity rows the analyses
resolve against, plus the code limits and minimum gauges baked into
the binary.

Examples:
  circuitguard tables show
  circuitguard tables show --material copper
  circuitguard tables show --material copper --gauge 12`,
		Run: showTables, // Defined in cmd_tables.go
	}
)

// logger is the process-wide logger. The root PersistentPreRun replaces
// the default with one configured from the global flags before any
// command body runs.
var logger = logging.Default()

// parseLogLevel maps a flag value to a logging level. Unknown values
// fall back to info rather than failing the whole command.
func parseLogLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

// init runs when the Go program starts
func init() {
	// Global logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Minimum log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress log output")

	// --- Analysis ---
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "Circuit file to analyze (required)")
	analyzeCmd.Flags().StringVar(&analyzeCircuit, "circuit", "", "Analyze only the circuit with this id")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "auto", "Output format: auto, text, or json")
	analyzeCmd.Flags().BoolVar(&analyzeFailOn, "fail-on-violation", false,
		"Exit 1 when any circuit has compliance violations")
	analyzeCmd.Flags().BoolVar(&analyzeWatch, "watch", false, "Re-run the analysis when the file changes")
	_ = analyzeCmd.MarkFlagRequired("file")

	// --- Fault Studies ---
	rootCmd.AddCommand(faultCmd)
	faultCmd.Flags().StringVar(&faultFile, "file", "", "Circuit file to analyze (required)")
	faultCmd.Flags().StringVar(&faultCircuit, "circuit", "", "Study only the circuit with this id")
	faultCmd.Flags().BoolVar(&faultAdvanced, "advanced", false,
		"Include coordination, redundancy, and ground fault analyses")
	faultCmd.Flags().StringVar(&faultOutput, "output", "auto", "Output format: auto, text, or json")
	_ = faultCmd.MarkFlagRequired("file")

	// --- Conductor Tables ---
	rootCmd.AddCommand(tablesCmd)
	tablesCmd.AddCommand(verifyTablesCmd)
	tablesCmd.AddCommand(showTablesCmd)
	showTablesCmd.Flags().StringVar(&tablesMaterial, "material", "", "Only show this material (copper or aluminum)")
	showTablesCmd.Flags().StringVar(&tablesGauge, "gauge", "", "Only show this gauge, e.g. 12 or 1/0")
}
