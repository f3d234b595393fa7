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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AleutianAI/CircuitGuard/services/circuit"
	"github.com/AleutianAI/CircuitGuard/services/circuit/tables"
)

// analyzeTestDocument holds one compliant short run and one long run
// whose voltage drop breaks the 3% branch circuit limit.
const analyzeTestDocument = `circuits:
  - id: panel-a-lighting
    type: lighting
    voltage: 120
    loads:
      - name: track-lights
        power_watts: 1800
        voltage: 120
    conductor:
      gauge: "12"
      material: copper
      length_feet: 50
  - id: panel-b-lighting
    type: lighting
    voltage: 120
    loads:
      - name: floods
        power_watts: 1800
        voltage: 120
    conductor:
      gauge: "12"
      material: copper
      length_feet: 150
`

func writeAnalyzeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "circuits.yaml")
	if err := os.WriteFile(path, []byte(analyzeTestDocument), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func newTestEngine(t *testing.T) *circuit.Engine {
	t.Helper()
	tbl, err := tables.New()
	if err != nil {
		t.Fatalf("load tables: %v", err)
	}
	return circuit.NewEngine(tbl)
}

func resetAnalyzeFlags() {
	analyzeFile = ""
	analyzeCircuit = ""
	analyzeOutput = "auto"
	analyzeFailOn = false
	analyzeWatch = false
}

func TestRunAnalysisPass_JSON(t *testing.T) {
	defer resetAnalyzeFlags()
	analyzeFile = writeAnalyzeFixture(t)

	var buf bytes.Buffer
	if code := runAnalysisPass(newTestEngine(t), &buf, outputJSON); code != circuit.ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, circuit.ExitSuccess)
	}

	var results []*circuit.CircuitAnalysis
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].CircuitID != "panel-a-lighting" || results[1].CircuitID != "panel-b-lighting" {
		t.Errorf("results out of file order: %s, %s", results[0].CircuitID, results[1].CircuitID)
	}
	if len(results[0].ComplianceIssues) != 0 {
		t.Errorf("short run reports issues: %v", results[0].ComplianceIssues)
	}
	if len(results[1].ComplianceIssues) == 0 {
		t.Error("expected a voltage drop violation on the long run")
	}
}

func TestRunAnalysisPass_TextOutput(t *testing.T) {
	defer resetAnalyzeFlags()
	analyzeFile = writeAnalyzeFixture(t)

	var buf bytes.Buffer
	if code := runAnalysisPass(newTestEngine(t), &buf, outputText); code != circuit.ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, circuit.ExitSuccess)
	}
	got := buf.String()
	for _, want := range []string{
		"Circuit: panel-a-lighting (lighting, 120V)",
		"Circuit: panel-b-lighting (lighting, 120V)",
		"Compliance: OK",
		"! voltage drop",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("text output is missing %q:\n%s", want, got)
		}
	}
}

func TestRunAnalysisPass_FailOnViolation(t *testing.T) {
	defer resetAnalyzeFlags()
	analyzeFile = writeAnalyzeFixture(t)
	analyzeFailOn = true

	var buf bytes.Buffer
	if code := runAnalysisPass(newTestEngine(t), &buf, outputText); code != circuit.ExitViolationsFound {
		t.Fatalf("exit code = %d, want %d", code, circuit.ExitViolationsFound)
	}
}

func TestRunAnalysisPass_SelectsCircuit(t *testing.T) {
	defer resetAnalyzeFlags()
	analyzeFile = writeAnalyzeFixture(t)
	analyzeCircuit = "panel-a-lighting"
	analyzeFailOn = true

	var buf bytes.Buffer
	if code := runAnalysisPass(newTestEngine(t), &buf, outputJSON); code != circuit.ExitSuccess {
		t.Fatalf("exit code = %d, want %d (the long run is not selected)", code, circuit.ExitSuccess)
	}

	var results []*circuit.CircuitAnalysis
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(results) != 1 || results[0].CircuitID != "panel-a-lighting" {
		t.Fatalf("unexpected selection: %+v", results)
	}
}

func TestRunAnalysisPass_UnknownCircuit(t *testing.T) {
	defer resetAnalyzeFlags()
	analyzeFile = writeAnalyzeFixture(t)
	analyzeCircuit = "panel-z"

	var buf bytes.Buffer
	if code := runAnalysisPass(newTestEngine(t), &buf, outputText); code != circuit.ExitError {
		t.Fatalf("exit code = %d, want %d", code, circuit.ExitError)
	}
}

func TestRunAnalysisPass_MissingFile(t *testing.T) {
	defer resetAnalyzeFlags()
	analyzeFile = filepath.Join(t.TempDir(), "absent.yaml")

	var buf bytes.Buffer
	if code := runAnalysisPass(newTestEngine(t), &buf, outputText); code != circuit.ExitError {
		t.Fatalf("exit code = %d, want %d", code, circuit.ExitError)
	}
}
