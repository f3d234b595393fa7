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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/CircuitGuard/cmd/circuitguard/internal/circuitfile"
	"github.com/AleutianAI/CircuitGuard/cmd/circuitguard/internal/watch"
	"github.com/AleutianAI/CircuitGuard/services/circuit"
	"github.com/AleutianAI/CircuitGuard/services/circuit/tables"
)

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runAnalyzeCommand(cmd *cobra.Command, args []string) {
	format, err := resolveOutputFormat(analyzeOutput)
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

	code := runAnalysisPass(engine, os.Stdout, format)
	if !analyzeWatch {
		os.Exit(code)
	}
	os.Exit(watchAnalysis(engine, os.Stdout, format, code))
}

// runAnalysisPass loads the circuit file, analyzes every selected
// circuit, and renders the results. It returns the exit code for the
// pass instead of exiting so watch mode can keep reporting.
func runAnalysisPass(engine *circuit.Engine, out io.Writer, format string) int {
	file, err := circuitfile.Load(analyzeFile)
	if err != nil {
		outputCommandError(out, format, "Failed to load circuit file", err)
		return circuit.ExitError
	}

	specs := file.Circuits
	if analyzeCircuit != "" {
		spec, ok := file.Find(analyzeCircuit)
		if !ok {
			outputCommandError(out, format, "Unknown circuit",
				fmt.Errorf("no circuit with id %q in %s", analyzeCircuit, analyzeFile))
			return circuit.ExitError
		}
		specs = []circuitfile.CircuitSpec{spec}
	}

	// The engine is pure and safe for concurrent use; indexed writes
	// keep the results in file order regardless of completion order.
	results := make([]*circuit.CircuitAnalysis, len(specs))
	var g errgroup.Group
	for i := range specs {
		i := i // per-iteration copy; required while the go directive is below 1.22
		g.Go(func() error {
			req, err := specs[i].AnalysisRequest()
			if err != nil {
				return fmt.Errorf("circuit %q: %w", specs[i].ID, err)
			}
			analysis, err := engine.Analyze(req)
			if err != nil {
				return fmt.Errorf("circuit %q: %w", specs[i].ID, err)
			}
			results[i] = analysis
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		outputCommandError(out, format, "Analysis failed", err)
		return circuit.ExitError
	}

	violations := 0
	for _, analysis := range results {
		violations += len(analysis.ComplianceIssues)
	}

	if format == outputJSON {
		if err := writeJSON(out, results); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return circuit.ExitError
		}
	} else {
		for _, analysis := range results {
			renderAnalysisText(out, analysis)
		}
	}

	logger.Info("analysis complete",
		"file", analyzeFile,
		"circuits", len(results),
		"violations", violations)

	if analyzeFailOn && violations > 0 {
		return circuit.ExitViolationsFound
	}
	return circuit.ExitSuccess
}

// watchAnalysis re-runs the analysis pass whenever the circuit file
// changes, until interrupted. The returned code is the code of the
// most recent pass, so a CI caller still sees violations that were
// present when the watch ended.
func watchAnalysis(engine *circuit.Engine, out io.Writer, format string, lastCode int) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex
	handler := func(changes []watch.Change) {
		logger.Info("circuit file changed", "file", analyzeFile, "events", len(changes))
		code := runAnalysisPass(engine, out, format)
		mu.Lock()
		lastCode = code
		mu.Unlock()
	}

	watcher, err := watch.NewWatcher(analyzeFile, handler, nil)
	if err != nil {
		outputCommandError(out, format, "Failed to create watcher", err)
		return circuit.ExitError
	}
	if err := watcher.Start(ctx); err != nil {
		outputCommandError(out, format, "Failed to start watcher", err)
		return circuit.ExitError
	}
	logger.Info("watching for changes", "file", analyzeFile)

	<-ctx.Done()
	watcher.Stop()

	mu.Lock()
	defer mu.Unlock()
	return lastCode
}
