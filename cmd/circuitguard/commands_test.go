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
	"os"
	"testing"

	"github.com/AleutianAI/CircuitGuard/pkg/logging"
)

// TestMain silences the command logger so test output stays readable.
func TestMain(m *testing.M) {
	logger = logging.New(logging.Config{
		Level:   logging.LevelError,
		Service: "circuitguard",
		Quiet:   true,
	})
	os.Exit(m.Run())
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logging.Level
	}{
		{"debug", logging.LevelDebug},
		{"info", logging.LevelInfo},
		{"warn", logging.LevelWarn},
		{"error", logging.LevelError},
		{"verbose", logging.LevelInfo},
		{"", logging.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCommandTree(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"analyze", "fault", "tables"} {
		if !names[want] {
			t.Errorf("root command is missing %q", want)
		}
	}

	sub := make(map[string]bool)
	for _, c := range tablesCmd.Commands() {
		sub[c.Name()] = true
	}
	for _, want := range []string{"verify", "show"} {
		if !sub[want] {
			t.Errorf("tables command is missing %q", want)
		}
	}
}

func TestPersistentFlags(t *testing.T) {
	for _, name := range []string{"log-level", "log-json", "quiet"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag %q", name)
		}
	}
}

func TestRequiredFileFlags(t *testing.T) {
	for _, cmd := range []string{"analyze", "fault"} {
		for _, c := range rootCmd.Commands() {
			if c.Name() != cmd {
				continue
			}
			if c.Flags().Lookup("file") == nil {
				t.Errorf("%s is missing the --file flag", cmd)
			}
		}
	}
}
