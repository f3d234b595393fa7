// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package circuit provides compliance analysis for electrical branch circuits.
//
// The circuit package combines load aggregation, voltage drop calculation,
// code compliance checks, and hazard screening into a single analysis record
// that can be used for design review and safety gating.
//
// # Architecture
//
// The analysis follows a four-stage pipeline:
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                   Circuit Analysis Pipeline                     │
//	├─────────────────────────────────────────────────────────────────┤
//	│                                                                  │
//	│  AnalysisRequest (loads, conductor, circuit type, voltage)      │
//	│         │                                                        │
//	│         ▼                                                        │
//	│  ┌──────────────┐   ┌──────────────────┐                        │
//	│  │     Load     │──▶│   Voltage Drop   │                        │
//	│  │  Aggregator  │   │    Calculator    │                        │
//	│  └──────────────┘   └──────────────────┘                        │
//	│                              │                                   │
//	│                              ▼                                   │
//	│  ┌──────────────┐   ┌──────────────────┐                        │
//	│  │  Compliance  │──▶│      Safety      │                        │
//	│  │   Validator  │   │     Analyzer     │                        │
//	│  └──────────────┘   └──────────────────┘                        │
//	│                              │                                   │
//	│                              ▼                                   │
//	│  CircuitAnalysis (issues, recommendations, hazard levels)       │
//	│                                                                  │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Checks
//
// Compliance checks (all evaluated, none short-circuits):
//   - Voltage drop above the 3.0% branch circuit limit
//   - Load current above the derated conductor ampacity
//   - Conductor gauge below the circuit-type minimum
//
// Safety screening (heuristic tiers, not a full incident energy study;
// see services/fault for the quantitative path):
//   - Arc flash exposure
//   - Overload protection
//   - Ground fault protection
//   - Short circuit energy
//
// # Error Handling
//
// Unresolvable table lookups degrade to zero values with explicit markers
// (ResistanceResolved, CapacityResolved, a "check skipped" issue string) so
// batch runs can still report partial results. Invalid domain values such as
// negative lengths, out-of-range power factors, or unknown enum members fail
// fast with errors wrapping ErrInvalidInput.
//
// # Thread Safety
//
// All exported types in this package are safe for concurrent use. Every
// operation is a pure, synchronous function of its inputs and the immutable
// conductor tables; identical inputs produce identical outputs. The only
// exception is Engine.Analyze generating a fresh circuit ID when the request
// leaves it empty.
//
// # Algorithm Versioning
//
// The analysis pipeline is versioned to ensure reproducibility. When making
// changes that affect computed results, increment the
// AnalysisAlgorithmVersion constant.
package circuit
