// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package fault implements fault current, arc flash, protective device
// coordination, redundancy, and ground fault analysis for circuits
// analyzed by the circuit package.
//
// # Description
//
// The package answers the questions a fault study asks after a circuit
// has been characterized: how much current flows during a bolted fault,
// how long the protective device takes to clear it, how much arc flash
// energy a worker at the working distance absorbs, and whether the
// protection scheme is selective, redundant, and adequately grounded.
//
//	                      ┌──────────────────────┐
//	circuit.Analysis ────►│  FaultAnalysisEngine  │
//	source fault amps     │   impedance model     │
//	protective device     │   fault current       │
//	                      │   arc duration        │
//	                      │   incident energy     │
//	                      └──────────┬───────────┘
//	                                 │ FaultCurrentAnalysis
//	                                 ▼
//	                      ┌──────────────────────┐
//	coordination  ───────►│   AdvancedAnalyzer    │──► AdvancedResult
//	redundancy    ───────►│   risk aggregation    │    overall risk
//	ground fault  ───────►│                       │    remediation
//	                      └──────────────────────┘
//
// # Modeling Scope
//
// The impedance model is a representative approximation, not a network
// solver: source impedance is derived from the declared available fault
// current with an assumed X/R ratio, and circuit impedance from the
// conductor's resolved resistance with a small per-length reactance.
// Callers needing study-grade numbers substitute their own
// ImpedanceModel.
//
// # Error Handling
//
// Unresolvable lookups and degenerate arithmetic (zero impedance, zero
// ground resistance, zero primary load) degrade to documented zero
// values with explicit marker fields and never return errors. Invalid
// domain values (negative currents, unknown enum members, non-positive
// device ratings) fail fast with descriptive errors wrapping
// ErrInvalidInput.
//
// # Thread Safety
//
// All analyzer types are stateless and safe for concurrent use.
package fault
