// Package domain holds the core types of the structured process executor:
// process definitions (slots, steps, triggers), the per-session mutable
// context, the externally visible result, and the tool-call contract.
//
// The package is dependency-free by design; behavior lives in the runtime
// and intent packages.
package domain
