package qresample

import "fmt"

// State is a step of the per-run pipeline:
// Encoding -> CircuitBuilding -> Simulating -> Reconstructing -> Done,
// with Failed reachable from any of them.
type State int

const (
	StateEncoding State = iota
	StateCircuitBuilding
	StateSimulating
	StateReconstructing
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateEncoding:        "encoding",
	StateCircuitBuilding: "circuit-building",
	StateSimulating:      "simulating",
	StateReconstructing:  "reconstructing",
	StateDone:            "done",
	StateFailed:          "failed",
}

// String returns the state name.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transitions follow.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }
