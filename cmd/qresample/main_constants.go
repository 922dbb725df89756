package main

// Default command-line flag values
const (
	defaultMode    = "down"
	defaultFactor  = "2"
	defaultExec    = "exact"
	defaultShots   = 8192
	defaultKernel  = "linear"
	defaultPadding = "zero"
	defaultSeed    = 1
)

// Test signal parameters
const (
	testSignalSamples = 16  // Default test signal length
	testSignalCycles  = 1   // Sine periods across the test signal
	testSignalOffset  = 2.0 // Keeps the test signal positive for shot mode
)

// Environment variables consulted for flag defaults
const (
	envPrefix   = "QRESAMPLE_"
	envMode     = envPrefix + "MODE"
	envExec     = envPrefix + "EXEC"
	envShots    = envPrefix + "SHOTS"
	envKernel   = envPrefix + "KERNEL"
	envPadding  = envPrefix + "PADDING"
	envSeed     = envPrefix + "SEED"
	envLogLevel = envPrefix + "LOG_LEVEL"
)
