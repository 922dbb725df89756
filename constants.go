package qresample

// Execution defaults
const (
	defaultShots       = 8192 // Shots per patch in shot mode
	defaultMinShots    = 100  // Smallest accepted total for shot reconstruction
	defaultShotBatches = 1    // Shot groups simulated one after the other
)

// Register limits
const (
	defaultMaxQubits = 24 // Dense state of 2^24 amplitudes, 256 MiB
	maxQubitsLimit   = 30 // Hard ceiling for MaxQubits
)

// Numeric tolerances
const (
	defaultTolerance = 1e-9 // Unit-norm tolerance at encoding time
)
