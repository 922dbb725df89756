package pipeline

// Stage planning limits
const (
	// Initial capacity for the stages slice
	defaultStageCapacity = 8

	// Largest supported factor exponent per axis (factor 2^maxStagesPerAxis)
	maxStagesPerAxis = 30

	// Resampling ratio of a single stage
	halfRatio   = 0.5
	doubleRatio = 2.0
)
