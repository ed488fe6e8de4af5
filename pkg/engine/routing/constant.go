package routing

const (
	// alternative route search gives up after TargetCount * MAX_ALTERNATIVE_ITERATION_FACTOR penalized searches
	MAX_ALTERNATIVE_ITERATION_FACTOR = 3
)
