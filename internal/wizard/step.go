package wizard

// Step is a named stage of the event wizard
type Step string

const (
	StepContract Step = "contract"
	StepDetails  Step = "details"
	StepMedia    Step = "media"
	StepPricing  Step = "pricing"
)

var (
	stepsWithContract    = []Step{StepContract, StepDetails, StepMedia, StepPricing}
	stepsWithoutContract = []Step{StepDetails, StepMedia, StepPricing}
)

func stepsFor(hasContract bool) []Step {
	if hasContract {
		return stepsWithContract
	}
	return stepsWithoutContract
}

// ResolveStep maps a 1-based step index to its stage. The contract stage
// exists only when an active contract does. Out-of-range indexes resolve
// to details.
func ResolveStep(step int, hasContract bool) Step {
	steps := stepsFor(hasContract)
	if step < 1 || step > len(steps) {
		return StepDetails
	}
	return steps[step-1]
}

// StepCount returns the number of stages shown
func StepCount(hasContract bool) int {
	return len(stepsFor(hasContract))
}

// StepNumber is the inverse of ResolveStep. It returns 0 for a stage that
// is not shown.
func StepNumber(step Step, hasContract bool) int {
	for i, s := range stepsFor(hasContract) {
		if s == step {
			return i + 1
		}
	}
	return 0
}

// Steps returns the ordered stages shown for the given contract presence
func Steps(hasContract bool) []Step {
	steps := stepsFor(hasContract)
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}
