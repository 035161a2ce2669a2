package publish

import "fmt"

type Phase string

const (
	PhaseLinking Phase = "linking"
	PhasePinning Phase = "pinning"
)

// PhaseError reports the pipeline step that failed.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
