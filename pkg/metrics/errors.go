package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrGatherFailed = errors.New("metrics gather failed")
)

// Gather collects the global registry and wraps failures in ErrGatherFailed.
func Gather() (int, error) {
	families, err := customRegistry.Gather()
	if err != nil {
		return 0, errors.Join(ErrGatherFailed, err)
	}
	return len(families), nil
}
