package buildsys

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrToolchainMissing is returned when the cmake executable cannot be located or invoked.
	ErrToolchainMissing = zerr.New("cmake must be installed to build the extension")

	// ErrToolchainTooOld is returned on Windows when cmake reports a version below 3.1.0.
	ErrToolchainTooOld = zerr.New("cmake >= 3.1.0 is required on Windows")

	// ErrBuildStepFailed matches every *StepError through errors.Is.
	ErrBuildStepFailed = zerr.New("build step failed")

	// ErrArtifactMissing is returned when the build finished but no extension landed in place.
	ErrArtifactMissing = zerr.New("extension artifact not found")
)

// StepError reports an external build step that exited non-zero.
type StepError struct {
	Step     string
	ExitCode int
	// Stderr holds the tail of the step's standard error, if any was captured.
	Stderr string
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("%s step failed with exit code %d", e.Step, e.ExitCode)
	if e.Stderr != "" {
		msg += ":\n" + e.Stderr
	}
	return msg
}

// Is reports whether target is ErrBuildStepFailed.
func (e *StepError) Is(target error) bool {
	return target == ErrBuildStepFailed
}
