// Package buildsys describes the build systems the extension builder drives
// and the errors a build can end with.
package buildsys

import "context"

// BuildSystem captures the two-step lifecycle shared by build helpers
// (CMake today). Configure generates native build files, Build compiles them.
type BuildSystem interface {
	// Lifecycle.
	Configure(ctx context.Context, args ...string) error
	Build(ctx context.Context, args ...string) error

	// Where the native build files live.
	OutputDir() string
}

// Step names reported in StepError.
const (
	StepConfigure = "configure"
	StepBuild     = "build"
)
