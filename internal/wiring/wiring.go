// Package wiring registers all graft nodes of the build tool.
package wiring

import (
	// Register ambient nodes.
	_ "github.com/vocaltractlab/vtlbuild/internal/logging"
	_ "github.com/vocaltractlab/vtlbuild/internal/process"
	// Register the build pipeline.
	_ "github.com/vocaltractlab/vtlbuild/internal/build"
)
