// Package cmake drives the CMake configure/build workflow for a native
// extension: probing the toolchain, composing arguments and running steps.
package cmake

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"go.trai.ch/zerr"

	"github.com/vocaltractlab/vtlbuild/internal/env"
	"github.com/vocaltractlab/vtlbuild/internal/process"
	"github.com/vocaltractlab/vtlbuild/pkgs/buildsys"
)

// DefaultBin is the cmake executable looked up on PATH.
const DefaultBin = "cmake"

// stderrTailLines bounds the stderr excerpt carried by a StepError.
const stderrTailLines = 20

// CMake runs cmake steps inside a build directory.
type CMake struct {
	runner   process.Runner
	bin      string
	buildDir string
	env      env.Env
	stdout   io.Writer
	stderr   io.Writer
	log      zerolog.Logger
}

var _ buildsys.BuildSystem = (*CMake)(nil)

// New returns a CMake that runs steps in buildDir with environment e.
// Step output goes to os.Stdout and os.Stderr unless Output is called.
func New(r process.Runner, buildDir string, e env.Env) *CMake {
	return &CMake{
		runner:   r,
		bin:      DefaultBin,
		buildDir: buildDir,
		env:      e,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		log:      zerolog.Nop(),
	}
}

// Binary overrides the cmake executable.
func (c *CMake) Binary(bin string) *CMake {
	if bin != "" {
		c.bin = bin
	}
	return c
}

// Output redirects the live output of steps.
func (c *CMake) Output(stdout, stderr io.Writer) *CMake {
	c.stdout, c.stderr = stdout, stderr
	return c
}

// Logger sets the logger used for step progress.
func (c *CMake) Logger(log zerolog.Logger) *CMake {
	c.log = log
	return c
}

// Configure creates the build directory if needed and runs "cmake <args>" in it.
func (c *CMake) Configure(ctx context.Context, args ...string) error {
	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create build directory"), "dir", c.buildDir)
	}
	return c.run(ctx, buildsys.StepConfigure, args)
}

// Build runs "cmake <args>" in the build directory, typically "--build .".
func (c *CMake) Build(ctx context.Context, args ...string) error {
	return c.run(ctx, buildsys.StepBuild, args)
}

// OutputDir returns the build directory.
func (c *CMake) OutputDir() string {
	return c.buildDir
}

func (c *CMake) run(ctx context.Context, step string, args []string) error {
	cmd := process.Command{
		Name:   c.bin,
		Args:   args,
		Dir:    c.buildDir,
		Env:    c.env.List(),
		Stdout: c.stdout,
		Stderr: c.stderr,
	}
	c.log.Info().Str("step", step).Str("dir", c.buildDir).Msg(cmd.String())

	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return zerr.With(zerr.Wrap(err, step+" step did not run"), "step", step)
	}
	if !res.Success() {
		c.log.Error().Str("step", step).Int("exit_code", res.ExitCode).Msg("step failed")
		return &buildsys.StepError{Step: step, ExitCode: res.ExitCode, Stderr: res.StderrTail(stderrTailLines)}
	}
	c.log.Debug().Str("step", step).Msg("step finished")
	return nil
}
