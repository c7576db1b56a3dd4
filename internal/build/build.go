// Package build runs the extension build pipeline: probe the toolchain,
// compose arguments, configure, build and place the artifact.
package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"go.trai.ch/zerr"

	"github.com/vocaltractlab/vtlbuild/internal/config"
	"github.com/vocaltractlab/vtlbuild/internal/layout"
	"github.com/vocaltractlab/vtlbuild/internal/process"
	"github.com/vocaltractlab/vtlbuild/pkgs/buildsys/cmake"
)

// Builder builds one extension per Build call. It keeps no state between calls.
type Builder struct {
	runner process.Runner
	log    zerolog.Logger
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

// Result describes a successful build.
type Result struct {
	Toolchain cmake.Toolchain
	Artifact  layout.Artifact
	Record    *Record
}

// NewBuilder returns a Builder that runs commands through r.
func NewBuilder(r process.Runner, log zerolog.Logger) *Builder {
	return &Builder{
		runner: r,
		log:    log,
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
	}
}

// Output redirects the live output of build steps.
func (b *Builder) Output(stdout, stderr io.Writer) *Builder {
	b.stdout, b.stderr = stdout, stderr
	return b
}

// VersionFlag is the compiler flag that embeds version into the extension.
func VersionFlag(version string) string {
	return fmt.Sprintf(`-DVERSION_INFO=\"%s\"`, version)
}

// Probe checks the toolchain the way Build does before touching the filesystem.
func (b *Builder) Probe(ctx context.Context, cfg config.Build) (cmake.Toolchain, error) {
	tc, err := cmake.Probe(ctx, b.runner, cfg.CMake, cfg.Platform)
	if err != nil {
		return cmake.Toolchain{}, err
	}
	b.log.Info().Str("cmake", tc.Bin).Str("version", tc.Version).Msg("found toolchain")
	return tc, nil
}

// Build runs the pipeline for cfg. Nothing is written to disk if the
// toolchain probe fails. If configure fails, build is not attempted.
func (b *Builder) Build(ctx context.Context, cfg config.Build) (*Result, error) {
	tc, err := b.Probe(ctx, cfg)
	if err != nil {
		return nil, err
	}

	in := cfg.Installer()
	if cfg.QuerySuffix {
		suffix, err := layout.QuerySuffix(ctx, b.runner, cfg.Python)
		if err != nil {
			return nil, err
		}
		b.log.Debug().Str("suffix", suffix).Msg("extension suffix from interpreter")
		in.Suffix = suffix
	}

	extPath, err := in.Prepare(cfg.Name)
	if err != nil {
		return nil, err
	}
	args := cmake.Compose(cfg.CMakeInput(filepath.Dir(extPath)))

	e := cfg.Env.AppendFlag("CXXFLAGS", VersionFlag(cfg.Version))
	drv := cmake.New(b.runner, cfg.BuildTemp, e).
		Binary(tc.Bin).
		Output(b.stdout, b.stderr).
		Logger(b.log)

	b.log.Info().Str("name", cfg.Name).Str("config", cfg.Config()).Str("platform", cfg.Platform.String()).Msg("building extension")
	if err := drv.Configure(ctx, args.Configure...); err != nil {
		return nil, err
	}
	if err := drv.Build(ctx, args.Build...); err != nil {
		return nil, err
	}

	art, err := in.Place(cfg.Name)
	if err != nil {
		return nil, err
	}
	b.log.Info().Str("path", art.Path).Int64("size", art.Size).Msg("extension in place")

	rec := newRecord(cfg, art, b.now())
	if err := saveRecord(filepath.Join(cfg.BuildTemp, RecordFile), rec); err != nil {
		return nil, err
	}
	return &Result{Toolchain: tc, Artifact: art, Record: rec}, nil
}

// Args returns the argument lists Build would use for cfg, without
// probing or creating any directory.
func Args(cfg config.Build) cmake.Args {
	return cmake.Compose(cfg.CMakeInput(cfg.Installer().ExtDir(cfg.Name)))
}

// Clean removes the build temp directory of cfg. Built extensions are kept.
func Clean(cfg config.Build) error {
	if err := os.RemoveAll(cfg.BuildTemp); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove build directory"), "dir", cfg.BuildTemp)
	}
	return nil
}
