// Package config resolves the settings of a single extension build from
// defaults, the project file and command-line options.
package config

import (
	"maps"
	"os/exec"
	"path/filepath"
	"regexp"

	"go.trai.ch/zerr"

	"github.com/vocaltractlab/vtlbuild/internal/env"
	"github.com/vocaltractlab/vtlbuild/internal/layout"
	"github.com/vocaltractlab/vtlbuild/internal/platform"
	"github.com/vocaltractlab/vtlbuild/pkgs/buildsys/cmake"
)

// Defaults for settings given neither in the project file nor as flags.
const (
	DefaultName      = "vtl"
	DefaultVersion   = "0.0.0"
	DefaultBuildBase = "build"
)

// Validation errors returned by Resolve.
var (
	ErrInvalidName = zerr.New("extension name must be a dotted identifier")
	ErrInvalidJobs = zerr.New("jobs must not be negative")
)

var nameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// Options are command-line settings. Zero values leave the file or default
// value in effect.
type Options struct {
	Name        string
	Version     string
	Source      string
	BuildBase   string
	Inplace     bool
	Debug       bool
	Python      string
	CMake       string
	Generator   string
	Jobs        int
	ExtSuffix   string
	QuerySuffix bool
	Defines     map[string]string
}

// Build is the resolved configuration of one build. It is not modified
// after Resolve returns.
type Build struct {
	Name        string
	Version     string
	SourceDir   string
	BuildTemp   string
	LibDir      string
	Inplace     bool
	Debug       bool
	Platform    platform.Platform
	Python      string
	CMake       string
	Generator   string
	Jobs        int
	Suffix      string
	QuerySuffix bool
	Defines     map[string]string
	Env         env.Env
}

// Resolve merges f (may be nil) and o on top of the defaults. Relative
// paths from f are taken relative to the file's directory, all others
// relative to the working directory. e is the process environment the
// build will run with.
func Resolve(f *File, o Options, p platform.Platform, e env.Env) (Build, error) {
	if f == nil {
		f = &File{}
	}
	b := Build{
		Name:        pick(o.Name, f.Name, DefaultName),
		Version:     pick(o.Version, f.Version, DefaultVersion),
		Inplace:     o.Inplace,
		Debug:       o.Debug,
		Platform:    p,
		CMake:       pick(o.CMake, f.CMake, cmake.DefaultBin),
		Generator:   pick(o.Generator, f.Generator),
		Suffix:      pick(o.ExtSuffix, f.ExtSuffix, layout.DefaultSuffix(p)),
		QuerySuffix: o.QuerySuffix && o.ExtSuffix == "",
		Env:         e.Merge(f.Env),
	}
	if !nameRE.MatchString(b.Name) {
		return Build{}, zerr.With(zerr.Wrap(ErrInvalidName, "invalid configuration"), "name", b.Name)
	}

	b.Jobs = f.Jobs
	if o.Jobs != 0 {
		b.Jobs = o.Jobs
	}
	if b.Jobs < 0 {
		return Build{}, zerr.With(zerr.Wrap(ErrInvalidJobs, "invalid configuration"), "jobs", b.Jobs)
	}

	src, err := f.path(o.Source, f.Source, ".")
	if err != nil {
		return Build{}, zerr.Wrap(err, "failed to resolve source directory")
	}
	base, err := f.path(o.BuildBase, f.BuildBase, DefaultBuildBase)
	if err != nil {
		return Build{}, zerr.Wrap(err, "failed to resolve build base")
	}
	b.SourceDir = src
	b.BuildTemp = filepath.Join(base, "temp."+p.Tag())
	b.LibDir = filepath.Join(base, "lib."+p.Tag())

	b.Defines = make(map[string]string, len(f.Defines)+len(o.Defines))
	maps.Copy(b.Defines, f.Defines)
	maps.Copy(b.Defines, o.Defines)

	b.Python = pick(o.Python, f.Python, b.Env.Get("PYTHON"))
	if b.Python == "" {
		b.Python = lookPython()
	}
	return b, nil
}

// Config returns the CMake configuration name, Debug or Release.
func (b Build) Config() string {
	return cmake.Config(b.Debug)
}

// Installer returns the placement rules for the extension. In-place builds
// land next to the sources.
func (b Build) Installer() layout.Installer {
	root := b.LibDir
	if b.Inplace {
		root = b.SourceDir
	}
	return layout.Installer{Root: root, Suffix: b.Suffix}
}

// CMakeInput returns the argument composer input for an extension dir.
func (b Build) CMakeInput(extDir string) cmake.Input {
	return cmake.Input{
		Platform:  b.Platform,
		Debug:     b.Debug,
		SourceDir: b.SourceDir,
		ExtDir:    extDir,
		Python:    b.Python,
		Generator: b.Generator,
		Jobs:      b.Jobs,
		Defines:   maps.Clone(b.Defines),
	}
}

// path returns the absolute form of the first non-empty of flag, fromFile
// and def. Only fromFile is relative to the file's directory.
func (f *File) path(flag, fromFile, def string) (string, error) {
	switch {
	case flag != "":
		return filepath.Abs(flag)
	case fromFile != "":
		if f.dir != "" && !filepath.IsAbs(fromFile) {
			fromFile = filepath.Join(f.dir, fromFile)
		}
		return filepath.Abs(fromFile)
	default:
		return filepath.Abs(def)
	}
}

func lookPython() string {
	for _, name := range []string{"python3", "python"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func pick(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
