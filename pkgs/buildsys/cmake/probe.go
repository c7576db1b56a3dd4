package cmake

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.trai.ch/zerr"
	"golang.org/x/mod/semver"

	"github.com/vocaltractlab/vtlbuild/internal/platform"
	"github.com/vocaltractlab/vtlbuild/internal/process"
	"github.com/vocaltractlab/vtlbuild/pkgs/buildsys"
	"github.com/vocaltractlab/vtlbuild/pkgs/gnu"
)

// MinWindowsVersion is the oldest cmake accepted on Windows.
const MinWindowsVersion = "3.1.0"

var versionRe = regexp.MustCompile(`version\s*([\d.]+)`)

// Toolchain is what Probe learned about the cmake executable.
type Toolchain struct {
	Bin string
	// Version is empty when the output could not be parsed.
	Version string
}

// Probe runs "<bin> --version" and checks that cmake is usable on p.
//
// It fails with buildsys.ErrToolchainMissing when the executable cannot be
// started or the version command fails. On Windows the version must also
// parse and be at least MinWindowsVersion, else buildsys.ErrToolchainTooOld.
func Probe(ctx context.Context, r process.Runner, bin string, p platform.Platform) (Toolchain, error) {
	if bin == "" {
		bin = DefaultBin
	}
	res, err := r.Run(ctx, process.Command{Name: bin, Args: []string{"--version"}})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Toolchain{}, err
		}
		return Toolchain{}, zerr.With(zerr.Wrap(errors.Join(buildsys.ErrToolchainMissing, err), "toolchain probe failed"), "bin", bin)
	}
	if !res.Success() {
		return Toolchain{}, zerr.With(zerr.Wrap(buildsys.ErrToolchainMissing, "toolchain probe failed"), "exit_code", res.ExitCode)
	}

	tc := Toolchain{Bin: bin, Version: ParseVersion(string(res.Stdout))}
	if !p.IsWindows() {
		return tc, nil
	}
	if tc.Version == "" {
		return Toolchain{}, zerr.With(zerr.Wrap(buildsys.ErrToolchainMissing, "cannot read cmake version"), "output", strings.TrimSpace(string(res.Stdout)))
	}
	if !AtLeast(tc.Version, MinWindowsVersion) {
		return Toolchain{}, zerr.With(zerr.Wrap(buildsys.ErrToolchainTooOld, "cmake "+tc.Version), "version", tc.Version)
	}
	return tc, nil
}

// ParseVersion extracts the dotted version from "cmake --version" output.
func ParseVersion(out string) string {
	m := versionRe.FindStringSubmatch(out)
	if m == nil {
		return ""
	}
	return strings.Trim(m[1], ".")
}

// AtLeast reports whether version have is >= min. Versions semver can read
// ("3", "3.1", "3.1.0") use semver ordering; anything else falls back to
// GNU version ordering.
func AtLeast(have, min string) bool {
	vh, vm := "v"+have, "v"+min
	if semver.IsValid(vh) && semver.IsValid(vm) {
		return semver.Compare(vh, vm) >= 0
	}
	return gnu.Compare(have, min) >= 0
}
