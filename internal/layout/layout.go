// Package layout decides where a compiled extension module must land and
// checks that it got there.
//
// Paths follow the installer's convention: a dotted module name maps to
// nested package directories under the build root, and the file name is the
// last name component followed by the interpreter's extension suffix.
package layout

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"

	"github.com/vocaltractlab/vtlbuild/internal/platform"
	"github.com/vocaltractlab/vtlbuild/pkgs/buildsys"
)

// Installer knows the expected location of extension modules.
type Installer struct {
	// Root is the directory extensions are installed under, either the
	// build library directory or the source tree for in-place builds.
	Root string
	// Suffix is appended to the module's base name, e.g. ".so" or
	// ".cpython-312-x86_64-linux-gnu.so".
	Suffix string
}

// DefaultSuffix is the extension suffix used when the interpreter is not asked.
func DefaultSuffix(p platform.Platform) string {
	if p.IsWindows() {
		return ".pyd"
	}
	return ".so"
}

// ExtPath returns the full path the extension module name must be built to.
func (in Installer) ExtPath(name string) string {
	parts := strings.Split(name, ".")
	elems := make([]string, 0, len(parts)+1)
	elems = append(elems, in.Root)
	elems = append(elems, parts[:len(parts)-1]...)
	elems = append(elems, parts[len(parts)-1]+in.Suffix)
	return filepath.Join(elems...)
}

// ExtDir returns the directory that holds the extension module name.
func (in Installer) ExtDir(name string) string {
	return filepath.Dir(in.ExtPath(name))
}

// Prepare creates the extension directory and returns the expected path.
func (in Installer) Prepare(name string) (string, error) {
	path := in.ExtPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create extension directory"), "dir", filepath.Dir(path))
	}
	return path, nil
}

// Artifact is a compiled extension in its final place.
type Artifact struct {
	Path     string
	Size     int64
	Checksum uint64
}

// Place confirms that the extension module name exists at its expected
// path and returns it. When the build system wrote the library under a
// platform default name instead (libvtl.so, vtl.dll, ...) and exactly one
// such file exists in the extension directory, it is renamed into place,
// replacing an extension left there by an earlier build unless that one
// is newer.
func (in Installer) Place(name string) (Artifact, error) {
	path := in.ExtPath(name)
	var placed fs.FileInfo
	if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
		placed = fi
	}

	parts := strings.Split(name, ".")
	candidates, err := candidates(filepath.Dir(path), parts[len(parts)-1], path)
	if err != nil {
		return Artifact{}, zerr.Wrap(err, "failed to scan extension directory")
	}
	switch len(candidates) {
	case 0:
		if placed != nil {
			return describe(path)
		}
		return Artifact{}, zerr.With(zerr.Wrap(buildsys.ErrArtifactMissing, "nothing built"), "path", path)
	case 1:
		built := candidates[0]
		if placed != nil {
			if fi, err := os.Stat(built); err == nil && fi.ModTime().Before(placed.ModTime()) {
				if err := os.Remove(built); err != nil {
					return Artifact{}, zerr.With(zerr.Wrap(err, "failed to remove stale build output"), "path", built)
				}
				return describe(path)
			}
		}
		if err := os.Rename(built, path); err != nil {
			return Artifact{}, zerr.With(zerr.Wrap(err, "failed to move extension into place"), "from", built)
		}
		return describe(path)
	default:
		return Artifact{}, zerr.With(zerr.Wrap(buildsys.ErrArtifactMissing, "ambiguous build output"), "candidates", strings.Join(candidates, ", "))
	}
}

var libraryPatterns = []string{
	"lib%s.so", "%s.so", "lib%s.*.so", "%s.*.so",
	"lib%s.dylib", "%s.dylib",
	"%s.dll", "%s.pyd", "%s.*.pyd",
}

func candidates(dir, base, expected string) ([]string, error) {
	var out []string
	for _, pattern := range libraryPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, strings.ReplaceAll(pattern, "%s", base)))
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if m == expected || slices.Contains(out, m) {
				continue
			}
			if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
				out = append(out, m)
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

func describe(path string) (Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return Artifact{}, zerr.Wrap(err, "failed to open extension")
	}
	defer f.Close()

	h := xxhash.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return Artifact{}, zerr.Wrap(err, "failed to read extension")
	}
	return Artifact{Path: path, Size: n, Checksum: h.Sum64()}, nil
}
