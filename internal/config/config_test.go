package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocaltractlab/vtlbuild/internal/env"
	"github.com/vocaltractlab/vtlbuild/internal/platform"
)

var linux64 = platform.Platform{OS: "linux", PtrBits: 64, Machine: "x86_64"}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveDefaults(t *testing.T) {
	b, err := Resolve(nil, Options{Python: "/usr/bin/python3"}, linux64, env.FromList(nil))
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, DefaultName, b.Name)
	assert.Equal(t, DefaultVersion, b.Version)
	assert.Equal(t, wd, b.SourceDir)
	assert.Equal(t, filepath.Join(wd, "build", "temp."+linux64.Tag()), b.BuildTemp)
	assert.Equal(t, filepath.Join(wd, "build", "lib."+linux64.Tag()), b.LibDir)
	assert.Equal(t, ".so", b.Suffix)
	assert.Equal(t, "cmake", b.CMake)
	assert.Equal(t, "Release", b.Config())
	assert.Empty(t, b.Defines)
}

func TestResolvePrecedence(t *testing.T) {
	f := &File{
		Name:      "pkg.vtl",
		Version:   "0.0.2",
		Generator: "Ninja",
		Jobs:      4,
		Defines:   map[string]string{"A": "file", "B": "file"},
	}
	o := Options{
		Version: "1.0.0",
		Jobs:    2,
		Python:  "py",
		Defines: map[string]string{"B": "flag"},
	}
	b, err := Resolve(f, o, linux64, env.FromList(nil))
	require.NoError(t, err)

	assert.Equal(t, "pkg.vtl", b.Name)
	assert.Equal(t, "1.0.0", b.Version)
	assert.Equal(t, "Ninja", b.Generator)
	assert.Equal(t, 2, b.Jobs)
	assert.Equal(t, map[string]string{"A": "file", "B": "flag"}, b.Defines)

	// the resolved map is a copy
	f.Defines["A"] = "changed"
	assert.Equal(t, "file", b.Defines["A"])
}

func TestResolvePython(t *testing.T) {
	e := env.FromList([]string{"PYTHON=/opt/py/bin/python"})

	b, err := Resolve(nil, Options{}, linux64, e)
	require.NoError(t, err)
	assert.Equal(t, "/opt/py/bin/python", b.Python)

	b, err = Resolve(&File{Python: "file-py"}, Options{}, linux64, e)
	require.NoError(t, err)
	assert.Equal(t, "file-py", b.Python)

	b, err = Resolve(&File{Python: "file-py"}, Options{Python: "flag-py"}, linux64, e)
	require.NoError(t, err)
	assert.Equal(t, "flag-py", b.Python)
}

func TestResolveEnvFromFile(t *testing.T) {
	e := env.FromList([]string{"CXXFLAGS=-O2"})
	b, err := Resolve(&File{Env: map[string]string{"CC": "clang"}}, Options{Python: "py"}, linux64, e)
	require.NoError(t, err)
	assert.Equal(t, "clang", b.Env.Get("CC"))
	assert.Equal(t, "-O2", b.Env.Get("CXXFLAGS"))
	assert.Empty(t, e.Get("CC"))
}

func TestResolveSuffix(t *testing.T) {
	win := platform.Platform{OS: platform.Windows, PtrBits: 64}
	b, err := Resolve(nil, Options{Python: "py"}, win, env.FromList(nil))
	require.NoError(t, err)
	assert.Equal(t, ".pyd", b.Suffix)

	b, err = Resolve(nil, Options{Python: "py", ExtSuffix: ".abi3.so", QuerySuffix: true}, linux64, env.FromList(nil))
	require.NoError(t, err)
	assert.Equal(t, ".abi3.so", b.Suffix)
	assert.False(t, b.QuerySuffix, "explicit suffix wins over querying")
}

func TestResolveInvalid(t *testing.T) {
	for _, name := range []string{"1vtl", "vtl.", ".vtl", "v-tl", "pkg..vtl"} {
		_, err := Resolve(nil, Options{Name: name, Python: "py"}, linux64, env.FromList(nil))
		assert.True(t, errors.Is(err, ErrInvalidName), name)
	}
	_, err := Resolve(nil, Options{Jobs: -1, Python: "py"}, linux64, env.FromList(nil))
	assert.True(t, errors.Is(err, ErrInvalidJobs))
}

func TestInstaller(t *testing.T) {
	b, err := Resolve(nil, Options{Name: "pkg.vtl", Source: "src", Python: "py"}, linux64, env.FromList(nil))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(b.LibDir, "pkg", "vtl.so"), b.Installer().ExtPath("pkg.vtl"))

	b, err = Resolve(nil, Options{Name: "pkg.vtl", Source: "src", Inplace: true, Python: "py"}, linux64, env.FromList(nil))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(b.SourceDir, "pkg", "vtl.so"), b.Installer().ExtPath("pkg.vtl"))

	in := b.CMakeInput("/ext")
	assert.Equal(t, "/ext", in.ExtDir)
	assert.Equal(t, b.SourceDir, in.SourceDir)
	assert.Equal(t, "py", in.Python)
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "vtlbuild.yaml", `
name: vtl
version: 0.0.2
build_base: out
jobs: 3
defines:
  VTL_STATIC: "OFF"
`)
	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "vtl", f.Name)
	assert.Equal(t, "0.0.2", f.Version)
	assert.Equal(t, "out", f.BuildBase)
	assert.Equal(t, 3, f.Jobs)
	assert.Equal(t, map[string]string{"VTL_STATIC": "OFF"}, f.Defines)
}

func TestLoadFileTOML(t *testing.T) {
	path := writeFile(t, "vtlbuild.toml", `
name = "pkg.vtl"
generator = "Ninja"

[defines]
VTL_STATIC = "ON"
`)
	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pkg.vtl", f.Name)
	assert.Equal(t, "Ninja", f.Generator)
	assert.Equal(t, map[string]string{"VTL_STATIC": "ON"}, f.Defines)
}

func TestLoadFileEmpty(t *testing.T) {
	path := writeFile(t, "vtlbuild.yaml", "")
	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, File{dir: filepath.Dir(path)}, *f)
}

func TestResolvePathsRelativeToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "vtlbuild.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: src\nbuild_base: out\n"), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	b, err := Resolve(f, Options{Python: "py"}, linux64, env.FromList(nil))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src"), b.SourceDir)
	assert.Equal(t, filepath.Join(dir, "out", "temp."+linux64.Tag()), b.BuildTemp)

	// flags stay relative to the working directory
	wd, err := os.Getwd()
	require.NoError(t, err)
	b, err = Resolve(f, Options{Source: "other", Python: "py"}, linux64, env.FromList(nil))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "other"), b.SourceDir)
	assert.Equal(t, filepath.Join(dir, "out", "lib."+linux64.Tag()), b.LibDir)
}

func TestLoadFileUnknownKey(t *testing.T) {
	_, err := LoadFile(writeFile(t, "vtlbuild.yaml", "nmae: vtl\n"))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, "vtlbuild.toml", "nmae = \"vtl\"\n"))
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	_, ok := Find(dir)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "vtlbuild.toml"), nil, 0o644))
	path, ok := Find(dir)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "vtlbuild.toml"), path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "vtlbuild.yaml"), nil, 0o644))
	path, _ = Find(dir)
	assert.Equal(t, filepath.Join(dir, "vtlbuild.yaml"), path)
}
