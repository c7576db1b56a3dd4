package cmake

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vocaltractlab/vtlbuild/internal/platform"
)

// DefaultJobs is the parallelism requested from make/ninja when none is configured.
const DefaultJobs = 8

// Input is everything the composer derives arguments from.
type Input struct {
	Platform  platform.Platform
	Debug     bool
	SourceDir string
	// ExtDir is where the built extension must land.
	ExtDir string
	// Python is passed as PYTHON_EXECUTABLE when non-empty.
	Python string

	Generator string
	Jobs      int
	Defines   map[string]string
}

// Args holds the composed command lines, without the cmake binary itself.
type Args struct {
	Configure []string
	Build     []string
}

// Config returns the CMake configuration name for a debug or release build.
func Config(debug bool) string {
	if debug {
		return "Debug"
	}
	return "Release"
}

// Compose derives the configure and build arguments for in. It has no
// side effects and never fails.
func Compose(in Input) Args {
	cfg := Config(in.Debug)

	configure := []string{in.SourceDir, "-DCMAKE_LIBRARY_OUTPUT_DIRECTORY=" + in.ExtDir}
	if in.Python != "" {
		configure = append(configure, "-DPYTHON_EXECUTABLE="+in.Python)
	}
	build := []string{"--build", ".", "--config", cfg, "--"}

	if in.Platform.IsWindows() {
		configure = append(configure, "-DCMAKE_LIBRARY_OUTPUT_DIRECTORY_"+strings.ToUpper(cfg)+"="+in.ExtDir)
		if in.Platform.Is64Bit() && isVisualStudio(in.Generator) {
			configure = append(configure, "-A", "x64")
		}
	} else {
		configure = append(configure, "-DCMAKE_BUILD_TYPE="+cfg)
	}

	if in.Generator != "" {
		configure = append(configure, "-G", in.Generator)
	}
	configure = append(configure, definesArgs(in.Defines)...)

	if in.Platform.IsWindows() && isVisualStudio(in.Generator) {
		if in.Jobs > 0 {
			build = append(build, "/m:"+strconv.Itoa(in.Jobs))
		} else {
			build = append(build, "/m")
		}
	} else {
		jobs := in.Jobs
		if jobs <= 0 {
			jobs = DefaultJobs
		}
		build = append(build, "-j"+strconv.Itoa(jobs))
	}

	return Args{Configure: configure, Build: build}
}

// The default Windows generator is Visual Studio, which is the only one
// that understands -A and MSBuild's /m.
func isVisualStudio(generator string) bool {
	return generator == "" || strings.HasPrefix(generator, "Visual Studio")
}

func definesArgs(defines map[string]string) []string {
	if len(defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(defines))
	for k := range defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, "-D"+k+"="+defines[k])
	}
	return args
}
