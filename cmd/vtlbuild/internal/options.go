package internal

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/vocaltractlab/vtlbuild/internal/config"
	"github.com/vocaltractlab/vtlbuild/internal/env"
	"github.com/vocaltractlab/vtlbuild/internal/platform"
)

var errBadDefine = zerr.New("define must have the form KEY=VALUE")

var (
	opts    config.Options
	defines []string
)

// addBuildFlags registers the flags that select what is built and where.
func addBuildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&opts.Name, "name", "", "Dotted extension module name (default vtl)")
	f.StringVar(&opts.Source, "source", "", "Directory holding CMakeLists.txt (default .)")
	f.StringVar(&opts.BuildBase, "build-base", "", "Base directory for build output (default build)")
	f.BoolVar(&opts.Inplace, "inplace", false, "Place the extension in the source tree")
	f.BoolVar(&opts.Debug, "debug", false, "Build the Debug configuration")
	f.StringVar(&opts.Python, "python", "", "Interpreter passed to CMake as PYTHON_EXECUTABLE")
	f.StringVar(&opts.CMake, "cmake", "", "cmake executable (default cmake)")
	f.StringVar(&opts.Version, "version-info", "", "Version embedded into the extension")
	f.StringVarP(&opts.Generator, "generator", "G", "", "CMake generator")
	f.IntVarP(&opts.Jobs, "jobs", "j", 0, "Parallel build jobs (default 8, ignored by Visual Studio)")
	f.StringVar(&opts.ExtSuffix, "ext-suffix", "", "Extension file suffix (default .so, .pyd on Windows)")
	f.BoolVar(&opts.QuerySuffix, "query-suffix", false, "Ask the interpreter for its extension suffix")
	f.StringArrayVarP(&defines, "define", "D", nil, "Extra CMake definition KEY=VALUE (repeatable)")
}

// resolveConfig loads the project file and merges the command-line flags.
func resolveConfig() (config.Build, error) {
	var f *config.File
	path := configFile
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return config.Build{}, zerr.Wrap(err, "failed to get working directory")
		}
		path, _ = config.Find(wd)
	}
	if path != "" {
		var err error
		if f, err = config.LoadFile(path); err != nil {
			return config.Build{}, err
		}
	}

	o := opts
	defs, err := parseDefines(defines)
	if err != nil {
		return config.Build{}, err
	}
	o.Defines = defs
	return config.Resolve(f, o, platform.Host(), env.FromOS())
}

func parseDefines(list []string) (map[string]string, error) {
	out := make(map[string]string, len(list))
	for _, d := range list {
		k, v, ok := strings.Cut(d, "=")
		if !ok || k == "" {
			return nil, zerr.With(zerr.Wrap(errBadDefine, "invalid define"), "define", d)
		}
		out[k] = v
	}
	return out, nil
}
