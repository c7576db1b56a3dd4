package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vocaltractlab/vtlbuild/internal/build"
)

var argsCmd = &cobra.Command{
	Use:   "args",
	Short: "Print the cmake command lines without running them",
	Args:  cobra.NoArgs,
	RunE:  runArgs,
}

func init() {
	addBuildFlags(argsCmd)
	rootCmd.AddCommand(argsCmd)
}

func runArgs(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	a := build.Args(cfg)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cd %s\n", cfg.BuildTemp)
	fmt.Fprintf(out, "CXXFLAGS=%q\n", cfg.Env.AppendFlag("CXXFLAGS", build.VersionFlag(cfg.Version)).Get("CXXFLAGS"))
	fmt.Fprintf(out, "%s %s\n", cfg.CMake, strings.Join(a.Configure, " "))
	fmt.Fprintf(out, "%s %s\n", cfg.CMake, strings.Join(a.Build, " "))
	return nil
}
