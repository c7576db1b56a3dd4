package internal

import (
	"fmt"

	"github.com/grindlemire/graft"
	"github.com/spf13/cobra"

	"github.com/vocaltractlab/vtlbuild/internal/build"
)

var buildVerbose bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Configure and build the extension module",
	Long: `Build probes cmake, configures the project in the build temp directory,
builds it and places the extension module at the path the installer expects.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd)
	buildCmd.Flags().BoolVarP(&buildVerbose, "verbose", "v", false, "Show cmake output")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	b, _, err := graft.ExecuteFor[*build.Builder](cmd.Context())
	if err != nil {
		return err
	}
	if buildVerbose {
		b.Output(cmd.OutOrStdout(), cmd.ErrOrStderr())
	} else {
		b.Output(nil, nil)
	}

	res, err := b.Build(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Artifact.Path)
	return nil
}
