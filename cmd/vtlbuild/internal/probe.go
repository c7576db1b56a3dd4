package internal

import (
	"fmt"

	"github.com/grindlemire/graft"
	"github.com/spf13/cobra"

	"github.com/vocaltractlab/vtlbuild/internal/build"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that a usable cmake is installed",
	Args:  cobra.NoArgs,
	RunE:  runProbe,
}

func init() {
	probeCmd.Flags().StringVar(&opts.CMake, "cmake", "", "cmake executable (default cmake)")
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	b, _, err := graft.ExecuteFor[*build.Builder](cmd.Context())
	if err != nil {
		return err
	}
	tc, err := b.Probe(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	version := tc.Version
	if version == "" {
		version = "unknown version"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", tc.Bin, version, cfg.Platform)
	return nil
}
