package internal

import (
	"github.com/spf13/cobra"

	"github.com/vocaltractlab/vtlbuild/internal/build"
	"github.com/vocaltractlab/vtlbuild/internal/logging"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the build temp directory",
	Long:  `Clean removes the CMake build tree. Placed extension modules are kept.`,
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func init() {
	addBuildFlags(cleanCmd)
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if err := build.Clean(cfg); err != nil {
		return err
	}
	log := logging.Logger()
	log.Info().Str("dir", cfg.BuildTemp).Msg("removed build directory")
	return nil
}
