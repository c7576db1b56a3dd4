package internal

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/vocaltractlab/vtlbuild/internal/build"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the record of the last successful build",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	addBuildFlags(statusCmd)
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	rec, err := build.LoadRecord(cfg.BuildTemp)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(out, "%s has not been built in %s\n", cfg.Name, cfg.BuildTemp)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "name:     %s\n", rec.Name)
	fmt.Fprintf(out, "version:  %s\n", rec.Version)
	fmt.Fprintf(out, "config:   %s\n", rec.Config)
	fmt.Fprintf(out, "platform: %s\n", rec.Platform)
	fmt.Fprintf(out, "artifact: %s (%d bytes, xxhash %s)\n", rec.Artifact, rec.Size, rec.Checksum)
	fmt.Fprintf(out, "built at: %s\n", rec.BuiltAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}
