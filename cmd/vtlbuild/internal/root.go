package internal

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/vocaltractlab/vtlbuild/internal/logging"
	_ "github.com/vocaltractlab/vtlbuild/internal/wiring"
)

var (
	logLevel   string
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "vtlbuild",
	Short: "vtlbuild builds the VocalTractLab extension module",
	Long: `vtlbuild compiles the VocalTractLab API bindings with CMake and places
the resulting extension module where the package installer expects it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := logging.DefaultConfig()
		cfg.Out = cmd.ErrOrStderr()
		return logging.Configure(cfg, logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Project file (YAML or TOML), default vtlbuild.yaml or vtlbuild.toml in the working directory")
}

// Execute runs the command line args. It is called by main.main.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}
