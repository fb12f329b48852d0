package launcher

import (
	"github.com/mergefield/fieldclip/kit/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewPrintConfigCommand returns a command printing the run configuration
// resolved from flags, environment variables and the config file.
func NewPrintConfigCommand(v *viper.Viper) (*cobra.Command, error) {
	opts := NewOptions()
	runOpts := opts.RunOpts()

	var format string
	var cmd *cobra.Command
	prog := &cli.Program{
		Name: "fieldclip",
		Opts: runOpts,
		Run: func() error {
			return cli.PrintConfig(runOpts, cmd.OutOrStdout(), format)
		},
	}

	cmd, err := cli.NewCommand(v, prog)
	if err != nil {
		return nil, err
	}
	cmd.Use = "print-config"
	cmd.Short = "Print the resolved run configuration"
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or toml")
	return cmd, nil
}
