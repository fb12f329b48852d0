package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/mergefield/fieldclip"
	"github.com/mergefield/fieldclip/kit/cli"
	"github.com/mergefield/fieldclip/kit/platform/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newSubCommand returns a command named use whose options are bound
// through kit/cli, so that FIELDCLIP_* variables and the config file
// apply to it as they do to the run command.
func newSubCommand(v *viper.Viper, use, short string, opts []cli.Opt, run func(*cobra.Command, []string) error) (*cobra.Command, error) {
	cmd, err := cli.NewCommand(v, &cli.Program{
		Name: "fieldclip",
		Opts: opts,
	})
	if err != nil {
		return nil, err
	}
	cmd.Use = use
	cmd.Short = short
	cmd.RunE = run
	return cmd, nil
}

// openInput opens the file named by the first argument, or stdin when
// there is none or it is "-".
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(args[0])
}

// readNode reads a field description written as JSON or YAML.
func readNode(cmd *cobra.Command, args []string, maxDepth int) (fieldclip.Node, error) {
	r, err := openInput(cmd, args)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !json.Valid(b) {
		if b, err = yaml.YAMLToJSON(b); err != nil {
			return nil, &errors.Error{
				Code: errors.EInvalid,
				Op:   fieldclip.OpDecodeNode,
				Msg:  "field description is neither JSON nor YAML",
				Err:  err,
			}
		}
	}
	return fieldclip.DecodeNodeDepth(b, maxDepth)
}
