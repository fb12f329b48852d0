package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mergefield/fieldclip/cmd/fieldclip/launcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	cmd, err := NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCommand returns the fieldclip command tree reading from stdin and
// writing to stdout and stderr.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) (*cobra.Command, error) {
	root := &cobra.Command{
		Use:          "fieldclip",
		Short:        "Compile mail-merge field descriptions into RTF field codes",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	// Every command binds its flags into its own viper instance; flags
	// with the same name would otherwise overwrite each other's binding.
	builders := []func(*viper.Viper) (*cobra.Command, error){
		launcher.NewCommand,
		launcher.NewPrintConfigCommand,
		newCompileCommand,
		newCopyCommand,
		newFieldsCommand,
	}
	for _, build := range builders {
		cmd, err := build(viper.New())
		if err != nil {
			return nil, err
		}
		root.AddCommand(cmd)
	}
	return root, nil
}
