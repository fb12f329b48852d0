package main

import (
	"fmt"

	"github.com/mergefield/fieldclip"
	"github.com/mergefield/fieldclip/cmd/fieldclip/launcher"
	"github.com/mergefield/fieldclip/copier"
	"github.com/mergefield/fieldclip/rtf"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newCompileCommand(v *viper.Viper) (*cobra.Command, error) {
	opts := launcher.NewOptions()
	var document, normalized bool

	cmd, err := newSubCommand(v, "compile [file]",
		"Print the RTF field code for a JSON or YAML field description",
		opts.CompileOpts(),
		func(cmd *cobra.Command, args []string) error {
			log, err := opts.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			n, err := readNode(cmd, args, opts.MaxDepth)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if normalized {
				b, err := fieldclip.EncodeNode(n)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(b))
				return err
			}

			var compiler fieldclip.Compiler = opts.NewCompiler()
			compiler = rtf.NewCompilerLogger(log.With(zap.String("service", "compiler")), compiler)

			enc, err := opts.NewEncoder()
			if err != nil {
				return err
			}
			res, err := copier.NewService(compiler, opts.Envelope(enc), nil).Render(cmd.Context(), n)
			if err != nil {
				return err
			}

			if document {
				_, err = fmt.Fprintln(out, res.Document)
			} else {
				_, err = fmt.Fprintln(out, res.Fragment)
			}
			return err
		})
	if err != nil {
		return nil, err
	}
	cmd.Args = cobra.MaximumNArgs(1)
	cmd.Flags().BoolVar(&document, "document", false, "wrap the fragment in a complete RTF document")
	cmd.Flags().BoolVar(&normalized, "normalized", false, "print the field description with every default filled in instead of compiling it")
	return cmd, nil
}
