package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mergefield/fieldclip"
	"github.com/mergefield/fieldclip/clipboard"
	"github.com/mergefield/fieldclip/cmd/fieldclip/launcher"
	"github.com/mergefield/fieldclip/copier"
	"github.com/mergefield/fieldclip/logger"
	"github.com/mergefield/fieldclip/rtf"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newCopyCommand(v *viper.Viper) (*cobra.Command, error) {
	opts := launcher.NewOptions()

	cmd, err := newSubCommand(v, "copy [file]",
		"Compile a field description and place it on the clipboard as RTF",
		opts.CopyOpts(),
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

			enc, err := opts.NewEncoder()
			if err != nil {
				return err
			}
			sys, err := opts.NewClipboardSystem()
			if err != nil {
				return err
			}

			var compiler fieldclip.Compiler = opts.NewCompiler()
			compiler = rtf.NewCompilerLogger(log.With(zap.String("service", "compiler")), compiler)
			var clip fieldclip.Clipboard = clipboard.NewWriter(sys, enc)
			clip = clipboard.NewLogger(log.With(zap.String("service", "clipboard")), clip)

			res, err := copier.NewService(compiler, opts.Envelope(enc), clip).Copy(cmd.Context(), n)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			msg := fmt.Sprintf("Copied to clipboard! (%s)", humanize.Bytes(uint64(len(res.Document))))
			if logger.IsTerminal(out) {
				green := color.New(color.FgHiGreen, color.Bold)
				green.EnableColor()
				msg = green.Sprint(msg)
			}
			_, err = fmt.Fprintln(out, msg)
			return err
		})
	if err != nil {
		return nil, err
	}
	cmd.Args = cobra.MaximumNArgs(1)
	return cmd, nil
}
