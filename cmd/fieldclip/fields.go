package main

import (
	"fmt"

	"github.com/mergefield/fieldclip"
	"github.com/mergefield/fieldclip/cmd/fieldclip/launcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

func newFieldsCommand(v *viper.Viper) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Manage the catalog of known merge field names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	importCmd, err := newCatalogCommand(v, "import [file]",
		"Replace the catalog with the names in a file, one per line",
		func(cmd *cobra.Command, args []string, c fieldclip.FieldCatalog) error {
			r, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer r.Close()

			names, err := fieldclip.ParseFieldList(r)
			if err != nil {
				return err
			}
			count, err := c.ImportFields(cmd.Context(), names)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d fields\n", count)
			return err
		})
	if err != nil {
		return nil, err
	}
	importCmd.Args = cobra.MaximumNArgs(1)

	listCmd, err := newCatalogCommand(viper.New(), "list",
		"Print the catalog, one name per line",
		func(cmd *cobra.Command, _ []string, c fieldclip.FieldCatalog) error {
			names, err := c.ListFields(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	clearCmd, err := newCatalogCommand(viper.New(), "clear",
		"Remove every name from the catalog",
		func(cmd *cobra.Command, _ []string, c fieldclip.FieldCatalog) error {
			return c.ClearFields(cmd.Context())
		})
	if err != nil {
		return nil, err
	}

	cmd.AddCommand(importCmd, listCmd, clearCmd)
	return cmd, nil
}

// newCatalogCommand returns a command that runs fn against the field
// catalog selected by the store options and closes it afterwards.
func newCatalogCommand(v *viper.Viper, use, short string, fn func(*cobra.Command, []string, fieldclip.FieldCatalog) error) (*cobra.Command, error) {
	opts := launcher.NewOptions()
	return newSubCommand(v, use, short, opts.StoreOpts(),
		func(cmd *cobra.Command, args []string) (err error) {
			log, err := opts.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			c, err := opts.OpenCatalog(cmd.Context(), log)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, c.Close())
			}()
			return fn(cmd, args, c)
		})
}
