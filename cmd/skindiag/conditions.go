package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newConditionsCommand(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "conditions",
		Short: "List the conditions in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := root.loadCatalog()
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), cat.Entries())
			}

			out := cmd.OutOrStdout()
			for _, entry := range cat.Entries() {
				if _, err := fmt.Fprintf(out, "%s\t%s\n", entry.Name, strings.Join(entry.Keywords, ", ")); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return cmd
}
