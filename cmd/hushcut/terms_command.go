package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newTermsCommand(ctx *commandContext) *cobra.Command {
	termsCmd := &cobra.Command{
		Use:   "terms",
		Short: "Inspect the active profanity catalog",
	}

	termsCmd.AddCommand(newTermsListCommand(ctx))
	return termsCmd
}

func newTermsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog terms and their fuzzy pattern counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			collab, err := buildCollaborators(cfg)
			if err != nil {
				return err
			}
			catalog := collab.catalog

			rows := make([][]string, 0, catalog.Len())
			for _, term := range catalog.Terms() {
				tag, _ := catalog.Tag(term)
				rows = append(rows, []string{
					term,
					tag,
					strconv.Itoa(len(catalog.Patterns(term))),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Term", "Tag", "Patterns"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}
