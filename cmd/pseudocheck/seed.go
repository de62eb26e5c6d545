package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mind-engage/pseudocheck/internal/catalog"
)

func newSeedCmd(o *globalOpts) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "seed <catalog.yaml>",
		Short: "Validate a question catalog and load it into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(args[0])
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d questions OK\n", args[0], len(cat.Questions))
				return nil
			}

			cfg, log, err := o.load()
			if err != nil {
				return err
			}
			b, err := o.open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			n, err := catalog.Seed(cmd.Context(), b.store, cat)
			if err != nil {
				return err
			}
			log.Debug("catalog seeded", "file", args[0], "questions", n)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d questions from %s\n", n, args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only validate the catalog")
	return cmd
}
