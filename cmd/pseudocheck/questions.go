package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mind-engage/pseudocheck/internal/question"
)

func newQuestionsCmd(o *globalOpts) *cobra.Command {
	var (
		difficulty string
		search     string
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the question catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := o.load()
			if err != nil {
				return err
			}
			b, err := o.open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			list, err := b.store.ListQuestions(cmd.Context(), question.ListOpts{
				Difficulties: question.ParseDifficulties(difficulty),
				Q:            search,
				Limit:        limit,
			})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDIFFICULTY\tTITLE")
			for _, q := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", q.ID, q.Difficulty, q.Title)
			}
			return tw.Flush()
		},
	}
	f := cmd.Flags()
	f.StringVar(&difficulty, "difficulty", "", "comma separated difficulty filter, e.g. easy,medium")
	f.StringVar(&search, "search", "", "only titles containing this text")
	f.IntVar(&limit, "limit", 0, "maximum number of questions (0 = all)")
	return cmd
}
