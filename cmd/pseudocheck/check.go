package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mind-engage/pseudocheck/internal/catalog"
	"github.com/mind-engage/pseudocheck/internal/grading"
	"github.com/mind-engage/pseudocheck/internal/question"
)

func newCheckCmd(o *globalOpts) *cobra.Command {
	var (
		questionID  int64
		catalogPath string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "check --question <id> [file|-]",
		Short: "Grade a pseudocode file against a stored question",
		Long: "check grades the file (or stdin when the argument is - or missing) against the\n" +
			"reference answers of one question. With --catalog the question is read from a\n" +
			"YAML catalog instead of the database.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if questionID <= 0 {
				return fmt.Errorf("--question must be a positive id")
			}
			code, err := readSubmission(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			cfg, log, err := o.load()
			if err != nil {
				return err
			}
			var store question.Store
			if catalogPath != "" {
				cat, err := catalog.Load(catalogPath)
				if err != nil {
					return err
				}
				store = question.NewInMemoryStore()
				if _, err := catalog.Seed(cmd.Context(), store, cat); err != nil {
					return err
				}
			} else {
				b, err := o.open(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				defer b.Close()
				store = b.store
			}

			svc := question.NewService(store, nil, question.WithLogger(log))
			v, err := svc.Grade(cmd.Context(), questionID, code)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(v)
			}
			printVerdict(cmd.OutOrStdout(), v)
			return nil
		},
	}
	f := cmd.Flags()
	f.Int64VarP(&questionID, "question", "q", 0, "question id")
	f.StringVar(&catalogPath, "catalog", "", "grade against a YAML catalog instead of the database")
	f.BoolVar(&asJSON, "json", false, "print the verdict as JSON")
	_ = cmd.MarkFlagRequired("question")
	return cmd
}

func readSubmission(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read submission: %w", err)
	}
	return string(b), nil
}

func printVerdict(w io.Writer, v grading.Verdict) {
	fmt.Fprintf(w, "status: %s\n", v.Status)
	for _, d := range v.Discrepancies {
		if d.LineNumber > 0 {
			fmt.Fprintf(w, "  line %d: %s\n", d.LineNumber, d.Reason)
		} else {
			fmt.Fprintf(w, "  %s\n", d.Reason)
		}
		if len(d.Expected) > 0 {
			fmt.Fprintf(w, "    expected: %s\n", strings.Join(d.Expected, " | "))
		}
		if d.Received != "" {
			fmt.Fprintf(w, "    received: %s\n", d.Received)
		}
	}
}
