package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewExamplesCommand creates the examples command
func NewExamplesCommand(flags *globalFlags) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "examples [construct]",
		Short: "Suggest example requests built from your schema",
		Long: `Suggest requests the engine understands, filled in with real table and
column names (and real values where a condition is needed).

An optional construct such as "group by", "order by" or "$group" restricts
the suggestions to queries that use it.`,
		Example: `  chatdb examples
  chatdb examples "group by" -n 5
  chatdb examples -d document '$match'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(flags.output); err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := openSession(ctx, flags, true)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			n := count
			if n <= 0 {
				n = s.cfg.Examples.Count
			}
			examples, err := s.engine.Examples(ctx, s.dialect, n, strings.Join(args, " "))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(examples) == 0 && flags.output == outputText {
				color.New(color.FgYellow).Fprintln(w, "No examples could be built from this schema.")
				return nil
			}
			for i, ex := range examples {
				if flags.output == outputJSON {
					if err := printQuery(w, ex.Query, outputJSON); err != nil {
						return err
					}
					continue
				}
				color.New(color.FgCyan, color.Bold).Fprintf(w, "%d. ", i+1)
				fmt.Fprintln(w, ex.Description)
				fmt.Fprintf(w, "   %s\n", ex.Query.String())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of examples (default from config)")

	return cmd
}
