package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/josephhbu/ChatDB/engine/validator"
)

// NewBuildCommand creates the build command
func NewBuildCommand(flags *globalFlags) *cobra.Command {
	var withSchema, validate bool

	cmd := &cobra.Command{
		Use:   "build <request>",
		Short: "Translate a request into a query without running it",
		Long: `Translate a plain-English request into a SQL statement or an aggregation pipeline.

Joins, top-n requests and date ranges without an explicit column need the live
schema; pass --schema to read it from the configured database. --validate parses
the result with the backend's grammar and reports what to change when it fails.`,
		Example: `  chatdb build "total sales_amount by product_category from orders"
  chatdb build -d document "count victims by gender"
  chatdb build --schema "get me 3 states with highest count of incidents" -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(flags.output); err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := openSession(ctx, flags, withSchema)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			q, err := s.engine.Build(ctx, strings.Join(args, " "), s.dialect)
			if err != nil {
				return err
			}
			if err := printQuery(cmd.OutOrStdout(), q, flags.output); err != nil {
				return err
			}
			if !validate {
				return nil
			}

			res := validator.New(s.cfg.Flavor()).ValidateWithDetails(q)
			w := cmd.ErrOrStderr()
			if res.Valid {
				color.New(color.FgGreen).Fprintln(w, "Valid")
				return nil
			}
			if res.Suggestion != "" {
				color.New(color.FgYellow).Fprint(w, "Suggestion: ")
				fmt.Fprintln(w, res.Suggestion)
			}
			return fmt.Errorf("invalid %s query: %s", q.Dialect, res.Error)
		},
	}

	cmd.Flags().BoolVar(&withSchema, "schema", false, "Read the live schema from the configured database")
	cmd.Flags().BoolVar(&validate, "validate", false, "Parse the query with the backend's grammar and report problems")

	return cmd
}

// NewAskCommand creates the ask command
func NewAskCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <request>",
		Short: "Translate a request and run it",
		Example: `  chatdb ask "average age by gender from victims"
  chatdb ask -d document "find name, age from victims where age is at least 25 order by age desc"`,
		Args: cobra.MinimumNArgs(1),
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

			res, err := s.engine.Ask(ctx, strings.Join(args, " "), s.dialect)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res, flags.output)
		},
	}
}

// NewRawCommand creates the raw command
func NewRawCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "raw <query>",
		Short: "Run a hand-written read-only query",
		Long: `Run a query written in the backend's own language.

Tabular queries must be a single SELECT or SHOW statement. Document queries use
db.<collection>.find(...), db.<collection>.countDocuments(...) or
db.<collection>.aggregate([...]) with extended JSON arguments; nothing is evaluated.`,
		Example: `  chatdb raw "SELECT gender, COUNT(*) FROM victim GROUP BY gender"
  chatdb raw -d document 'db.victim.find({"age": {"$gt": 30}})'`,
		Args: cobra.MinimumNArgs(1),
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

			res, err := s.engine.Raw(ctx, strings.Join(args, " "), s.dialect)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res, flags.output)
		},
	}
}
