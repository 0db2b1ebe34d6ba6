package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command
func NewSchemaCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [container]",
		Short: "List tables or collections, or describe one",
		Example: `  chatdb schema
  chatdb schema victim
  chatdb schema -d document incident -o json`,
		Args: cobra.MaximumNArgs(1),
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

			client, err := s.client()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			noun := containerNoun(s.dialect)

			if len(args) == 0 {
				names, err := client.ListContainers(ctx)
				if err != nil {
					return err
				}
				if flags.output == outputJSON {
					return json.NewEncoder(w).Encode(names)
				}
				color.New(color.FgCyan, color.Bold).Fprintln(w, counted(len(names), noun))
				for _, name := range names {
					fmt.Fprintf(w, "  %s\n", name)
				}
				return nil
			}

			fields, err := client.Describe(ctx, args[0])
			if err != nil {
				return err
			}
			if len(fields) == 0 {
				return fmt.Errorf("%s %q has no fields or does not exist", noun, args[0])
			}
			if flags.output == outputJSON {
				return json.NewEncoder(w).Encode(fields)
			}

			color.New(color.FgCyan, color.Bold).Fprintf(w, "%s (%s)\n", args[0], counted(len(fields), "field"))
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			for _, f := range fields {
				fmt.Fprintf(tw, "  %s\t%s\t%s\n", f.Name, f.Type, f.NativeType)
			}
			return tw.Flush()
		},
	}
}
