package commands

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/josephhbu/ChatDB/engine/models"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Exit codes returned by the chatdb binary.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitRejected = 2
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	dialect    string
	output     string
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "chatdb",
		Short: "Ask questions of SQL and MongoDB databases in plain English",
		Long: color.CyanString(`ChatDB - plain-English queries for MySQL, PostgreSQL and MongoDB

ChatDB matches a request such as "total sales_amount by product_category from orders"
against a fixed set of query patterns and renders the matching SQL statement or
aggregation pipeline. It can run the result, show the schema it works from, and
suggest example requests built from your own tables.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Config file (default ./chatdb.yaml)")
	pf.StringVarP(&flags.dialect, "dialect", "d", "", "Query dialect: tabular|document (default from config)")
	pf.StringVarP(&flags.output, "output", "o", "text", "Output format: text|json")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewBuildCommand(flags))
	rootCmd.AddCommand(NewAskCommand(flags))
	rootCmd.AddCommand(NewRawCommand(flags))
	rootCmd.AddCommand(NewExamplesCommand(flags))
	rootCmd.AddCommand(NewSchemaCommand(flags))

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			w := cmd.OutOrStdout()

			titleColor.Fprint(w, "ChatDB version: ")
			fmt.Fprintln(w, Version)
			titleColor.Fprint(w, "Git commit: ")
			fmt.Fprintln(w, GitCommit)
			titleColor.Fprint(w, "Build date: ")
			fmt.Fprintln(w, BuildDate)
			titleColor.Fprint(w, "Go version: ")
			fmt.Fprintln(w, runtime.Version())
		},
	}
}

// Execute runs the root command and maps the outcome to an exit code.
func Execute() int {
	rootCmd := NewRootCommand()
	err := rootCmd.Execute()
	if err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return ExitCode(err)
}

// ExitCode is ExitRejected for requests the engine refused and
// ExitFailure for anything else that went wrong.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if _, ok := models.AsRejected(err); ok {
		return ExitRejected
	}
	if errors.Is(err, models.ErrNotAllowed) {
		return ExitRejected
	}
	return ExitFailure
}
