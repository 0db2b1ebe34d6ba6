package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jinzhu/inflection"

	chatdb "github.com/josephhbu/ChatDB"
	"github.com/josephhbu/ChatDB/engine/models"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func checkOutput(format string) error {
	if format != outputText && format != outputJSON {
		return fmt.Errorf("unknown output format %q (want text or json)", format)
	}
	return nil
}

// counted renders "1 table", "3 tables".
func counted(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}

// containerNoun is what a container is called in the dialect.
func containerNoun(d models.Dialect) string {
	if d == models.DialectDocument {
		return "collection"
	}
	return "table"
}

func printQuery(w io.Writer, q *models.RenderedQuery, format string) error {
	if format == outputJSON {
		raw, err := chatdb.MarshalEnvelope(q)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}

	labelColor := color.New(color.FgCyan, color.Bold)
	labelColor.Fprint(w, "Query: ")
	fmt.Fprintln(w, q.String())
	if q.Description != "" {
		labelColor.Fprint(w, "Description: ")
		fmt.Fprintln(w, q.Description)
	}
	return nil
}

// printRows writes one JSON object per row. Text output adds a row count.
func printRows(w io.Writer, rows []map[string]any, format string) error {
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("encoding row: %w", err)
		}
	}
	if format == outputText {
		color.New(color.FgGreen).Fprintln(w, counted(len(rows), "row"))
	}
	return nil
}

func printResult(w io.Writer, res *chatdb.Result, format string) error {
	if format == outputText {
		if err := printQuery(w, res.Query, format); err != nil {
			return err
		}
	}
	return printRows(w, res.Rows, format)
}
