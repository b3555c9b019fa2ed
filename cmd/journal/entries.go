package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"trade-journal/internal/domain"
)

type outputOptions struct {
	JSON bool
}

func addOutputArg(cmd *cobra.Command, o *outputOptions) {
	cmd.Flags().BoolVar(&o.JSON, "json", false, "Output as JSON.")
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func addEntries(topLevel *cobra.Command, a *app) {
	oo := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "entries [date]",
		Short: "List the entries of a day (default today).",
		Example: `
journal entries
journal entries 2024-03-01 --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := a.startSession(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 1 {
				date, err := domain.ParseDate(args[0])
				if err != nil {
					return err
				}
				if err := sess.SetDate(cmd.Context(), date); err != nil {
					return err
				}
			}

			snap := sess.Snapshot()
			if oo.JSON {
				return writeJSON(cmd.OutOrStdout(), snap.Entries)
			}
			printEntries(cmd.OutOrStdout(), snap.SelectedDate, snap.Entries)
			return nil
		},
	}
	addOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func printEntries(w io.Writer, date domain.Date, entries []*domain.Entry) {
	title := color.New(color.Bold, color.Underline)
	faint := color.New(color.Faint)

	_, _ = title.Fprint(w, date.String())
	switch len(entries) {
	case 1:
		_, _ = faint.Fprintln(w, " - 1 entry")
	default:
		_, _ = faint.Fprintf(w, " - %d entries\n", len(entries))
	}
	if len(entries) == 0 {
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("ID", "SYMBOL", "SAVED", "ITEMS")
	for _, e := range entries {
		items := 0
		for _, f := range domain.ListFields {
			items += len(e.List(f))
		}
		saved := ""
		if e.Saved {
			saved = "yes"
		}
		tbl.AddRow(e.ID, e.Symbol, saved, items)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func addShow(topLevel *cobra.Command, a *app) {
	oo := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show every list of one entry.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := a.startSession(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := sess.Focus(cmd.Context(), args[0]); err != nil {
				return err
			}
			e := sess.Snapshot().FocusedEntry
			if oo.JSON {
				return writeJSON(cmd.OutOrStdout(), e)
			}
			printEntry(cmd.OutOrStdout(), e)
			return nil
		},
	}
	addOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func printEntry(w io.Writer, e *domain.Entry) {
	title := color.New(color.Bold, color.Underline)
	faint := color.New(color.Faint, color.Italic)

	_, _ = title.Fprintf(w, "%s %s", e.Symbol, e.CreatedAt)
	if e.Saved {
		_, _ = faint.Fprint(w, " (saved)")
	}
	_, _ = fmt.Fprintln(w)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 60
	for _, f := range domain.ListFields {
		items := e.List(f)
		value := strings.Join(items, "; ")
		if len(items) == 0 {
			value = "-"
		}
		tbl.AddRow(f.Label(), value)
	}
	_, _ = fmt.Fprintln(w, tbl)
}
