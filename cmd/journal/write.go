package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"trade-journal/internal/domain"
)

func addAdd(topLevel *cobra.Command, a *app) {
	var symbol string
	items := make(map[domain.ListField]*[]string, len(domain.ListFields))

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Journal a new trade dated today.",
		Example: `
journal add --symbol EURUSD --confluences "liquidity sweep" --confluences fvg --moods calm
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := a.startSession(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			c := sess.Composer()
			c.SetSymbol(domain.Symbol(strings.ToUpper(symbol)))
			for _, f := range domain.ListFields {
				for _, text := range *items[f] {
					if err := c.AddItem(f, text); err != nil {
						return err
					}
				}
			}

			e, err := c.Submit(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), e.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "Traded symbol, e.g. EURUSD")
	for _, f := range domain.ListFields {
		items[f] = cmd.Flags().StringArray(flagName(f), nil, f.Label()+" item (repeatable)")
	}
	topLevel.AddCommand(cmd)
}

func flagName(f domain.ListField) string {
	return strings.ReplaceAll(string(f), "_", "-")
}

func addAppend(topLevel *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "append <id> <field> <text>...",
		Short: "Append one item to a list of an unsaved entry.",
		Example: `
journal append 0b6f... confluences breakout
journal append 0b6f... entry-models "turtle soup"
`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := domain.ParseListField(strings.ReplaceAll(args[1], "-", "_"))
			if err != nil {
				return err
			}

			sess, cleanup, err := a.startSession(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := sess.Focus(cmd.Context(), args[0]); err != nil {
				return err
			}
			ed := sess.Editor()
			if err := ed.BeginEdit(field); err != nil {
				return err
			}
			if err := ed.Commit(cmd.Context(), strings.Join(args[2:], " ")); err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), sess.Snapshot().FocusedEntry)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addSave(topLevel *cobra.Command, a *app) {
	var yes bool

	cmd := &cobra.Command{
		Use:   "save <id>",
		Short: "Lock an entry. A saved entry can no longer be edited or deleted.",
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
			ed := sess.Editor()
			if err := ed.RequestMarkSaved(); err != nil {
				return err
			}
			if !yes && !confirm(cmd, fmt.Sprintf("Save entry %s? This cannot be undone.", args[0])) {
				ed.Dismiss()
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
			if err := ed.Confirm(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "saved", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation.")
	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command, a *app) {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an unsaved entry.",
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
			ed := sess.Editor()
			if err := ed.RequestDelete(); err != nil {
				return err
			}
			if !yes && !confirm(cmd, fmt.Sprintf("Delete entry %s? This cannot be undone.", args[0])) {
				ed.Dismiss()
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
			if err := ed.Confirm(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation.")
	topLevel.AddCommand(cmd)
}

// confirm asks question on the command's output and reads y/yes from its input.
func confirm(cmd *cobra.Command, question string) bool {
	return ask(cmd.InOrStdin(), cmd.OutOrStdout(), question)
}

func ask(in io.Reader, out io.Writer, question string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
