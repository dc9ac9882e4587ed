package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stockbin/internal/part"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and manage the bulk scan session",
	}

	sessionCmd.AddCommand(newSessionListCommand(ctx))
	sessionCmd.AddCommand(newSessionCommitCommand(ctx))
	sessionCmd.AddCommand(newSessionClearCommand(ctx))
	sessionCmd.AddCommand(newSessionAddRowCommand(ctx))
	sessionCmd.AddCommand(newSessionEditCommand(ctx))
	sessionCmd.AddCommand(newSessionRemoveCommand(ctx))

	return sessionCmd
}

func newSessionListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the session rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app) error {
				sess := a.newSession(cmd.Context())
				printSessionTable(cmd.OutOrStdout(), sess.Rows())
				return nil
			})
		},
	}
}

func newSessionCommitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "commit",
		Short: "Write all session rows to inventory in one batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app) error {
				sess := a.newSession(cmd.Context())
				created, merged, err := sess.Commit(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s: %d new part(s), %d merged into existing inventory\n",
					colorize(out, ansiGreen, "Committed"), created, merged)
				return nil
			})
		},
	}
}

func newSessionClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Abandon all session rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app) error {
				sess := a.newSession(cmd.Context())
				count := len(sess.Rows())
				if err := sess.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d row(s)\n", count)
				return nil
			})
		},
	}
}

func newSessionAddRowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add-row",
		Short: "Append an empty row for manual entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app) error {
				sess := a.newSession(cmd.Context())
				row, err := sess.AddBlankRow(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added row %s; fill it in with `stockbin session edit %s`\n",
					shortRowID(row.ID), shortRowID(row.ID))
				return nil
			})
		},
	}
}

func newSessionEditCommand(ctx *commandContext) *cobra.Command {
	var (
		partNumber  string
		quantity    int64
		description string
		location    string
		bin         string
		bin2        string
		origin      string
	)

	cmd := &cobra.Command{
		Use:   "edit <row>",
		Short: "Edit one session row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app) error {
				sess := a.newSession(cmd.Context())
				rowID, err := resolveRowID(sess.Rows(), args[0])
				if err != nil {
					return err
				}

				if err := sess.EditRow(cmd.Context(), rowID, func(r *part.ScannedItem) {
					if cmd.Flags().Changed("part-number") {
						r.PartNumber = partNumber
					}
					if cmd.Flags().Changed("quantity") {
						r.Quantity = quantity
					}
					if cmd.Flags().Changed("description") {
						r.Description = description
					}
					if cmd.Flags().Changed("location") {
						r.Location = location
					}
					if cmd.Flags().Changed("bin") {
						r.BinNumber = bin
					}
					if cmd.Flags().Changed("bin2") {
						r.BinNumber2 = bin2
					}
					if cmd.Flags().Changed("origin") {
						r.OriginCountry = part.NormalizeCountry(origin)
					}
				}); err != nil {
					return err
				}

				printSessionTable(cmd.OutOrStdout(), sess.Rows())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&partNumber, "part-number", "p", "", "Part number")
	cmd.Flags().Int64VarP(&quantity, "quantity", "q", 0, "Quantity")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().StringVarP(&location, "location", "l", "", "Storage location")
	cmd.Flags().StringVar(&bin, "bin", "", "Bin number")
	cmd.Flags().StringVar(&bin2, "bin2", "", "Secondary bin number")
	cmd.Flags().StringVar(&origin, "origin", "", "Country of origin")
	return cmd
}

func newSessionRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <row>",
		Short: "Delete one session row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app) error {
				sess := a.newSession(cmd.Context())
				rowID, err := resolveRowID(sess.Rows(), args[0])
				if err != nil {
					return err
				}
				if err := sess.RemoveRow(cmd.Context(), rowID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed row %s\n", shortRowID(rowID))
				return nil
			})
		},
	}
}
