package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stockbin/internal/intake"
)

func newPrefsCommand(ctx *commandContext) *cobra.Command {
	prefsCmd := &cobra.Command{
		Use:   "prefs",
		Short: "View and change the intake view preferences",
	}

	prefsCmd.AddCommand(newPrefsShowCommand(ctx))
	prefsCmd.AddCommand(newPrefsSetCommand(ctx))

	return prefsCmd
}

func newPrefsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app) error {
				current := a.prefs.Current()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%-24s %d\n", "Default quantity:", current.Quantity)
				fmt.Fprintf(out, "%-24s %d\n", "Low stock threshold:", current.LowStockThreshold)
				fmt.Fprintf(out, "%-24s %d\n", "Part type ID:", current.PartTypeID)
				fmt.Fprintf(out, "%-24s %d\n", "Mounting type ID:", current.MountingTypeID)
				fmt.Fprintf(out, "%-24s %s\n", "Location:", current.Location)
				fmt.Fprintf(out, "%-24s %s\n", "Bin:", formatBins(current.BinNumber, current.BinNumber2))
				fmt.Fprintf(out, "%-24s %s\n", "Remember last:", yesNo(current.RememberLast))
				return nil
			})
		},
	}
}

func newPrefsSetCommand(ctx *commandContext) *cobra.Command {
	var (
		quantity     int64
		lowStock     int64
		partType     int
		mountingType int
		location     string
		bin          string
		bin2         string
		rememberLast bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change preference values",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().NFlag() == 0 {
				return cmd.Help()
			}
			return ctx.withApp(cmd.Context(), func(a *app) error {
				if err := a.prefs.Update(cmd.Context(), func(p *intake.ViewPreferences) {
					if cmd.Flags().Changed("quantity") {
						p.Quantity = quantity
					}
					if cmd.Flags().Changed("low-stock") {
						p.LowStockThreshold = lowStock
					}
					if cmd.Flags().Changed("part-type") {
						p.PartTypeID = partType
					}
					if cmd.Flags().Changed("mounting-type") {
						p.MountingTypeID = mountingType
					}
					if cmd.Flags().Changed("location") {
						p.Location = location
					}
					if cmd.Flags().Changed("bin") {
						p.BinNumber = bin
					}
					if cmd.Flags().Changed("bin2") {
						p.BinNumber2 = bin2
					}
					if cmd.Flags().Changed("remember-last") {
						p.RememberLast = rememberLast
					}
				}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Preferences updated")
				return nil
			})
		},
	}

	cmd.Flags().Int64VarP(&quantity, "quantity", "q", 0, "Default quantity for new drafts")
	cmd.Flags().Int64Var(&lowStock, "low-stock", 0, "Default low stock threshold")
	cmd.Flags().IntVar(&partType, "part-type", 0, "Default part type ID")
	cmd.Flags().IntVar(&mountingType, "mounting-type", 0, "Default mounting type ID")
	cmd.Flags().StringVarP(&location, "location", "l", "", "Default storage location")
	cmd.Flags().StringVar(&bin, "bin", "", "Default bin number")
	cmd.Flags().StringVar(&bin2, "bin2", "", "Default secondary bin number")
	cmd.Flags().BoolVar(&rememberLast, "remember-last", false, "Carry placement from the last committed part")
	return cmd
}
