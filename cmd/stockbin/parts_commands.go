package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"stockbin/internal/part"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search inventory by part number, keywords, or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app) error {
				parts, err := a.store.Search(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}
				if len(parts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No matching parts")
					return nil
				}
				printPartTable(cmd.OutOrStdout(), parts)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "Maximum number of results")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <part-number-or-id>",
		Short: "Show one inventory part in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app) error {
				record, err := findPart(cmd, a, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				printPartDetail(out, record)

				suppliers, err := a.store.PartSuppliers(cmd.Context(), record.PartID)
				if err != nil {
					return err
				}
				if len(suppliers) > 0 {
					fmt.Fprintln(out, "Suppliers:")
					fmt.Fprintln(out, renderTable(
						[]string{"ID", "Name", "Part Number", "Cost", "Stock", "MOQ", "URL"},
						buildSupplierRows(suppliers),
						[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
					))
				}

				id := part.NormalizeIdentifier(record.PartNumber)
				if stored := a.attachments.ListFor(id); len(stored) > 0 {
					fmt.Fprintln(out, "Attachments:")
					fmt.Fprintln(out, renderTable(
						[]string{"ID", "Category", "Name", "URL"},
						buildAttachmentRows(stored),
						[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
					))
				}
				return nil
			})
		},
	}
}

func newRecentCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recently added parts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app) error {
				parts, err := a.store.RecentlyAdded(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(parts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Inventory is empty")
					return nil
				}
				printPartTable(cmd.OutOrStdout(), parts)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <part-number-or-id>",
		Short: "Remove a part from inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app) error {
				record, err := findPart(cmd, a, args[0])
				if err != nil {
					return err
				}
				removed, err := a.store.Remove(cmd.Context(), record.PartID)
				if err != nil {
					return err
				}
				if !removed {
					return part.Wrap(part.ErrNotFound, "cli", "remove", fmt.Sprintf("part %d not found", record.PartID), nil)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (ID %d)\n", record.PartNumber, record.PartID)
				return nil
			})
		},
	}
}

// findPart resolves a CLI token to a stored part: a numeric token is tried as
// a part ID first, anything else as an exact part number.
func findPart(cmd *cobra.Command, a *app, token string) (*part.Part, error) {
	if id, err := strconv.ParseInt(token, 10, 64); err == nil {
		record, err := a.store.GetByID(cmd.Context(), id)
		if err != nil {
			return nil, err
		}
		if record != nil {
			return record, nil
		}
	}

	identifier := part.NormalizeIdentifier(token)
	if identifier.IsEmpty() {
		return nil, errors.New("part identifier is empty")
	}
	record, err := a.store.GetByPartNumber(cmd.Context(), identifier)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, part.Wrap(part.ErrNotFound, "cli", "find part", fmt.Sprintf("no part matches %q", token), nil)
	}
	return record, nil
}

func printPartDetail(out io.Writer, record *part.Part) {
	write := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(out, "%-24s %s\n", label+":", value)
	}

	write("ID", strconv.FormatInt(record.PartID, 10))
	write("Part number", record.PartNumber)
	write("Quantity", strconv.FormatInt(record.Quantity, 10))
	if record.LowStockThreshold > 0 {
		write("Low stock threshold", strconv.FormatInt(record.LowStockThreshold, 10))
	}
	write("Description", record.Description)
	write("Keywords", record.Keywords)
	write("Manufacturer", record.Manufacturer)
	write("Mfg part number", record.ManufacturerPartNumber)
	write("Package", record.PackageType)
	write("Location", record.Location)
	write("Bin", formatBins(record.BinNumber, record.BinNumber2))
	if record.Cost.IsPositive() {
		write("Cost", record.Cost.String())
		write("Lowest cost supplier", record.LowestCostSupplier)
	}
	write("DigiKey part number", record.DigiKeyPartNumber)
	write("Mouser part number", record.MouserPartNumber)
	write("Arrow part number", record.ArrowPartNumber)
	write("Datasheet", record.DatasheetURL)
	write("Product URL", record.ProductURL)
	if !record.CreatedAt.IsZero() {
		write("Added", record.CreatedAt.Local().Format(time.RFC3339))
	}
}
