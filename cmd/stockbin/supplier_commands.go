package main

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"stockbin/internal/part"
)

func newSupplierCommand(ctx *commandContext) *cobra.Command {
	supplierCmd := &cobra.Command{
		Use:   "supplier",
		Short: "Manage user-maintained supplier rows on a part",
	}

	supplierCmd.AddCommand(newSupplierAddCommand(ctx))
	supplierCmd.AddCommand(newSupplierListCommand(ctx))
	supplierCmd.AddCommand(newSupplierRemoveCommand(ctx))

	return supplierCmd
}

func newSupplierAddCommand(ctx *commandContext) *cobra.Command {
	var (
		supplierPartNumber string
		cost               string
		productURL         string
		imageURL           string
		available          int64
		minimumOrder       int64
	)

	cmd := &cobra.Command{
		Use:   "add <part-number-or-id> <supplier-name>",
		Short: "Attach a supplier row to an inventory part",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app) error {
				record, err := findPart(cmd, a, args[0])
				if err != nil {
					return err
				}

				supplier := part.PartSupplier{
					PartID:               record.PartID,
					Name:                 args[1],
					SupplierPartNumber:   supplierPartNumber,
					QuantityAvailable:    available,
					MinimumOrderQuantity: minimumOrder,
					ProductURL:           productURL,
					ImageURL:             imageURL,
				}
				if cost != "" {
					parsed, err := decimal.NewFromString(cost)
					if err != nil {
						return fmt.Errorf("parse cost %q: %w", cost, err)
					}
					supplier.Cost = parsed
				}

				created, err := a.store.CreatePartSupplier(cmd.Context(), supplier)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added supplier %s to %s (supplier ID %d)\n",
					created.Name, record.PartNumber, created.PartSupplierID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&supplierPartNumber, "part-number", "p", "", "Supplier's part number")
	cmd.Flags().StringVar(&cost, "cost", "", "Unit cost")
	cmd.Flags().StringVar(&productURL, "url", "", "Product page URL")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "Product image URL")
	cmd.Flags().Int64Var(&available, "available", 0, "Quantity available at the supplier")
	cmd.Flags().Int64Var(&minimumOrder, "moq", 0, "Minimum order quantity")
	return cmd
}

func newSupplierListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <part-number-or-id>",
		Short: "List the supplier rows on a part",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app) error {
				record, err := findPart(cmd, a, args[0])
				if err != nil {
					return err
				}
				suppliers, err := a.store.PartSuppliers(cmd.Context(), record.PartID)
				if err != nil {
					return err
				}
				if len(suppliers) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No supplier rows on %s\n", record.PartNumber)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Part Number", "Cost", "Stock", "MOQ", "URL"},
					buildSupplierRows(suppliers),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newSupplierRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <supplier-id>",
		Short: "Delete one supplier row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parse supplier ID %q: %w", args[0], err)
			}
			return ctx.withApp(cmd.Context(), func(a *app) error {
				removed, err := a.store.RemovePartSupplier(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					return part.Wrap(part.ErrNotFound, "cli", "remove supplier", fmt.Sprintf("supplier %d not found", id), nil)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed supplier %d\n", id)
				return nil
			})
		},
	}
}
