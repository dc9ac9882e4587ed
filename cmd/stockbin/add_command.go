package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stockbin/internal/lookup"
	"stockbin/internal/merge"
	"stockbin/internal/part"
	"stockbin/internal/store"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		quantity       string
		lowStock       string
		location       string
		bin            string
		bin2           string
		description    string
		keywords       string
		manufacturer   string
		fetchMetadata  bool
		allowDuplicate bool
	)

	cmd := &cobra.Command{
		Use:   "add <part-number>",
		Short: "Add a part to inventory",
		Long: `Add a part to inventory. The draft is seeded from the stored view
preferences; flags override individual fields. With --lookup the enabled
suppliers are queried first and the draft is populated from the merged
metadata before the flag overrides apply.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			partNumber := strings.TrimSpace(args[0])
			if partNumber == "" {
				return errors.New("part number is empty")
			}

			return ctx.withApp(cmd.Context(), func(a *app) error {
				out := cmd.OutOrStdout()
				form := a.newForm()

				var metadata *lookup.Result
				if fetchMetadata {
					if !a.registry.Enabled() {
						return errors.New("--lookup requires at least one enabled supplier")
					}
					id := part.NormalizeIdentifier(partNumber)
					result := a.coordinator.ResolveNow(cmd.Context(), lookup.Request{
						Identifier:  id,
						Attachments: a.attachments.ListFor(id),
					})
					switch result.Kind {
					case lookup.KindMerged:
						metadata = &result
					case lookup.KindAuthRequired:
						return fmt.Errorf("supplier requires re-authentication: %s", result.RedirectURL)
					case lookup.KindNoMatch:
						fmt.Fprintf(out, "No supplier metadata for %s; adding as entered\n", partNumber)
					case lookup.KindProviderError:
						for _, notice := range result.Notices {
							fmt.Fprintln(cmd.ErrOrStderr(), notice)
						}
						fmt.Fprintln(out, "Supplier lookup failed; adding as entered")
					}
				}

				if err := form.Edit(func(d *part.Draft) {
					d.PartNumber = partNumber
					if metadata != nil && metadata.HasSuggestion {
						merge.Apply(d, metadata.Metadata, metadata.Suggested, nil)
					}
					if cmd.Flags().Changed("quantity") {
						d.Quantity = quantity
					}
					if cmd.Flags().Changed("low-stock") {
						d.LowStockThreshold = lowStock
					}
					if cmd.Flags().Changed("location") {
						d.Location = location
					}
					if cmd.Flags().Changed("bin") {
						d.BinNumber = bin
					}
					if cmd.Flags().Changed("bin2") {
						d.BinNumber2 = bin2
					}
					if description != "" {
						d.Description = description
					}
					if keywords != "" {
						d.Keywords = keywords
					}
					if manufacturer != "" {
						d.Manufacturer = manufacturer
					}
				}); err != nil {
					return err
				}

				committed, err := form.Submit(cmd.Context())

				var dup *store.DuplicateError
				if errors.As(err, &dup) {
					fmt.Fprintln(out, colorize(out, ansiYellow, "Possible duplicate detected:"))
					printPartTable(out, dup.Candidates)
					if !allowDuplicate {
						return errors.New("duplicate detected; re-run with --allow-duplicate to add anyway")
					}
					committed, err = form.ForceSubmit(cmd.Context())
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "%s part %s (ID %d, quantity %d)\n",
					colorize(out, ansiGreen, "Added"),
					committed.PartNumber, committed.PartID, committed.Quantity)

				if recent := form.Recent(); len(recent) > 0 {
					fmt.Fprintln(out, "Recently added:")
					printPartTable(out, recent)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&quantity, "quantity", "q", "", "Initial quantity")
	cmd.Flags().StringVar(&lowStock, "low-stock", "", "Low stock threshold")
	cmd.Flags().StringVarP(&location, "location", "l", "", "Storage location")
	cmd.Flags().StringVar(&bin, "bin", "", "Bin number")
	cmd.Flags().StringVar(&bin2, "bin2", "", "Secondary bin number")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Part description")
	cmd.Flags().StringVar(&keywords, "keywords", "", "Search keywords")
	cmd.Flags().StringVar(&manufacturer, "manufacturer", "", "Manufacturer name")
	cmd.Flags().BoolVar(&fetchMetadata, "lookup", false, "Fetch supplier metadata before adding")
	cmd.Flags().BoolVar(&allowDuplicate, "allow-duplicate", false, "Add even when a duplicate is detected")
	return cmd
}
