package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"stockbin/internal/lookup"
	"stockbin/internal/part"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var digikeyHint string
	var mouserHint string
	var arrowHint string

	cmd := &cobra.Command{
		Use:   "resolve <identifier>",
		Short: "Look up part metadata from the configured suppliers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := part.NormalizeIdentifier(args[0])
			if id.IsEmpty() {
				return errors.New("identifier is empty")
			}

			return ctx.withApp(cmd.Context(), func(a *app) error {
				out := cmd.OutOrStdout()

				if !a.registry.Enabled() {
					return errors.New("no suppliers enabled; enable at least one in the config file")
				}

				result := a.coordinator.ResolveNow(cmd.Context(), lookup.Request{
					Identifier: id,
					Hints: part.Hints{
						DigiKeyPartNumber: digikeyHint,
						MouserPartNumber:  mouserHint,
						ArrowPartNumber:   arrowHint,
					},
					Attachments: a.attachments.ListFor(id),
				})

				for _, notice := range result.Notices {
					fmt.Fprintln(cmd.ErrOrStderr(), colorize(cmd.ErrOrStderr(), ansiYellow, notice))
				}

				switch result.Kind {
				case lookup.KindAuthRequired:
					fmt.Fprintf(out, "Supplier requires re-authentication: %s\n", result.RedirectURL)
					return nil
				case lookup.KindNoMatch:
					fmt.Fprintf(out, "No match for %s\n", id)
					return nil
				case lookup.KindProviderError:
					return errors.New("all suppliers failed; see notices above")
				case lookup.KindCancelled:
					return nil
				}

				printMergedMetadata(out, result)

				if a.cfg.Lookup.ExistenceCheck {
					exists, err := a.store.ExactMatch(cmd.Context(), id)
					if err == nil {
						fmt.Fprintf(out, "In inventory: %s\n", yesNo(exists))
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&digikeyHint, "digikey", "", "DigiKey part number hint")
	cmd.Flags().StringVar(&mouserHint, "mouser", "", "Mouser part number hint")
	cmd.Flags().StringVar(&arrowHint, "arrow", "", "Arrow part number hint")
	return cmd
}

func printMergedMetadata(out io.Writer, result lookup.Result) {
	if result.HasSuggestion {
		suggested := result.Suggested
		fmt.Fprintf(out, "Suggested: %s", suggested.ManufacturerPartNumber)
		if suggested.Manufacturer != "" {
			fmt.Fprintf(out, " (%s)", suggested.Manufacturer)
		}
		if suggested.HasPositiveCost() {
			fmt.Fprintf(out, " at %s %s via %s", suggested.Cost, suggested.Currency, suggested.Supplier)
		}
		fmt.Fprintln(out)
		if suggested.Description != "" {
			fmt.Fprintln(out, suggested.Description)
		}
	}

	metadata := result.Metadata
	if len(metadata.Records) > 0 {
		fmt.Fprintln(out, renderTable(
			[]string{"Supplier", "Supplier Part #", "Mfg Part #", "Cost", "Stock", "Package", "Description"},
			buildRecordRows(metadata.Records),
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
		))
	}

	printAttachmentGroup(out, "Datasheets", metadata.Datasheets)
	printAttachmentGroup(out, "Pinouts", metadata.Pinouts)
	printAttachmentGroup(out, "Reference designs", metadata.ReferenceDesigns)
	if len(metadata.ProductImages) > 0 {
		fmt.Fprintf(out, "Product images: %d\n", len(metadata.ProductImages))
	}
}

func printAttachmentGroup(out io.Writer, label string, attachments []part.Attachment) {
	if len(attachments) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n", label)
	for _, attachment := range attachments {
		origin := "remote"
		if attachment.Local {
			origin = "local"
		}
		name := attachment.Name
		if name == "" {
			name = attachment.URL
		}
		fmt.Fprintf(out, "  [%s] %s  %s\n", origin, name, attachment.URL)
	}
}
