package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"stockbin/internal/part"
)

func newAttachCommand(ctx *commandContext) *cobra.Command {
	attachCmd := &cobra.Command{
		Use:   "attach",
		Short: "Manage local attachments merged into lookup results",
	}

	attachCmd.AddCommand(newAttachAddCommand(ctx))
	attachCmd.AddCommand(newAttachListCommand(ctx))
	attachCmd.AddCommand(newAttachRemoveCommand(ctx))

	return attachCmd
}

func newAttachAddCommand(ctx *commandContext) *cobra.Command {
	var name string
	var category string
	var previewURL string

	cmd := &cobra.Command{
		Use:   "add <identifier> <url>",
		Short: "Store an attachment reference for an identifier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := part.NormalizeIdentifier(args[0])
			if id.IsEmpty() {
				return errors.New("identifier is empty")
			}
			parsedCategory, err := parseCategory(category)
			if err != nil {
				return err
			}

			return ctx.withApp(cmd.Context(), func(a *app) error {
				stored, err := a.attachments.Add(id, part.Attachment{
					Category:   parsedCategory,
					Name:       name,
					URL:        args[1],
					PreviewURL: previewURL,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored %s attachment %d for %s\n",
					stored.Category, stored.ID, id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	cmd.Flags().StringVar(&category, "category", string(part.CategoryDatasheet), "Attachment category")
	cmd.Flags().StringVar(&previewURL, "preview", "", "Preview image URL")
	return cmd
}

func newAttachListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <identifier>",
		Short: "List the attachments stored for an identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := part.NormalizeIdentifier(args[0])
			if id.IsEmpty() {
				return errors.New("identifier is empty")
			}
			return ctx.withApp(cmd.Context(), func(a *app) error {
				stored := a.attachments.ListFor(id)
				if len(stored) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No attachments for %s\n", id)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Category", "Name", "URL"},
					buildAttachmentRows(stored),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newAttachRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <identifier> <attachment-id>",
		Short: "Delete one stored attachment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := part.NormalizeIdentifier(args[0])
			if id.IsEmpty() {
				return errors.New("identifier is empty")
			}
			attachmentID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("parse attachment ID %q: %w", args[1], err)
			}
			return ctx.withApp(cmd.Context(), func(a *app) error {
				if err := a.attachments.Remove(id, attachmentID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed attachment %d from %s\n", attachmentID, id)
				return nil
			})
		},
	}
}

func parseCategory(raw string) (part.AttachmentCategory, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	for _, category := range part.AllAttachmentCategories() {
		if trimmed == string(category) {
			return category, nil
		}
	}
	names := make([]string, 0, len(part.AllAttachmentCategories()))
	for _, category := range part.AllAttachmentCategories() {
		names = append(names, string(category))
	}
	return "", fmt.Errorf("unknown category %q (valid: %s)", raw, strings.Join(names, ", "))
}
