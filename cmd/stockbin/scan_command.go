package main

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"stockbin/internal/barcode"
	"stockbin/internal/scanner"
	"stockbin/internal/session"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "scan [payload ...]",
		Short: "Feed barcode payloads into the bulk scan session",
		Long: `Decode barcode payloads and fold them into the persistent bulk scan
session. Both structured 2D envelopes and plain linear barcodes are accepted.
Repeat scans of the same identifier accumulate quantity on the existing row.
With --stdin, payloads are read line by line, which suits keyboard-wedge
scanners typed into a terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !fromStdin && len(args) == 0 {
				return errors.New("provide payloads as arguments or use --stdin")
			}

			return ctx.withApp(cmd.Context(), func(a *app) error {
				out := cmd.OutOrStdout()
				sess := a.newSession(cmd.Context())

				monitor := scanner.NewMonitor(a.cfg, a.logger, func(device string, attached bool) {
					if attached {
						fmt.Fprintf(cmd.ErrOrStderr(), "scanner attached: %s\n", device)
					} else {
						fmt.Fprintf(cmd.ErrOrStderr(), "scanner detached: %s\n", device)
					}
				})
				if err := monitor.Start(cmd.Context()); err != nil {
					return err
				}
				defer monitor.Stop()

				for _, raw := range args {
					if err := ingestPayload(cmd, sess, raw); err != nil {
						return err
					}
				}

				if fromStdin {
					lines := bufio.NewScanner(cmd.InOrStdin())
					for lines.Scan() {
						if err := ingestPayload(cmd, sess, lines.Text()); err != nil {
							return err
						}
					}
					if err := lines.Err(); err != nil {
						return fmt.Errorf("read payloads: %w", err)
					}
				}

				sess.Wait()
				printSessionTable(out, sess.Rows())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read payloads from standard input, one per line")
	return cmd
}

// ingestPayload decodes one raw payload and folds it into the session. Empty
// scans are ignored entirely, matching scanner misfires.
func ingestPayload(cmd *cobra.Command, sess *session.Session, raw string) error {
	payload, err := barcode.Decode(raw)
	if errors.Is(err, barcode.ErrEmptyScan) {
		return nil
	}
	if err != nil {
		return err
	}

	row, merged, err := sess.Ingest(cmd.Context(), payload)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if merged {
		fmt.Fprintf(out, "%s: quantity %d (+%d)\n", row.PartNumber, row.Quantity, row.ScannedQuantity)
	} else {
		fmt.Fprintf(out, "%s: new row, quantity %d\n", row.PartNumber, row.Quantity)
	}
	return nil
}
