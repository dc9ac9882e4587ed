package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/shopspring/decimal"

	"stockbin/internal/part"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func colorEnabled(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func colorize(w io.Writer, color, value string) string {
	if !colorEnabled(w) {
		return value
	}
	return color + value + ansiReset
}

func formatCost(cost decimal.Decimal) string {
	if !cost.IsPositive() {
		return "-"
	}
	return cost.String()
}

func formatBins(bin, bin2 string) string {
	switch {
	case bin == "" && bin2 == "":
		return ""
	case bin2 == "":
		return bin
	case bin == "":
		return bin2
	default:
		return bin + " / " + bin2
	}
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	if max <= 1 {
		return value[:max]
	}
	return value[:max-1] + "…"
}

func buildPartRows(parts []part.Part) [][]string {
	rows := make([][]string, 0, len(parts))
	for _, p := range parts {
		quantity := strconv.FormatInt(p.Quantity, 10)
		if p.LowStockThreshold > 0 && p.Quantity <= p.LowStockThreshold {
			quantity += " (low)"
		}
		rows = append(rows, []string{
			strconv.FormatInt(p.PartID, 10),
			p.PartNumber,
			quantity,
			p.Location,
			formatBins(p.BinNumber, p.BinNumber2),
			formatCost(p.Cost),
			truncate(p.Description, 48),
		})
	}
	return rows
}

var partTableHeaders = []string{"ID", "Part Number", "Qty", "Location", "Bin", "Cost", "Description"}

var partTableAligns = []columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft}

func printPartTable(w io.Writer, parts []part.Part) {
	fmt.Fprintln(w, renderTable(partTableHeaders, buildPartRows(parts), partTableAligns))
}

func buildRecordRows(records []part.SupplierPartRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Supplier,
			r.SupplierPartNumber,
			r.ManufacturerPartNumber,
			formatCost(r.Cost),
			strconv.FormatInt(r.QuantityAvailable, 10),
			r.PackageType,
			truncate(r.Description, 40),
		})
	}
	return rows
}

func buildSessionRows(rows []part.ScannedItem) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			shortRowID(row.ID),
			row.PartNumber,
			strconv.FormatInt(row.Quantity, 10),
			strconv.FormatInt(row.ScannedQuantity, 10),
			row.Location,
			formatBins(row.BinNumber, row.BinNumber2),
			row.OriginCountry,
			truncate(row.Description, 40),
		})
	}
	return out
}

var sessionTableHeaders = []string{"Row", "Part Number", "Qty", "Last", "Location", "Bin", "Origin", "Description"}

var sessionTableAligns = []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignLeft, alignLeft}

func printSessionTable(w io.Writer, rows []part.ScannedItem) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "Session is empty")
		return
	}
	fmt.Fprintln(w, renderTable(sessionTableHeaders, buildSessionRows(rows), sessionTableAligns))
}

// shortRowID abbreviates a session row UUID for display. Commands accept the
// abbreviation back as a unique prefix.
func shortRowID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveRowID matches a row token against the session rows, accepting the
// full ID or any unambiguous prefix.
func resolveRowID(rows []part.ScannedItem, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("row ID is empty")
	}
	var matched []string
	for _, row := range rows {
		if row.ID == token {
			return row.ID, nil
		}
		if strings.HasPrefix(row.ID, token) {
			matched = append(matched, row.ID)
		}
	}
	switch len(matched) {
	case 0:
		return "", fmt.Errorf("no session row matches %q", token)
	case 1:
		return matched[0], nil
	default:
		return "", fmt.Errorf("row prefix %q is ambiguous (%d matches)", token, len(matched))
	}
}

func buildSupplierRows(suppliers []part.PartSupplier) [][]string {
	rows := make([][]string, 0, len(suppliers))
	for _, s := range suppliers {
		rows = append(rows, []string{
			strconv.FormatInt(s.PartSupplierID, 10),
			s.Name,
			s.SupplierPartNumber,
			formatCost(s.Cost),
			strconv.FormatInt(s.QuantityAvailable, 10),
			strconv.FormatInt(s.MinimumOrderQuantity, 10),
			s.ProductURL,
		})
	}
	return rows
}

func buildAttachmentRows(attachments []part.Attachment) [][]string {
	rows := make([][]string, 0, len(attachments))
	for _, a := range attachments {
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10),
			string(a.Category),
			a.Name,
			a.URL,
		})
	}
	return rows
}
