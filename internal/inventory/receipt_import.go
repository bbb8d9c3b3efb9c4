package inventory

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"distribution-backend/internal/apperror"
	"distribution-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// SkippedRow explains why a spreadsheet row was not imported.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ParseReceiptSheet reads the first sheet of an XLSX goods receipt. Each
// row holds component (id or name), quantity and supplier lot number. A
// header row is detected and skipped.
func ParseReceiptSheet(r io.Reader, components []*models.Component) ([]ReceivedItem, []SkippedRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, apperror.Validation("could not read spreadsheet: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, apperror.Validation("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, apperror.Validation("could not read sheet %q: %v", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, apperror.Validation("spreadsheet is empty")
	}

	byName := make(map[string]int, len(components))
	byID := make(map[int]bool, len(components))
	for _, c := range components {
		byName[normalizeName(c.Name)] = c.ID
		byID[c.ID] = true
	}

	start := 0
	if isHeader(rows[0]) {
		start = 1
	}

	var items []ReceivedItem
	var skipped []SkippedRow
	for i := start; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1
		if len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		if len(row) < 3 {
			skipped = append(skipped, SkippedRow{Row: rowNum, Reason: "expected component, quantity and lot columns"})
			continue
		}

		ref := strings.TrimSpace(row[0])
		componentID, ok := 0, false
		if id, err := strconv.Atoi(ref); err == nil && byID[id] {
			componentID, ok = id, true
		} else if id, found := byName[normalizeName(ref)]; found {
			componentID, ok = id, true
		}
		if !ok {
			skipped = append(skipped, SkippedRow{Row: rowNum, Reason: fmt.Sprintf("unknown component %q", ref)})
			continue
		}

		qty, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(row[1]), ",", "."))
		if err != nil || !qty.IsPositive() {
			skipped = append(skipped, SkippedRow{Row: rowNum, Reason: fmt.Sprintf("invalid quantity %q", row[1])})
			continue
		}

		lot := strings.TrimSpace(row[2])
		if lot == "" {
			skipped = append(skipped, SkippedRow{Row: rowNum, Reason: "missing supplier lot number"})
			continue
		}

		items = append(items, ReceivedItem{ComponentID: componentID, Quantity: qty, SupplierLotNumber: lot})
	}
	return items, skipped, nil
}

func isHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToUpper(strings.TrimSpace(row[0]))
	return strings.Contains(first, "COMPONENT") || strings.Contains(first, "MATERIAL") || first == "ID"
}

// normalizeName lowercases and collapses whitespace so "Glass Jar  (500g)"
// matches "glass jar (500g)".
func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
