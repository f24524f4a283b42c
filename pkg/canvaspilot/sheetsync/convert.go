// Package sheetsync – convert.go turns a fetched sheet snapshot into an
// ordered list of canvas items plus canvas-level metadata.
package sheetsync

import (
	"fmt"
	"strings"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/canvas"
	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/sheets"
)

// Convert builds a canvas state from a sheet snapshot. requestedSheetID,
// when non-empty, becomes the canvas's sync binding; otherwise the
// snapshot's own spreadsheet id is used. Conversion never fails: a sheet
// with no usable rows yields an empty, structurally valid canvas.
func Convert(snap *sheets.Snapshot, requestedSheetID string) *canvas.State {
	syncID := requestedSheetID
	if syncID == "" && snap != nil {
		syncID = snap.SpreadsheetID
	}

	if snap == nil {
		return &canvas.State{
			Items:             []canvas.Item{},
			GlobalTitle:       "Empty Sheet",
			GlobalDescription: "No data found in sheet",
			SyncSheetID:       syncID,
		}
	}

	valid := make([][]string, 0, len(snap.Rows))
	for _, row := range snap.Rows {
		if !rowIsBlank(row) {
			valid = append(valid, row)
		}
	}

	if len(valid) == 0 {
		title := snap.Title
		if title == "" {
			title = "Empty Sheet"
		}
		return &canvas.State{
			Items:             []canvas.Item{},
			GlobalTitle:       title,
			GlobalDescription: "No data found in sheet",
			SyncSheetID:       syncID,
			SyncSheetName:     snap.SheetName,
		}
	}

	headers, dataRows := splitHeaders(valid)
	restorable := isSyncLayout(headers)

	items := make([]canvas.Item, 0, len(dataRows))
	for idx, row := range dataRows {
		if rowIsBlank(row) {
			continue
		}

		// Right-pad to the header width; cells beyond it are kept, so
		// wide rows feed their full content to inference and mapping.
		width := len(headers)
		if len(row) > width {
			width = len(row)
		}
		padded := make([]string, width)
		for i, cell := range row {
			padded[i] = strings.TrimSpace(cell)
		}

		// Rows written by a previous sync carry their identity verbatim;
		// restoring them beats re-running the heuristics.
		if restorable {
			if item, ok := restoreSyncedItem(idx, padded); ok {
				items = append(items, item)
				continue
			}
		}

		itemType := InferType(padded, headers)

		name := ""
		for _, cell := range padded {
			if cell != "" {
				name = cell
				break
			}
		}
		if name == "" {
			name = fmt.Sprintf("Item %d", idx+1)
		}

		subtitle := ""
		if len(padded) > 1 {
			subtitle = padded[1]
		}

		items = append(items, canvas.Item{
			ID:       fmt.Sprintf("%04d", idx+1),
			Type:     itemType,
			Name:     name,
			Subtitle: subtitle,
			Data:     BuildData(itemType, padded, headers),
		})
	}

	title := snap.Title
	if title == "" {
		title = "Imported Sheet"
	}

	return &canvas.State{
		Items:             items,
		GlobalTitle:       title,
		GlobalDescription: fmt.Sprintf("Imported from Google Sheets • %d items", len(items)),
		SyncSheetID:       syncID,
		SyncSheetName:     snap.SheetName,
	}
}

// splitHeaders decides whether the first surviving row is a header row: it
// must have more than one cell, and none of its first three non-empty
// cells may be numeric. Otherwise generic "Column N" headers are
// synthesized, sized to the widest row.
func splitHeaders(valid [][]string) (headers []string, dataRows [][]string) {
	first := valid[0]
	hasHeaders := len(first) > 1
	if hasHeaders {
		limit := 3
		if len(first) < limit {
			limit = len(first)
		}
		for _, cell := range first[:limit] {
			if cell != "" && isNumericString(strings.TrimSpace(cell)) {
				hasHeaders = false
				break
			}
		}
	}

	if hasHeaders {
		headers = make([]string, len(first))
		for i, cell := range first {
			headers[i] = strings.TrimSpace(cell)
		}
		return headers, valid[1:]
	}

	maxCols := 0
	for _, row := range valid {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	headers = make([]string, maxCols)
	for i := range headers {
		headers[i] = fmt.Sprintf("Column %d", i+1)
	}
	return headers, valid
}

// isSyncLayout reports whether the header row is the fixed column layout
// the reconciler persists canvases under.
func isSyncLayout(headers []string) bool {
	if len(headers) != len(sheetHeader) {
		return false
	}
	for i, want := range sheetHeader {
		if !strings.EqualFold(strings.TrimSpace(headers[i]), want) {
			return false
		}
	}
	return true
}

// restoreSyncedItem rebuilds an item from a previously reconciled row.
// Rows whose type cell is not a known variant fall back to heuristic
// conversion; a malformed data cell degrades to the variant default.
func restoreSyncedItem(idx int, row []string) (canvas.Item, bool) {
	if len(row) < 3 {
		return canvas.Item{}, false
	}
	itemType := canvas.ItemType(strings.ToLower(row[1]))
	if !itemType.Valid() {
		return canvas.Item{}, false
	}

	item := canvas.Item{
		ID:   row[0],
		Type: itemType,
		Name: row[2],
	}
	if item.ID == "" {
		item.ID = fmt.Sprintf("%04d", idx+1)
	}
	if item.Name == "" {
		item.Name = fmt.Sprintf("Item %d", idx+1)
	}
	if len(row) > 3 {
		item.Subtitle = row[3]
	}

	item.Data = canvas.DefaultData(itemType)
	if len(row) > 4 && row[4] != "" {
		if d, err := canvas.ParseData(itemType, []byte(row[4])); err == nil {
			item.Data = d
		}
	}
	return item, true
}

// rowIsBlank reports whether a row has no cell with non-whitespace content.
func rowIsBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
