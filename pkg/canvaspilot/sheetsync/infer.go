// Package sheetsync converts spreadsheet rows into canvas items and
// reconciles canvas snapshots back into spreadsheet rows. Conversion is a
// pure transformation; all spreadsheet access goes through sheets.Client.
package sheetsync

import (
	"strings"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/canvas"
)

// dateKeywords mark a header row as schedule-like. Any of these appearing
// anywhere in the joined header text selects the project variant.
var dateKeywords = []string{"date", "due", "deadline", "start", "end", "created"}

// InferType decides which item variant a row represents. The rules form an
// ordered decision list: the first match wins, so ties resolve by rule
// position rather than by scoring.
//
//  1. date-related keyword in any header  -> project
//  2. at least two purely numeric cells   -> chart
//  3. any cell longer than 100 characters -> note
//  4. otherwise                           -> entity
//
// Empty rows are filtered out before this is called.
func InferType(row, headers []string) canvas.ItemType {
	joined := strings.ToLower(strings.Join(headers, " "))
	for _, kw := range dateKeywords {
		if strings.Contains(joined, kw) {
			return canvas.ItemProject
		}
	}

	numeric := 0
	for _, cell := range row {
		if isNumericString(cell) {
			numeric++
		}
	}
	if numeric >= 2 {
		return canvas.ItemChart
	}

	for _, cell := range row {
		if len(cell) > 100 {
			return canvas.ItemNote
		}
	}

	return canvas.ItemEntity
}

// isNumericString reports whether a cell is purely numeric: after dropping
// "." and "-", at least one character remains and all are digits.
func isNumericString(cell string) bool {
	stripped := strings.NewReplacer(".", "", "-", "").Replace(cell)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isPercentage reports whether a cell is a percentage: a trailing "%" with
// a numeric prefix. Negative percentages deliberately don't qualify.
func isPercentage(cell string) bool {
	if !strings.HasSuffix(cell, "%") {
		return false
	}
	prefix := strings.ReplaceAll(strings.TrimSuffix(cell, "%"), ".", "")
	if prefix == "" {
		return false
	}
	for _, r := range prefix {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
