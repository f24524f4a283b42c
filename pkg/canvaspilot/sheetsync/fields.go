// Package sheetsync – fields.go maps a typed row onto the variant payload:
// dates for projects, tags for entities, prose for notes, metrics for
// charts. BuildData never fails; extraction that finds nothing degrades to
// the variant's empty defaults.
package sheetsync

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/canvas"
)

const (
	// maxTags caps how many tags a single row may contribute.
	maxTags = 5
	// maxTagLen drops tags longer than a reasonable label.
	maxTagLen = 20
)

// entityStarterOptions seed the available-tags set on imported entities.
var entityStarterOptions = []string{"Import", "Data", "Sheet", "Tag 1", "Tag 2"}

// datePattern matches YYYY-MM-DD, MM-DD-YYYY and DD-MM-YYYY style dates
// with either "-" or "/" separators.
var datePattern = regexp.MustCompile(`\b\d{4}[-/]\d{1,2}[-/]\d{1,2}\b|\b\d{1,2}[-/]\d{1,2}[-/]\d{4}\b`)

// dateLayouts are tried in order when normalizing a matched date string.
// Month-first wins over day-first on ambiguous input.
var dateLayouts = []string{"2006-1-2", "1-2-2006", "2-1-2006"}

// BuildData produces the payload for an already-inferred item type. The
// result is always structurally valid for that type.
func BuildData(t canvas.ItemType, row, headers []string) canvas.ItemData {
	switch t {
	case canvas.ItemProject:
		return buildProjectData(row)
	case canvas.ItemEntity:
		return buildEntityData(row)
	case canvas.ItemNote:
		return buildNoteData(row, headers)
	case canvas.ItemChart:
		return buildChartData(row, headers)
	default:
		return canvas.NoteData{}
	}
}

func buildProjectData(row []string) canvas.ProjectData {
	d := canvas.ProjectData{Field4: []canvas.ChecklistItem{}}
	if len(row) > 2 {
		d.Field1 = row[2]
	}
	d.Field3 = findDateInRow(row)
	return d
}

func buildEntityData(row []string) canvas.EntityData {
	tags := extractTagsFromRow(row)
	options := append([]string(nil), entityStarterOptions...)
	for _, tag := range tags {
		known := false
		for _, opt := range options {
			if opt == tag {
				known = true
				break
			}
		}
		if !known {
			options = append(options, tag)
		}
	}

	d := canvas.EntityData{Field3: tags, Field3Options: options}
	if len(row) > 2 {
		d.Field1 = row[2]
	}
	return d
}

// buildNoteData concatenates every cell after the first as "header: value"
// lines. With no such content the second cell stands in verbatim.
func buildNoteData(row, headers []string) canvas.NoteData {
	var parts []string
	for i := 0; i < len(headers) && i < len(row); i++ {
		if i == 0 || row[i] == "" {
			continue
		}
		if headers[i] != "" {
			parts = append(parts, headers[i]+": "+row[i])
		} else {
			parts = append(parts, row[i])
		}
	}
	if len(parts) > 0 {
		return canvas.NoteData{Field1: strings.Join(parts, "\n")}
	}
	if len(row) > 1 {
		return canvas.NoteData{Field1: row[1]}
	}
	return canvas.NoteData{}
}

// buildChartData emits one metric per numeric or percentage column, with
// sequential 3-digit ids and values clamped to [0,100]. A percentage keeps
// its face value: "45%" becomes 45, not 0.45.
func buildChartData(row, headers []string) canvas.ChartData {
	metrics := []canvas.Metric{}
	metricID := 1
	for i := 0; i < len(headers) && i < len(row); i++ {
		cell := row[i]
		if cell == "" || (!isNumericString(cell) && !isPercentage(cell)) {
			continue
		}
		value, ok := parseNumericValue(cell)
		if !ok {
			continue
		}
		label := headers[i]
		if label == "" {
			label = fmt.Sprintf("Metric %d", i+1)
		}
		metrics = append(metrics, canvas.Metric{
			ID:    fmt.Sprintf("%03d", metricID),
			Label: label,
			Value: canvas.MetricValue(clamp(value, 0, 100)),
		})
		metricID++
	}
	return canvas.ChartData{Field1: metrics, Field1ID: metricID - 1}
}

// findDateInRow scans cells in order and returns the first date match
// normalized to YYYY-MM-DD, or "".
func findDateInRow(row []string) string {
	for _, cell := range row {
		if cell == "" {
			continue
		}
		match := datePattern.FindString(cell)
		if match == "" {
			continue
		}
		match = strings.ReplaceAll(match, "/", "-")
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, match); err == nil {
				return ts.Format("2006-01-02")
			}
		}
	}
	return ""
}

// extractTagsFromRow pulls tags from cells at index >= 2 (the name and
// subtitle cells never contribute). The first delimiter found among
// comma, semicolon, pipe and newline splits the cell; otherwise the whole
// cell is one tag. The final set keeps at most maxTags entries.
func extractTagsFromRow(row []string) []string {
	tags := []string{}
	for i := 2; i < len(row); i++ {
		cell := row[i]
		if cell == "" {
			continue
		}
		parts := []string{cell}
		for _, delim := range []string{",", ";", "|", "\n"} {
			if strings.Contains(cell, delim) {
				parts = strings.Split(cell, delim)
				break
			}
		}
		for _, p := range parts {
			cleaned := strings.TrimSpace(p)
			if cleaned != "" && len(cleaned) <= maxTagLen {
				tags = append(tags, cleaned)
			}
		}
	}
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

// parseNumericValue parses a plain number or a percentage face value.
func parseNumericValue(cell string) (float64, bool) {
	if isPercentage(cell) {
		v, err := strconv.ParseFloat(strings.TrimSuffix(cell, "%"), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	if isNumericString(cell) {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
