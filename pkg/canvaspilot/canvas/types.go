// Package canvas defines the shared data model for the visual canvas:
// items, their variant-typed payloads, and the canvas state snapshot that
// round-trips between the client, the agent, and the spreadsheet sync layer.
package canvas

import (
	"encoding/json"
	"fmt"
)

// ItemType identifies the variant of a canvas item. The type is fixed at
// creation and determines the shape of the item's Data payload.
type ItemType string

const (
	ItemProject ItemType = "project"
	ItemEntity  ItemType = "entity"
	ItemNote    ItemType = "note"
	ItemChart   ItemType = "chart"
)

// Valid reports whether t is one of the four known variants.
func (t ItemType) Valid() bool {
	switch t {
	case ItemProject, ItemEntity, ItemNote, ItemChart:
		return true
	}
	return false
}

// SelectOptions are the fixed choices for the field2 select on project and
// entity cards. The empty string means "no selection".
var SelectOptions = []string{"Option A", "Option B", "Option C"}

// ChecklistItem is a single entry in a project's checklist (field4).
type ChecklistItem struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Done     bool   `json:"done"`
	Proposed bool   `json:"proposed"`
}

// Metric is a single labeled value on a chart card. Value is either a
// number in [0,100] or unset (rendered as "" by the client).
type Metric struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

// metricWire matches the client encoding, where an unset value is the
// empty string rather than null.
type metricWire struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value any    `json:"value"`
}

// MarshalJSON encodes an unset Value as "".
func (m Metric) MarshalJSON() ([]byte, error) {
	w := metricWire{ID: m.ID, Label: m.Label, Value: ""}
	if m.Value != nil {
		w.Value = *m.Value
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts a numeric value, a numeric string, or "".
func (m *Metric) UnmarshalJSON(data []byte) error {
	var w metricWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.ID = w.ID
	m.Label = w.Label
	m.Value = nil
	switch v := w.Value.(type) {
	case float64:
		m.Value = &v
	case string:
		if v != "" {
			var f float64
			if _, err := fmt.Sscanf(v, "%f", &f); err == nil {
				m.Value = &f
			}
		}
	}
	return nil
}

// MetricValue is a convenience constructor for a set metric value.
func MetricValue(v float64) *float64 { return &v }

// ItemData is the variant payload of a canvas item. Exactly one concrete
// type corresponds to each ItemType; no fields leak across variants.
type ItemData interface {
	isItemData()
}

// ProjectData is the payload for project cards.
type ProjectData struct {
	Field1   string          `json:"field1"`            // text
	Field2   string          `json:"field2"`            // select, one of SelectOptions or ""
	Field3   string          `json:"field3"`            // date "YYYY-MM-DD" or ""
	Field4   []ChecklistItem `json:"field4"`            // checklist
	Field4ID int             `json:"field4_id"`         // checklist id counter
}

// EntityData is the payload for entity cards.
type EntityData struct {
	Field1        string   `json:"field1"`
	Field2        string   `json:"field2"`
	Field3        []string `json:"field3"`         // selected tags, subset of Field3Options
	Field3Options []string `json:"field3_options"` // available tags
}

// NoteData is the payload for note cards.
type NoteData struct {
	Field1 string `json:"field1"`
}

// ChartData is the payload for chart cards.
type ChartData struct {
	Field1   []Metric `json:"field1"`
	Field1ID int      `json:"field1_id"` // metric id counter
}

func (ProjectData) isItemData() {}
func (EntityData) isItemData()  {}
func (NoteData) isItemData()    {}
func (ChartData) isItemData()   {}

// DefaultData returns the empty, structurally valid payload for a variant.
func DefaultData(t ItemType) ItemData {
	switch t {
	case ItemProject:
		return ProjectData{Field4: []ChecklistItem{}}
	case ItemEntity:
		return EntityData{
			Field3:        []string{},
			Field3Options: []string{"Tag 1", "Tag 2", "Tag 3"},
		}
	case ItemChart:
		return ChartData{Field1: []Metric{}}
	default:
		return NoteData{}
	}
}

// Item is a single card on the canvas.
type Item struct {
	ID       string   `json:"id"`
	Type     ItemType `json:"type"`
	Name     string   `json:"name"`
	Subtitle string   `json:"subtitle"`
	Data     ItemData `json:"data"`
}

// itemWire defers data decoding until the type is known.
type itemWire struct {
	ID       string          `json:"id"`
	Type     ItemType        `json:"type"`
	Name     string          `json:"name"`
	Subtitle string          `json:"subtitle"`
	Data     json.RawMessage `json:"data"`
}

// UnmarshalJSON decodes the variant payload according to the item type.
// Unknown types fail; a missing payload degrades to the variant default.
func (it *Item) UnmarshalJSON(data []byte) error {
	var w itemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if !w.Type.Valid() {
		return fmt.Errorf("unknown item type %q", w.Type)
	}
	d, err := ParseData(w.Type, w.Data)
	if err != nil {
		return err
	}
	it.ID = w.ID
	it.Type = w.Type
	it.Name = w.Name
	it.Subtitle = w.Subtitle
	it.Data = d
	return nil
}

// ParseData decodes a variant payload for a known item type. An empty or
// null payload degrades to the variant default; nil slice fields are
// normalized to empty slices.
func ParseData(t ItemType, raw json.RawMessage) (ItemData, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown item type %q", t)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return DefaultData(t), nil
	}

	switch t {
	case ItemProject:
		var d ProjectData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decoding project data: %w", err)
		}
		if d.Field4 == nil {
			d.Field4 = []ChecklistItem{}
		}
		return d, nil
	case ItemEntity:
		var d EntityData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decoding entity data: %w", err)
		}
		if d.Field3 == nil {
			d.Field3 = []string{}
		}
		if d.Field3Options == nil {
			d.Field3Options = []string{}
		}
		return d, nil
	case ItemNote:
		var d NoteData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decoding note data: %w", err)
		}
		return d, nil
	default:
		var d ChartData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decoding chart data: %w", err)
		}
		if d.Field1 == nil {
			d.Field1 = []Metric{}
		}
		return d, nil
	}
}

// State is a full canvas snapshot. It is owned by the client session; the
// server only produces or consumes these, never holds one durably.
type State struct {
	Items             []Item `json:"items"`
	GlobalTitle       string `json:"globalTitle"`
	GlobalDescription string `json:"globalDescription"`
	SyncSheetID       string `json:"syncSheetId"`
	SyncSheetName     string `json:"syncSheetName"`
	LastAction        string `json:"lastAction"`
	ItemsCreated      int    `json:"itemsCreated"`
}
