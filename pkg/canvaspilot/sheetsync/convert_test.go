package sheetsync

import (
	"testing"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/canvas"
	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/sheets"
)

func snapshot(rows [][]string) *sheets.Snapshot {
	return &sheets.Snapshot{
		SpreadsheetID: "sheet-1",
		Title:         "Team Tracker",
		SheetName:     "Sheet1",
		Rows:          rows,
	}
}

func TestConvertEmptySheet(t *testing.T) {
	t.Run("zero rows", func(t *testing.T) {
		snap := snapshot(nil)
		snap.Title = ""
		st := Convert(snap, "sheet-1")

		if len(st.Items) != 0 {
			t.Errorf("got %d items, want 0", len(st.Items))
		}
		if st.GlobalTitle != "Empty Sheet" {
			t.Errorf("globalTitle = %q, want Empty Sheet", st.GlobalTitle)
		}
		if st.GlobalDescription != "No data found in sheet" {
			t.Errorf("globalDescription = %q", st.GlobalDescription)
		}
	})

	t.Run("only whitespace rows", func(t *testing.T) {
		st := Convert(snapshot([][]string{{"  ", ""}, {""}}), "")
		if len(st.Items) != 0 {
			t.Errorf("got %d items, want 0", len(st.Items))
		}
		if st.GlobalTitle != "Team Tracker" {
			t.Errorf("globalTitle = %q, want snapshot title", st.GlobalTitle)
		}
	})

	t.Run("nil snapshot", func(t *testing.T) {
		st := Convert(nil, "abc")
		if len(st.Items) != 0 || st.SyncSheetID != "abc" {
			t.Errorf("unexpected state: %+v", st)
		}
	})
}

func TestConvertHeaderDetection(t *testing.T) {
	t.Run("textual first row becomes headers", func(t *testing.T) {
		st := Convert(snapshot([][]string{
			{"Name", "Status", "Due Date"},
			{"Launch v2", "On track", "2024-03-01"},
		}), "")

		if len(st.Items) != 1 {
			t.Fatalf("got %d items, want 1", len(st.Items))
		}
		item := st.Items[0]
		if item.Type != canvas.ItemProject {
			t.Errorf("type = %q, want project (Due Date header)", item.Type)
		}
		if item.Name != "Launch v2" {
			t.Errorf("name = %q", item.Name)
		}
	})

	t.Run("numeric first row gets generic headers", func(t *testing.T) {
		st := Convert(snapshot([][]string{
			{"10", "20", "30"},
			{"40", "50", "60"},
		}), "")

		// Both rows are data; numeric cells make them charts.
		if len(st.Items) != 2 {
			t.Fatalf("got %d items, want 2", len(st.Items))
		}
		if st.Items[0].Type != canvas.ItemChart {
			t.Errorf("type = %q, want chart", st.Items[0].Type)
		}
		d := st.Items[0].Data.(canvas.ChartData)
		if len(d.Field1) == 0 || d.Field1[0].Label != "Column 1" {
			t.Errorf("expected generic Column headers, got %+v", d.Field1)
		}
	})

	t.Run("single-cell first row is data not header", func(t *testing.T) {
		st := Convert(snapshot([][]string{
			{"lonely"},
			{"second"},
		}), "")
		if len(st.Items) != 2 {
			t.Errorf("got %d items, want 2 (first row kept as data)", len(st.Items))
		}
	})
}

func TestConvertItems(t *testing.T) {
	st := Convert(snapshot([][]string{
		{"Name", "Status", "Tags"},
		{"Acme", "Vendor", "hardware,network"},
		{"", "", "   "},
		{"Beta LLC", "Client"},
	}), "requested-id")

	if len(st.Items) != 2 {
		t.Fatalf("got %d items, want 2 (blank row dropped)", len(st.Items))
	}

	t.Run("ids are 4-digit row positions", func(t *testing.T) {
		if st.Items[0].ID != "0001" {
			t.Errorf("first id = %q, want 0001", st.Items[0].ID)
		}
	})

	t.Run("subtitle is the second cell", func(t *testing.T) {
		if st.Items[0].Subtitle != "Vendor" {
			t.Errorf("subtitle = %q, want Vendor", st.Items[0].Subtitle)
		}
	})

	t.Run("short rows padded to header width", func(t *testing.T) {
		d := st.Items[1].Data.(canvas.EntityData)
		if len(d.Field3) != 0 {
			t.Errorf("padded cells contributed tags: %v", d.Field3)
		}
	})

	t.Run("canvas metadata", func(t *testing.T) {
		if st.GlobalTitle != "Team Tracker" {
			t.Errorf("globalTitle = %q", st.GlobalTitle)
		}
		if st.GlobalDescription != "Imported from Google Sheets • 2 items" {
			t.Errorf("globalDescription = %q", st.GlobalDescription)
		}
		if st.SyncSheetID != "requested-id" {
			t.Errorf("syncSheetId = %q, want caller-supplied id", st.SyncSheetID)
		}
		if st.SyncSheetName != "Sheet1" {
			t.Errorf("syncSheetName = %q", st.SyncSheetName)
		}
	})
}

func TestConvertRowsWiderThanHeaders(t *testing.T) {
	st := Convert(snapshot([][]string{
		{"Name", "Status"},
		{"Widget", "OK", "10", "20", "30"},
		{"Acme", "Vendor", "hardware,network"},
	}), "")
	if len(st.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(st.Items))
	}

	t.Run("numeric cells beyond header width drive inference", func(t *testing.T) {
		if st.Items[0].Type != canvas.ItemChart {
			t.Errorf("type = %q, want chart (3 numeric cells past the headers)", st.Items[0].Type)
		}
	})

	t.Run("tag cells beyond header width survive", func(t *testing.T) {
		if st.Items[1].Type != canvas.ItemEntity {
			t.Fatalf("type = %q, want entity", st.Items[1].Type)
		}
		d := st.Items[1].Data.(canvas.EntityData)
		if len(d.Field3) != 2 || d.Field3[0] != "hardware" || d.Field3[1] != "network" {
			t.Errorf("tags = %v, want [hardware network]", d.Field3)
		}
	})
}

func TestConvertRestoresSyncedRows(t *testing.T) {
	st := Convert(snapshot([][]string{
		{"id", "type", "name", "subtitle", "data"},
		{"0001", "chart", "Quarterly", "Revenue",
			`{"field1":[{"id":"001","label":"Q1","value":45}],"field1_id":1}`},
		{"0002", "widget", "Mystery", "", ""},
		{"0003", "note", "Scratch", "", "{not json"},
	}), "")
	if len(st.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(st.Items))
	}

	t.Run("identity cells win over heuristics", func(t *testing.T) {
		item := st.Items[0]
		if item.ID != "0001" || item.Type != canvas.ItemChart || item.Name != "Quarterly" {
			t.Errorf("restored item = %+v", item)
		}
		if item.Subtitle != "Revenue" {
			t.Errorf("subtitle = %q, want Revenue", item.Subtitle)
		}
		d := item.Data.(canvas.ChartData)
		if len(d.Field1) != 1 || d.Field1[0].Label != "Q1" || d.Field1[0].Value == nil || *d.Field1[0].Value != 45 {
			t.Errorf("metrics = %+v", d.Field1)
		}
	})

	t.Run("unknown type cell falls back to heuristics", func(t *testing.T) {
		item := st.Items[1]
		if item.Type != canvas.ItemEntity {
			t.Errorf("type = %q, want entity fallback", item.Type)
		}
		if item.Name != "0002" {
			t.Errorf("name = %q, want first non-empty cell", item.Name)
		}
	})

	t.Run("malformed data cell degrades to defaults", func(t *testing.T) {
		item := st.Items[2]
		if item.Type != canvas.ItemNote || item.Name != "Scratch" {
			t.Fatalf("item = %+v", item)
		}
		if d := item.Data.(canvas.NoteData); d.Field1 != "" {
			t.Errorf("note content = %q, want empty default", d.Field1)
		}
	})
}

func TestConvertNameFallback(t *testing.T) {
	st := Convert(snapshot([][]string{
		{"Name", "Status", "Extra"},
		{"", "filled", "x"},
	}), "")
	if len(st.Items) != 1 {
		t.Fatalf("got %d items", len(st.Items))
	}
	if st.Items[0].Name != "filled" {
		t.Errorf("name = %q, want first non-empty cell", st.Items[0].Name)
	}
}
