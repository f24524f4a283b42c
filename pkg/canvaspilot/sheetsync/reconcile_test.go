package sheetsync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/canvas"
	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/sheets"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func canvasWithItems(n int) *canvas.State {
	st := &canvas.State{Items: []canvas.Item{}}
	for i := 0; i < n; i++ {
		st.Items = append(st.Items, canvas.Item{
			ID:       fmt.Sprintf("%04d", i+1),
			Type:     canvas.ItemNote,
			Name:     fmt.Sprintf("Note %d", i+1),
			Subtitle: "imported",
			Data:     canvas.NoteData{Field1: "body"},
		})
	}
	return st
}

func dataRows(n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("row %d", i+1), "x", "y"}
	}
	return rows
}

func TestReconcileDeletionMath(t *testing.T) {
	fake := sheets.NewFake()
	id := fake.AddSpreadsheet("Doc", "Sheet1", dataRows(10))
	svc := NewService(fake, testLogger())

	res := svc.Reconcile(context.Background(), id, canvasWithItems(3), "")

	if !res.Success {
		t.Fatalf("reconcile failed: %s", res.Error)
	}
	if res.ItemsSynced != 3 {
		t.Errorf("items_synced = %d, want 3", res.ItemsSynced)
	}
	if res.RowsDeleted != 6 {
		t.Errorf("rows_deleted = %d, want 6", res.RowsDeleted)
	}
	if len(fake.DeletedRanges) != 1 || fake.DeletedRanges[0] != [2]int{4, 10} {
		t.Errorf("deleted ranges = %v, want [[4 10]]", fake.DeletedRanges)
	}

	rows := fake.Rows(id, "Sheet1")
	if len(rows) != 4 {
		t.Fatalf("sheet has %d rows, want 4 (header + 3 items)", len(rows))
	}
	if rows[0][0] != "id" || rows[0][4] != "data" {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[1][0] != "0001" || rows[1][1] != "note" || rows[1][2] != "Note 1" {
		t.Errorf("first item row = %v", rows[1])
	}
}

func TestReconcileEmptyCanvas(t *testing.T) {
	fake := sheets.NewFake()
	id := fake.AddSpreadsheet("Doc", "Sheet1", dataRows(5))
	svc := NewService(fake, testLogger())

	res := svc.Reconcile(context.Background(), id, &canvas.State{}, "")

	if !res.Success {
		t.Fatalf("reconcile failed: %s", res.Error)
	}
	if res.ItemsSynced != 0 {
		t.Errorf("items_synced = %d, want 0", res.ItemsSynced)
	}
	if res.RowsDeleted != 4 {
		t.Errorf("rows_deleted = %d, want 4", res.RowsDeleted)
	}
	if len(fake.DeletedRanges) != 1 || fake.DeletedRanges[0] != [2]int{1, 5} {
		t.Errorf("deleted ranges = %v, want [[1 5]]", fake.DeletedRanges)
	}

	rows := fake.Rows(id, "Sheet1")
	if len(rows) != 1 {
		t.Errorf("sheet has %d rows, want header only", len(rows))
	}
}

func TestReconcileGrowingCanvas(t *testing.T) {
	fake := sheets.NewFake()
	id := fake.AddSpreadsheet("Doc", "Sheet1", dataRows(2))
	svc := NewService(fake, testLogger())

	res := svc.Reconcile(context.Background(), id, canvasWithItems(5), "Sheet1")

	if !res.Success {
		t.Fatalf("reconcile failed: %s", res.Error)
	}
	if res.RowsDeleted != 0 {
		t.Errorf("rows_deleted = %d, want 0 when canvas grows", res.RowsDeleted)
	}
	if len(fake.DeletedRanges) != 0 {
		t.Errorf("unexpected delete call: %v", fake.DeletedRanges)
	}
	if rows := fake.Rows(id, "Sheet1"); len(rows) != 6 {
		t.Errorf("sheet has %d rows, want 6", len(rows))
	}
}

func TestReconcileFailures(t *testing.T) {
	t.Run("unresolvable sheet name fails", func(t *testing.T) {
		fake := sheets.NewFake()
		fake.InfoErr = fmt.Errorf("service unavailable")
		svc := NewService(fake, testLogger())

		res := svc.Reconcile(context.Background(), "whatever", &canvas.State{}, "")
		if res.Success {
			t.Fatal("expected failure")
		}
		if res.Error == "" {
			t.Error("expected descriptive error message")
		}
	})

	t.Run("delete failure does not abort the sync", func(t *testing.T) {
		fake := sheets.NewFake()
		id := fake.AddSpreadsheet("Doc", "Sheet1", dataRows(10))
		fake.DeleteErr = fmt.Errorf("permission denied")
		svc := NewService(fake, testLogger())

		res := svc.Reconcile(context.Background(), id, canvasWithItems(3), "Sheet1")
		if !res.Success {
			t.Fatalf("sync should survive a failed delete: %s", res.Error)
		}
		if res.RowsDeleted != 0 {
			t.Errorf("rows_deleted = %d, want 0 after failed delete", res.RowsDeleted)
		}
	})

	t.Run("write failure fails the operation", func(t *testing.T) {
		fake := sheets.NewFake()
		id := fake.AddSpreadsheet("Doc", "Sheet1", nil)
		fake.UpdateErr = fmt.Errorf("quota exceeded")
		svc := NewService(fake, testLogger())

		res := svc.Reconcile(context.Background(), id, canvasWithItems(1), "Sheet1")
		if res.Success {
			t.Fatal("expected failure when the bulk write fails")
		}
	})

	t.Run("unfetchable row count treated as empty sheet", func(t *testing.T) {
		fake := sheets.NewFake()
		id := fake.AddSpreadsheet("Doc", "Sheet1", dataRows(3))
		fake.ValuesErr = fmt.Errorf("range error")
		svc := NewService(fake, testLogger())

		res := svc.Reconcile(context.Background(), id, canvasWithItems(1), "Sheet1")
		if !res.Success {
			t.Fatalf("reconcile failed: %s", res.Error)
		}
		if res.RowsDeleted != 0 || len(fake.DeletedRanges) != 0 {
			t.Error("no delete should be issued when current count is unknown")
		}
	})
}

func TestReconcileRoundTrip(t *testing.T) {
	fake := sheets.NewFake()
	source := fake.AddSpreadsheet("Source", "Sheet1", [][]string{
		{"Name", "Status", "Due Date", "Progress"},
		{"Launch v2", "On track", "2024-03-01", "45"},
		{"Acme Corp", "Vendor", "hardware,network", ""},
	})
	svc := NewService(fake, testLogger())

	imported, err := svc.Import(context.Background(), source, "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(imported.Items) != 2 {
		t.Fatalf("imported %d items, want 2", len(imported.Items))
	}

	target := fake.AddSpreadsheet("Target", "Sheet1", nil)
	res := svc.Reconcile(context.Background(), target, imported, "")
	if !res.Success {
		t.Fatalf("reconcile: %s", res.Error)
	}

	// The persisted rows carry every item's identity and payload.
	rows := fake.Rows(target, "Sheet1")
	if len(rows) != len(imported.Items)+1 {
		t.Fatalf("persisted %d rows, want %d", len(rows), len(imported.Items)+1)
	}
	for i, item := range imported.Items {
		row := rows[i+1]
		if row[0] != item.ID || row[1] != string(item.Type) || row[2] != item.Name {
			t.Errorf("row %d = %v, want id=%s type=%s name=%s",
				i+1, row, item.ID, item.Type, item.Name)
		}
		if row[4] == "" || row[4][0] != '{' {
			t.Errorf("row %d data cell %q is not a JSON object", i+1, row[4])
		}
	}

	// A second import of the reconciled sheet restores the same items.
	back, err := svc.Import(context.Background(), target, "")
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if len(back.Items) != len(imported.Items) {
		t.Fatalf("round trip changed item count: %d -> %d", len(imported.Items), len(back.Items))
	}
	for i, item := range imported.Items {
		got := back.Items[i]
		if got.Name != item.Name || got.Type != item.Type {
			t.Errorf("item %d round-tripped as name=%q type=%q, want name=%q type=%q",
				i, got.Name, got.Type, item.Name, item.Type)
		}
	}

	// Payloads survive the trip through the data column.
	origData := imported.Items[0].Data.(canvas.ProjectData)
	backData := back.Items[0].Data.(canvas.ProjectData)
	if backData.Field3 != origData.Field3 {
		t.Errorf("project date = %q after round trip, want %q", backData.Field3, origData.Field3)
	}
}
