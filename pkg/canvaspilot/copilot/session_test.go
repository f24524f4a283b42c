package copilot

import (
	"path/filepath"
	"testing"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/canvas"
)

func TestSessionHistory(t *testing.T) {
	s := &Session{ID: "s1"}
	for i := 0; i < 5; i++ {
		s.AddMessage("q", "a")
	}

	if got := s.RecentHistory(3); len(got) != 3 {
		t.Errorf("RecentHistory(3) returned %d entries", len(got))
	}
	if got := s.RecentHistory(10); len(got) != 5 {
		t.Errorf("RecentHistory(10) returned %d entries", len(got))
	}
}

func TestSessionCanvasDefault(t *testing.T) {
	s := &Session{ID: "s1"}
	st := s.CanvasState()
	if st == nil || st.Items == nil {
		t.Fatal("CanvasState should create an empty canvas")
	}
	if s.CanvasState() != st {
		t.Error("CanvasState should be stable across calls")
	}
}

func TestSessionStorePersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := NewSessionStore(db, executorLogger())
	s := store.GetOrCreate("persist-1")
	s.SetCanvas(&canvas.State{
		Items:       []canvas.Item{{ID: "0001", Type: canvas.ItemNote, Name: "kept", Data: canvas.NoteData{Field1: "body"}}},
		GlobalTitle: "Saved Canvas",
		SyncSheetID: "sheet-xyz",
	})
	store.SaveExchange(s, "import my sheet", "done, 1 item created")
	store.SaveExchange(s, "thanks", "any time")

	// A fresh store (new process) must see history and canvas.
	store2 := NewSessionStore(db, executorLogger())
	restored := store2.GetOrCreate("persist-1")

	history := restored.RecentHistory(10)
	if len(history) != 2 {
		t.Fatalf("restored %d history entries, want 2", len(history))
	}
	if history[0].UserMessage != "import my sheet" {
		t.Errorf("first entry = %q", history[0].UserMessage)
	}

	st := restored.CanvasState()
	if st.GlobalTitle != "Saved Canvas" || st.SyncSheetID != "sheet-xyz" {
		t.Errorf("canvas meta not restored: %+v", st)
	}
	if len(st.Items) != 1 || st.Items[0].Name != "kept" {
		t.Fatalf("canvas items not restored: %+v", st.Items)
	}
	if _, ok := st.Items[0].Data.(canvas.NoteData); !ok {
		t.Errorf("item payload decoded as %T", st.Items[0].Data)
	}
}

func TestSessionStoreGeneratesIDs(t *testing.T) {
	store := NewSessionStore(nil, executorLogger())
	a := store.GetOrCreate("")
	b := store.GetOrCreate("")
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Errorf("generated ids not unique: %q vs %q", a.ID, b.ID)
	}
	if store.GetOrCreate(a.ID) != a {
		t.Error("existing session not returned by id")
	}
}
