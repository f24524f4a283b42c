package canvas

import "testing"

func TestNewItem(t *testing.T) {
	t.Run("ids continue past imported row ids", func(t *testing.T) {
		st := &State{Items: []Item{
			{ID: "0001", Type: ItemNote},
			{ID: "0007", Type: ItemNote},
		}}
		it, err := st.NewItem(ItemEntity, "")
		if err != nil {
			t.Fatal(err)
		}
		if it.ID != "0008" {
			t.Errorf("id = %q, want 0008 (max existing + 1)", it.ID)
		}
		if it.Name != "New Entity" {
			t.Errorf("name = %q, want New Entity", it.Name)
		}
		if st.LastAction != "created:0008" {
			t.Errorf("lastAction = %q", st.LastAction)
		}
	})

	t.Run("creation counter outranks lower ids", func(t *testing.T) {
		st := &State{
			Items:        []Item{{ID: "0002", Type: ItemNote}},
			ItemsCreated: 5,
		}
		it, err := st.NewItem(ItemNote, "scratch")
		if err != nil {
			t.Fatal(err)
		}
		if it.ID != "0006" {
			t.Errorf("id = %q, want 0006", it.ID)
		}
		if st.ItemsCreated != 6 {
			t.Errorf("itemsCreated = %d, want 6", st.ItemsCreated)
		}
	})

	t.Run("payload is the variant default", func(t *testing.T) {
		st := &State{}
		it, err := st.NewItem(ItemProject, "p")
		if err != nil {
			t.Fatal(err)
		}
		d, ok := it.Data.(ProjectData)
		if !ok {
			t.Fatalf("data is %T, want ProjectData", it.Data)
		}
		if d.Field4 == nil {
			t.Error("checklist left nil")
		}
	})

	t.Run("invalid type rejected", func(t *testing.T) {
		st := &State{}
		if _, err := st.NewItem(ItemType("widget"), ""); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestRemoveItem(t *testing.T) {
	st := &State{Items: []Item{
		{ID: "0001"}, {ID: "0002"}, {ID: "0003"},
	}}
	if !st.RemoveItem("0002") {
		t.Fatal("remove returned false for existing id")
	}
	if len(st.Items) != 2 || st.Items[0].ID != "0001" || st.Items[1].ID != "0003" {
		t.Errorf("items after removal: %+v", st.Items)
	}
	if st.LastAction != "deleted:0002" {
		t.Errorf("lastAction = %q", st.LastAction)
	}
	if st.RemoveItem("0002") {
		t.Error("remove returned true for missing id")
	}
}

func TestFindItem(t *testing.T) {
	st := &State{Items: []Item{{ID: "0001", Name: "a"}}}
	if it := st.FindItem("0001"); it == nil || it.Name != "a" {
		t.Errorf("FindItem(0001) = %+v", it)
	}
	if st.FindItem("nope") != nil {
		t.Error("FindItem for missing id should be nil")
	}
	// Returned pointer mutates the state in place.
	st.FindItem("0001").Name = "renamed"
	if st.Items[0].Name != "renamed" {
		t.Error("FindItem pointer does not alias state")
	}
}
