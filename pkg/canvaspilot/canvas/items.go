// Package canvas – items.go implements interactive item creation and
// removal on a canvas state, mirroring the client's creation semantics so
// ids stay stable regardless of which side created an item.
package canvas

import (
	"fmt"
	"strconv"
	"strings"
)

// NewItem appends a new item of the given type and returns it. The id is
// derived from both the ItemsCreated counter and the highest existing
// numeric id, whichever is larger, so imports (which assign row-position
// ids) and interactive creations never collide.
func (s *State) NewItem(t ItemType, name string) (*Item, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown item type %q", t)
	}

	maxID := 0
	for _, it := range s.Items {
		if n, err := strconv.Atoi(it.ID); err == nil && n > maxID {
			maxID = n
		}
	}
	next := s.ItemsCreated
	if maxID > next {
		next = maxID
	}
	next++

	if name == "" {
		name = "New " + strings.ToUpper(string(t)[:1]) + string(t)[1:]
	}

	id := fmt.Sprintf("%04d", next)
	item := Item{
		ID:   id,
		Type: t,
		Name: name,
		Data: DefaultData(t),
	}
	s.Items = append(s.Items, item)
	s.ItemsCreated = next
	s.LastAction = "created:" + id
	return &s.Items[len(s.Items)-1], nil
}

// RemoveItem deletes the item with the given id, preserving order of the
// remaining items. Returns false if no such item exists.
func (s *State) RemoveItem(id string) bool {
	for i, it := range s.Items {
		if it.ID == id {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			s.LastAction = "deleted:" + id
			return true
		}
	}
	return false
}

// FindItem returns a pointer to the item with the given id, or nil.
func (s *State) FindItem(id string) *Item {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i]
		}
	}
	return nil
}
