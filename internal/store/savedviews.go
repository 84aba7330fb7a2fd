package store

import (
	"encoding/json"

	"github.com/google/uuid"

	"fixfirst/internal/logging"
	"fixfirst/internal/types"
)

// SavedViews returns a copied snapshot of the saved views in creation
// order.
func (s *Store) SavedViews() []types.SavedView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.SavedView(nil), s.savedViews...)
}

// SaveView stores a named filter/sort combination and returns it with its
// assigned id. Duplicate names are allowed; views are identified by id.
func (s *Store) SaveView(name string, filters types.ViewFilters, sort *types.SortSpec) types.SavedView {
	view := types.SavedView{
		ID:      "view-" + uuid.NewString(),
		Name:    name,
		Filters: filters,
	}
	if sort != nil {
		copied := *sort
		view.Sort = &copied
	}

	s.mu.Lock()
	s.savedViews = append(s.savedViews, view)
	s.persistSavedViews()
	s.mu.Unlock()

	logging.Store("Saved view %q (%s)", name, view.ID)
	return view
}

// DeleteView removes a saved view by id. Returns false if the id is
// unknown.
func (s *Store) DeleteView(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, v := range s.savedViews {
		if v.ID == id {
			s.savedViews = append(s.savedViews[:i], s.savedViews[i+1:]...)
			s.persistSavedViews()
			return true
		}
	}
	return false
}

// persistSavedViews serializes the saved views into the blob store.
// Callers hold mu.
func (s *Store) persistSavedViews() {
	data, err := json.Marshal(s.savedViews)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to serialize saved views: %v", err)
		return
	}
	if err := s.blob.Put(KeySavedViews, string(data)); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to persist saved views: %v", err)
	}
}
