package catalog

// Stats is the header summary of the catalog.
type Stats struct {
	Showing        int `json:"showing"`
	Total          int `json:"total"`
	New            int `json:"new"`
	Unavailable    int `json:"unavailable"`
	Favorites      int `json:"favorites"`
	AppliedFilters int `json:"appliedFilters"`
}

func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{
		Showing:        len(s.view),
		Total:          len(s.all),
		AppliedFilters: len(s.filters),
	}
	for _, d := range s.all {
		if d.IsNew {
			st.New++
		}
		if !d.IsAvailable {
			st.Unavailable++
		}
		if d.IsFavorite {
			st.Favorites++
		}
	}
	return st
}
