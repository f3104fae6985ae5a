package store

// MockLocationStore is a mock implementation of LocationLoader for testing.
type MockLocationStore struct {
	Locations []string
	LoadError error
}

// Load returns the mock locations, or DefaultLocation when none are set.
func (m *MockLocationStore) Load() ([]string, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	if len(m.Locations) == 0 {
		return []string{DefaultLocation}, nil
	}
	out := make([]string, len(m.Locations))
	copy(out, m.Locations)
	return out, nil
}
