package analysis

// MemoryStore keeps analyses in a plain map. It relies on Cache for
// locking and lives for the session lifetime; entries are never expired.
type MemoryStore struct {
	byHash map[string]Analysis
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byHash: make(map[string]Analysis)}
}

// Get returns the analysis stored under hash.
func (s *MemoryStore) Get(hash string) (Analysis, bool) {
	a, ok := s.byHash[hash]
	return a, ok
}

// Put stores the analysis under its hash.
func (s *MemoryStore) Put(a Analysis) {
	s.byHash[a.Hash] = a
}

// All returns a copy of the stored analyses.
func (s *MemoryStore) All() map[string]Analysis {
	out := make(map[string]Analysis, len(s.byHash))
	for k, v := range s.byHash {
		out[k] = v
	}
	return out
}

// Clear removes every entry.
func (s *MemoryStore) Clear() {
	s.byHash = make(map[string]Analysis)
}
