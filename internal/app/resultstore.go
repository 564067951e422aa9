package app

import (
	"sort"
	"sync"

	"apt-warden/internal/types"
)

// resultStore is the append-only collection point for scan results. Each
// worker owns a unique package key, so writes never contend on a key; the
// mutex only guards the map itself. Count exists for advisory progress
// reporting and is never a correctness dependency.
type resultStore struct {
	mu      sync.Mutex
	results map[string]types.ScanResult
}

func newResultStore() *resultStore {
	return &resultStore{results: map[string]types.ScanResult{}}
}

func (s *resultStore) Add(result types.ScanResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.results[result.Package]; exists {
		// One result per task is an invariant; keep the first write.
		return
	}
	s.results[result.Package] = result
}

func (s *resultStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// Snapshot returns the settled results ordered by package name. Callers
// must only rely on it after the worker pool has joined.
func (s *resultStore) Snapshot() []types.ScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := make([]types.ScanResult, 0, len(s.results))
	for _, result := range s.results {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Package < results[j].Package
	})
	return results
}
