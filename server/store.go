package server

import (
	"sync"

	"sitesmith/core"
)

// resultStore keeps each session's latest result in memory. A session
// holds at most one result; a new successful run replaces it whole.
type resultStore struct {
	mu       sync.Mutex
	sessions map[string]*core.Result
}

func newStore() *resultStore {
	return &resultStore{sessions: make(map[string]*core.Result)}
}

func (s *resultStore) set(id string, res *core.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = res
}

func (s *resultStore) get(id string) (*core.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.sessions[id]
	return res, ok
}

func (s *resultStore) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	return ok
}
