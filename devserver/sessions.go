package devserver

import "sync"

// Message is one message of a session's history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// sessions is the per-session conversation store.
type sessions struct {
	mu      sync.RWMutex
	history map[string][]Message
}

func newSessions() *sessions {
	return &sessions{history: make(map[string][]Message)}
}

// snapshot returns a copy of a session's history, never nil.
func (s *sessions) snapshot(id string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.history[id]))
	copy(out, s.history[id])
	return out
}

func (s *sessions) append(id string, msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[id] = append(s.history[id], msgs...)
}

func (s *sessions) clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.history, id)
}
