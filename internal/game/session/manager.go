package session

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/cory-johannsen/blb/internal/game/sheet"
)

// Builder constructs a Sheet over rec that posts roll messages to chat.
type Builder func(rec sheet.Record, chat sheet.ChatSink) (*sheet.Sheet, error)

// Session is one open character sheet. Actions on the sheet go through Do, which holds
// the session lock for the duration of the action.
type Session struct {
	// ID is the character ID.
	ID string
	// Name is the character name at open time.
	Name string
	// Feed receives the sheet's roll messages.
	Feed *Feed

	mu    sync.Mutex
	sheet *sheet.Sheet
}

// Do runs fn with exclusive access to the sheet.
//
// Postcondition: Returns fn's error unchanged.
func (s *Session) Do(fn func(*sheet.Sheet) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.sheet)
}

// Manager tracks all open sessions. All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	build    Builder
	feedSize int
}

// NewManager creates an empty Manager that opens sheets with build.
//
// Precondition: build must be non-nil.
func NewManager(build Builder, feedSize int) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		build:    build,
		feedSize: feedSize,
	}
}

// Open builds a sheet over rec and registers it.
//
// Precondition: rec.Character must be non-nil.
// Postcondition: Returns the Session, or an error if the character is already open or the
// sheet cannot be built.
func (m *Manager) Open(rec sheet.Record) (*Session, error) {
	if rec.Character == nil {
		return nil, fmt.Errorf("record has no character")
	}
	id := rec.Character.ID

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; exists {
		return nil, fmt.Errorf("character %q already open", id)
	}

	feed := NewFeed(id, m.feedSize)
	sh, err := m.build(rec, feed)
	if err != nil {
		_ = feed.Close()
		return nil, fmt.Errorf("opening character %q: %w", id, err)
	}
	sess := &Session{ID: id, Name: rec.Character.Name, Feed: feed, sheet: sh}
	m.sessions[id] = sess
	return sess, nil
}

// Close removes a session and closes its feed.
//
// Postcondition: Returns an error if the session is not open.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[id]
	if !exists {
		return fmt.Errorf("character %q not open", id)
	}
	_ = sess.Feed.Close()
	delete(m.sessions, id)
	return nil
}

// Get returns the session for the given character ID.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// FindByName returns the session whose character name matches name case-insensitively.
//
// Postcondition: Returns (session, true) only when exactly one session matches.
func (m *Manager) FindByName(name string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var found *Session
	for _, sess := range m.sessions {
		if strings.EqualFold(sess.Name, name) {
			if found != nil {
				return nil, false
			}
			found = sess
		}
	}
	return found, found != nil
}

// IDs returns the open character IDs in sorted order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
