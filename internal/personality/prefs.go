package personality

import "sync"

// Store keeps per-user personality preferences. Reads always succeed and
// fall back to the defaults for unknown users; implementations that
// persist (the sqlite prefs module) keep a write-through cache so lookups
// stay on the hot path.
type Store interface {
	// Archetype returns the user's preferred archetype, DefaultArchetype
	// when unset.
	Archetype(userID string) Archetype
	// SetArchetype records a preference. Invalid archetypes are rejected.
	SetArchetype(userID string, archetype Archetype) error
	// BanterLevel returns the user's banter level, DefaultBanterLevel
	// when unset.
	BanterLevel(userID string) BanterLevel
	// SetBanterLevel records a preference, clamped to the valid range.
	SetBanterLevel(userID string, level BanterLevel) error
}

// MemoryStore is the in-process Store used when no persistence module is
// configured. Last write wins per user.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*userPrefs
}

type userPrefs struct {
	archetype Archetype
	banter    BanterLevel
	hasBanter bool
}

// NewMemoryStore creates an empty in-memory preference store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*userPrefs)}
}

// Archetype implements Store.
func (s *MemoryStore) Archetype(userID string) Archetype {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.users[userID]; ok && p.archetype != "" {
		return p.archetype
	}
	return DefaultArchetype
}

// SetArchetype implements Store.
func (s *MemoryStore) SetArchetype(userID string, archetype Archetype) error {
	if !archetype.Valid() {
		return &InvalidArchetypeError{Archetype: archetype}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs(userID).archetype = archetype
	return nil
}

// BanterLevel implements Store.
func (s *MemoryStore) BanterLevel(userID string) BanterLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.users[userID]; ok && p.hasBanter {
		return p.banter
	}
	return DefaultBanterLevel
}

// SetBanterLevel implements Store.
func (s *MemoryStore) SetBanterLevel(userID string, level BanterLevel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.prefs(userID)
	p.banter = level.Clamp()
	p.hasBanter = true
	return nil
}

// prefs returns the user's record, creating it if needed. Caller holds
// the write lock.
func (s *MemoryStore) prefs(userID string) *userPrefs {
	p, ok := s.users[userID]
	if !ok {
		p = &userPrefs{}
		s.users[userID] = p
	}
	return p
}

// InvalidArchetypeError is returned when a preference write names an
// unknown archetype.
type InvalidArchetypeError struct {
	Archetype Archetype
}

func (e *InvalidArchetypeError) Error() string {
	return "personality: unknown archetype " + string(e.Archetype)
}
