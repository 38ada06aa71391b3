package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/scout-cfb/scout/internal/personality"
)

// Store implements personality.Store backed by SQLite. All reads come
// from an in-memory cache warmed at open time; writes hit the database
// first and update the cache only on success.
type Store struct {
	db *sql.DB

	mu    sync.RWMutex
	users map[string]*cachedPrefs
}

type cachedPrefs struct {
	archetype personality.Archetype
	banter    personality.BanterLevel
	hasBanter bool
}

// newStore builds a Store and warms the cache from the user_prefs table.
func newStore(db *sql.DB) (*Store, error) {
	s := &Store{
		db:    db,
		users: make(map[string]*cachedPrefs),
	}

	rows, err := db.QueryContext(context.TODO(),
		"SELECT user_id, archetype, banter_level FROM user_prefs")
	if err != nil {
		return nil, fmt.Errorf("prefs.sqlite: load preferences: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			userID    string
			archetype string
			banter    sql.NullInt64
		)
		if err := rows.Scan(&userID, &archetype, &banter); err != nil {
			return nil, fmt.Errorf("prefs.sqlite: scan preference row: %w", err)
		}
		p := &cachedPrefs{archetype: personality.Archetype(archetype)}
		if banter.Valid {
			p.banter = personality.BanterLevel(banter.Int64).Clamp()
			p.hasBanter = true
		}
		s.users[userID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prefs.sqlite: load preferences: %w", err)
	}

	return s, nil
}

// Archetype implements personality.Store.
func (s *Store) Archetype(userID string) personality.Archetype {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.users[userID]; ok && p.archetype != "" {
		return p.archetype
	}
	return personality.DefaultArchetype
}

// SetArchetype implements personality.Store.
func (s *Store) SetArchetype(userID string, archetype personality.Archetype) error {
	if !archetype.Valid() {
		return &personality.InvalidArchetypeError{Archetype: archetype}
	}

	_, err := s.db.ExecContext(context.TODO(), `
		INSERT INTO user_prefs (user_id, archetype) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			archetype  = excluded.archetype,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now')`,
		userID, string(archetype))
	if err != nil {
		return fmt.Errorf("prefs.sqlite: persist archetype: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs(userID).archetype = archetype
	return nil
}

// BanterLevel implements personality.Store.
func (s *Store) BanterLevel(userID string) personality.BanterLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.users[userID]; ok && p.hasBanter {
		return p.banter
	}
	return personality.DefaultBanterLevel
}

// SetBanterLevel implements personality.Store.
func (s *Store) SetBanterLevel(userID string, level personality.BanterLevel) error {
	level = level.Clamp()

	_, err := s.db.ExecContext(context.TODO(), `
		INSERT INTO user_prefs (user_id, banter_level) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			banter_level = excluded.banter_level,
			updated_at   = strftime('%Y-%m-%dT%H:%M:%fZ','now')`,
		userID, int(level))
	if err != nil {
		return fmt.Errorf("prefs.sqlite: persist banter level: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.prefs(userID)
	p.banter = level
	p.hasBanter = true
	return nil
}

// prefs returns the user's cache record, creating it if needed. Caller
// holds the write lock.
func (s *Store) prefs(userID string) *cachedPrefs {
	p, ok := s.users[userID]
	if !ok {
		p = &cachedPrefs{}
		s.users[userID] = p
	}
	return p
}

// len returns the number of cached users.
func (s *Store) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
