package scores

import (
	"fmt"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	scoresObject   = "scores"
	scoresProperty = "best-times"
)

// Store keeps the best completion time per level. Persistence goes
// through gdata's platform storage; with a nil manager the store
// degrades to in-memory only, which is not an error — the game plays
// fine without records surviving a restart.
type Store struct {
	mu      sync.Mutex
	manager *gdata.Manager
	best    map[string]time.Duration
}

// Open creates a store backed by the platform data directory. The
// returned error reports why persistence is unavailable; the store
// itself is always usable.
func Open(appName string) (*Store, error) {
	s := &Store{best: make(map[string]time.Duration)}

	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return s, fmt.Errorf("failed to open data storage: %w", err)
	}
	s.manager = m

	if err := s.load(); err != nil {
		return s, fmt.Errorf("failed to load best times: %w", err)
	}
	return s, nil
}

// NewMemory creates a store without persistence, for tests and for
// hosts running with storage disabled.
func NewMemory() *Store {
	return &Store{best: make(map[string]time.Duration)}
}

// Best returns the recorded best time for a level.
func (s *Store) Best(levelName string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.best[levelName]
	return d, ok
}

// Record stores a completion time if it beats the current best.
// Returns true when a new best was set.
func (s *Store) Record(levelName string, d time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.best[levelName]; ok && prev <= d {
		return false
	}
	s.best[levelName] = d

	// A failed save is not fatal; the in-memory best stands.
	_ = s.save()
	return true
}

// load reads the persisted map. Missing data is not an error.
func (s *Store) load() error {
	if s.manager == nil {
		return nil
	}
	if !s.manager.ObjectPropExists(scoresObject, scoresProperty) {
		return nil
	}

	data, err := s.manager.LoadObjectProp(scoresObject, scoresProperty)
	if err != nil {
		return fmt.Errorf("failed to read %s/%s: %w", scoresObject, scoresProperty, err)
	}

	var millis map[string]int64
	if err := yaml.Unmarshal(data, &millis); err != nil {
		return fmt.Errorf("failed to parse best times: %w", err)
	}

	for name, ms := range millis {
		s.best[name] = time.Duration(ms) * time.Millisecond
	}
	return nil
}

// save writes the current map. Caller holds the lock.
func (s *Store) save() error {
	if s.manager == nil {
		return nil
	}

	millis := make(map[string]int64, len(s.best))
	for name, d := range s.best {
		millis[name] = d.Milliseconds()
	}

	data, err := yaml.Marshal(millis)
	if err != nil {
		return fmt.Errorf("failed to serialize best times: %w", err)
	}
	if err := s.manager.SaveObjectProp(scoresObject, scoresProperty, data); err != nil {
		return fmt.Errorf("failed to save best times: %w", err)
	}
	return nil
}
