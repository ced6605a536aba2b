package localstore

import (
	"fmt"
	"os"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

// Well-known keys. These mirror the keys the web client kept in browser
// storage; the portal backend owns them now.
const (
	KeyCurrentUser      = "dietec-current-user"
	KeyTheme            = "dietec-theme"
	KeyOnboardingDone   = "dietec-onboarding-completed"
	KeyProfileCompleted = "dietec-profile-completed"
)

// Store is a process-local string key/value store. Values are opaque
// strings with no schema versioning. Entries never expire on their own;
// callers remove what they no longer trust.
type Store struct {
	c        *cache.Cache
	filePath string
	logger   zerolog.Logger
}

// New creates a store. When filePath is non-empty the store loads its
// previous contents from that file and persists on every write, so the
// cached doctor/admin record survives restarts.
func New(filePath string, logger zerolog.Logger) *Store {
	s := &Store{
		c:        cache.New(cache.NoExpiration, cache.NoExpiration),
		filePath: filePath,
		logger:   logger,
	}

	if filePath != "" {
		if err := s.c.LoadFile(filePath); err != nil && !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", filePath).Msg("failed to load local store, starting empty")
		}
	}

	return s
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.c.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

func (s *Store) Set(key, value string) {
	s.c.Set(key, value, cache.NoExpiration)
	s.persist()
}

func (s *Store) Remove(key string) {
	s.c.Delete(key)
	s.persist()
}

func (s *Store) persist() {
	if s.filePath == "" {
		return
	}
	if err := s.c.SaveFile(s.filePath); err != nil {
		s.logger.Warn().Err(err).Str("path", s.filePath).Msg("failed to persist local store")
	}
}

// UserKey scopes a preference key to one account, so per-user flags
// (theme, onboarding) don't collide.
func UserKey(key, email string) string {
	return fmt.Sprintf("%s:%s", key, email)
}
