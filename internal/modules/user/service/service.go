package service

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/reshetovitsme/transfer-pulse/internal/modules/user/domain"
	"github.com/samber/lo"
)

// Service decides which Telegram users may use the bot and remembers
// who has talked to it since startup
type Service struct {
	allowed []int64
	seen    map[int64]domain.User
	mu      sync.RWMutex
}

// New creates a user service. An empty allow-list admits everyone.
func New(allowed []int64) *Service {
	return &Service{
		allowed: allowed,
		seen:    make(map[int64]domain.User),
	}
}

// IsAuthorized checks if a user is authorized
func (s *Service) IsAuthorized(userID int64) bool {
	if len(s.allowed) == 0 {
		return true // No restrictions
	}
	return lo.Contains(s.allowed, userID)
}

// Touch records a user interaction
func (s *Service) Touch(userID int64, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[userID]; !ok {
		slog.Info("New bot user", "user_id", userID, "username", username, "authorized", s.IsAuthorized(userID))
	}
	s.seen[userID] = domain.User{ID: userID, Username: username, SeenAt: time.Now()}
}

// Seen returns the users that talked to the bot, by id
func (s *Service) Seen() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := lo.Values(s.seen)
	slices.SortFunc(users, func(a, b domain.User) int { return cmp.Compare(a.ID, b.ID) })
	return users
}
