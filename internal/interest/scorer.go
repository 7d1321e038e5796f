// Package interest maintains the per-user category score map that biases
// feed and reel ordering toward categories the user has engaged with.
package interest

import (
	"sort"
	"sync"

	"github.com/worldwide-social/worldwide/internal/logger"
	"go.uber.org/zap"
)

// Engagement weights. Viewing a full item counts less than an explicit
// action; sharing counts the most.
const (
	WeightViewComplete = 2
	WeightComment      = 3
	WeightSave         = 4
	WeightLike         = 5
	WeightSharePost    = 8
	WeightShareReel    = 10
)

// rankMultiplier scales stored scores into sort keys.
const rankMultiplier = 1.5

// Store persists a per-user category score map. Loading an unknown user
// returns an empty map, never an error.
type Store interface {
	LoadInterests(userID string) map[string]int
	SaveInterests(userID string, scores map[string]int) error
}

// Scorer records weighted engagements and ranks content by accumulated
// category scores.
type Scorer struct {
	store Store
	mu    sync.Mutex
}

// NewScorer creates a scorer backed by the given store
func NewScorer(store Store) *Scorer {
	return &Scorer{store: store}
}

// RecordEngagement adds weight to the stored score for category under
// userID. No-op for an empty category or a non-positive weight: scores are
// monotonically non-decreasing and never negative. Not idempotent by
// contract - recording twice doubles the contribution, so callers record
// exactly once per logical engagement.
func (s *Scorer) RecordEngagement(userID, category string, weight int) {
	if category == "" || weight <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scores := s.store.LoadInterests(userID)
	scores[category] += weight

	if err := s.store.SaveInterests(userID, scores); err != nil {
		// Losing one engagement is acceptable; the map stays consistent
		logger.Log.Warn("Failed to persist interest scores",
			logger.WithUserID(userID),
			zap.String("category", category),
			zap.Error(err),
		)
	}
}

// Score returns the accumulated score for a category, 0 when unknown
func (s *Scorer) Score(userID, category string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LoadInterests(userID)[category]
}

// Scores returns a copy of the user's full category score map
func (s *Scorer) Scores(userID string) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	scores := s.store.LoadInterests(userID)
	out := make(map[string]int, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out
}

// RankByInterest stable-sorts items descending by the score of each item's
// category times the rank multiplier. Items with no recorded score sort as
// 0; ties keep their original relative order. The input slice is not
// mutated.
func RankByInterest[T any](s *Scorer, userID string, items []T, category func(T) string) []T {
	scores := s.Scores(userID)

	ranked := make([]T, len(items))
	copy(ranked, items)

	sort.SliceStable(ranked, func(i, j int) bool {
		si := float64(scores[category(ranked[i])]) * rankMultiplier
		sj := float64(scores[category(ranked[j])]) * rankMultiplier
		return si > sj
	})

	return ranked
}
