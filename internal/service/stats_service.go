package service

import (
	"github.com/patrickmn/go-cache"
	"gradebook/internal/grading"
	"gradebook/internal/record"
	"sync"
	"time"
)

const studentsCacheKey = "students"

// StatsService answers class-wide questions from a record store built out of
// the database. The student snapshot is cached until a write invalidates it
// or the TTL passes.
type StatsService struct {
	load  func() (*record.Store, error)
	cache *cache.Cache

	// generation counts invalidations; a snapshot loaded under an older
	// generation is returned but never cached.
	mu         sync.Mutex
	generation uint64
}

func NewStatsService(ttl time.Duration) *StatsService {
	return &StatsService{cache: cache.New(ttl, 2*ttl+time.Minute)}
}

// SetSource tells the service where snapshots come from. It is separate
// from the constructor because the student service needs the stats service
// to invalidate it.
func (s *StatsService) SetSource(load func() (*record.Store, error)) {
	s.load = load
}

// Invalidate drops the cached snapshot. A nil receiver is allowed so
// services can be built without statistics in tests.
func (s *StatsService) Invalidate() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.cache.Delete(studentsCacheKey)
}

func (s *StatsService) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Students returns the current students in ID order.
func (s *StatsService) Students() ([]*record.Student, error) {
	if cached, ok := s.cache.Get(studentsCacheKey); ok {
		return cached.([]*record.Student), nil
	}
	generation := s.currentGeneration()
	store, err := s.load()
	if err != nil {
		return nil, err
	}
	students := store.List()

	s.mu.Lock()
	if s.generation == generation {
		s.cache.Set(studentsCacheKey, students, cache.DefaultExpiration)
	}
	s.mu.Unlock()
	return students, nil
}

func (s *StatsService) Statistics() (grading.Statistics, error) {
	students, err := s.Students()
	if err != nil {
		return grading.Statistics{}, err
	}
	return grading.ClassStatistics(students), nil
}

func (s *StatsService) Top(n int) ([]*record.Student, error) {
	students, err := s.Students()
	if err != nil {
		return nil, err
	}
	return grading.TopN(students, n)
}

func (s *StatsService) Below(threshold float64) ([]*record.Student, error) {
	students, err := s.Students()
	if err != nil {
		return nil, err
	}
	return grading.BelowThreshold(students, threshold)
}
