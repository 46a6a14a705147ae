// Package session holds in-flight parental verification quizzes. Sessions
// live in process memory only; restarting the server clears them, which
// just means the parent restarts the quiz.
package session

import (
	"math/rand"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/sproutbank/sproutbank/internal/platform/errors"
	"github.com/sproutbank/sproutbank/internal/services/verification/question"
)

// DefaultTTL bounds how long an abandoned quiz lingers before eviction.
const DefaultTTL = 10 * time.Minute

// PassThreshold is the number of correct answers that completes the quiz.
const PassThreshold = 3

// Result is the outcome of one answer submission.
type Result struct {
	Correct       bool `json:"correct"`
	Passed        bool `json:"passed"`
	Failed        bool `json:"failed"`
	CorrectCount  int  `json:"correctCount"`
	TotalAttempts int  `json:"totalAttempts"`
}

type state struct {
	pool          []question.Question
	used          [question.PoolSize]bool
	correctCount  int
	totalAttempts int
	createdAt     time.Time
}

func (s *state) usedCount() int {
	count := 0
	for _, u := range s.used {
		if u {
			count++
		}
	}
	return count
}

// Store is a mutex-guarded session table with lazy TTL eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*state
	ttl      time.Duration
	clock    func() time.Time
	intn     func(n int) int
}

// NewStore creates a session store with the default TTL.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*state),
		ttl:      DefaultTTL,
		clock:    time.Now,
		intn:     rand.Intn,
	}
}

// WithTTL overrides the session lifetime.
func (s *Store) WithTTL(ttl time.Duration) *Store {
	s.ttl = ttl
	return s
}

// WithClock overrides the store clock, for tests.
func (s *Store) WithClock(clock func() time.Time) *Store {
	s.clock = clock
	return s
}

// WithIntn overrides the random source, for tests.
func (s *Store) WithIntn(intn func(n int) int) *Store {
	s.intn = intn
	return s
}

func (s *Store) expired(st *state, now time.Time) bool {
	return now.Sub(st.createdAt) > s.ttl
}

// live returns the session for key, evicting it first if expired. Callers
// must hold the mutex.
func (s *Store) live(key string, now time.Time) (*state, bool) {
	st, ok := s.sessions[key]
	if !ok {
		return nil, false
	}
	if s.expired(st, now) {
		delete(s.sessions, key)
		return nil, false
	}
	return st, true
}

// Create starts a session for key, replacing any existing one. It also
// sweeps out expired sessions so abandoned quizzes do not accumulate.
func (s *Store) Create(key string, pool []question.Question) error {
	if err := question.ValidatePool(pool); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	for k, st := range s.sessions {
		if s.expired(st, now) {
			delete(s.sessions, k)
		}
	}

	copied := make([]question.Question, len(pool))
	copy(copied, pool)
	s.sessions[key] = &state{pool: copied, createdAt: now}
	return nil
}

// NextQuestion picks one unused question uniformly at random. ok is false
// when the session is absent, expired, or every question has been used.
func (s *Store) NextQuestion(key string) (int, question.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.live(key, s.clock())
	if !ok {
		return 0, question.Question{}, false
	}

	unused := make([]int, 0, question.PoolSize)
	for i, used := range st.used {
		if !used {
			unused = append(unused, i)
		}
	}
	if len(unused) == 0 {
		return 0, question.Question{}, false
	}
	index := unused[s.intn(len(unused))]
	return index, st.pool[index], true
}

// Submit records an answer and returns the session outcome. An unknown or
// expired key fails immediately with zeroed counters. An out-of-range
// question index is a validation error and leaves the session untouched.
// Submitting the same question index twice is allowed; the used set is
// last-write-wins.
func (s *Store) Submit(key string, questionIndex, selectedOption int) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.live(key, s.clock())
	if !ok {
		return Result{Failed: true}, nil
	}
	if questionIndex < 0 || questionIndex >= len(st.pool) {
		return Result{}, apperrors.WithMetadata(apperrors.CodeVerificationIndexInvalid,
			"question index out of range", map[string]string{"index": strconv.Itoa(questionIndex)})
	}

	st.totalAttempts++
	correct := st.pool[questionIndex].CorrectIndex == selectedOption
	if correct {
		st.correctCount++
	}
	st.used[questionIndex] = true

	passed := st.correctCount >= PassThreshold
	failed := !passed && st.usedCount() >= question.PoolSize
	return Result{
		Correct:       correct,
		Passed:        passed,
		Failed:        failed,
		CorrectCount:  st.correctCount,
		TotalAttempts: st.totalAttempts,
	}, nil
}

// Clear removes a session. Callers clear on any terminal result.
func (s *Store) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}
