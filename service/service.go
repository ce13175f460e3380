// Package service implements the conversation orchestrator: it tracks
// survey progress per session, decides when the analysis turn fires, and
// reduces the LLM's output into a validated assessment.
package service

import (
	"sync"

	"github.com/burnoutlab/orchestrator/config"
	"github.com/burnoutlab/orchestrator/emotion"
	"github.com/burnoutlab/orchestrator/llm"
	"github.com/burnoutlab/orchestrator/store"
)

// Service coordinates the store, the text generator, and the optional
// emotion classifier for both single-shot and streaming turns.
type Service struct {
	store      store.Store
	generator  llm.Generator
	classifier emotion.Classifier // may be nil
	config     *config.Config
	locks      sessionLocks
}

// New creates a new service. classifier may be nil; analysis context is then
// built without tone annotations.
func New(store store.Store, generator llm.Generator, classifier emotion.Classifier, cfg *config.Config) *Service {
	return &Service{
		store:      store,
		generator:  generator,
		classifier: classifier,
		config:     cfg,
		locks:      sessionLocks{locks: make(map[string]*sync.Mutex)},
	}
}

// sessionLocks serializes turns per session. The store upholds its own
// invariants, but without this two concurrent turns on one session could
// interleave their read-modify-write of the counter and history.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Lock acquires the mutex for a session and returns its unlock function.
func (l *sessionLocks) Lock(sessionID string) func() {
	l.mu.Lock()
	m, ok := l.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sessionID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
