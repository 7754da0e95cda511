package triage_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	triage "github.com/MegaGrindStone/go-ticket-triage"
)

type MockLLM struct {
	respond func(prompt string) (string, error)

	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

type MockCache struct {
	mu      sync.Mutex
	results map[string]triage.Result
	getErr  error
}

type wordCounter struct{}

func (m *MockLLM) Complete(_ context.Context, prompt string) (string, error) {
	m.calls.Add(1)
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		seen := m.maxSeen.Load()
		if n <= seen || m.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	return m.respond(prompt)
}

func constLLM(completion string) *MockLLM {
	return &MockLLM{respond: func(string) (string, error) { return completion, nil }}
}

func (m *MockCache) CachedResult(key string) (triage.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return triage.Result{}, m.getErr
	}
	res, ok := m.results[key]
	if !ok {
		return triage.Result{}, triage.ErrCacheMiss
	}
	return res, nil
}

func (m *MockCache) CacheResult(key string, result triage.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.results == nil {
		m.results = make(map[string]triage.Result)
	}
	m.results[key] = result
	return nil
}

func (wordCounter) CountTokens(text string) (int, error) {
	return len(strings.Fields(text)), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
