// Package testutil provides a mock reasoning client for tests.
package testutil

import (
	"context"
	"sync"

	"github.com/spec-kit/overseer/internal/reasoning"
)

// Outcome is one scripted reply from the mock client.
type Outcome struct {
	Response *reasoning.Response
	Err      error
}

// MockClient is a thread-safe scripted reasoning client. Each call consumes
// the next Outcome from Script; when the script is exhausted the client
// returns Err if set, otherwise an empty response.
type MockClient struct {
	mu        sync.Mutex
	Script    []Outcome
	Err       error
	calls     int
	requests  []reasoning.Request
}

// Complete implements reasoning.Client.
func (m *MockClient) Complete(_ context.Context, req reasoning.Request) (*reasoning.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	idx := m.calls
	m.calls++

	if idx < len(m.Script) {
		out := m.Script[idx]
		return out.Response, out.Err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &reasoning.Response{Content: "", Model: "mock"}, nil
}

// Calls returns how many times Complete was invoked.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Requests returns a copy of every request the client received.
func (m *MockClient) Requests() []reasoning.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]reasoning.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Text builds a successful text outcome.
func Text(content string) Outcome {
	return Outcome{Response: &reasoning.Response{Content: content, Model: "mock"}}
}

// Fail builds a failing outcome.
func Fail(err error) Outcome {
	return Outcome{Err: err}
}
