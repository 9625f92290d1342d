package model

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Request captures one normalized completion call: a system instruction and a
// user prompt. The orchestrator never needs multi-turn message arrays or
// provider-native tool calling; tool use is expressed in-band via text
// directives, so a single prompt pair is the whole contract.
type Request struct {
	Instructions string `json:"instructions"` // system role content
	Prompt       string `json:"prompt"`       // user role content
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Model is the minimal interface required to drive generation. Implementations
// must be safe for concurrent use; calls block until the provider responds or
// ctx is cancelled.
type Model interface {
	// Complete performs a single blocking completion round-trip.
	Complete(ctx context.Context, req Request) (string, error)

	// Info returns information about the model implementation.
	Info() Info
}

// Mock is a lightweight in-memory Model useful for tests & examples. Canned
// replies are matched by exact prompt, then by substring; unmatched prompts
// receive a generic echo.
type Mock struct {
	mu        sync.Mutex
	info      Info
	exact     map[string]string
	contains  []mockRule
	requests  []Request
	failWith  error
	callCount int
}

type mockRule struct {
	needle string
	reply  string
}

// NewMock constructs a Mock model.
func NewMock() *Mock {
	return &Mock{
		info:  Info{Name: "mock", Provider: "mock"},
		exact: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an exact prompt.
func (m *Mock) AddResponse(prompt, reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exact[prompt] = reply
}

// AddContainsResponse registers a canned completion returned whenever the
// prompt contains needle. Rules are evaluated in registration order.
func (m *Mock) AddContainsResponse(needle, reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contains = append(m.contains, mockRule{needle: needle, reply: reply})
}

// FailWith makes every subsequent Complete call return err.
func (m *Mock) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Requests returns a copy of every request seen so far, in order.
func (m *Mock) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Calls returns the number of Complete invocations.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Complete implements Model.
func (m *Mock) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++
	m.requests = append(m.requests, req)

	if m.failWith != nil {
		return "", m.failWith
	}
	if reply, ok := m.exact[req.Prompt]; ok {
		return reply, nil
	}
	for _, rule := range m.contains {
		if rule.needle != "" && strings.Contains(req.Prompt, rule.needle) {
			return rule.reply, nil
		}
	}
	return fmt.Sprintf("Mock response to: %s", req.Prompt), nil
}

// Info implements Model.
func (m *Mock) Info() Info { return m.info }
