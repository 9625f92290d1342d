package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var _ Model = (*Mock)(nil)

func TestMock_ExactBeatsContains(t *testing.T) {
	m := NewMock()
	m.AddContainsResponse("hello", "substring reply")
	m.AddResponse("hello world", "exact reply")

	out, err := m.Complete(context.Background(), Request{Prompt: "hello world"})
	require.NoError(t, err)
	assert.Equal(t, "exact reply", out)

	out, err = m.Complete(context.Background(), Request{Prompt: "well hello there"})
	require.NoError(t, err)
	assert.Equal(t, "substring reply", out)
}

func TestMock_ContainsRulesMatchInOrder(t *testing.T) {
	m := NewMock()
	m.AddContainsResponse("alpha", "first")
	m.AddContainsResponse("alpha beta", "second")

	out, err := m.Complete(context.Background(), Request{Prompt: "alpha beta gamma"})
	require.NoError(t, err)
	assert.Equal(t, "first", out, "earlier registrations win")
}

func TestMock_UnmatchedPromptEchoes(t *testing.T) {
	m := NewMock()

	out, err := m.Complete(context.Background(), Request{Prompt: "anything"})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: anything", out)
}

func TestMock_RecordsRequestsAndCalls(t *testing.T) {
	m := NewMock()

	_, err := m.Complete(context.Background(), Request{Instructions: "sys", Prompt: "one"})
	require.NoError(t, err)
	_, err = m.Complete(context.Background(), Request{Prompt: "two"})
	require.NoError(t, err)

	assert.Equal(t, 2, m.Calls())
	reqs := m.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "sys", reqs[0].Instructions)
	assert.Equal(t, "two", reqs[1].Prompt)
}

func TestMock_FailWith(t *testing.T) {
	m := NewMock()
	m.FailWith(errors.New("boom"))

	_, err := m.Complete(context.Background(), Request{Prompt: "anything"})
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, 1, m.Calls(), "failed calls are still counted")
}

func TestMock_CancelledContext(t *testing.T) {
	m := NewMock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Complete(ctx, Request{Prompt: "anything"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMock_Info(t *testing.T) {
	m := NewMock()
	assert.Equal(t, Info{Name: "mock", Provider: "mock"}, m.Info())
}
