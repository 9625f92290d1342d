package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convokehq/convoke/agent"
	"github.com/convokehq/convoke/core"
	"github.com/convokehq/convoke/model"
	"github.com/convokehq/convoke/tool"
)

func newExecutorFixture(t *testing.T, agents ...string) (*Executor, *model.Mock, *core.Bus) {
	t.Helper()
	root := t.TempDir()
	store := agent.NewStore(root)
	for _, name := range agents {
		_, err := store.Create(name, "test context", nil)
		require.NoError(t, err)
	}
	registry := tool.NewRegistry(root, root)
	mock := model.NewMock()
	bus := core.NewBus()
	gen := NewGenerator(store, registry, mock, nil)
	return NewExecutor(store, gen, bus, nil), mock, bus
}

func TestExecutor_ThreadsContextBetweenTasks(t *testing.T) {
	e, mock, _ := newExecutorFixture(t, "Researcher", "Coder")
	mock.AddContainsResponse("Task: gather facts", "the facts")
	mock.AddContainsResponse("Task: write summary", "the summary")

	results, err := e.Execute(context.Background(), []core.Task{
		{Description: "gather facts", AssignedAgent: "Researcher"},
		{Description: "write summary", AssignedAgent: "Coder"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "the facts", results[0].Response)
	assert.Equal(t, "the summary", results[1].Response)

	reqs := mock.Requests()
	require.Len(t, reqs, 2)
	// The first task starts from an empty context object.
	assert.Contains(t, reqs[0].Prompt, "Context: {}")
	// The second task sees the first task's output keyed by its description.
	assert.Contains(t, reqs[1].Prompt, `"gather facts": "the facts"`)
}

func TestExecutor_UnknownAgentProducesFailureEntry(t *testing.T) {
	e, mock, bus := newExecutorFixture(t, "Researcher")
	mock.AddContainsResponse("Task: real work", "done")
	events := bus.Subscribe()
	defer bus.Unsubscribe(events)

	results, err := e.Execute(context.Background(), []core.Task{
		{Description: "impossible work", AssignedAgent: "Ghost"},
		{Description: "real work", AssignedAgent: "Researcher"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "impossible work", results[0].Task)
	assert.Equal(t, "Ghost", results[0].Agent)
	assert.Empty(t, results[0].Response)
	assert.Equal(t, `agent "Ghost" not found`, results[0].Err)

	assert.Equal(t, "done", results[1].Response)

	// The failed task contributes nothing to later context.
	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Prompt, "Context: {}")

	ev := <-events
	assert.Equal(t, core.EventTaskCompleted, ev.Type)
	assert.Equal(t, `agent "Ghost" not found`, ev.Payload["error"])
}

func TestExecutor_ModelFailureAborts(t *testing.T) {
	e, mock, _ := newExecutorFixture(t, "Researcher")
	mock.FailWith(errors.New("upstream down"))

	_, err := e.Execute(context.Background(), []core.Task{
		{Description: "anything", AssignedAgent: "Researcher"},
	})
	assert.ErrorContains(t, err, "upstream down")
}

func TestExecutor_EmptyPlan(t *testing.T) {
	e, mock, _ := newExecutorFixture(t, "Researcher")

	results, err := e.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, mock.Calls())
}

func TestExecutor_PublishesTaskCompletedEvents(t *testing.T) {
	e, mock, bus := newExecutorFixture(t, "Researcher")
	mock.AddContainsResponse("Task: dig", "found it")
	events := bus.Subscribe()
	defer bus.Unsubscribe(events)

	_, err := e.Execute(context.Background(), []core.Task{
		{Description: "dig", AssignedAgent: "Researcher"},
	})
	require.NoError(t, err)

	ev := <-events
	assert.Equal(t, core.EventTaskCompleted, ev.Type)
	assert.Equal(t, "dig", ev.Payload["task"])
	assert.Equal(t, "found it", ev.Payload["response"])
	assert.NotEmpty(t, ev.Payload["agent_id"])
}

func TestExecutionContext_RenderPreservesInsertionOrder(t *testing.T) {
	c := newExecutionContext()
	c.add("zebra task", "z")
	c.add("alpha task", "a")

	out := c.renderJSON()
	assert.Equal(t, "{\n  \"zebra task\": \"z\",\n  \"alpha task\": \"a\"\n}", out)
}
