package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/convokehq/convoke/agent"
	"github.com/convokehq/convoke/core"
	"github.com/convokehq/convoke/logging"
	"github.com/convokehq/convoke/metrics"
)

// Executor runs a plan's tasks in order against the Generator, threading the
// accumulated outputs of earlier tasks into each later prompt.
type Executor struct {
	store  *agent.Store
	gen    *Generator
	bus    *core.Bus
	logger logging.Logger
}

// NewExecutor constructs an Executor.
func NewExecutor(store *agent.Store, gen *Generator, bus *core.Bus, logger logging.Logger) *Executor {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Executor{store: store, gen: gen, bus: bus, logger: logger}
}

// Execute runs every task in order. A task whose assigned agent cannot be
// resolved produces an explicit failure entry (Err set) instead of being
// silently dropped; it contributes nothing to the context seen by later
// tasks. A model failure aborts the run.
func (e *Executor) Execute(ctx context.Context, plan []core.Task) ([]core.TaskResult, error) {
	results := make([]core.TaskResult, 0, len(plan))
	execCtx := newExecutionContext()

	for _, task := range plan {
		id, ok := e.store.FindByName(task.AssignedAgent)
		if !ok {
			e.logger.Warn("task assigned to unknown agent", "agent", task.AssignedAgent, "task", task.Description)
			metrics.TasksExecuted.WithLabelValues("failed").Inc()
			result := core.TaskResult{
				Task:  task.Description,
				Agent: task.AssignedAgent,
				Err:   fmt.Sprintf("agent %q not found", task.AssignedAgent),
			}
			results = append(results, result)
			e.publishTaskCompleted("", result)
			continue
		}

		prompt := fmt.Sprintf("Task: %s\nContext: %s\nProvide a response based on this task and context.",
			task.Description, execCtx.renderJSON())

		response, err := e.gen.Generate(ctx, id, prompt)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", task.Description, err)
		}

		result := core.TaskResult{Task: task.Description, Agent: task.AssignedAgent, Response: response}
		results = append(results, result)
		execCtx.add(task.Description, response)
		metrics.TasksExecuted.WithLabelValues("ok").Inc()

		e.logger.Info("task completed", "agent", task.AssignedAgent, "task", task.Description)
		e.publishTaskCompleted(id, result)
	}

	return results, nil
}

func (e *Executor) publishTaskCompleted(sessionID string, result core.TaskResult) {
	if e.bus == nil {
		return
	}
	payload := map[string]any{
		"agent_id": sessionID,
		"task":     result.Task,
		"response": result.Response,
	}
	if result.Err != "" {
		payload["error"] = result.Err
	}
	e.bus.Publish(core.NewEvent(core.EventTaskCompleted, payload))
}

// executionContext is the accumulating description -> response mapping shared
// by all tasks in one plan run. It renders as a JSON object preserving
// insertion order, so later prompts see prior outputs in execution order.
type executionContext struct {
	keys   []string
	values map[string]string
}

func newExecutionContext() *executionContext {
	return &executionContext{values: make(map[string]string)}
}

func (c *executionContext) add(description, response string) {
	if _, exists := c.values[description]; !exists {
		c.keys = append(c.keys, description)
	}
	c.values[description] = response
}

func (c *executionContext) renderJSON() string {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		key, _ := json.Marshal(k)
		val, _ := json.Marshal(c.values[k])
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
	}
	if len(c.keys) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}")
	return buf.String()
}
