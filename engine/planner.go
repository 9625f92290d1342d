package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/convokehq/convoke/agent"
	"github.com/convokehq/convoke/core"
	"github.com/convokehq/convoke/logging"
	"github.com/convokehq/convoke/metrics"
	"github.com/convokehq/convoke/model"
)

const plannerInstructions = "You are an AI orchestrator. Create execution plans for processing user requests."

// Planner asks the model to decompose a user request into agent-assigned
// tasks and validates the result.
type Planner struct {
	store  *agent.Store
	mdl    model.Model
	bus    *core.Bus
	logger logging.Logger
}

// NewPlanner constructs a Planner.
func NewPlanner(store *agent.Store, mdl model.Model, bus *core.Bus, logger logging.Logger) *Planner {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Planner{store: store, mdl: mdl, bus: bus, logger: logger}
}

// BuildPlan produces the ordered task list for a user request.
//
// Degradation policy: a reply that is not parseable JSON at all falls back to
// a single task covering the whole request, assigned to the first enumerated
// agent. A reply that parses but violates the expected shape (not an array,
// elements missing required keys) is a structural error and fails the
// request. On success or fallback the numbered plan rendering is published as
// an execution_plan event.
func (p *Planner) BuildPlan(ctx context.Context, userRequest string) ([]core.Task, error) {
	names := p.store.Names()
	if len(names) == 0 {
		return nil, fmt.Errorf("no agents available to plan against")
	}

	reply, err := p.mdl.Complete(ctx, model.Request{
		Instructions: plannerInstructions,
		Prompt:       p.buildPrompt(userRequest, names),
	})
	if err != nil {
		metrics.ModelCalls.WithLabelValues(p.mdl.Info().Provider, "error").Inc()
		return nil, fmt.Errorf("plan model call: %w", err)
	}
	metrics.ModelCalls.WithLabelValues(p.mdl.Info().Provider, "ok").Inc()

	plan, err := parsePlan(stripCodeFences(reply))
	switch {
	case err == nil:
	case isSyntaxFailure(err):
		p.logger.Warn("plan not valid JSON, falling back to single task", "error", err)
		plan = []core.Task{{Description: userRequest, AssignedAgent: names[0]}}
	default:
		return nil, fmt.Errorf("plan validation: %w", err)
	}

	rendering := FormatPlan(plan)
	p.logger.Info("execution plan built", "tasks", len(plan))
	if p.bus != nil {
		p.bus.Publish(core.NewEvent(core.EventExecutionPlan, map[string]any{"plan": rendering}))
	}

	return plan, nil
}

func (p *Planner) buildPrompt(userRequest string, names []string) string {
	return fmt.Sprintf("Given the user request: '%s', create a plan to process this request. "+
		"Break it down into subtasks if necessary. Each subtask should be assigned to an agent, "+
		"but do note: you do not need to use all of the agents. Available agents: %s. "+
		"Respond with a JSON array of tasks, where each task has 'description' and 'assigned_agent' fields. "+
		"Make sure each agent has the necessary context needed to complete the task. "+
		"One last thing- each task you make costs the user a lot of money, so use the least amount possible.",
		userRequest, strings.Join(names, ", "))
}

// syntaxError marks plan parse failures eligible for the fallback plan, as
// opposed to structural violations which are hard errors.
type syntaxError struct{ err error }

func (e *syntaxError) Error() string { return e.err.Error() }
func (e *syntaxError) Unwrap() error { return e.err }

func isSyntaxFailure(err error) bool {
	_, ok := err.(*syntaxError)
	return ok
}

// parsePlan decodes and validates the model's plan JSON.
func parsePlan(text string) ([]core.Task, error) {
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, &syntaxError{err: err}
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON array, got %T", raw)
	}

	plan := make([]core.Task, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("task %d: expected an object, got %T", i, item)
		}
		desc, ok := obj["description"].(string)
		if !ok {
			return nil, fmt.Errorf("task %d: missing 'description'", i)
		}
		assigned, ok := obj["assigned_agent"].(string)
		if !ok {
			return nil, fmt.Errorf("task %d: missing 'assigned_agent'", i)
		}
		plan = append(plan, core.Task{Description: desc, AssignedAgent: assigned})
	}

	return plan, nil
}

// stripCodeFences removes Markdown code fence markers models habitually wrap
// JSON in.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// FormatPlan renders a plan as the human-readable numbered listing published
// with execution_plan events.
func FormatPlan(plan []core.Task) string {
	var sb strings.Builder
	sb.WriteString("**Execution Plan:**\n\n")
	for i, task := range plan {
		fmt.Fprintf(&sb, "%d. %s (Assigned to: %s)\n", i+1, task.Description, task.AssignedAgent)
	}
	return sb.String()
}
