package engine

import (
	"context"

	"github.com/convokehq/convoke/agent"
	"github.com/convokehq/convoke/core"
	"github.com/convokehq/convoke/logging"
	"github.com/convokehq/convoke/metrics"
	"github.com/convokehq/convoke/model"
	"github.com/convokehq/convoke/tool"
)

// historyLimit is the maximum number of conversation turns retained
// process-wide; older turns are FIFO-evicted.
const historyLimit = 10

// Engine wires the planner, executor, generator and synthesizer into the
// end-to-end orchestration pipeline and owns the conversation history.
//
// A request flows: user request -> plan -> per-task generation (with tool
// directive expansion) -> synthesis -> history append. Each request is
// processed synchronously on the calling goroutine; concurrent requests share
// the agent store, tool cache and history, all of which are internally
// synchronized. There is no cancellation beyond ctx and no retry of model
// calls: an upstream model fault fails the whole request.
type Engine struct {
	store       *agent.Store
	planner     *Planner
	executor    *Executor
	generator   *Generator
	synthesizer *Synthesizer
	history     *core.History
	bus         *core.Bus
	logger      logging.Logger
}

// Options configures an Engine.
type Options struct {
	// Logger defaults to NoOp.
	Logger logging.Logger

	// Bus receives pipeline progress events; nil disables emission.
	Bus *core.Bus

	// HistoryLimit overrides the retained turn count. Defaults to 10.
	HistoryLimit int
}

// New constructs an Engine over the given store, tool registry and model.
func New(store *agent.Store, registry *tool.Registry, mdl model.Model, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Logger:       logging.NoOpLogger{},
		HistoryLimit: historyLimit,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	history := core.NewHistory(opts.HistoryLimit)
	gen := NewGenerator(store, registry, mdl, opts.Logger)

	return &Engine{
		store:       store,
		planner:     NewPlanner(store, mdl, opts.Bus, opts.Logger),
		executor:    NewExecutor(store, gen, opts.Bus, opts.Logger),
		generator:   gen,
		synthesizer: NewSynthesizer(mdl, history, opts.Logger),
		history:     history,
		bus:         opts.Bus,
		logger:      opts.Logger,
	}
}

// ProcessRequest runs the full pipeline for one user request and returns the
// synthesized Markdown answer.
func (e *Engine) ProcessRequest(ctx context.Context, userRequest string) (string, error) {
	e.publish(core.EventUserRequest, map[string]any{"request": userRequest})
	e.logger.Info("processing request", "request", userRequest)

	plan, err := e.planner.BuildPlan(ctx, userRequest)
	if err != nil {
		metrics.Requests.WithLabelValues("error").Inc()
		return "", err
	}

	results, err := e.executor.Execute(ctx, plan)
	if err != nil {
		metrics.Requests.WithLabelValues("error").Inc()
		return "", err
	}

	answer, err := e.synthesizer.Synthesize(ctx, results)
	if err != nil {
		metrics.Requests.WithLabelValues("error").Inc()
		return "", err
	}

	e.history.Append(userRequest, answer)
	e.publish(core.EventFinalAnswer, map[string]any{"response": answer})
	metrics.Requests.WithLabelValues("ok").Inc()

	return answer, nil
}

// Communicate sends one message directly to the agent behind sessionID,
// bypassing planning and synthesis. The agent's LastActivity is updated and
// an agent_response event is published.
func (e *Engine) Communicate(ctx context.Context, sessionID, message string) (string, error) {
	response, err := e.generator.Generate(ctx, sessionID, message)
	if err != nil {
		return "", err
	}

	e.store.Touch(sessionID)
	e.publish(core.EventAgentResponse, map[string]any{"agent_id": sessionID, "response": response})

	return response, nil
}

// History exposes the engine's conversation history.
func (e *Engine) History() *core.History { return e.history }

// Planner exposes the plan builder, mainly for tests and diagnostics.
func (e *Engine) Planner() *Planner { return e.planner }

// Executor exposes the plan executor, mainly for tests and diagnostics.
func (e *Engine) Executor() *Executor { return e.executor }

// Generator exposes the response generator, mainly for tests and diagnostics.
func (e *Engine) Generator() *Generator { return e.generator }

func (e *Engine) publish(eventType string, payload map[string]any) {
	if e.bus != nil {
		e.bus.Publish(core.NewEvent(eventType, payload))
	}
}
