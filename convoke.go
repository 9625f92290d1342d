// Package convoke provides a high-level façade over the orchestration engine
// and its services (agent store, tool registry, event bus). Most applications
// interact with this package by:
//  1. Creating an Orchestrator via New() with a model implementation
//  2. Creating or loading agents
//  3. Submitting user requests with ProcessRequest or talking to a single
//     agent with Communicate
//
// The façade delegates pipeline work to engine.Engine while keeping setup
// ergonomics concise. Defaults are safe for local development; production
// deployments supply a structured logger and real directories.
package convoke

import (
	"context"

	"github.com/convokehq/convoke/agent"
	"github.com/convokehq/convoke/core"
	"github.com/convokehq/convoke/engine"
	"github.com/convokehq/convoke/logging"
	"github.com/convokehq/convoke/model"
	"github.com/convokehq/convoke/tool"
)

// Options configures the Orchestrator instance.
type Options struct {
	// AgentsDir holds one JSON snapshot per agent plus per-agent tool
	// manifest folders. Defaults to "agents".
	AgentsDir string

	// ToolsDir holds the shared tool manifest pool. Defaults to "tools".
	ToolsDir string

	// HistoryLimit bounds the retained conversation turns. Defaults to 10.
	HistoryLimit int

	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Orchestrator aggregates the stores, registry, event bus and engine.
type Orchestrator struct {
	store    *agent.Store
	registry *tool.Registry
	bus      *core.Bus
	engine   *engine.Engine
}

// New creates an Orchestrator driving the given model.
func New(mdl model.Model, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		AgentsDir: "agents",
		ToolsDir:  "tools",
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	store := agent.NewStore(opts.AgentsDir, func(o *agent.StoreOptions) { o.Logger = opts.Logger })
	registry := tool.NewRegistry(opts.ToolsDir, opts.AgentsDir, func(o *tool.RegistryOptions) { o.Logger = opts.Logger })
	bus := core.NewBus()
	eng := engine.New(store, registry, mdl, func(o *engine.Options) {
		o.Logger = opts.Logger
		o.Bus = bus
		if opts.HistoryLimit > 0 {
			o.HistoryLimit = opts.HistoryLimit
		}
	})

	return &Orchestrator{store: store, registry: registry, bus: bus, engine: eng}
}

// LoadAgents rehydrates persisted agent snapshots, assigning fresh session ids.
func (o *Orchestrator) LoadAgents() error { return o.store.LoadAll() }

// ProcessRequest runs the full plan/execute/synthesize pipeline.
func (o *Orchestrator) ProcessRequest(ctx context.Context, userRequest string) (string, error) {
	return o.engine.ProcessRequest(ctx, userRequest)
}

// Communicate sends one message directly to an agent session.
func (o *Orchestrator) Communicate(ctx context.Context, sessionID, message string) (string, error) {
	return o.engine.Communicate(ctx, sessionID, message)
}

// Store returns the agent store.
func (o *Orchestrator) Store() *agent.Store { return o.store }

// Registry returns the tool registry.
func (o *Orchestrator) Registry() *tool.Registry { return o.registry }

// Bus returns the pipeline event bus.
func (o *Orchestrator) Bus() *core.Bus { return o.bus }

// Engine returns the underlying pipeline engine.
func (o *Orchestrator) Engine() *engine.Engine { return o.engine }
