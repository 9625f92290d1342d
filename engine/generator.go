package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/convokehq/convoke/agent"
	"github.com/convokehq/convoke/core"
	"github.com/convokehq/convoke/logging"
	"github.com/convokehq/convoke/metrics"
	"github.com/convokehq/convoke/model"
	"github.com/convokehq/convoke/tool"
)

const generatorInstructions = "You are an AI agent in an orchestrator system with potential access to tools."

// Generator produces one agent's response to a task: it builds the prompt,
// performs a single model call and expands any tool directives embedded in
// the reply.
type Generator struct {
	store    *agent.Store
	registry *tool.Registry
	mdl      model.Model
	logger   logging.Logger
}

// NewGenerator constructs a Generator.
func NewGenerator(store *agent.Store, registry *tool.Registry, mdl model.Model, logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Generator{store: store, registry: registry, mdl: mdl, logger: logger}
}

// Generate answers the task as the agent behind sessionID. An unknown session
// yields the literal "Agent session not found" text rather than an error so
// the failure is visible in-band, matching the rest of the directive
// protocol. A model call failure is the only error path.
func (g *Generator) Generate(ctx context.Context, sessionID, task string) (string, error) {
	a, ok := g.store.Get(sessionID)
	if !ok {
		return "Agent session not found", nil
	}

	req := model.Request{
		Instructions: generatorInstructions,
		Prompt:       g.buildPrompt(a, task),
	}

	reply, err := g.mdl.Complete(ctx, req)
	if err != nil {
		metrics.ModelCalls.WithLabelValues(g.mdl.Info().Provider, "error").Inc()
		return "", fmt.Errorf("agent %q model call: %w", a.Name, err)
	}
	metrics.ModelCalls.WithLabelValues(g.mdl.Info().Provider, "ok").Inc()
	reply = strings.TrimSpace(reply)

	// Tool execution is gated on agent capability, not directive presence:
	// an agent with no tools passes its reply through verbatim even if the
	// model hallucinated a directive.
	if len(a.Tools) == 0 {
		return reply, nil
	}

	return g.expandDirectives(ctx, a, reply), nil
}

// buildPrompt renders the per-task prompt. The tool catalogue and directive
// instructions appear only when the agent has at least one tool configured.
func (g *Generator) buildPrompt(a core.Agent, task string) string {
	var toolPrompt string
	if catalogue := g.toolCatalogue(a); catalogue != "" {
		toolPrompt = fmt.Sprintf(`You have access to the following tools:
%s

To use a tool, include [USE_TOOL: tool_name, arg1, arg2, ...] in your response.`, catalogue)
	} else {
		toolPrompt = "You do not have access to any tools for this task."
	}

	return fmt.Sprintf(`You are Agent %s with context: %s.
Your task is: %s
%s
Provide a response to this task, using tools if available and necessary.`, a.Name, a.Context, task, toolPrompt)
}

// toolCatalogue lists the agent's resolvable tools as "- name: description"
// lines. Unresolvable names are omitted from the prompt; the invocation path
// still reports them if the model guesses one.
func (g *Generator) toolCatalogue(a core.Agent) string {
	var lines []string
	for _, name := range a.Tools {
		t, err := g.registry.Resolve(name)
		if err != nil {
			g.logger.Warn("configured tool not resolvable", "agent", a.Name, "tool", name)
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", t.Name(), t.Description()))
	}
	return strings.Join(lines, "\n")
}

// expandDirectives repeatedly replaces the first directive span with its tool
// result until no well-formed directive remains or the expansion cap is hit.
// Splicing then re-scanning means a tool result containing a directive is
// itself expanded.
func (g *Generator) expandDirectives(ctx context.Context, a core.Agent, reply string) string {
	for i := 0; i < maxDirectiveExpansions; i++ {
		d, ok := findDirective(reply)
		if !ok {
			return reply
		}
		result := g.invokeDirective(ctx, a, d)
		reply = reply[:d.start] + result + reply[d.end:]
	}
	g.logger.Warn("directive expansion cap reached", "agent", a.Name, "cap", maxDirectiveExpansions)
	return reply
}

// invokeDirective runs a single directive and returns the text to splice in
// place of its span. Every failure mode produces an inline error string; one
// failing tool never aborts the response.
func (g *Generator) invokeDirective(ctx context.Context, a core.Agent, d directive) string {
	if !a.HasTool(d.tool) {
		g.logger.Warn("tool not permitted", "agent", a.Name, "tool", d.tool)
		metrics.ToolInvocations.WithLabelValues(d.tool, "denied").Inc()
		return fmt.Sprintf("Error: Tool '%s' is not available for this agent", d.tool)
	}

	t, err := g.registry.Resolve(d.tool)
	if err != nil {
		g.logger.Warn("tool not resolvable", "agent", a.Name, "tool", d.tool, "error", err)
		metrics.ToolInvocations.WithLabelValues(d.tool, "missing").Inc()
		return fmt.Sprintf("Error: Tool '%s' not found or invalid", d.tool)
	}

	result, err := t.Invoke(ctx, d.args)
	if err != nil {
		g.logger.Error("tool invocation failed", "agent", a.Name, "tool", d.tool, "args", d.args, "error", err)
		metrics.ToolInvocations.WithLabelValues(d.tool, "error").Inc()
		return fmt.Sprintf("Error using tool '%s': %s", d.tool, err.Error())
	}

	g.logger.Info("tool invoked", "agent", a.Name, "tool", d.tool, "args", d.args)
	metrics.ToolInvocations.WithLabelValues(d.tool, "ok").Inc()
	return result
}
