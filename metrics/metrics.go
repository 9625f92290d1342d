// Package metrics exposes the orchestrator's Prometheus collectors. Counters
// are registered with the default registry so the server can serve them via
// promhttp without extra wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Requests counts orchestration requests by final outcome ("ok"/"error").
	Requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convoke_requests_total",
		Help: "Orchestration requests processed, by outcome.",
	}, []string{"outcome"})

	// ModelCalls counts LLM round-trips by provider and outcome.
	ModelCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convoke_model_calls_total",
		Help: "Model completion calls, by provider and outcome.",
	}, []string{"provider", "outcome"})

	// ToolInvocations counts directive-triggered tool invocations by tool
	// name and outcome ("ok", "error", "denied", "missing").
	ToolInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convoke_tool_invocations_total",
		Help: "Tool invocations requested by model directives, by tool and outcome.",
	}, []string{"tool", "outcome"})

	// TasksExecuted counts plan tasks by outcome ("ok"/"failed").
	TasksExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convoke_tasks_executed_total",
		Help: "Plan tasks executed, by outcome.",
	}, []string{"outcome"})
)
