package core

import (
	"time"

	"github.com/google/uuid"
)

// Agent is a named persona with free-text background context and a list of
// tool names it is permitted to invoke. Agents are addressed two ways: by
// Name (display identity, used in plans) and by an opaque session id assigned
// at every instantiation (the key of the in-memory store). Session ids are
// deliberately not stable across restarts.
type Agent struct {
	Name         string     `json:"name"`
	Context      string     `json:"context"`
	Tools        []string   `json:"tools"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
}

// HasTool reports whether the agent is permitted to invoke the named tool.
func (a Agent) HasTool(name string) bool {
	for _, t := range a.Tools {
		if t == name {
			return true
		}
	}
	return false
}

// Task is a single unit of an execution plan: a description of what to do and
// the Name of the agent assigned to do it.
type Task struct {
	Description   string `json:"description"`
	AssignedAgent string `json:"assigned_agent"`
}

// TaskResult captures the outcome of executing one task. Err is non-empty
// when the task could not run at all (for example the assigned agent does not
// exist); such entries carry no Response and contribute nothing to the
// execution context of later tasks.
type TaskResult struct {
	Task     string `json:"task"`
	Agent    string `json:"agent"`
	Response string `json:"response,omitempty"`
	Err      string `json:"error,omitempty"`
}

// NewID generates an opaque unique identifier, used for agent session ids and
// event correlation.
func NewID() string { return uuid.NewString() }
