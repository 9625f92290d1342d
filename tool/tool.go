// Package tool implements the capability subsystem that lets agents invoke
// named tools from within free-text model output. Tools are discovered from
// manifest files on disk (a shared pool plus per-agent pools) and bound to
// statically registered Go implementations, replacing the dynamic module
// loading of script-based plugin systems with a registry of linked
// capabilities keyed by name.
package tool

import (
	"context"
	"fmt"
)

// Tool is a named callable capability. Invocations receive positional string
// arguments parsed out of a model directive and return a string result that
// is spliced back into the model's reply.
//
// Implementations must be safe for concurrent use.
type Tool interface {
	// Name returns the qualified tool name ("calculator" for shared tools,
	// "<agent-folder>/<name>" for agent-scoped ones).
	Name() string

	// Description returns the human-readable description shown to models.
	Description() string

	// Invoke executes the tool with the parsed string arguments.
	Invoke(ctx context.Context, args []string) (string, error)
}

// Descriptor is the listing form of a tool: its qualified name and
// description, without the callable.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Error represents a failure during tool execution, carrying the tool name
// and an error code for categorization.
type Error struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewError creates a new Error with the specified details.
func NewError(tool, message, code string) *Error {
	return &Error{Tool: tool, Message: message, Code: code}
}
