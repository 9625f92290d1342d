// Package engine implements the orchestration pipeline: plan building, plan
// execution, per-agent response generation with in-text tool directive
// expansion, and result synthesis.
//
// The tool directive protocol is the one wire format owned by this package:
// a model may embed [USE_TOOL: name, arg1, arg2, ...] anywhere in a reply and
// the generator splices each directive's tool result (or an inline error
// string) back into the text, re-scanning after every substitution up to a
// fixed expansion cap.
package engine
