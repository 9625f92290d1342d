// Package model defines the minimal LLM abstraction used by the orchestrator
// and ships a deterministic Mock for tests. Provider adapters live in the
// openai and anthropic subpackages.
package model
