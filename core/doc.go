// Package core holds the shared data model of the orchestrator: agents,
// plan tasks and their results, the bounded conversation history, and the
// event bus used to surface pipeline progress to external subscribers.
//
// The package has no dependencies on the engine, stores or transport layers;
// everything here is plain data plus the small amount of synchronization
// needed to share it between concurrent requests.
package core
