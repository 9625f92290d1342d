package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/convokehq/convoke/core"
	"github.com/convokehq/convoke/logging"
	"github.com/convokehq/convoke/metrics"
	"github.com/convokehq/convoke/model"
)

const synthesizerInstructions = "You are an AI assistant. Combine the results of multiple tasks into a natural, " +
	"flowing response for the user. Use Markdown formatting for improved readability."

// historyWindow is how many recent conversation turns are embedded in the
// synthesis prompt.
const historyWindow = 5

// Synthesizer merges recent conversation history and all task results into
// one final model call producing a single coherent answer.
type Synthesizer struct {
	mdl     model.Model
	history *core.History
	logger  logging.Logger
}

// NewSynthesizer constructs a Synthesizer.
func NewSynthesizer(mdl model.Model, history *core.History, logger logging.Logger) *Synthesizer {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Synthesizer{mdl: mdl, history: history, logger: logger}
}

// Synthesize returns the final Markdown answer. HTML conversion happens at
// the transport boundary, not here.
func (s *Synthesizer) Synthesize(ctx context.Context, results []core.TaskResult) (string, error) {
	reply, err := s.mdl.Complete(ctx, model.Request{
		Instructions: synthesizerInstructions,
		Prompt:       s.buildPrompt(results),
	})
	if err != nil {
		metrics.ModelCalls.WithLabelValues(s.mdl.Info().Provider, "error").Inc()
		return "", fmt.Errorf("synthesis model call: %w", err)
	}
	metrics.ModelCalls.WithLabelValues(s.mdl.Info().Provider, "ok").Inc()

	return strings.TrimSpace(reply), nil
}

func (s *Synthesizer) buildPrompt(results []core.TaskResult) string {
	var historyText strings.Builder
	for _, turn := range s.history.Last(historyWindow) {
		fmt.Fprintf(&historyText, "User: %s\nAssistant: %s\n", turn.User, turn.Assistant)
	}

	resultsJSON, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		// TaskResult is plain strings; this cannot fail in practice.
		resultsJSON = []byte("[]")
	}

	return fmt.Sprintf(`Given the following conversation history:

%s

And the following task results:

%s

Generate a coherent and integrated response for the user. The response should:
1. Synthesize information from all completed tasks
2. Provide a clear and concise answer to the user's original request
3. Include any relevant code or examples from the task results
4. Flow naturally and not explicitly mention the individual tasks or agents involved
5. Ask for clarification only if absolutely necessary based on the information provided
6. Use Markdown formatting for improved readability (e.g., headers, code blocks, lists)

Your response:`, strings.TrimRight(historyText.String(), "\n"), string(resultsJSON))
}
