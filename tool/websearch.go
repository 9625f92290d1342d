package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultSearchEndpoint = "https://api.duckduckgo.com/"

func init() {
	RegisterImpl("web_search", newWebSearch)
}

// newWebSearch builds the DuckDuckGo Instant Answer implementation. The
// endpoint is overridable through manifest config so tests and proxied
// deployments can point it elsewhere.
func newWebSearch(cfg map[string]any) (InvokeFunc, error) {
	endpoint := defaultSearchEndpoint
	if v, ok := cfg["endpoint"].(string); ok && v != "" {
		endpoint = v
	}

	client := &http.Client{Timeout: 15 * time.Second}

	return func(ctx context.Context, args []string) (string, error) {
		query := strings.TrimSpace(strings.Join(args, ","))
		if query == "" {
			return "", NewError("web_search", "empty query", "VALIDATION_ERROR")
		}

		u, err := url.Parse(endpoint)
		if err != nil {
			return "", NewError("web_search", fmt.Sprintf("bad endpoint: %v", err), "EXECUTION_ERROR")
		}
		q := u.Query()
		q.Set("q", query)
		q.Set("format", "json")
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return "", NewError("web_search", err.Error(), "EXECUTION_ERROR")
		}

		resp, err := client.Do(req)
		if err != nil {
			return "", NewError("web_search", err.Error(), "EXECUTION_ERROR")
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", NewError("web_search", fmt.Sprintf("search api returned %d", resp.StatusCode), "EXECUTION_ERROR")
		}

		var payload struct {
			Abstract      string `json:"Abstract"`
			RelatedTopics []struct {
				Text string `json:"Text"`
			} `json:"RelatedTopics"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return "", NewError("web_search", fmt.Sprintf("bad search response: %v", err), "EXECUTION_ERROR")
		}

		switch {
		case payload.Abstract != "":
			return payload.Abstract, nil
		case len(payload.RelatedTopics) > 0 && payload.RelatedTopics[0].Text != "":
			return payload.RelatedTopics[0].Text, nil
		default:
			return "No results found.", nil
		}
	}, nil
}
