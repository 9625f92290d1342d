package tool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculator(t *testing.T) {
	invoke, err := newCalculator(nil)
	require.NoError(t, err)

	out, err := invoke(context.Background(), []string{"2+2"})
	require.NoError(t, err)
	assert.Equal(t, "4", out)

	// Comma-split arguments are rejoined before evaluation.
	out, err = invoke(context.Background(), []string{"max(2", " 7)"})
	require.NoError(t, err)
	assert.Equal(t, "7", out)

	_, err = invoke(context.Background(), []string{""})
	assert.Error(t, err)

	_, err = invoke(context.Background(), []string{"2 +"})
	var toolErr *Error
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

func TestCodeMetrics(t *testing.T) {
	invoke, err := newCodeMetrics(nil)
	require.NoError(t, err)

	src := `package demo

import "fmt"

type widget struct{ n int }

func hello() { x := 1; fmt.Println(x) }
func world() {}`

	out, err := invoke(context.Background(), []string{src})
	require.NoError(t, err)
	assert.Contains(t, out, "num_functions: 2")
	assert.Contains(t, out, "num_types: 1")
	assert.Contains(t, out, "num_imports: 1")

	_, err = invoke(context.Background(), []string{"func ("})
	assert.Error(t, err)
}

func TestWebSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gophers", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		_ = json.NewEncoder(w).Encode(map[string]any{"Abstract": "Gophers are rodents."})
	}))
	defer srv.Close()

	invoke, err := newWebSearch(map[string]any{"endpoint": srv.URL})
	require.NoError(t, err)

	out, err := invoke(context.Background(), []string{"gophers"})
	require.NoError(t, err)
	assert.Equal(t, "Gophers are rodents.", out)
}

func TestWebSearch_FallbackAndEmpty(t *testing.T) {
	responses := []map[string]any{
		{"Abstract": "", "RelatedTopics": []map[string]any{{"Text": "Related info"}}},
		{"Abstract": "", "RelatedTopics": []map[string]any{}},
	}
	i := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(responses[i])
		i++
	}))
	defer srv.Close()

	invoke, err := newWebSearch(map[string]any{"endpoint": srv.URL})
	require.NoError(t, err)

	out, err := invoke(context.Background(), []string{"anything"})
	require.NoError(t, err)
	assert.Equal(t, "Related info", out)

	out, err = invoke(context.Background(), []string{"anything"})
	require.NoError(t, err)
	assert.Equal(t, "No results found.", out)
}

func TestImplKeysIncludeBuiltins(t *testing.T) {
	keys := ImplKeys()
	assert.Contains(t, keys, "calculator")
	assert.Contains(t, keys, "web_search")
	assert.Contains(t, keys, "code_metrics")
}
