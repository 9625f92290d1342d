package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDirective(t *testing.T) {
	d, ok := findDirective("Result: [USE_TOOL: calculator, 2+2] done")
	require.True(t, ok)
	assert.Equal(t, "calculator", d.tool)
	assert.Equal(t, []string{"2+2"}, d.args)
	assert.Equal(t, "[USE_TOOL: calculator, 2+2]", "Result: [USE_TOOL: calculator, 2+2] done"[d.start:d.end])
}

func TestFindDirective_MultipleArgs(t *testing.T) {
	d, ok := findDirective("[USE_TOOL: web_search , golang , orchestration ]")
	require.True(t, ok)
	assert.Equal(t, "web_search", d.tool)
	assert.Equal(t, []string{"golang", "orchestration"}, d.args)
}

func TestFindDirective_NoArgs(t *testing.T) {
	d, ok := findDirective("[USE_TOOL: lister]")
	require.True(t, ok)
	assert.Equal(t, "lister", d.tool)
	assert.Empty(t, d.args)
}

func TestFindDirective_NoMarker(t *testing.T) {
	_, ok := findDirective("plain text with [brackets] but no directive")
	assert.False(t, ok)
}

func TestFindDirective_UnterminatedTail(t *testing.T) {
	_, ok := findDirective("leading text [USE_TOOL: calculator, 2+2")
	assert.False(t, ok, "unterminated directive is inert text")
}

func TestFindDirective_BalancedNestedBrackets(t *testing.T) {
	s := "[USE_TOOL: code_metrics, arr[0] = x]"
	d, ok := findDirective(s)
	require.True(t, ok)
	assert.Equal(t, "code_metrics", d.tool)
	assert.Equal(t, []string{"arr[0] = x"}, d.args)
	assert.Equal(t, len(s), d.end)
}

func TestFindDirective_FindsFirstOfSeveral(t *testing.T) {
	d, ok := findDirective("[USE_TOOL: a] then [USE_TOOL: b]")
	require.True(t, ok)
	assert.Equal(t, "a", d.tool)
	assert.Equal(t, 0, d.start)
}
