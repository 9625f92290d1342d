package engine

import "strings"

// directiveMarker is the literal prefix a model emits to request tool use.
// The full wire format is [USE_TOOL: name, arg1, arg2, ...] embedded anywhere
// in the reply text. This is the one bit-exact format the engine must parse.
const directiveMarker = "[USE_TOOL:"

// maxDirectiveExpansions bounds how many directives are expanded in a single
// response. Expansion re-scans the spliced text, so a tool whose output
// contains another directive is expanded recursively; the cap keeps a
// pathological or adversarial tool from looping forever.
const maxDirectiveExpansions = 10

// directive is one parsed [USE_TOOL: ...] span.
type directive struct {
	start int // index of '[' in the scanned string
	end   int // index one past the closing ']'
	tool  string
	args  []string
}

// findDirective locates the first well-formed directive in s. The span runs
// from the marker to its balanced closing bracket, so a tool argument
// containing bracketed text does not truncate the directive. The second
// return is false when no marker remains or the trailing directive is
// unterminated; in both cases scanning stops and the remaining text is left
// untouched.
func findDirective(s string) (directive, bool) {
	start := strings.Index(s, directiveMarker)
	if start < 0 {
		return directive{}, false
	}

	depth := 1
	end := -1
	for i := start + len(directiveMarker); i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				end = i
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		// Unterminated trailing directive: inert text, not an error.
		return directive{}, false
	}

	body := s[start+len(directiveMarker) : end]
	fields := strings.Split(body, ",")
	name := strings.TrimSpace(fields[0])
	args := make([]string, 0, len(fields)-1)
	for _, f := range fields[1:] {
		args = append(args, strings.TrimSpace(f))
	}

	return directive{start: start, end: end + 1, tool: name, args: args}, true
}
