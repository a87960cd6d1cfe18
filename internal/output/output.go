// Package output resolves a step's "output" map — varName -> expression —
// against the step's own result, writing values back into scope for later
// steps. A template-marker expression ("{{ ... }}" or "@"-prefixed) is handed to the
// injected TemplateRenderer; anything else is evaluated as a dotted
// path/index lookup against the step result. Like the condition package,
// a failed expression degrades to an undefined value rather than failing
// the step.
package output

import (
	"strconv"
	"strings"
)

// TemplateRenderer renders a template-marker expression against data. The
// recipe engine's concrete implementation lives in internal/tools/render.go;
// this package only depends on the interface so output evaluation stays
// decoupled from the templating engine.
type TemplateRenderer interface {
	Render(expr string, data map[string]interface{}) (string, error)
}

// Evaluate resolves every entry of spec against result, returning a map
// ready to be merged into the execution scope.
func Evaluate(spec map[string]string, result map[string]interface{}, renderer TemplateRenderer) map[string]interface{} {
	resolved := make(map[string]interface{}, len(spec))
	for name, expr := range spec {
		resolved[name] = evalOne(expr, result, renderer)
	}
	return resolved
}

func evalOne(expr string, result map[string]interface{}, renderer TemplateRenderer) interface{} {
	trimmed := strings.TrimSpace(expr)
	if isTemplateMarker(trimmed) {
		if renderer == nil {
			return nil
		}
		rendered, err := renderer.Render(trimmed, result)
		if err != nil {
			return nil
		}
		return rendered
	}
	v, ok := lookup(result, trimmed)
	if !ok {
		return nil
	}
	return v
}

func isTemplateMarker(expr string) bool {
	return strings.HasPrefix(expr, "@") || (strings.HasPrefix(expr, "{{") && strings.HasSuffix(expr, "}}"))
}

// lookup walks a dotted/indexed path ("a.b[0].c") through nested
// maps/slices.
func lookup(root map[string]interface{}, path string) (interface{}, bool) {
	var current interface{} = root
	for _, seg := range splitPath(path) {
		if idx, isIndex := asIndex(seg); isIndex {
			slice, ok := current.([]interface{})
			if !ok || idx < 0 || idx >= len(slice) {
				return nil, false
			}
			current = slice[idx]
			continue
		}
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		v, ok := m[seg]
		if !ok {
			return nil, false
		}
		current = v
	}
	return current, true
}

// splitPath turns "a.b[0].c" into ["a", "b", "[0]", "c"].
func splitPath(path string) []string {
	var segs []string
	var cur strings.Builder
	for _, r := range path {
		switch r {
		case '.':
			if cur.Len() > 0 {
				segs = append(segs, cur.String())
				cur.Reset()
			}
		case '[':
			if cur.Len() > 0 {
				segs = append(segs, cur.String())
				cur.Reset()
			}
			cur.WriteRune(r)
		case ']':
			cur.WriteRune(r)
			segs = append(segs, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		segs = append(segs, cur.String())
	}
	return segs
}

func asIndex(seg string) (int, bool) {
	if !strings.HasPrefix(seg, "[") || !strings.HasSuffix(seg, "]") {
		return 0, false
	}
	n, err := strconv.Atoi(seg[1 : len(seg)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}
