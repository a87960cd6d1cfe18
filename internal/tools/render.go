package tools

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/reciper/engine/internal/ai"
)

// aiBlockPattern matches the "@ai({ key: "...", prompt: "..." })" markers a
// template author drops in place of content an AI transport should supply,
// generalized from this codebase's Dockerfile-generation templates (which
// had no such marker) into the two-phase collect/resolve flow.
var aiBlockPattern = regexp.MustCompile(`@ai\(\{\s*key:\s*"([^"]+)"\s*(?:,\s*prompt:\s*"([^"]*)")?\s*\}\)`)

// Renderer is the template engine every file-producing tool renders
// through. It satisfies output.TemplateRenderer and resolves @ai blocks
// against its own Collector/Answers before handing the remainder to
// text/template, so a recipe only ever sees one rendering pass.
type Renderer struct {
	Collector   *ai.Collector
	Answers     ai.Answers
	CollectMode bool
	SourceFile  string
}

// NewRenderer builds a Renderer for one recipe execution.
func NewRenderer(collector *ai.Collector, answers ai.Answers, collectMode bool) *Renderer {
	return &Renderer{Collector: collector, Answers: answers, CollectMode: collectMode}
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"default": func(def, val interface{}) interface{} {
			if val == nil || val == "" {
				return def
			}
			return val
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"title": func(s string) string {
			if len(s) == 0 {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"trimSuffix": strings.TrimSuffix,
		"replace":    strings.ReplaceAll,
	}
}

// Render implements output.TemplateRenderer. It first resolves any @ai
// blocks in source, then executes the remainder as a text/template document
// against data.
func (r *Renderer) Render(source string, data map[string]interface{}) (string, error) {
	resolved, err := r.resolveAIBlocks(source)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New("recipe-step").Funcs(funcMap()).Parse(resolved)
	if err != nil {
		return "", fmt.Errorf("template parse failed: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}

func (r *Renderer) resolveAIBlocks(source string) (string, error) {
	if !strings.Contains(source, "@ai(") {
		return source, nil
	}

	var outErr error
	out := aiBlockPattern.ReplaceAllStringFunc(source, func(match string) string {
		sub := aiBlockPattern.FindStringSubmatch(match)
		key, prompt := sub[1], sub[2]

		if r.CollectMode {
			if r.Collector != nil {
				r.Collector.Collect(ai.Entry{Key: key, Prompt: prompt, SourceFile: r.SourceFile})
			}
			return ""
		}
		if r.Answers != nil {
			if v, ok := r.Answers[key]; ok {
				return v
			}
		}
		if outErr == nil {
			outErr = fmt.Errorf("no AI answer available for key %q", key)
		}
		return ""
	})
	if outErr != nil {
		return "", outErr
	}
	return out, nil
}
