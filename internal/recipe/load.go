package recipe

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a recipe from a YAML file.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe: %w", err)
	}
	r, err := LoadFromString(string(data))
	if err != nil {
		return nil, err
	}
	r.SourcePath = path
	return r, nil
}

// LoadFromString parses a recipe from a YAML document, applying shorthand
// normalization afterward.
func LoadFromString(content string) (*Recipe, error) {
	var r Recipe
	if err := yaml.Unmarshal([]byte(content), &r); err != nil {
		return nil, fmt.Errorf("failed to parse recipe: %w", err)
	}
	normalizeShorthand(&r)
	return &r, nil
}

// normalizeShorthand expands the shorthand forms a recipe author may use:
//   - a step with no "tool" whose With map holds a "template", "ai",
//     "recipe", "shell" or "action" key (checked in that order) takes that
//     key as its tool; the key is removed from With and its value is kept
//     as With["name"]
//   - a step with no "tool" and none of those keys, whose With map holds a
//     "run" key, becomes a shell step with With set to {command: <run value>}
//   - Parallel is left as written: a step's own Parallel field, when nil,
//     is resolved by the executor rather than here.
//
// Nested Steps are normalized the same way.
func normalizeShorthand(r *Recipe) {
	for i := range r.Steps {
		normalizeStepShorthand(&r.Steps[i])
	}
}

func normalizeStepShorthand(s *Step) {
	if s.Tool == "" {
		for _, shorthand := range []string{"template", "ai", "recipe", "shell", "action"} {
			if v, ok := s.With[shorthand]; ok {
				s.Tool = shorthand
				rest := make(map[string]interface{}, len(s.With))
				for k, val := range s.With {
					if k == shorthand {
						continue
					}
					rest[k] = val
				}
				rest["name"] = v
				s.With = rest
				break
			}
		}
	}
	if run, ok := s.With["run"]; ok && s.Tool == "" {
		s.Tool = "shell"
		s.With = map[string]interface{}{"command": run}
	}
	for i := range s.Steps {
		normalizeStepShorthand(&s.Steps[i])
	}
}

// BuiltinRecipes holds recipe definitions shipped with the engine, usable
// by name without a file on disk.
var BuiltinRecipes = map[string]string{
	"scaffold-service": `
name: scaffold-service
description: Scaffold a new backend service from a template and wire its config
version: "1.0"
variables:
  - name: serviceName
    type: string
    required: true
  - name: withDatabase
    type: boolean
    default: false
steps:
  - name: Ensure config directory exists
    tool: ensure-dirs
    with:
      paths:
        - "services/{{ .serviceName }}/config"
  - name: Render service skeleton
    tool: template
    dependsOn: ["Ensure config directory exists"]
    with:
      path: "services/{{ .serviceName }}/main.go"
      source: |
        package main

        func main() {}
  - name: Install dependencies
    tool: install
    dependsOn: ["Render service skeleton"]
    with:
      manager: npm
      packages: ["express"]
    when: 'withDatabase'
`,

	"add-endpoint": `
name: add-endpoint
description: Add a new HTTP endpoint via codemod and regenerate its test stub
version: "1.0"
variables:
  - name: routePath
    type: string
    required: true
steps:
  - name: Patch router
    tool: codemod
    with:
      path: "router.go"
      pattern: "(// routes)"
      replacement: "${1}\n\t// {{ .routePath }}"
  - name: Render test stub
    tool: template
    dependsOn: ["Patch router"]
    with:
      path: "tests/{{ .routePath }}_test.go"
      source: |
        package tests

        func Test{{ .routePath }}(t *testing.T) {}
`,
}

// GetBuiltinRecipe returns a built-in recipe by name.
func GetBuiltinRecipe(name string) (*Recipe, error) {
	content, ok := BuiltinRecipes[name]
	if !ok {
		return nil, fmt.Errorf("unknown builtin recipe: %s", name)
	}
	r, err := LoadFromString(content)
	if err != nil {
		return nil, err
	}
	r.SourcePath = "content:" + name
	return r, nil
}

// ListBuiltinRecipes returns the names of all built-in recipes.
func ListBuiltinRecipes() []string {
	names := make([]string, 0, len(BuiltinRecipes))
	for name := range BuiltinRecipes {
		names = append(names, name)
	}
	return names
}
