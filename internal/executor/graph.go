package executor

import (
	"fmt"

	"github.com/reciper/engine/internal/recipe"
)

// phases groups steps into waves using a Kahn topological sort: each wave
// contains every step whose dependsOn has already been fully satisfied by
// an earlier wave. A step with no dependsOn lands in wave 0. Steps within
// one wave never depend on each other — that's what makes the wave
// parallelizable.
func phases(steps []recipe.Step) ([][]recipe.Step, error) {
	byName := make(map[string]recipe.Step, len(steps))
	indegree := make(map[string]int, len(steps))
	dependents := make(map[string][]string, len(steps))

	nameOf := func(s recipe.Step) string {
		if s.ID != "" {
			return s.ID
		}
		return s.Name
	}

	for _, s := range steps {
		n := nameOf(s)
		byName[n] = s
		if _, ok := indegree[n]; !ok {
			indegree[n] = 0
		}
	}
	for _, s := range steps {
		n := nameOf(s)
		for _, dep := range s.DependsOn {
			if _, ok := byName[dep]; !ok {
				return nil, fmt.Errorf("step %q depends on unknown step %q", n, dep)
			}
			indegree[n]++
			dependents[dep] = append(dependents[dep], n)
		}
	}

	// Each wave is built by scanning steps in their original declaration
	// order and taking every not-yet-visited step whose indegree has
	// dropped to zero, rather than ranging over the indegree map (whose
	// iteration order Go randomizes) — this is what lets ties within one
	// wave be broken by original input order.
	var waves [][]recipe.Step
	visited := make(map[string]bool, len(steps))
	remaining := len(steps)

	for remaining > 0 {
		var wave []recipe.Step
		var waveNames []string
		for _, s := range steps {
			n := nameOf(s)
			if visited[n] || indegree[n] != 0 {
				continue
			}
			wave = append(wave, s)
			waveNames = append(waveNames, n)
		}

		if len(wave) == 0 {
			return nil, fmt.Errorf("circular dependency detected among recipe steps")
		}

		for _, n := range waveNames {
			visited[n] = true
			remaining--
		}
		for _, n := range waveNames {
			for _, dep := range dependents[n] {
				indegree[dep]--
			}
		}

		waves = append(waves, wave)
	}

	return waves, nil
}
