// Package executor implements the Step Executor: it takes a recipe's step
// list, sorts it into dependency-respecting phases, runs each phase with
// bounded concurrency, and folds every step's outcome into a StepResult
// tree - including the nested results of sequence/parallel container
// steps, which are never themselves counted as a leaf step.
package executor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/reciper/engine/internal/condition"
	internalerrors "github.com/reciper/engine/internal/errors"
	"github.com/reciper/engine/internal/recipe"
	"github.com/reciper/engine/internal/registry"
	"github.com/reciper/engine/internal/scope"
)

// Context carries everything a Step Executor run needs beyond the step
// list itself.
type Context struct {
	ExecutionID         string
	Registry            *registry.Registry
	Scope               *scope.Scope
	Inspectors          []registry.Inspector
	ProjectRoot         string
	DryRun              bool
	CollectMode         bool
	MaxConcurrency      int
	DefaultTimeout      time.Duration
	TimeoutSafetyFactor float64
	RetryBackoffFactor  float64
	// ContinueOnError is the recipe-level default a step's own
	// ContinueOnError field falls back to when unset.
	ContinueOnError bool
	Events          chan Event
	OutputEval      func(spec map[string]string, result map[string]interface{}) map[string]interface{}
}

func (c *Context) defaults() {
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 4
	}
	if c.DefaultTimeout <= 0 {
		c.DefaultTimeout = 5 * time.Minute
	}
	if c.TimeoutSafetyFactor <= 0 {
		c.TimeoutSafetyFactor = 1.5
	}
	if c.RetryBackoffFactor <= 0 {
		c.RetryBackoffFactor = 2.0
	}
}

// Metrics summarizes one Execute call.
type Metrics struct {
	TotalSteps     int
	CompletedSteps int
	FailedSteps    int
	SkippedSteps   int
	Duration       time.Duration
}

// waveResult pairs a step's StepResult with the scope patch it earned,
// so callers can apply every patch from a wave in one atomic merge.
type waveResult struct {
	name   string
	result recipe.StepResult
	patch  map[string]interface{}
}

// Execute runs steps to completion, respecting dependsOn ordering and
// per-phase concurrency, and returns one StepResult per top-level step
// (container steps carry their children under Nested).
//
// Within one wave every step reads a scope frozen at the start of that
// wave: outputs and variableOverrides are collected into per-step patches
// and merged into ec.Scope only after the whole wave finishes, so no
// sibling step - serial or concurrent - ever observes another's output
// mid-wave. A step whose dependsOn set includes a failed/timed-out/
// cancelled step whose effective continueOnError is false is never run:
// it is emitted as skipped with reason "upstream-failure", and that skip
// cascades to its own dependents in later waves.
func Execute(ctx context.Context, steps []recipe.Step, ec *Context) ([]recipe.StepResult, Metrics, error) {
	ec.defaults()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	registerCancel(ec.ExecutionID, cancel)
	defer unregisterCancel(ec.ExecutionID)

	waves, err := phases(steps)
	if err != nil {
		return nil, Metrics{}, internalerrors.New(internalerrors.KindCircularDependency, "", "", "failed to build step graph", err)
	}

	start := time.Now()
	results := make(map[string]recipe.StepResult, len(steps))
	blocked := make(map[string]bool, len(steps))
	metrics := Metrics{TotalSteps: countLeaves(steps)}
	em := emitter(ec.Events)

	nameOf := func(s recipe.Step) string {
		if s.ID != "" {
			return s.ID
		}
		return s.Name
	}

	byName := make(map[string]recipe.Step, len(steps))
	for _, s := range steps {
		byName[nameOf(s)] = s
	}

	for waveIdx, wave := range waves {
		select {
		case <-runCtx.Done():
			return finalize(results, steps), metrics, runCtx.Err()
		default:
		}

		em.emit(EventPhaseStarted, "", fmt.Sprintf("phase %d", waveIdx), len(wave))

		// The read scope is frozen for the entire wave: every step in it,
		// serial or concurrent, sees the same values no matter what order
		// they run in or what any sibling writes.
		waveScope := ec.Scope.Fork()

		var runnable []recipe.Step
		for _, s := range wave {
			n := nameOf(s)
			if upstreamFailed(s, ec, results, blocked, byName) {
				blocked[n] = true
				r := recipe.StepResult{
					StepID:    n,
					Name:      s.Name,
					Tool:      s.Tool,
					Status:    recipe.StatusSkipped,
					StartedAt: time.Now(),
					EndedAt:   time.Now(),
				}
				results[n] = r
				accumulate(&metrics, r)
				em.emit(EventStepSkipped, s.Name, "upstream-failure", nil)
				continue
			}
			runnable = append(runnable, s)
		}

		serial := make([]recipe.Step, 0)
		concurrent := make([]recipe.Step, 0)
		for _, s := range runnable {
			if s.Parallel != nil && !*s.Parallel {
				serial = append(serial, s)
			} else {
				concurrent = append(concurrent, s)
			}
		}

		var waveResults []waveResult
		for _, s := range serial {
			r, patch := runStep(runCtx, s, ec, waveScope, em)
			waveResults = append(waveResults, waveResult{name: nameOf(s), result: r, patch: patch})
		}

		if len(concurrent) > 0 {
			p := pool.New().WithMaxGoroutines(ec.MaxConcurrency)
			resultsCh := make(chan waveResult, len(concurrent))
			for _, s := range concurrent {
				s := s
				n := nameOf(s)
				p.Go(func() {
					r, patch := runStep(runCtx, s, ec, waveScope, em)
					resultsCh <- waveResult{name: n, result: r, patch: patch}
				})
			}
			p.Wait()
			close(resultsCh)
			for wr := range resultsCh {
				waveResults = append(waveResults, wr)
			}
		}

		// Apply every step's patch atomically now that the wave is done -
		// this is the point at which the wave's outputs become visible,
		// and only to later waves.
		for _, wr := range waveResults {
			results[wr.name] = wr.result
			accumulate(&metrics, wr.result)
			if len(wr.patch) > 0 {
				ec.Scope.SetAll(wr.patch)
			}
		}

		em.emit(EventPhaseCompleted, "", fmt.Sprintf("phase %d", waveIdx), len(wave))
	}

	metrics.Duration = time.Since(start)
	return finalize(results, steps), metrics, nil
}

// upstreamFailed reports whether s must be skipped with reason
// upstream-failure: either one of its direct dependencies is itself
// already blocked (cascading the skip), or one of them ended in a
// failed/timed-out/cancelled state whose effective continueOnError is
// false.
func upstreamFailed(s recipe.Step, ec *Context, results map[string]recipe.StepResult, blocked map[string]bool, byName map[string]recipe.Step) bool {
	for _, dep := range s.DependsOn {
		if blocked[dep] {
			return true
		}
		r, ok := results[dep]
		if !ok {
			continue
		}
		switch r.Status {
		case recipe.StatusFailed, recipe.StatusTimedOut, recipe.StatusCancelled:
			if !effectiveContinueOnError(byName[dep], ec) {
				return true
			}
		}
	}
	return false
}

// effectiveContinueOnError resolves a step's continueOnError, falling back
// to the recipe/engine-level default when the step doesn't set its own.
func effectiveContinueOnError(s recipe.Step, ec *Context) bool {
	if s.ContinueOnError != nil {
		return *s.ContinueOnError
	}
	return ec.ContinueOnError
}

func finalize(results map[string]recipe.StepResult, steps []recipe.Step) []recipe.StepResult {
	out := make([]recipe.StepResult, 0, len(steps))
	for _, s := range steps {
		n := s.ID
		if n == "" {
			n = s.Name
		}
		if r, ok := results[n]; ok {
			out = append(out, r)
		}
	}
	return out
}

func accumulate(m *Metrics, r recipe.StepResult) {
	switch r.Status {
	case recipe.StatusCompleted:
		if r.Tool == "sequence" || r.Tool == "parallel" {
			m.CompletedSteps += len(leafResults(r.Nested))
		} else {
			m.CompletedSteps++
		}
	case recipe.StatusSkipped:
		m.SkippedSteps++
	default:
		m.FailedSteps++
	}
}

func leafResults(nested []recipe.StepResult) []recipe.StepResult {
	var leaves []recipe.StepResult
	for _, n := range nested {
		if len(n.Nested) > 0 {
			leaves = append(leaves, leafResults(n.Nested)...)
		} else {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

func countLeaves(steps []recipe.Step) int {
	total := 0
	for _, s := range steps {
		if s.Tool == "sequence" || s.Tool == "parallel" {
			total += countLeaves(s.Steps)
		} else {
			total++
		}
	}
	return total
}

// runStep executes a single step's full lifecycle: condition check,
// validate, execute with retry/timeout, output evaluation. readScope is
// the scope frozen for this step's whole wave; runStep never writes to
// ec.Scope directly, it returns the values that should become visible to
// later waves as a patch for the caller to apply once the wave ends.
func runStep(ctx context.Context, s recipe.Step, ec *Context, readScope *scope.Scope, em emitter) (recipe.StepResult, map[string]interface{}) {
	stepID := s.ID
	if stepID == "" {
		stepID = s.Name
	}
	result := recipe.StepResult{StepID: stepID, Name: s.Name, Tool: s.Tool, StartedAt: time.Now()}

	em.emit(EventStepStarted, s.Name, "starting", nil)

	if s.SkipIf != "" && condition.Evaluate(s.SkipIf, readScope) {
		result.Status = recipe.StatusSkipped
		result.EndedAt = time.Now()
		em.emit(EventStepSkipped, s.Name, "skipIf matched", nil)
		return result, nil
	}
	if s.When != "" && !condition.Evaluate(s.When, readScope) {
		result.Status = recipe.StatusSkipped
		result.EndedAt = time.Now()
		em.emit(EventStepSkipped, s.Name, "when did not match", nil)
		return result, nil
	}

	if s.Tool == "sequence" || s.Tool == "parallel" {
		return runContainer(ctx, s, ec, readScope, em, result)
	}

	args := resolveArgs(s, readScope)

	if issues := registry.RunInspectors(ec.Inspectors, s.Tool, args); len(issues) > 0 {
		result.Status = recipe.StatusFailed
		result.Error = internalerrors.New(internalerrors.KindValidation, "", s.Name, fmt.Sprintf("blocked by inspector: %v", issues), nil)
		result.EndedAt = time.Now()
		em.emit(EventStepFailed, s.Name, result.Error.Error(), nil)
		return result, nil
	}

	em.emit(EventStepValidating, s.Name, "validating", nil)
	tool, err := ec.Registry.Resolve(s.Tool, toolName(s), s.With)
	if err != nil {
		result.Status = recipe.StatusFailed
		result.Error = internalerrors.New(internalerrors.KindToolNotFound, "", s.Name, "no tool registered", err)
		result.EndedAt = time.Now()
		em.emit(EventStepFailed, s.Name, result.Error.Error(), nil)
		return result, nil
	}

	if v := tool.Validate(ctx, args); !v.IsValid {
		result.Status = recipe.StatusFailed
		result.Error = internalerrors.New(internalerrors.KindValidation, "", s.Name, fmt.Sprintf("validation failed: %v", v.Errors), nil)
		result.EndedAt = time.Now()
		em.emit(EventStepFailed, s.Name, result.Error.Error(), nil)
		return result, nil
	}

	// Retries counts retries after the first attempt, so a step runs at most
	// Retries+1 times.
	attempts := s.Retries + 1
	if attempts < 1 {
		attempts = 1
	}
	backoffFactor := ec.RetryBackoffFactor
	if s.RetryBackoffFactor > 0 {
		backoffFactor = s.RetryBackoffFactor
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = ec.DefaultTimeout
	}
	hardCap := time.Duration(float64(timeout) * ec.TimeoutSafetyFactor)

	var lastErr error
	var output map[string]interface{}
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(float64(time.Second) * math.Pow(backoffFactor, float64(attempt-1)))
			em.emit(EventStepRetrying, s.Name, fmt.Sprintf("attempt %d after %s", attempt+1, backoff), nil)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				result.Status = recipe.StatusCancelled
				result.EndedAt = time.Now()
				return result, nil
			}
		}

		stepCtx, stepCancel := context.WithTimeout(ctx, hardCap)
		output, lastErr = tool.Execute(stepCtx, args, registry.ExecuteOptions{
			DryRun:      ec.DryRun,
			CollectMode: ec.CollectMode,
			ProjectRoot: ec.ProjectRoot,
		})
		stepCancel()

		result.RetryCount = attempt
		if lastErr == nil {
			break
		}
		if stepCtx.Err() == context.DeadlineExceeded {
			lastErr = internalerrors.New(internalerrors.KindTimeout, "", s.Name, "step exceeded its timeout", lastErr)
			break
		}
		if ctx.Err() != nil {
			lastErr = internalerrors.New(internalerrors.KindCancelled, "", s.Name, "execution cancelled", ctx.Err())
			break
		}
	}

	result.EndedAt = time.Now()

	if lastErr != nil {
		switch {
		case internalerrors.Is(lastErr, internalerrors.KindTimeout):
			result.Status = recipe.StatusTimedOut
		case internalerrors.Is(lastErr, internalerrors.KindCancelled):
			result.Status = recipe.StatusCancelled
		default:
			result.Status = recipe.StatusFailed
		}
		result.Error = lastErr
		em.emit(EventStepFailed, s.Name, lastErr.Error(), nil)
		return result, nil
	}

	result.Status = recipe.StatusCompleted
	result.Output = output

	var patch map[string]interface{}
	if len(s.Output) > 0 && ec.OutputEval != nil {
		// variableOverrides are visible to output expressions for this
		// step, but the tool's own output always wins on key clashes.
		evalData := output
		if len(s.VariableOverrides) > 0 {
			evalData = make(map[string]interface{}, len(output)+len(s.VariableOverrides))
			for k, v := range s.VariableOverrides {
				evalData[k] = v
			}
			for k, v := range output {
				evalData[k] = v
			}
		}
		patch = ec.OutputEval(s.Output, evalData)
	}

	em.emit(EventStepCompleted, s.Name, "completed", nil)
	return result, patch
}

// runContainer executes a sequence/parallel container's nested steps
// against a scope seeded from readScope plus the container's own
// variableOverrides (visible for the container's lifetime, i.e. to every
// step it nests). The container's patch handed back to its own wave is
// the nested run's final scope, with the container's own override keys
// stripped back out so they never leak past it.
func runContainer(ctx context.Context, s recipe.Step, ec *Context, readScope *scope.Scope, em emitter, result recipe.StepResult) (recipe.StepResult, map[string]interface{}) {
	seed := readScope.Snapshot()
	for k, v := range s.VariableOverrides {
		seed[k] = v
	}

	childEC := *ec
	childEC.Scope = scope.New(seed)

	forceSerial := s.Tool == "sequence"
	nestedSteps := s.Steps
	if forceSerial {
		for i := range nestedSteps {
			f := false
			nestedSteps[i].Parallel = &f
		}
	}

	nested, _, err := Execute(ctx, nestedSteps, &childEC)

	patch := childEC.Scope.Snapshot()
	for k := range s.VariableOverrides {
		delete(patch, k)
	}

	result.Nested = nested
	result.EndedAt = time.Now()
	if err != nil {
		result.Status = recipe.StatusFailed
		result.Error = err
		em.emit(EventStepFailed, s.Name, err.Error(), nil)
		return result, nil
	}

	for _, n := range nested {
		if n.Status == recipe.StatusFailed || n.Status == recipe.StatusTimedOut {
			result.Status = recipe.StatusFailed
			em.emit(EventStepFailed, s.Name, "a nested step failed", nil)
			return result, patch
		}
	}
	result.Status = recipe.StatusCompleted
	em.emit(EventStepCompleted, s.Name, "completed", nil)
	return result, patch
}

func toolName(s recipe.Step) string {
	if name, ok := s.With["name"].(string); ok && name != "" {
		return name
	}
	return "default"
}

// resolveArgs merges the step's variableOverrides and static With config
// over the wave's frozen scope snapshot, so a tool sees the variables
// visible at this point in the run, this step's own scope additions, and
// finally its explicit config - in that order of precedence.
func resolveArgs(s recipe.Step, readScope *scope.Scope) map[string]interface{} {
	args := readScope.Snapshot()
	for k, v := range s.VariableOverrides {
		args[k] = v
	}
	for k, v := range s.With {
		args[k] = v
	}
	return args
}
