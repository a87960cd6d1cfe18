package executor

import "sync"

// cancelRegistry maps an in-flight executionId to the context.CancelFunc
// that stops it, so a host process can call CancelExecution from outside
// the goroutine actually running the recipe — cooperative cancellation
// rather than a forced kill.
var cancelRegistry = struct {
	mu      sync.Mutex
	cancels map[string]func()
}{cancels: make(map[string]func())}

func registerCancel(executionID string, cancel func()) {
	if executionID == "" {
		return
	}
	cancelRegistry.mu.Lock()
	defer cancelRegistry.mu.Unlock()
	cancelRegistry.cancels[executionID] = cancel
}

func unregisterCancel(executionID string) {
	if executionID == "" {
		return
	}
	cancelRegistry.mu.Lock()
	defer cancelRegistry.mu.Unlock()
	delete(cancelRegistry.cancels, executionID)
}

// CancelExecution requests cancellation of a running executionId. Reports
// false if no such execution is currently registered.
func CancelExecution(executionID string) bool {
	cancelRegistry.mu.Lock()
	defer cancelRegistry.mu.Unlock()
	cancel, ok := cancelRegistry.cancels[executionID]
	if !ok {
		return false
	}
	cancel()
	return true
}
