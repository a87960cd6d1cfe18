package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reciper/engine/internal/registry"
)

func TestInstallToolValidateRejectsUnsupportedManager(t *testing.T) {
	tool := &InstallTool{}
	result := tool.Validate(context.Background(), map[string]interface{}{"manager": "apt", "packages": []interface{}{"curl"}})
	assert.False(t, result.IsValid)
}

func TestInstallToolValidateRejectsEmptyPackages(t *testing.T) {
	tool := &InstallTool{}
	result := tool.Validate(context.Background(), map[string]interface{}{"manager": "npm", "packages": []interface{}{}})
	assert.False(t, result.IsValid)
}

func TestInstallToolValidateAcceptsSupportedManager(t *testing.T) {
	tool := &InstallTool{}
	result := tool.Validate(context.Background(), map[string]interface{}{"manager": "npm", "packages": []interface{}{"left-pad"}})
	assert.True(t, result.IsValid)
}

func TestInstallToolDryRunDoesNotExecute(t *testing.T) {
	tool := &InstallTool{}
	out, err := tool.Execute(context.Background(), map[string]interface{}{
		"manager":  "npm",
		"packages": []interface{}{"left-pad"},
	}, registry.ExecuteOptions{DryRun: true})
	assert.NoError(t, err)
	assert.Equal(t, false, out["executed"])
}
