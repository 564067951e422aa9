package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"apt-warden/internal/ports"
	"apt-warden/internal/types"
)

// FixPlanFileAdapter persists the fix plan as YAML. The plan is written in
// every mode, including skip, so an operator can always inspect what the
// oracle proposed.
type FixPlanFileAdapter struct {
	Path string
}

func NewFixPlanFileAdapter(path string) FixPlanFileAdapter {
	return FixPlanFileAdapter{Path: path}
}

func (a FixPlanFileAdapter) WriteFixPlan(plan types.FixPlan) error {
	path := strings.TrimSpace(a.Path)
	if path == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("fix plan path is required")
	}
	data, err := yaml.Marshal(plan)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to marshal fix plan").
			WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create fix plan directory").
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write fix plan").
			WithCause(err)
	}
	return nil
}

var _ ports.FixPlanWriterPort = FixPlanFileAdapter{}
