package core

import (
	"context"
	"fmt"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"apt-warden/internal/types"
)

var validFixModes = map[types.FixMode]struct{}{
	types.FixModeAuto:   {},
	types.FixModeManual: {},
	types.FixModeSkip:   {},
}

var validUnknownRiskActions = map[types.UnknownRiskAction]struct{}{
	types.UnknownRiskWarn:  {},
	types.UnknownRiskBlock: {},
}

// ValidateRunConfig checks the assembled run configuration before any
// component consumes it. An invalid mode value is an unrecoverable
// configuration error, the one class of failure that terminates the run
// before the pipeline starts.
func ValidateRunConfig(ctx context.Context, cfg types.RunConfig) error {
	assert.NotEmpty(ctx, cfg.Model, "model must be set")
	assert.NotEmpty(ctx, cfg.ReportPath, "report path must be set")
	if cfg.Concurrency <= 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("concurrency must be positive, got %d", cfg.Concurrency))
	}
	if _, ok := validFixModes[cfg.FixMode]; !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid fix mode %q (want auto, manual or skip)", cfg.FixMode))
	}
	if _, ok := validUnknownRiskActions[cfg.UnknownRisk]; !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid unknown-risk action %q (want warn or block)", cfg.UnknownRisk))
	}
	if cfg.FetchTimeout <= 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("fetch timeout must be positive")
	}
	return nil
}
