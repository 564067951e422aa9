package ports

import "context"

// OraclePort is the external natural-language analysis service. Text in,
// text out; no schema guarantee whatsoever. All parsing belongs to the
// caller, and the raw response is always kept for audit.
type OraclePort interface {
	Analyze(ctx context.Context, payload string, prompt string, model string) (string, error)
}
